package glyphs

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/glyphs/internal/version"
	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/logging"
	"github.com/arthur-debert/glyphs/pkg/session"
	"github.com/arthur-debert/glyphs/pkg/ui"
	"github.com/spf13/cobra"
)

func newRenderCmd(g *globals) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:     "render [text...]",
		Short:   MsgRenderShort,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			r, err := g.renderer(cmd, s.GlyphName)
			if err != nil {
				return err
			}
			_, in, err := s.Receive(ctx, category, "", strings.Join(args, " "))
			if err != nil {
				return err
			}
			if in.Filtered {
				return r.RenderMessage(MsgFiltered)
			}
			for _, sound := range in.Sounds {
				if err := r.RenderMessage(fmt.Sprintf(MsgSoundFormat, sound.Name)); err != nil {
					return err
				}
			}
			return r.RenderText(in.Text)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "public", MsgFlagCategory)
	return cmd
}

func newRevertCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "revert [text...]",
		Short:   MsgRevertShort,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(commandContext(cmd))
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			r, err := g.renderer(cmd, s.GlyphName)
			if err != nil {
				return err
			}
			return r.RenderText(s.Revert(strings.Join(args, " ")))
		},
	}
}

func newFilterCmd(g *globals) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:     "filter [text...]",
		Short:   MsgFilterShort,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			r, err := g.renderer(cmd, s.GlyphName)
			if err != nil {
				return err
			}
			filtered, err := s.ShouldFilter(ctx, strings.Join(args, " "), strict)
			if err != nil {
				return err
			}
			if filtered {
				return r.RenderMessage(MsgFiltered)
			}
			return r.RenderMessage(MsgKept)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	return cmd
}

func newToggleCmd(g *globals, enable bool) *cobra.Command {
	var folder, resize bool
	use, short := "disable", MsgDisableShort
	if enable {
		use, short = "enable", MsgEnableShort
	}

	cmd := &cobra.Command{
		Use:     use + " [names...]",
		Short:   short,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			r, err := g.renderer(cmd, s.GlyphName)
			if err != nil {
				return err
			}
			action, changed, err := toggle(s, args, enable, folder, resize)
			if err != nil {
				return err
			}
			if err := s.Sync(ctx); err != nil {
				return err
			}
			return r.RenderChanged(action, changed)
		},
	}
	cmd.Flags().BoolVar(&folder, "folder", false, MsgFlagFolder)
	cmd.Flags().BoolVar(&resize, "resize", false, MsgFlagResize)
	return cmd
}

func toggle(s *session.Session, names []string, enable, folder, resize bool) (string, []string, error) {
	logger := logging.GetLogger("cmd.toggle")
	logger.Info().Strs("names", names).Bool("enable", enable).Bool("folder", folder).Bool("resize", resize).Msg("Toggling")

	if resize {
		changed, err := s.SetResizing(names, enable, folder)
		if enable {
			return ActionResizingEnabled, changed, err
		}
		return ActionResizingDisabled, changed, err
	}
	changed, err := s.SetEnabled(names, enable, folder)
	if enable {
		return ActionEnabled, changed, err
	}
	return ActionDisabled, changed, err
}

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(commandContext(cmd))
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			r, err := g.renderer(cmd, s.GlyphName)
			if err != nil {
				return err
			}
			return r.RenderTriggers(triggerRows(s))
		},
	}
}

func triggerRows(s *session.Session) []ui.TriggerRow {
	snap := s.Snapshot()
	if snap == nil {
		return nil
	}

	folderOn := func(folder string) bool { return folder == "" || s.Folders().IsEnabled(folder) }
	folderResize := func(folder string) bool { return folder == "" || s.Folders().IsResizingEnabled(folder) }

	var rows []ui.TriggerRow
	for _, e := range snap.Index.Entries() {
		rows = append(rows, ui.TriggerRow{
			Name:         e.Name,
			Folder:       e.Folder,
			MarkerID:     e.MarkerID,
			ZeroWidthID:  e.ZeroWidthID,
			HasZeroWidth: e.HasZeroWidth,
			HasAudio:     e.HasAudio,
			Enabled:      s.Triggers().IsEnabled(e.Name) && folderOn(e.Folder),
			Resizing:     s.Triggers().IsResizingEnabled(e.Name) && folderResize(e.Folder),
		})
	}
	return rows
}

func newChatCmd(g *globals) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:     "chat",
		Short:   MsgChatShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			r, err := g.renderer(cmd, s.GlyphName)
			if err != nil {
				return err
			}
			c := &chat{s: s, r: r, category: category}
			return c.run(cmd)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "public", MsgFlagCategory)
	return cmd
}

// chat drives a session from stdin lines
type chat struct {
	s        *session.Session
	r        ui.Renderer
	category string
}

func (c *chat) run(cmd *cobra.Command) error {
	logger := logging.GetLogger("cmd.chat")
	if err := c.r.RenderMessage(MsgChatUsageHint); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var err error
		if strings.HasPrefix(line, "/") {
			err = c.command(cmd, line)
		} else {
			err = c.receive(cmd, line)
		}
		if err != nil {
			logger.Warn().Err(err).Str("line", line).Msg("Chat line failed")
			_ = c.r.RenderError(err)
		}
	}
	return scanner.Err()
}

func (c *chat) receive(cmd *cobra.Command, line string) error {
	_, in, err := c.s.Receive(commandContext(cmd), c.category, "", line)
	if err != nil {
		return err
	}
	if in.Filtered {
		return c.r.RenderMessage(MsgFiltered)
	}
	for _, sound := range in.Sounds {
		if err := c.r.RenderMessage(fmt.Sprintf(MsgSoundFormat, sound.Name)); err != nil {
			return err
		}
	}
	return c.r.RenderText(in.Text)
}

func (c *chat) command(cmd *cobra.Command, line string) error {
	ctx := commandContext(cmd)
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "/enable", "/disable":
		if len(args) == 0 {
			return errors.Newf(errors.ErrInvalidInput, "%s needs trigger names", name)
		}
		action, changed, err := toggle(c.s, args, name == "/enable", false, false)
		if err != nil {
			return err
		}
		if err := c.r.RenderChanged(action, changed); err != nil {
			return err
		}
		return c.replay(cmd)
	case "/reload":
		if err := c.s.Reload(ctx); err != nil {
			return err
		}
		if err := c.r.RenderMessage(fmt.Sprintf(MsgReloaded, c.s.Snapshot().Index.Len())); err != nil {
			return err
		}
		return c.replay(cmd)
	case "/limit":
		if len(args) != 1 {
			return errors.New(errors.ErrInvalidInput, "/limit needs one number")
		}
		limit, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "invalid limit %q", args[0])
		}
		if err := c.s.SetMessageLimit(limit); err != nil {
			return err
		}
		if err := c.s.Sync(ctx); err != nil {
			return err
		}
		return c.r.RenderMessage(fmt.Sprintf(MsgLimitFormat, c.s.Log().Limit()))
	case "/list":
		return c.r.RenderTriggers(triggerRows(c.s))
	default:
		return c.r.RenderMessage(fmt.Sprintf(MsgUnknownInput, name))
	}
}

// replay prints the buffer after the loop has re-rendered it
func (c *chat) replay(cmd *cobra.Command) error {
	if err := c.s.Sync(commandContext(cmd)); err != nil {
		return err
	}
	for _, m := range c.s.Log().Messages() {
		if err := c.r.RenderText(m.Text()); err != nil {
			return err
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
