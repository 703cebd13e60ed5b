package glyphs

import (
	"context"
	"os"

	"github.com/arthur-debert/glyphs/internal/version"
	"github.com/arthur-debert/glyphs/pkg/config"
	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/logging"
	"github.com/arthur-debert/glyphs/pkg/paths"
	"github.com/arthur-debert/glyphs/pkg/processor"
	"github.com/arthur-debert/glyphs/pkg/session"
	"github.com/arthur-debert/glyphs/pkg/trigger"
	"github.com/arthur-debert/glyphs/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags
type globals struct {
	verbosity int
	config    string
	manifest  string
	store     string
	format    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "glyphs",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, "no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&g.config, "config", "", MsgFlagConfig)
	flags.StringVar(&g.manifest, "manifest", "", MsgFlagManifest)
	flags.StringVar(&g.store, "store", "", MsgFlagStore)
	flags.StringVarP(&g.format, "format", "f", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newRenderCmd(g))
	rootCmd.AddCommand(newRevertCmd(g))
	rootCmd.AddCommand(newFilterCmd(g))
	rootCmd.AddCommand(newToggleCmd(g, true))
	rootCmd.AddCommand(newToggleCmd(g, false))
	rootCmd.AddCommand(newListCmd(g))
	rootCmd.AddCommand(newChatCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig layers the config file and flag overrides
func (g *globals) loadConfig(p paths.Paths) (*config.Config, error) {
	file := g.config
	if file == "" {
		file = p.ConfigFile()
	}

	overrides := map[string]interface{}{}
	if g.manifest != "" {
		overrides["assets.manifest"] = g.manifest
	}
	if g.store != "" {
		overrides["store.backend"] = g.store
	}
	return config.Load(file, overrides)
}

// open starts a session for one command; the caller closes it
func (g *globals) open(ctx context.Context) (*session.Session, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	cfg, err := g.loadConfig(p)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("cmd")
	player := processor.SoundPlayerFunc(func(s trigger.Sound) {
		logger.Info().Str("sound", s.Name).Str("path", s.Path).Msg("Playing sound")
	})
	return session.Open(ctx, session.Options{Config: cfg, Paths: p, Player: player})
}

func (g *globals) renderer(cmd *cobra.Command, names ui.NameFunc) (ui.Renderer, error) {
	format, err := ui.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout(), names)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command, printing errors to stderr
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		r, rerr := ui.NewRenderer(ui.DetectFormat(os.Stderr), os.Stderr, nil)
		if rerr == nil {
			_ = r.RenderError(err)
		}
		return 1
	}
	return 0
}
