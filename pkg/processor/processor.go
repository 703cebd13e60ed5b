package processor

import (
	"regexp"

	"github.com/arthur-debert/glyphs/pkg/config"
	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/kvstore"
	"github.com/arthur-debert/glyphs/pkg/logging"
	"github.com/arthur-debert/glyphs/pkg/state"
	"github.com/arthur-debert/glyphs/pkg/substitute"
	"github.com/arthur-debert/glyphs/pkg/trigger"
	"github.com/rs/zerolog"
)

// Options configures a Processor
type Options struct {
	// Group is the key-value group whose changes HandleChange reacts to
	Group       string
	Placeholder string
	// FilterMode is one of config.FilterOff, FilterLenient, FilterStrict
	FilterMode  string
	SkipPattern *regexp.Regexp

	// Triggers and Folders gate substitution; Folders may be nil
	Triggers *state.Store
	Folders  *state.Store

	Player SoundPlayer
	// ReloadAssets is called when a resize flag flips
	ReloadAssets func() error
	// LimitChanged is called when the message limit key changes
	LimitChanged func()
}

// Incoming is the outcome of screening and encoding a new message
type Incoming struct {
	Text     string
	Filtered bool
	Changed  bool
	Sounds   []trigger.Sound
}

// Processor applies the substitution engine across a MessageStore
type Processor struct {
	store  MessageStore
	opts   Options
	gate   substitute.Gate
	engine *substitute.Engine
	logger zerolog.Logger
}

// New creates a processor with an empty trigger index
func New(store MessageStore, opts Options) *Processor {
	if opts.FilterMode == "" {
		opts.FilterMode = config.FilterOff
	}
	if opts.SkipPattern == nil {
		opts.SkipPattern = regexp.MustCompile(substitute.DefaultSkipPattern)
	}
	p := &Processor{
		store:  store,
		opts:   opts,
		gate:   StateGate(opts.Triggers, opts.Folders),
		logger: logging.GetLogger("processor"),
	}
	p.engine = p.newEngine(nil, nil)
	return p
}

// StateGate enables a trigger when its name is enabled in triggers and
// its folder, if any, is enabled in folders. Nil stores enable everything.
func StateGate(triggers, folders *state.Store) substitute.Gate {
	return substitute.GateFunc(func(e *trigger.Entry) bool {
		if triggers != nil && !triggers.IsEnabled(e.Name) {
			return false
		}
		return folders == nil || e.Folder == "" || folders.IsEnabled(e.Folder)
	})
}

// Engine returns the engine for the current index
func (p *Processor) Engine() *substitute.Engine { return p.engine }

func (p *Processor) newEngine(index *trigger.Index, audio *trigger.AudioIndex) *substitute.Engine {
	return substitute.New(index, audio, p.gate, substitute.WithSkipPattern(p.opts.SkipPattern))
}

// RevertAll decodes the markers of entries in every eligible message.
// A failing message is logged and skipped; the failures are returned
// together once the pass is done.
func (p *Processor) RevertAll(entries []*trigger.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	done := logging.LogOperationStart(p.logger, "revert")
	defer done()

	return p.each("revert", func(text string) (string, bool) {
		return substitute.Decode(text, entries, p.opts.Placeholder)
	})
}

// ApplyAll encodes every eligible message, then refreshes the store once
func (p *Processor) ApplyAll(opts substitute.Options) error {
	done := logging.LogOperationStart(p.logger, "apply")
	defer done()

	var sounds []trigger.Sound
	err := p.each("apply", func(text string) (string, bool) {
		res := p.engine.Encode(text, opts)
		sounds = append(sounds, res.Sounds...)
		return res.Text, res.Changed
	})
	p.play(sounds)
	p.store.Refresh()
	return err
}

func (p *Processor) each(op string, fn func(text string) (string, bool)) error {
	var failed []string
	var first error
	changed := 0
	messages := p.store.Messages()

	for _, m := range messages {
		if !p.store.Eligible(m.Category()) {
			continue
		}
		text, ok := fn(m.Text())
		if !ok {
			continue
		}
		if err := m.SetText(text); err != nil {
			p.logger.Warn().Err(err).Str("op", op).Str("message", m.ID()).Msg("Failed to update message")
			failed = append(failed, m.ID())
			if first == nil {
				first = err
			}
			continue
		}
		changed++
	}

	p.logger.Debug().Str("op", op).Int("messages", len(messages)).Int("changed", changed).Msg("Pass complete")
	if len(failed) > 0 {
		return errors.Wrapf(first, errors.ErrMessageUpdate, "%s failed for %d of %d messages", op, len(failed), len(messages)).
			WithDetail("messages", failed)
	}
	return nil
}

// Receive screens and encodes a new message. Messages outside the
// eligible categories pass through untouched.
func (p *Processor) Receive(category, text string) Incoming {
	in := Incoming{Text: text}
	if !p.store.Eligible(category) {
		return in
	}

	switch p.opts.FilterMode {
	case config.FilterLenient:
		in.Filtered = p.engine.ShouldFilter(text, false)
	case config.FilterStrict:
		in.Filtered = p.engine.ShouldFilter(text, true)
	}
	if in.Filtered {
		p.logger.Debug().Str("category", category).Msg("Filtered message")
		return in
	}

	res := p.engine.Encode(text, substitute.Options{})
	in.Text, in.Changed, in.Sounds = res.Text, res.Changed, res.Sounds
	p.play(res.Sounds)
	return in
}

func (p *Processor) play(sounds []trigger.Sound) {
	if p.opts.Player == nil {
		return
	}
	for _, s := range sounds {
		p.opts.Player.Play(s)
	}
}

// BeforeLoad reverts every marker of the current index so a reload can
// hand out different ids
func (p *Processor) BeforeLoad() error {
	return p.RevertAll(p.engine.Index().Entries())
}

// AfterLoad installs a new index pair and silently re-applies it
func (p *Processor) AfterLoad(index *trigger.Index, audio *trigger.AudioIndex) error {
	p.engine = p.newEngine(index, audio)
	p.logger.Info().Int("triggers", index.Len()).Int("sounds", audio.Len()).Msg("Trigger index installed")
	return p.ApplyAll(substitute.Options{Silent: true})
}

// TriggersDisabled reverts the named triggers and re-renders
func (p *Processor) TriggersDisabled(names ...string) error {
	set := state.Set{}
	for _, n := range names {
		set[n] = struct{}{}
	}
	return p.disable(func(e *trigger.Entry) bool { return set.Has(e.Name) })
}

// FoldersDisabled reverts every trigger in the named folders and re-renders
func (p *Processor) FoldersDisabled(names ...string) error {
	set := state.Set{}
	for _, n := range names {
		set[n] = struct{}{}
	}
	return p.disable(func(e *trigger.Entry) bool { return e.Folder != "" && set.Has(e.Folder) })
}

func (p *Processor) disable(match func(e *trigger.Entry) bool) error {
	var entries []*trigger.Entry
	for _, e := range p.engine.Index().Entries() {
		if match(e) {
			entries = append(entries, e)
		}
	}
	revertErr := p.RevertAll(entries)
	applyErr := p.ApplyAll(substitute.Options{Silent: true})
	if revertErr != nil {
		return revertErr
	}
	return applyErr
}

// Enabled re-renders after triggers or folders were enabled
func (p *Processor) Enabled() error {
	return p.ApplyAll(substitute.Options{Silent: true})
}

// ResizeToggled requests an asset reload so images are rescaled
func (p *Processor) ResizeToggled(name string, enabled bool) error {
	p.logger.Debug().Str("name", name).Bool("enabled", enabled).Msg("Resize toggled")
	if p.opts.ReloadAssets == nil {
		return nil
	}
	return p.opts.ReloadAssets()
}

// HandleChange reacts to a key-value change signal. Only the disabled-set
// keys and the message limit of the configured group matter; state
// reloads notify through the stores' own listeners.
func (p *Processor) HandleChange(c kvstore.Change) error {
	if c.Group != p.opts.Group {
		return nil
	}

	var target *state.Store
	switch c.Key {
	case config.KeyDisabledTriggers, config.KeyResizingDisabledTriggers:
		target = p.opts.Triggers
	case config.KeyDisabledFolders, config.KeyResizingDisabledFolders:
		target = p.opts.Folders
	case config.KeyMessageLimit:
		if p.opts.LimitChanged != nil {
			p.opts.LimitChanged()
		}
		return nil
	default:
		return nil
	}
	if target == nil {
		return nil
	}

	diff, err := target.Reload()
	if err != nil {
		return err
	}
	if !diff.Empty() {
		p.logger.Info().Str("key", c.Key).Interface("diff", diff).Msg("State changed externally")
	}
	return nil
}
