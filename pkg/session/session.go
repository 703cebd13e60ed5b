package session

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/arthur-debert/glyphs/pkg/chatlog"
	"github.com/arthur-debert/glyphs/pkg/config"
	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/glyph"
	"github.com/arthur-debert/glyphs/pkg/kvstore"
	"github.com/arthur-debert/glyphs/pkg/logging"
	"github.com/arthur-debert/glyphs/pkg/paths"
	"github.com/arthur-debert/glyphs/pkg/processor"
	"github.com/arthur-debert/glyphs/pkg/state"
	"github.com/arthur-debert/glyphs/pkg/substitute"
	"github.com/arthur-debert/glyphs/pkg/trigger"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options configures Open
type Options struct {
	Config *config.Config
	Paths  paths.Paths
	// FS backs the manifest, its assets and the toml store; nil means the OS
	FS     afero.Fs
	Player processor.SoundPlayer
}

// Session is one running instance
type Session struct {
	cfg   *config.Config
	paths paths.Paths
	fs    afero.Fs

	kv       *kvstore.Notifier
	file     *kvstore.File
	triggers *state.Store
	folders  *state.Store
	glyphs   *glyph.Registry
	loader   *trigger.Loader
	log      *chatlog.Log
	proc     *processor.Processor
	loop     *processor.Loop

	mu       sync.RWMutex
	snapshot *trigger.Snapshot

	cancel   context.CancelFunc
	loopDone chan struct{}
	wg       sync.WaitGroup
	logger   zerolog.Logger
}

// Open builds a session and starts its loop. The manifest is loaded
// right away when it exists.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Paths == nil {
		p, err := paths.New()
		if err != nil {
			return nil, err
		}
		opts.Paths = p
	}

	s := &Session{
		cfg:    opts.Config,
		paths:  opts.Paths,
		fs:     opts.FS,
		glyphs: glyph.NewRegistry(),
		loop:   processor.NewLoop(),
		logger: logging.GetLogger("session"),
	}

	if err := s.openStore(); err != nil {
		return nil, err
	}
	if err := s.openState(); err != nil {
		_ = s.kv.Close()
		return nil, err
	}

	s.log = chatlog.New(s.storedLimit(), s.cfg.Session.EligibleCategories)
	s.loader = trigger.NewLoader(s.fs, s.glyphs)
	s.loader.Resizing = func(name, folder string) bool {
		return s.triggers.IsResizingEnabled(name) && (folder == "" || s.folders.IsResizingEnabled(folder))
	}

	skip, err := regexp.Compile(s.cfg.Filter.SkipPattern)
	if err != nil {
		_ = s.kv.Close()
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid filter.skip_pattern")
	}
	s.proc = processor.New(s.log, processor.Options{
		Group:        s.cfg.Session.Group,
		Placeholder:  s.cfg.Session.Placeholder,
		FilterMode:   s.cfg.Filter.Mode,
		SkipPattern:  skip,
		Triggers:     s.triggers,
		Folders:      s.folders,
		Player:       opts.Player,
		ReloadAssets: s.reload,
		LimitChanged: func() { s.log.SetLimit(s.storedLimit()) },
	})
	s.wire()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	go func() {
		defer close(s.loopDone)
		if err := s.loop.Run(runCtx); err != nil && runCtx.Err() == nil {
			s.logger.Error().Err(err).Msg("Loop stopped")
		}
	}()

	if s.file != nil && s.cfg.Assets.Watch {
		if _, isOS := s.fs.(*afero.OsFs); isOS {
			if err := s.fs.MkdirAll(filepath.Dir(s.file.Path()), 0755); err != nil {
				s.logger.Warn().Err(err).Msg("Cannot create state dir")
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				if err := s.kv.WatchFile(runCtx, s.file); err != nil {
					s.logger.Warn().Err(err).Msg("State file watch stopped")
				}
			}()
		}
	}

	if ok, _ := afero.Exists(s.fs, s.ManifestPath()); ok {
		if err := s.Reload(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
	} else {
		s.logger.Warn().Str("manifest", s.ManifestPath()).Msg("No manifest, starting without triggers")
	}
	return s, nil
}

func (s *Session) openStore() error {
	backend := s.cfg.Store.Backend
	path := s.paths.Resolve(s.cfg.Store.Path)
	switch {
	case path != "":
	case backend == config.BackendSQLite:
		path = s.paths.DatabaseFile()
	default:
		path = s.paths.StateFile()
	}

	if backend == config.BackendSQLite {
		if err := s.fs.MkdirAll(s.paths.StateDir(), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrStoreOpen, "failed to create %s", s.paths.StateDir())
		}
	}

	store, err := kvstore.Open(backend, path, s.fs)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStoreOpen, "failed to open %s store", backend).
			WithDetail("path", path)
	}
	if f, ok := store.(*kvstore.File); ok {
		s.file = f
	}
	s.kv = kvstore.NewNotifier(store)
	s.logger.Debug().Str("backend", backend).Str("path", path).Msg("Store opened")
	return nil
}

func (s *Session) openState() error {
	acc := state.KVAccessors(s.kv, s.cfg.Session.Group)

	var err error
	s.triggers, err = state.New(acc, state.Keys{
		Disabled:         config.KeyDisabledTriggers,
		ResizingDisabled: config.KeyResizingDisabledTriggers,
	})
	if err != nil {
		return err
	}
	s.folders, err = state.New(acc, state.Keys{
		Disabled:         config.KeyDisabledFolders,
		ResizingDisabled: config.KeyResizingDisabledFolders,
	})
	return err
}

// wire routes state callbacks and change signals onto the loop
func (s *Session) wire() {
	post := func(name string, task func() error) {
		err := s.loop.Post(func() {
			if err := task(); err != nil {
				s.logger.Warn().Err(err).Str("task", name).Msg("Task failed")
			}
		})
		if err != nil {
			s.logger.Debug().Err(err).Str("task", name).Msg("Dropped task")
		}
	}

	s.triggers.OnDisabled(func(name string) {
		post("trigger disabled", func() error { return s.proc.TriggersDisabled(name) })
	})
	s.folders.OnDisabled(func(name string) {
		post("folder disabled", func() error { return s.proc.FoldersDisabled(name) })
	})
	for _, st := range []*state.Store{s.triggers, s.folders} {
		st.OnEnabled(func(string) {
			post("enabled", s.proc.Enabled)
		})
		// one reload covers every flag flipped before it starts
		st.OnResizingToggled(func(name string, enabled bool) {
			queued, err := s.loop.PostOnce("resize", func() {
				if err := s.proc.ResizeToggled(name, enabled); err != nil {
					s.logger.Warn().Err(err).Str("task", "resize").Msg("Task failed")
				}
			})
			if err != nil {
				s.logger.Debug().Err(err).Str("task", "resize").Msg("Dropped task")
			} else if !queued {
				s.logger.Debug().Str("name", name).Msg("Resize reload already pending")
			}
		})
	}

	s.kv.Subscribe(func(c kvstore.Change) {
		post("change", func() error { return s.proc.HandleChange(c) })
	})
}

func (s *Session) storedLimit() int {
	raw, ok, err := s.kv.Get(s.cfg.Session.Group, config.KeyMessageLimit)
	if err != nil || !ok {
		return s.cfg.Session.MessageLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		s.logger.Warn().Str("value", raw).Msg("Ignoring invalid message limit")
		return s.cfg.Session.MessageLimit
	}
	return limit
}

// ManifestPath returns the manifest the session loads
func (s *Session) ManifestPath() string {
	if s.cfg.Assets.Manifest != "" {
		return s.paths.Resolve(s.cfg.Assets.Manifest)
	}
	return s.paths.ManifestFile()
}

// Reload reverts every message, reloads the manifest and re-applies
func (s *Session) Reload(ctx context.Context) error {
	return s.loop.Do(ctx, s.reload)
}

// reload runs on the loop
func (s *Session) reload() error {
	if err := s.proc.BeforeLoad(); err != nil {
		s.logger.Warn().Err(err).Msg("Revert before reload was incomplete")
	}

	snap, err := s.loader.Load(s.ManifestPath())
	if err != nil {
		// put back what was reverted
		if applyErr := s.proc.Enabled(); applyErr != nil {
			s.logger.Warn().Err(applyErr).Msg("Re-apply after failed reload was incomplete")
		}
		return err
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	return s.proc.AfterLoad(snap.Index, snap.Audio)
}

// Snapshot returns the last successful load, or nil
func (s *Session) Snapshot() *trigger.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Receive screens and encodes an incoming message and buffers it unless
// it was filtered. The returned message is nil when filtered.
func (s *Session) Receive(ctx context.Context, category, sender, text string) (*chatlog.Message, processor.Incoming, error) {
	var msg *chatlog.Message
	var in processor.Incoming
	err := s.loop.Do(ctx, func() error {
		in = s.proc.Receive(category, text)
		if !in.Filtered {
			msg = s.log.Add(category, sender, in.Text)
			s.log.Refresh()
		}
		return nil
	})
	return msg, in, err
}

// ShouldFilter runs the filter decision for text against the current index
func (s *Session) ShouldFilter(ctx context.Context, text string, strict bool) (bool, error) {
	var filtered bool
	err := s.loop.Do(ctx, func() error {
		filtered = s.proc.Engine().ShouldFilter(text, strict)
		return nil
	})
	return filtered, err
}

// Revert replaces every marker tag in text with its glyph's trigger name,
// or the placeholder for an unregistered id
func (s *Session) Revert(text string) string {
	out, _ := substitute.DecodeTags(text, s.GlyphName, s.cfg.Session.Placeholder)
	return out
}

// GlyphName resolves a marker id to its trigger name
func (s *Session) GlyphName(id int) (string, bool) {
	h, err := s.glyphs.Lookup(id)
	if err != nil {
		return "", false
	}
	return h.Name, true
}

// SetEnabled toggles triggers, or folders when folder is set. It returns
// the names that actually changed.
func (s *Session) SetEnabled(names []string, enabled, folder bool) ([]string, error) {
	return s.store(folder).SetMultipleEnabled(names, enabled)
}

// SetResizing toggles resizing for triggers, or folders when folder is set
func (s *Session) SetResizing(names []string, enabled, folder bool) ([]string, error) {
	return s.store(folder).SetMultipleResizingEnabled(names, enabled)
}

func (s *Session) store(folder bool) *state.Store {
	if folder {
		return s.folders
	}
	return s.triggers
}

// SetMessageLimit persists the message limit; the buffer follows through
// the change signal
func (s *Session) SetMessageLimit(limit int) error {
	if limit <= 0 {
		return errors.Newf(errors.ErrInvalidInput, "message limit must be positive, got %d", limit)
	}
	return s.kv.Set(s.cfg.Session.Group, config.KeyMessageLimit, strconv.Itoa(limit))
}

// Sync waits until every task queued so far has run
func (s *Session) Sync(ctx context.Context) error {
	return s.loop.Do(ctx, func() error { return nil })
}

// Triggers returns the trigger-level state store
func (s *Session) Triggers() *state.Store { return s.triggers }

// Folders returns the folder-level state store
func (s *Session) Folders() *state.Store { return s.folders }

// Glyphs returns the glyph registry
func (s *Session) Glyphs() *glyph.Registry { return s.glyphs }

// Log returns the message buffer
func (s *Session) Log() *chatlog.Log { return s.log }

// Processor returns the processor; only call it from a loop task
func (s *Session) Processor() *processor.Processor { return s.proc }

// Close drains the loop, stops the watch and closes the store
func (s *Session) Close() error {
	s.loop.Close()
	<-s.loopDone
	s.cancel()
	s.wg.Wait()
	return s.kv.Close()
}
