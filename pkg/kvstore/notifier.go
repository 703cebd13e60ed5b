package kvstore

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// Change names a key whose value changed
type Change struct {
	Group string
	Key   string
}

// Listener receives change notifications
type Listener func(Change)

// Notifier wraps a Store and tells listeners about changed keys, both
// for writes made through it and for edits found by WatchFile.
type Notifier struct {
	Store

	mu        sync.RWMutex
	listeners []Listener
}

// NewNotifier wraps store
func NewNotifier(store Store) *Notifier {
	return &Notifier{Store: store}
}

// Subscribe registers l for every future change
func (n *Notifier) Subscribe(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// Set writes through and notifies when the value actually changed
func (n *Notifier) Set(group, key, value string) error {
	previous, existed, err := n.Store.Get(group, key)
	if err != nil {
		return err
	}
	if err := n.Store.Set(group, key, value); err != nil {
		return err
	}
	if !existed || previous != value {
		n.emit(Change{Group: group, Key: key})
	}
	return nil
}

func (n *Notifier) emit(c Change) {
	n.mu.RLock()
	listeners := make([]Listener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.RUnlock()

	for _, l := range listeners {
		l(c)
	}
}

// WatchFile reloads f whenever another process rewrites it and emits a
// Change per differing key. It blocks until ctx is done.
func (n *Notifier) WatchFile(ctx context.Context, f *File) error {
	logger := logging.GetLogger("kvstore.watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWatch, "failed to create watcher")
	}
	defer func() { _ = watcher.Close() }()

	// watch the directory: atomic writes replace the file inode
	dir := filepath.Dir(f.Path())
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWatch, "failed to watch %s", dir)
	}
	logger.Debug().Str("path", f.Path()).Msg("Watching state file")

	target := filepath.Clean(f.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			changes, err := f.Reload()
			if err != nil {
				logger.Warn().Err(err).Msg("Ignoring unreadable state file")
				continue
			}
			for _, c := range changes {
				logger.Debug().Str("group", c.Group).Str("key", c.Key).Msg("External change")
				n.emit(c)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}
