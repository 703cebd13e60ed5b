package state

import (
	"strings"
	"sync"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/kvstore"
	"github.com/arthur-debert/glyphs/pkg/logging"
	"github.com/rs/zerolog"
)

// Accessors read and write the persisted strings by key.
// Get returns "" for an absent key.
type Accessors struct {
	Get func(key string) (string, error)
	Set func(key, value string) error
}

// KVAccessors binds Accessors to one group of a key-value store
func KVAccessors(kv kvstore.Store, group string) Accessors {
	return Accessors{
		Get: func(key string) (string, error) {
			value, _, err := kv.Get(group, key)
			return value, err
		},
		Set: func(key, value string) error {
			return kv.Set(group, key, value)
		},
	}
}

// Keys names the two persisted sets
type Keys struct {
	Disabled         string
	ResizingDisabled string
}

type kind int

const (
	kindEnabled kind = iota
	kindResizing
)

// Store holds the disabled and resizing-disabled sets. One mutex covers
// both sets and every read-modify-write of the persisted strings.
// Listeners run after the mutex is released, so they may query the store.
type Store struct {
	mu       sync.Mutex
	acc      Accessors
	keys     Keys
	disabled Set
	resizing Set

	listenersMu sync.RWMutex
	onEnabled   []func(name string)
	onDisabled  []func(name string)
	onResizing  []func(name string, enabled bool)

	logger zerolog.Logger
}

// New loads both sets through acc
func New(acc Accessors, keys Keys) (*Store, error) {
	s := &Store{
		acc:    acc,
		keys:   keys,
		logger: logging.GetLogger("state").With().Str("key", keys.Disabled).Logger(),
	}

	var err error
	if s.disabled, err = s.read(keys.Disabled); err != nil {
		return nil, err
	}
	if s.resizing, err = s.read(keys.ResizingDisabled); err != nil {
		return nil, err
	}
	return s, nil
}

// OnEnabled registers fn to run once per name that became enabled
func (s *Store) OnEnabled(fn func(name string)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.onEnabled = append(s.onEnabled, fn)
}

// OnDisabled registers fn to run once per name that became disabled
func (s *Store) OnDisabled(fn func(name string)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.onDisabled = append(s.onDisabled, fn)
}

// OnResizingToggled registers fn to run once per name whose resizing flag flipped
func (s *Store) OnResizingToggled(fn func(name string, enabled bool)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.onResizing = append(s.onResizing, fn)
}

// IsEnabled reports whether name is enabled (the default)
func (s *Store) IsEnabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disabled.Has(name)
}

// IsResizingEnabled reports whether resizing is enabled for name (the default)
func (s *Store) IsResizingEnabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.resizing.Has(name)
}

// Disabled returns a copy of the disabled set
func (s *Store) Disabled() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled.Clone()
}

// ResizingDisabled returns a copy of the resizing-disabled set
func (s *Store) ResizingDisabled() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizing.Clone()
}

// SetEnabled enables or disables a single name
func (s *Store) SetEnabled(name string, enabled bool) (bool, error) {
	changed, err := s.SetMultipleEnabled([]string{name}, enabled)
	return len(changed) > 0, err
}

// SetResizingEnabled toggles resizing for a single name
func (s *Store) SetResizingEnabled(name string, enabled bool) (bool, error) {
	changed, err := s.SetMultipleResizingEnabled([]string{name}, enabled)
	return len(changed) > 0, err
}

// SetMultipleEnabled enables or disables names in one write and returns
// the names whose state actually changed.
func (s *Store) SetMultipleEnabled(names []string, enabled bool) ([]string, error) {
	return s.setMultiple(kindEnabled, names, enabled)
}

// SetMultipleResizingEnabled is SetMultipleEnabled for the resizing flag
func (s *Store) SetMultipleResizingEnabled(names []string, enabled bool) ([]string, error) {
	return s.setMultiple(kindResizing, names, enabled)
}

func (s *Store) setMultiple(k kind, names []string, enabled bool) ([]string, error) {
	key := s.key(k)

	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if strings.Contains(name, ",") {
			return nil, errors.Newf(errors.ErrInvalidInput, "name %q cannot contain a comma", name).
				WithDetail("key", key)
		}
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}

	s.mu.Lock()
	set := s.current(k).Clone()

	var err error
	var changed []string
	for _, name := range cleaned {
		// membership means "disabled"
		if set.Has(name) == !enabled {
			continue
		}
		if enabled {
			delete(set, name)
		} else {
			set[name] = struct{}{}
		}
		changed = append(changed, name)
	}

	s.assign(k, set)
	if len(changed) > 0 {
		err = s.acc.Set(key, Serialize(set))
	}
	s.mu.Unlock()

	if err != nil {
		// the in-memory set keeps the change; it is just not durable
		s.logger.Error().Err(err).Strs("changed", changed).Msg("Failed to persist state")
		return changed, errors.Wrapf(err, errors.ErrStoreWrite, "failed to persist %s", key).
			WithDetail("key", key)
	}

	if len(changed) > 0 {
		s.logger.Debug().Strs("changed", changed).Bool("enabled", enabled).Str("set", key).Msg("State updated")
		s.notify(k, changed, enabled)
	}
	return changed, nil
}

// Diff lists names whose flags flipped during Reload
type Diff struct {
	Enabled          []string
	Disabled         []string
	ResizingEnabled  []string
	ResizingDisabled []string
}

// Empty reports whether nothing changed
func (d Diff) Empty() bool {
	return len(d.Enabled)+len(d.Disabled)+len(d.ResizingEnabled)+len(d.ResizingDisabled) == 0
}

// Reload re-reads both persisted strings, for edits made behind the
// store's back, and notifies listeners of every flip.
func (s *Store) Reload() (Diff, error) {
	s.mu.Lock()
	disabled, err := s.read(s.keys.Disabled)
	if err != nil {
		s.mu.Unlock()
		return Diff{}, err
	}
	resizing, err := s.read(s.keys.ResizingDisabled)
	if err != nil {
		s.mu.Unlock()
		return Diff{}, err
	}

	var d Diff
	d.Disabled, d.Enabled = flips(s.disabled, disabled)
	d.ResizingDisabled, d.ResizingEnabled = flips(s.resizing, resizing)
	s.disabled, s.resizing = disabled, resizing
	s.mu.Unlock()

	s.notify(kindEnabled, d.Enabled, true)
	s.notify(kindEnabled, d.Disabled, false)
	s.notify(kindResizing, d.ResizingEnabled, true)
	s.notify(kindResizing, d.ResizingDisabled, false)
	return d, nil
}

// flips returns members added to and removed from a set
func flips(before, after Set) (added, removed []string) {
	for _, name := range after.Sorted() {
		if !before.Has(name) {
			added = append(added, name)
		}
	}
	for _, name := range before.Sorted() {
		if !after.Has(name) {
			removed = append(removed, name)
		}
	}
	return added, removed
}

func (s *Store) notify(k kind, names []string, enabled bool) {
	if len(names) == 0 {
		return
	}

	s.listenersMu.RLock()
	onEnabled := append([]func(string){}, s.onEnabled...)
	onDisabled := append([]func(string){}, s.onDisabled...)
	onResizing := append([]func(string, bool){}, s.onResizing...)
	s.listenersMu.RUnlock()

	for _, name := range names {
		switch {
		case k == kindResizing:
			for _, fn := range onResizing {
				fn(name, enabled)
			}
		case enabled:
			for _, fn := range onEnabled {
				fn(name)
			}
		default:
			for _, fn := range onDisabled {
				fn(name)
			}
		}
	}
}

func (s *Store) key(k kind) string {
	if k == kindResizing {
		return s.keys.ResizingDisabled
	}
	return s.keys.Disabled
}

func (s *Store) current(k kind) Set {
	if k == kindResizing {
		return s.resizing
	}
	return s.disabled
}

func (s *Store) assign(k kind, set Set) {
	if k == kindResizing {
		s.resizing = set
	} else {
		s.disabled = set
	}
}

func (s *Store) read(key string) (Set, error) {
	raw, err := s.acc.Get(key)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreRead, "failed to read %s", key).
			WithDetail("key", key)
	}
	return Parse(raw), nil
}
