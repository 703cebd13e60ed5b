package trigger

import (
	"sort"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"golang.org/x/text/cases"
)

// Entry is one trigger
type Entry struct {
	// Name is the case-preserving display text
	Name string
	// MarkerID is the glyph drawn in place of the word
	MarkerID int
	// ZeroWidthID is the companion glyph used right after another marker
	ZeroWidthID  int
	HasZeroWidth bool
	HasAudio     bool
	// Folder groups triggers for folder-level toggles; may be empty
	Folder string
}

// Sound is one audio trigger
type Sound struct {
	Name string
	Path string
}

// Key folds text to the case-insensitive lookup form
func Key(text string) string {
	// a Caser is stateful, so it is not shared
	return cases.Fold().String(text)
}

// Index maps folded trigger text to entries
type Index struct {
	byKey   map[string]*Entry
	byName  map[string]*Entry
	entries []*Entry
}

// NewIndex builds an index; two entries folding to the same key is an error
func NewIndex(entries []Entry) (*Index, error) {
	idx := &Index{
		byKey:   make(map[string]*Entry, len(entries)),
		byName:  make(map[string]*Entry, len(entries)),
		entries: make([]*Entry, 0, len(entries)),
	}

	for i := range entries {
		e := entries[i]
		if e.Name == "" {
			return nil, errors.New(errors.ErrTriggerInvalid, "trigger name cannot be empty")
		}
		key := Key(e.Name)
		if existing, ok := idx.byKey[key]; ok {
			return nil, errors.Newf(errors.ErrTriggerDuplicate, "trigger %q collides with %q", e.Name, existing.Name).
				WithDetail("trigger", e.Name)
		}
		idx.byKey[key] = &e
		idx.byName[e.Name] = &e
		idx.entries = append(idx.entries, &e)
	}

	sort.Slice(idx.entries, func(i, j int) bool { return idx.entries[i].Name < idx.entries[j].Name })
	return idx, nil
}

// Lookup finds the entry for a word, ignoring case
func (i *Index) Lookup(word string) (*Entry, bool) {
	if i == nil || word == "" {
		return nil, false
	}
	e, ok := i.byKey[Key(word)]
	return e, ok
}

// ByName finds the entry with this exact display name
func (i *Index) ByName(name string) (*Entry, bool) {
	if i == nil {
		return nil, false
	}
	e, ok := i.byName[name]
	return e, ok
}

// Entries returns all entries sorted by name
func (i *Index) Entries() []*Entry {
	if i == nil {
		return nil
	}
	return append([]*Entry(nil), i.entries...)
}

// Len returns the number of entries
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// AudioIndex maps folded names to sounds
type AudioIndex struct {
	byKey  map[string]Sound
	sounds []Sound
}

// NewAudioIndex builds an audio index; duplicate keys are an error
func NewAudioIndex(sounds []Sound) (*AudioIndex, error) {
	a := &AudioIndex{byKey: make(map[string]Sound, len(sounds))}
	for _, s := range sounds {
		if s.Name == "" {
			return nil, errors.New(errors.ErrTriggerInvalid, "sound name cannot be empty")
		}
		key := Key(s.Name)
		if existing, ok := a.byKey[key]; ok {
			return nil, errors.Newf(errors.ErrTriggerDuplicate, "sound %q collides with %q", s.Name, existing.Name).
				WithDetail("sound", s.Name)
		}
		a.byKey[key] = s
		a.sounds = append(a.sounds, s)
	}
	sort.Slice(a.sounds, func(i, j int) bool { return a.sounds[i].Name < a.sounds[j].Name })
	return a, nil
}

// Lookup finds the sound for a word, ignoring case
func (a *AudioIndex) Lookup(word string) (Sound, bool) {
	if a == nil || word == "" {
		return Sound{}, false
	}
	s, ok := a.byKey[Key(word)]
	return s, ok
}

// Sounds returns all sounds sorted by name
func (a *AudioIndex) Sounds() []Sound {
	if a == nil {
		return nil
	}
	return append([]Sound(nil), a.sounds...)
}

// Len returns the number of sounds
func (a *AudioIndex) Len() int {
	if a == nil {
		return 0
	}
	return len(a.sounds)
}
