package trigger

import (
	"path/filepath"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/glyph"
	"github.com/arthur-debert/glyphs/pkg/logging"
	"github.com/spf13/afero"
)

// Snapshot is the result of one asset load
type Snapshot struct {
	Manifest string
	Index    *Index
	Audio    *AudioIndex
	// Skipped lists manifest names that were left out, with the reason
	Skipped []Skip
}

// Skip records a manifest line the loader ignored
type Skip struct {
	Name   string
	Reason string
}

// Loader turns a manifest into trigger and audio indexes, registering
// every image with the glyph registry on the way.
type Loader struct {
	FS     afero.Fs
	Glyphs *glyph.Registry
	// Resizing reports whether a trigger's image may be scaled; nil means always
	Resizing func(name, folder string) bool
}

// NewLoader creates a loader over fs
func NewLoader(fs afero.Fs, glyphs *glyph.Registry) *Loader {
	return &Loader{FS: fs, Glyphs: glyphs}
}

// Load reads the manifest at path and builds a Snapshot. Lines with a
// missing file or a name already taken are skipped with a warning; only
// an unreadable or unparsable manifest is an error.
func (l *Loader) Load(path string) (*Snapshot, error) {
	logger := logging.GetLogger("trigger.loader").With().Str("manifest", path).Logger()

	data, err := afero.ReadFile(l.FS, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "failed to read manifest %s", path).
			WithDetail("path", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to parse manifest %s", path).
			WithDetail("path", path)
	}

	snap := &Snapshot{Manifest: path}
	base := filepath.Dir(path)
	skip := func(name, reason string) {
		logger.Warn().Str("name", name).Str("reason", reason).Msg("Skipping manifest entry")
		snap.Skipped = append(snap.Skipped, Skip{Name: name, Reason: reason})
	}

	var sounds []Sound
	seenSounds := make(map[string]bool)
	for _, s := range m.Sounds {
		switch {
		case s.Name == "":
			skip(s.File, "sound has no name")
		case seenSounds[Key(s.Name)]:
			skip(s.Name, "duplicate sound")
		case !l.exists(resolve(base, s.File)):
			skip(s.Name, "sound file not found")
		default:
			seenSounds[Key(s.Name)] = true
			sounds = append(sounds, Sound{Name: s.Name, Path: resolve(base, s.File)})
		}
	}
	audio, err := NewAudioIndex(sounds)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	seen := make(map[string]bool)
	for _, t := range m.Triggers {
		if t.Name == "" {
			skip(t.Image, "trigger has no name")
			continue
		}
		if seen[Key(t.Name)] {
			skip(t.Name, "duplicate trigger")
			continue
		}
		image := resolve(base, t.Image)
		if t.Image == "" || !l.exists(image) {
			skip(t.Name, "image not found")
			continue
		}

		resize := l.Resizing == nil || l.Resizing(t.Name, t.Folder)
		id, err := l.Glyphs.Register(glyph.Handle{Name: t.Name, Path: image, Resize: resize})
		if err != nil {
			return nil, err
		}
		entry := Entry{Name: t.Name, MarkerID: id, Folder: t.Folder}

		if t.ZeroWidth != "" {
			zw := resolve(base, t.ZeroWidth)
			if l.exists(zw) {
				zid, err := l.Glyphs.Register(glyph.Handle{Name: t.Name, Path: zw, ZeroWidth: true, Resize: resize})
				if err != nil {
					return nil, err
				}
				entry.ZeroWidthID = zid
				entry.HasZeroWidth = true
			} else {
				logger.Warn().Str("name", t.Name).Msg("Zero-width image not found, using primary only")
			}
		}

		_, entry.HasAudio = audio.Lookup(t.Name)
		seen[Key(t.Name)] = true
		entries = append(entries, entry)
	}

	idx, err := NewIndex(entries)
	if err != nil {
		return nil, err
	}
	snap.Index = idx
	snap.Audio = audio

	logger.Info().
		Int("triggers", idx.Len()).
		Int("sounds", audio.Len()).
		Int("skipped", len(snap.Skipped)).
		Msg("Loaded manifest")
	return snap, nil
}

func (l *Loader) exists(path string) bool {
	ok, err := afero.Exists(l.FS, path)
	return err == nil && ok
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
