package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// File is a Store persisted as a TOML document, one table per group.
// The whole document is cached; every Set rewrites it atomically.
type File struct {
	mu   sync.RWMutex
	fs   afero.Fs
	path string
	data map[string]map[string]string
}

// OpenFile loads path (a missing file is an empty store)
func OpenFile(fs afero.Fs, path string) (*File, error) {
	if path == "" {
		return nil, errors.New(errors.ErrInvalidInput, "toml store needs a path")
	}
	f := &File{fs: fs, path: path}
	data, err := f.read()
	if err != nil {
		return nil, err
	}
	f.data = data
	return f, nil
}

// Path returns the backing file
func (f *File) Path() string { return f.path }

func (f *File) Get(group, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	value, ok := f.data[group][key]
	return value, ok, nil
}

func (f *File) Set(group, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous, existed := f.data[group][key]
	if f.data[group] == nil {
		f.data[group] = make(map[string]string)
	}
	f.data[group][key] = value

	if err := f.write(); err != nil {
		// keep the cache equal to what is on disk
		if existed {
			f.data[group][key] = previous
		} else {
			delete(f.data[group], key)
		}
		return err
	}
	return nil
}

// Reload re-reads the document and reports every (group, key) whose
// value differs from the cache.
func (f *File) Reload() ([]Change, error) {
	data, err := f.read()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var changes []Change
	for group, values := range data {
		for key, value := range values {
			if old, ok := f.data[group][key]; !ok || old != value {
				changes = append(changes, Change{Group: group, Key: key})
			}
		}
	}
	for group, values := range f.data {
		for key := range values {
			if _, ok := data[group][key]; !ok {
				changes = append(changes, Change{Group: group, Key: key})
			}
		}
	}
	f.data = data
	return changes, nil
}

func (f *File) Close() error { return nil }

func (f *File) read() (map[string]map[string]string, error) {
	raw, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]map[string]string), nil
		}
		return nil, errors.Wrapf(err, errors.ErrStoreRead, "failed to read %s", f.path)
	}

	var doc map[string]map[string]interface{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreRead, "failed to parse %s", f.path).
			WithDetail("path", f.path)
	}

	data := make(map[string]map[string]string, len(doc))
	for group, values := range doc {
		data[group] = make(map[string]string, len(values))
		for key, value := range values {
			// hand edits may use numbers or booleans
			data[group][key] = fmt.Sprint(value)
		}
	}
	return data, nil
}

func (f *File) write() error {
	logger := logging.GetLogger("kvstore.file")

	raw, err := toml.Marshal(f.data)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to encode state")
	}

	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to create %s", dir)
	}

	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, raw, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to write %s", tmp)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		_ = f.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to replace %s", f.path)
	}

	logger.Trace().Str("path", f.path).Int("bytes", len(raw)).Msg("State written")
	return nil
}
