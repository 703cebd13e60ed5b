package kvstore

import (
	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/spf13/afero"
)

// Store is a persistent string key-value store scoped by group.
type Store interface {
	// Get returns the value and whether it was present.
	Get(group, key string) (string, bool, error)

	// Set stores value durably before returning.
	Set(group, key, value string) error

	// Close releases any underlying resources.
	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// Open creates the store for backend. path is ignored for the memory
// backend; fs is only used by the toml backend.
func Open(backend, path string, fs afero.Fs) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendTOML:
		return OpenFile(fs, path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown store backend %q", backend)
	}
}
