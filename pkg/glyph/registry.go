package glyph

import (
	"sync"

	"github.com/arthur-debert/glyphs/pkg/errors"
)

// Handle describes one renderable glyph
type Handle struct {
	// Name is the trigger text the glyph renders
	Name string
	// Path is the image the asset loader resolved
	Path string
	// ZeroWidth marks the companion variant drawn over the previous glyph
	ZeroWidth bool
	// Resize records whether the loader scaled the image down
	Resize bool
}

func (h Handle) key() string {
	if h.ZeroWidth {
		return h.Name + "\x00zw"
	}
	return h.Name
}

// Registry allocates marker ids. Ids are dense, start at 0 and stay
// stable for a given (Name, ZeroWidth) across re-registration, so a
// reload that keeps a glyph keeps its id.
type Registry struct {
	mu      sync.RWMutex
	handles []Handle
	ids     map[string]int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]int)}
}

// Register stores h and returns its id. Registering an existing
// (Name, ZeroWidth) pair replaces the handle under the same id.
func (r *Registry) Register(h Handle) (int, error) {
	if h.Name == "" {
		return 0, errors.New(errors.ErrInvalidInput, "glyph name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[h.key()]; ok {
		r.handles[id] = h
		return id, nil
	}

	id := len(r.handles)
	r.handles = append(r.handles, h)
	r.ids[h.key()] = id
	return id, nil
}

// Lookup returns the handle for id
func (r *Registry) Lookup(id int) (Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 0 || id >= len(r.handles) {
		return Handle{}, errors.Newf(errors.ErrGlyphNotFound, "no glyph with id %d", id).
			WithDetail("id", id)
	}
	return r.handles[id], nil
}

// Len returns the number of registered glyphs
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Reset forgets every glyph; ids restart at 0
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles = nil
	r.ids = make(map[string]int)
}
