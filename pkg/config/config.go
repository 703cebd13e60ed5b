package config

import (
	"regexp"
	"slices"

	"github.com/arthur-debert/glyphs/pkg/errors"
)

// Keys persisted in the key-value store, all under Session.Group
const (
	KeyDisabledTriggers         = "disabledTriggers"
	KeyResizingDisabledTriggers = "resizingDisabledTriggers"
	KeyDisabledFolders          = "disabledFolders"
	KeyResizingDisabledFolders  = "resizingDisabledFolders"
	KeyMessageLimit             = "messageLimit"
)

// Filter modes
const (
	FilterOff     = "off"
	FilterLenient = "lenient"
	FilterStrict  = "strict"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// Config is the complete glyphs configuration
type Config struct {
	Session Session `koanf:"session"`
	Filter  Filter  `koanf:"filter"`
	Store   Store   `koanf:"store"`
	Assets  Assets  `koanf:"assets"`
}

// Session holds settings scoped to one running session
type Session struct {
	Group              string   `koanf:"group"`
	Placeholder        string   `koanf:"placeholder"`
	MessageLimit       int      `koanf:"message_limit"`
	EligibleCategories []string `koanf:"eligible_categories"`
}

// Filter controls suppression of incoming messages
type Filter struct {
	Mode        string `koanf:"mode"`
	SkipPattern string `koanf:"skip_pattern"`
}

// Store selects the persistent key-value backend
type Store struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// Assets locates the trigger manifest
type Assets struct {
	Manifest string `koanf:"manifest"`
	Watch    bool   `koanf:"watch"`
}

// Validate checks values koanf cannot type-check
func (c *Config) Validate() error {
	if c.Session.Group == "" {
		return errors.New(errors.ErrConfigValid, "session.group cannot be empty")
	}
	if c.Session.MessageLimit <= 0 {
		return errors.Newf(errors.ErrConfigValid, "session.message_limit must be positive, got %d", c.Session.MessageLimit).
			WithDetail("key", "session.message_limit")
	}
	if !slices.Contains([]string{FilterOff, FilterLenient, FilterStrict}, c.Filter.Mode) {
		return errors.Newf(errors.ErrConfigValid, "unknown filter mode %q", c.Filter.Mode).
			WithDetail("key", "filter.mode")
	}
	if _, err := regexp.Compile(c.Filter.SkipPattern); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "filter.skip_pattern is not a valid pattern").
			WithDetail("key", "filter.skip_pattern")
	}
	if !slices.Contains([]string{BackendMemory, BackendTOML, BackendSQLite}, c.Store.Backend) {
		return errors.Newf(errors.ErrConfigValid, "unknown store backend %q", c.Store.Backend).
			WithDetail("key", "store.backend")
	}
	return nil
}
