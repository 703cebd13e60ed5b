package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/glyphs/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for glyphs
	EnvConfigDir = "GLYPHS_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for glyphs
	EnvStateDir = "GLYPHS_STATE_DIR"
)

// Default directories and files
const (
	// AppDirName is the directory name used under every XDG base dir
	AppDirName = "glyphs"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// ManifestFileName is the default asset manifest
	ManifestFileName = "manifest.yaml"

	// StateFileName backs the toml key-value store
	StateFileName = "state.toml"

	// DatabaseFileName backs the sqlite key-value store
	DatabaseFileName = "state.db"

	// LogFileName is the name of the log file
	LogFileName = "glyphs.log"
)

// Paths resolves every location glyphs uses
type Paths interface {
	ConfigDir() string
	StateDir() string
	ConfigFile() string
	ManifestFile() string
	StateFile() string
	DatabaseFile() string
	LogFile() string
	// Resolve makes a configured path absolute, expanding ~ and
	// anchoring relative paths at the config dir.
	Resolve(path string) string
}

type paths struct {
	configDir string
	stateDir  string
}

// New creates a Paths instance honoring GLYPHS_* and XDG_* overrides
func New() (Paths, error) {
	p := &paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = expandHome(dir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.stateDir = filepath.Join(stateHome, AppDirName)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	for _, dir := range []*string{&p.configDir, &p.stateDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to get absolute path for %s", *dir)
		}
		*dir = abs
	}

	return p, nil
}

func (p *paths) ConfigDir() string    { return p.configDir }
func (p *paths) StateDir() string     { return p.stateDir }
func (p *paths) ConfigFile() string   { return filepath.Join(p.configDir, ConfigFileName) }
func (p *paths) ManifestFile() string { return filepath.Join(p.configDir, ManifestFileName) }
func (p *paths) StateFile() string    { return filepath.Join(p.stateDir, StateFileName) }
func (p *paths) DatabaseFile() string { return filepath.Join(p.stateDir, DatabaseFileName) }
func (p *paths) LogFile() string      { return filepath.Join(p.stateDir, LogFileName) }

func (p *paths) Resolve(path string) string {
	if path == "" {
		return ""
	}
	path = expandHome(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.configDir, path)
}

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
