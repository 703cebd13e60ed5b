package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/glyphs/pkg/paths"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // afero MemMapFs under /cfg and /state
	EnvIsolated                  // real filesystem in temp directories
)

// Environment is a config dir and a state dir with paths pointing at them
type Environment struct {
	Type      EnvType
	FS        afero.Fs
	Paths     paths.Paths
	ConfigDir string
	StateDir  string

	t *testing.T
}

// NewEnvironment points GLYPHS_CONFIG_DIR and GLYPHS_STATE_DIR at fresh
// directories for the duration of the test
func NewEnvironment(t *testing.T, envType EnvType) *Environment {
	t.Helper()
	env := &Environment{Type: envType, t: t}

	switch envType {
	case EnvIsolated:
		env.FS = afero.NewOsFs()
		env.ConfigDir = t.TempDir()
		env.StateDir = t.TempDir()
	default:
		env.FS = afero.NewMemMapFs()
		env.ConfigDir = "/cfg"
		env.StateDir = "/state"
	}

	t.Setenv(paths.EnvConfigDir, env.ConfigDir)
	t.Setenv(paths.EnvStateDir, env.StateDir)

	p, err := paths.New()
	require.NoError(t, err)
	env.Paths = p
	return env
}

// WriteFile writes content to a path relative to the config dir
func (e *Environment) WriteFile(rel, content string) string {
	e.t.Helper()
	path := filepath.Join(e.ConfigDir, rel)
	require.NoError(e.t, e.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, afero.WriteFile(e.FS, path, []byte(content), 0644))
	return path
}

// WriteManifest writes manifest.yaml plus a placeholder file for every
// asset it names
func (e *Environment) WriteManifest(manifest string, assets ...string) string {
	e.t.Helper()
	for _, asset := range assets {
		e.WriteFile(asset, "asset:"+asset)
	}
	return e.WriteFile(paths.ManifestFileName, manifest)
}

// ReadState returns a file from the state dir, or "" when missing
func (e *Environment) ReadState(rel string) string {
	e.t.Helper()
	raw, err := afero.ReadFile(e.FS, filepath.Join(e.StateDir, rel))
	if err != nil {
		return ""
	}
	return string(raw)
}
