package kvstore_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/kvstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// each backend must satisfy the same contract
func backends(t *testing.T) map[string]kvstore.Store {
	t.Helper()

	file, err := kvstore.OpenFile(afero.NewMemMapFs(), "/state/state.toml")
	require.NoError(t, err)

	db, err := kvstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]kvstore.Store{
		"memory": kvstore.NewMemory(),
		"toml":   file,
		"sqlite": db,
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("glyphs", "disabledTriggers")
			require.NoError(t, err)
			assert.False(t, ok, "absent key must report absent")

			require.NoError(t, store.Set("glyphs", "disabledTriggers", "Kappa,LUL"))
			value, ok, err := store.Get("glyphs", "disabledTriggers")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "Kappa,LUL", value)

			require.NoError(t, store.Set("glyphs", "disabledTriggers", ""))
			value, ok, err = store.Get("glyphs", "disabledTriggers")
			require.NoError(t, err)
			assert.True(t, ok, "empty string is still present")
			assert.Equal(t, "", value)

			_, ok, err = store.Get("other", "disabledTriggers")
			require.NoError(t, err)
			assert.False(t, ok, "groups are isolated")
		})
	}
}

func TestFile_PersistsAcrossOpens(t *testing.T) {
	fs := afero.NewMemMapFs()

	first, err := kvstore.OpenFile(fs, "/state/state.toml")
	require.NoError(t, err)
	require.NoError(t, first.Set("glyphs", "disabledTriggers", "Kappa"))
	require.NoError(t, first.Set("glyphs", "messageLimit", "25"))

	second, err := kvstore.OpenFile(fs, "/state/state.toml")
	require.NoError(t, err)
	value, ok, err := second.Get("glyphs", "messageLimit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "25", value)

	exists, err := afero.Exists(fs, "/state/state.toml.tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temp file must be renamed away")
}

func TestFile_ToleratesHandEditedValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/state.toml", []byte("[glyphs]\nmessageLimit = 40\n"), 0644))

	store, err := kvstore.OpenFile(fs, "/state.toml")
	require.NoError(t, err)

	value, ok, err := store.Get("glyphs", "messageLimit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "40", value)
}

func TestFile_Malformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/state.toml", []byte("[glyphs\n"), 0644))

	_, err := kvstore.OpenFile(fs, "/state.toml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStoreRead))
}

func TestFile_WriteFailureKeepsCache(t *testing.T) {
	base := afero.NewMemMapFs()
	store, err := kvstore.OpenFile(afero.NewReadOnlyFs(base), "/state.toml")
	require.NoError(t, err)

	err = store.Set("glyphs", "disabledTriggers", "Kappa")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStoreWrite))

	_, ok, err := store.Get("glyphs", "disabledTriggers")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_Reload(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := kvstore.OpenFile(fs, "/state.toml")
	require.NoError(t, err)
	require.NoError(t, store.Set("glyphs", "disabledTriggers", "Kappa"))
	require.NoError(t, store.Set("glyphs", "messageLimit", "10"))

	// another process rewrites the file
	edited := "[glyphs]\ndisabledTriggers = \"Kappa,LUL\"\nmessageLimit = \"10\"\nnewKey = \"x\"\n"
	require.NoError(t, afero.WriteFile(fs, "/state.toml", []byte(edited), 0644))

	changes, err := store.Reload()
	require.NoError(t, err)
	assert.ElementsMatch(t, []kvstore.Change{
		{Group: "glyphs", Key: "disabledTriggers"},
		{Group: "glyphs", Key: "newKey"},
	}, changes)

	value, _, _ := store.Get("glyphs", "disabledTriggers")
	assert.Equal(t, "Kappa,LUL", value)
}

func TestSQLite_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	first, err := kvstore.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("glyphs", "disabledFolders", "twitch"))
	require.NoError(t, first.Close())

	second, err := kvstore.OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	value, ok, err := second.Get("glyphs", "disabledFolders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "twitch", value)
}

func TestOpen(t *testing.T) {
	store, err := kvstore.Open(kvstore.BackendMemory, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &kvstore.Memory{}, store)

	store, err = kvstore.Open(kvstore.BackendTOML, "/s.toml", afero.NewMemMapFs())
	require.NoError(t, err)
	assert.IsType(t, &kvstore.File{}, store)

	_, err = kvstore.Open("redis", "", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
