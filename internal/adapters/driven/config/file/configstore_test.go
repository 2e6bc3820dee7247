package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("notion.parent_page_id", "abc123"))

	val, ok := store.Get("notion.parent_page_id")
	assert.True(t, ok)
	assert.Equal(t, "abc123", val)

	_, ok = store.Get("nonexistent")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))

	assert.Equal(t, "hello", store.GetString("s"))
	assert.Equal(t, 42, store.GetInt("i"))

	// Missing keys and type mismatches fall back to zero values.
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.Equal(t, "", store.GetString("i"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("notion.token", "secret"))
	require.NoError(t, store1.Set("import.concurrency", 3))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "secret", store2.GetString("notion.token"))
	assert.Equal(t, 3, store2.GetInt("import.concurrency"))
}

func TestConfigStore_NestedTablesFlattenToDotKeys(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("[notion]\ntoken = \"secret\"\nparent_page_id = \"root\"\n\n[watch]\ndirs = [\"/notes\", \"/archive\"]\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "secret", store.GetString("notion.token"))
	assert.Equal(t, "root", store.GetString("notion.parent_page_id"))
	assert.Equal(t, []string{"/notes", "/archive"}, store.GetStringSlice("watch.dirs"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("watch.dirs", []string{"/a", "/b"}))
	assert.Equal(t, []string{"/a", "/b"}, store.GetStringSlice("watch.dirs"))

	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, "config.toml"), []byte("not valid toml {{{["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_MissingFileStartsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("any")
	assert.False(t, ok)
}
