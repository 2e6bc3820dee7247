package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/links"
)

func writeNotebook(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0600))
	return path
}

func TestFetch_BuffersSmallFiles(t *testing.T) {
	path := writeNotebook(t, t.TempDir(), "travel.one", []byte("notebook bytes"))

	f := NewFetcher(0)
	outcome, err := f.Fetch(context.Background(), links.Resolve(path))

	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)
	assert.Equal(t, "travel", outcome.DisplayName)
	assert.Equal(t, []byte("notebook bytes"), outcome.Content)
	assert.Empty(t, outcome.LocalPath)
	assert.Equal(t, domain.OriginLocalPath, outcome.Origin)
}

func TestFetch_LargeFileReturnsPathReference(t *testing.T) {
	path := writeNotebook(t, t.TempDir(), "big.one", []byte("0123456789"))

	f := NewFetcher(4) // smaller than the file
	outcome, err := f.Fetch(context.Background(), links.Resolve(path))

	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)
	assert.Empty(t, outcome.Content)
	assert.Equal(t, path, outcome.LocalPath)
}

func TestFetch_MissingFile(t *testing.T) {
	f := NewFetcher(0)

	_, err := f.Fetch(context.Background(), links.Resolve("/does/not/exist.one"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat")
}

func TestFetch_DirectoryRejected(t *testing.T) {
	dir := t.TempDir()

	f := NewFetcher(0)
	_, err := f.Fetch(context.Background(), links.Resolve(dir+"/"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestFetcher_Kinds(t *testing.T) {
	f := NewFetcher(0)
	assert.Equal(t, []domain.LinkKind{domain.LinkLocalPath}, f.Kinds())
	assert.NoError(t, f.Validate(context.Background()))
}
