package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_ReadMissingKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(context.Background(), KeyCart)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestFileStore_WriteRead(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, KeyCart, []byte(`[{"id":"p1"}]`)))

	got, err := s.Read(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"p1"}]`, string(got))
}

func TestFileStore_OverwriteReplacesRecord(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, KeyAuth, []byte(`{"v":1}`)))
	require.NoError(t, s.Write(ctx, KeyAuth, []byte(`{"v":2}`)))

	got, err := s.Read(ctx, KeyAuth)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got))
}

func TestFileStore_KeysAreIndependent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, KeyCart, []byte(`[]`)))

	_, err = s.Read(ctx, KeyAuth)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), KeyCart, []byte(`[]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyCart+".json", entries[0].Name())
}

func TestNewFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
