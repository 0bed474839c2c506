package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_LazyCreation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "messages.txt")
	stats := &Stats{}
	file := NewFile(path, stats)

	require.NoError(t, file.WriteBlock(nil))
	require.NoError(t, file.WriteBlock([]byte{}))
	assert.True(t, file.Empty())
	assert.NoFileExists(t, path)
	assert.Equal(t, 0, stats.FilesCount())

	require.NoError(t, file.WriteBlock([]byte("first\n")))
	require.NoError(t, file.WriteBlock([]byte("second\n")))
	assert.False(t, file.Empty())
	assert.Equal(t, int64(13), file.Size())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
	assert.Equal(t, 1, stats.FilesCount())
	assert.Equal(t, int64(13), stats.BytesCount())
}

func TestFile_TruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overview.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0644))

	file := NewFile(path, nil)
	require.NoError(t, file.WriteBlock([]byte("fresh")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(content))
}

func TestFile_WriteErrorIsTyped(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	file := NewFile(filepath.Join(blocker, "messages.txt"), nil)
	err := file.WriteBlock([]byte("data"))
	require.Error(t, err)

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "mkdir", fileErr.Op)
	assert.NotNil(t, errors.Unwrap(err))
	assert.True(t, file.Empty())
}

func TestNewSettings(t *testing.T) {
	settings, err := NewSettings(t.TempDir(), "https://t.me/")
	require.NoError(t, err)
	assert.Equal(t, "/", settings.Path[len(settings.Path)-1:])
	assert.Equal(t, settings.Path+"chats.txt", settings.PathWithRelativePath("chats.txt"))

	_, err = NewSettings("", "")
	assert.Error(t, err)
}
