package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGetDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(dir)

	require.NoError(t, s.Save("jobs/42/out/a_mobile.webp", strings.NewReader("payload")))
	assert.True(t, s.Exists("jobs/42/out/a_mobile.webp"))

	data, err := s.ReadAll("jobs/42/out/a_mobile.webp")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	// перезапись
	require.NoError(t, s.Save("jobs/42/out/a_mobile.webp", strings.NewReader("v2")))
	data, err = s.ReadAll("jobs/42/out/a_mobile.webp")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "jobs/42/out"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, s.Delete("jobs/42"))
	assert.False(t, s.Exists("jobs/42/out/a_mobile.webp"))

	err = s.Delete("jobs/42")
	assert.True(t, os.IsNotExist(err))
}

func TestPathsStayInsideBase(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(filepath.Join(dir, "base"))

	require.NoError(t, s.Save("../../escape.txt", strings.NewReader("x")))
	assert.FileExists(t, filepath.Join(dir, "base", "escape.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))

	err := s.Delete("")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	assert.False(t, s.Exists("/"))
}
