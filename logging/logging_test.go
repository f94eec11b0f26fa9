package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_DisabledByDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closeFn, err := New(Options{Dir: dir})
	require.NoError(t, err)
	defer closeFn()

	assert.False(t, log.Core().Enabled(zap.ErrorLevel))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "no log dir without debug")
}

func TestNew_EnabledWithDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closeFn, err := New(Options{Debug: true, Dir: dir})
	require.NoError(t, err)

	log.Info("test log message", zap.Int("frame", 7))
	closeFn()

	data, err := os.ReadFile(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"test log message"`)
	assert.Contains(t, string(data), `"frame":7`)
}

func TestNew_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	require.NoError(t, os.WriteFile(path, make([]byte, MaxFileSize+1), 0o644))

	_, closeFn, err := New(Options{Debug: true, Dir: dir})
	require.NoError(t, err)
	defer closeFn()

	old, err := os.Stat(path + ".old")
	require.NoError(t, err, "oversized log is moved aside")
	assert.Equal(t, int64(MaxFileSize+1), old.Size())

	fresh, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, fresh.Size(), int64(MaxFileSize))
}

func TestNew_NoRotationUnderLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	_, closeFn, err := New(Options{Debug: true, Dir: dir, File: "small.log"})
	require.NoError(t, err)
	closeFn()

	_, err = os.Stat(path + ".old")
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "existing")
}
