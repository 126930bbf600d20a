package sink

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/ipptransform/internal/diag"
)

func TestOpenEmptyURIReturnsStdoutSink(t *testing.T) {
	s, err := Open("", diag.New(io.Discard, diag.LevelError, false))
	require.NoError(t, err)
	fs, ok := s.(*fileSink)
	require.True(t, ok)
	assert.Same(t, os.Stdout, fs.w)
	assert.True(t, fs.noClose)
}

func TestOpenDashURIReturnsStdoutSink(t *testing.T) {
	s, err := Open("-", diag.New(io.Discard, diag.LevelError, false))
	require.NoError(t, err)
	fs := s.(*fileSink)
	assert.True(t, fs.noClose)
}

func TestStdoutSinkCloseDoesNotCloseStdout(t *testing.T) {
	s := &fileSink{w: os.Stdout, noClose: true}
	assert.NoError(t, s.Close())
	_, err := os.Stdout.Stat()
	assert.NoError(t, err, "stdout should still be usable after Close")
}

func TestOpenFileURIWritesToPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	s, err := Open("file://"+path, diag.New(io.Discard, diag.LevelError, false))
	require.NoError(t, err)
	_, err = s.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestOpenBarePathTreatedAsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bare.bin")

	s, err := Open(path, diag.New(io.Discard, diag.LevelError, false))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenFileSinkClosesUnderlyingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "closed.bin")
	f, err := os.Create(path)
	require.NoError(t, err)

	fs := &fileSink{w: f}
	require.NoError(t, fs.Close())
	_, err = f.Write([]byte("x"))
	assert.Error(t, err, "write after Close should fail once the file is actually closed")
}

func TestFileSinkWriteWrapsUnderlyingError(t *testing.T) {
	fs := &fileSink{w: failingWriteCloser{}}
	_, err := fs.Write([]byte("x"))
	require.Error(t, err)
}

type failingWriteCloser struct{}

func (failingWriteCloser) Write([]byte) (int, error) { return 0, bytes.ErrTooLarge }
func (failingWriteCloser) Close() error              { return nil }
