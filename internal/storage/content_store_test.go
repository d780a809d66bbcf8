package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wikistore/internal/errors"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := NewContentStore(t.TempDir())

	require.NoError(t, store.Save("math/141/notes/content.md", "# Intro\r\nhello\r\n"))
	got, err := store.Load("math/141/notes/content.md")
	require.NoError(t, err)
	require.Equal(t, "# Intro\r\nhello\r\n", got)
}

func TestSaveAppendsTerminator(t *testing.T) {
	store := NewContentStore(t.TempDir())

	require.NoError(t, store.Save("a/content.md", "no terminator"))
	got, err := store.Load("a/content.md")
	require.NoError(t, err)
	require.Equal(t, "no terminator\r\n", got)
}

func TestSaveIsTerminatorIdempotent(t *testing.T) {
	store := NewContentStore(t.TempDir())

	require.NoError(t, store.Save("a/content.md", "body\r\n"))
	require.NoError(t, store.Save("a/content.md", "body\r\n"))
	got, err := store.Load("a/content.md")
	require.NoError(t, err)
	require.Equal(t, "body\r\n", got)
}

func TestLoadMissingFile(t *testing.T) {
	store := NewContentStore(t.TempDir())

	_, err := store.Load("nope/content.md")
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestLoadInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	store := NewContentStore(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad", "content.md"), []byte{0xff, 0xfe, 0x00}, 0600))

	_, err := store.Load("bad/content.md")
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.CodeDecode))
}

func TestLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	store := NewContentStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.md"), []byte("\xef\xbb\xbf# Intro\r\n"), 0600))

	got, err := store.Load("content.md")
	require.NoError(t, err)
	require.Equal(t, "# Intro\r\n", got)
}

func TestExists(t *testing.T) {
	store := NewContentStore(t.TempDir())
	require.False(t, store.Exists("x/content.md"))
	require.NoError(t, store.Save("x/content.md", "hi\r\n"))
	require.True(t, store.Exists("x/content.md"))
}

func TestEnsureTerminated(t *testing.T) {
	require.Equal(t, "a\r\n", EnsureTerminated("a"))
	require.Equal(t, "a\r\n", EnsureTerminated("a\r\n"))
	// A bare LF is not the canonical terminator; one is appended after it.
	require.Equal(t, "a\n\r\n", EnsureTerminated("a\n"))
}
