package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wikistore/internal/git"
)

func setupRepo(t *testing.T, root string, commit bool) {
	t.Helper()
	repo, err := git.OpenOrInit(root)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "content.md"), []byte("body\r\n"), 0600))
	if commit {
		_, err = repo.Commit("initial", "alice", "alice@example.invalid")
		require.NoError(t, err)
	}
}

func TestCheckFindsDirtyRepositories(t *testing.T) {
	root := t.TempDir()
	cleanRoot := filepath.Join(root, "math", "141")
	dirtyRoot := filepath.Join(root, "comp", "202")
	require.NoError(t, os.MkdirAll(cleanRoot, 0750))
	require.NoError(t, os.MkdirAll(dirtyRoot, 0750))

	setupRepo(t, cleanRoot, true)
	setupRepo(t, dirtyRoot, false) // file written, never committed

	checker := NewChecker(root, nil)
	dirty, err := checker.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{dirtyRoot}, dirty)
}

func TestCheckAllClean(t *testing.T) {
	root := t.TempDir()
	repoRoot := filepath.Join(root, "math", "141")
	require.NoError(t, os.MkdirAll(repoRoot, 0750))
	setupRepo(t, repoRoot, true)

	checker := NewChecker(root, nil)
	dirty, err := checker.Check(context.Background())
	require.NoError(t, err)
	require.Empty(t, dirty)
}

func TestCheckEmptyContentRoot(t *testing.T) {
	checker := NewChecker(t.TempDir(), nil)
	dirty, err := checker.Check(context.Background())
	require.NoError(t, err)
	require.Empty(t, dirty)
}

func TestCheckMissingContentRoot(t *testing.T) {
	checker := NewChecker(filepath.Join(t.TempDir(), "missing"), nil)
	dirty, err := checker.Check(context.Background())
	require.NoError(t, err)
	require.Empty(t, dirty)
}

func TestCheckDetectsPostCommitModification(t *testing.T) {
	root := t.TempDir()
	repoRoot := filepath.Join(root, "math", "141")
	require.NoError(t, os.MkdirAll(repoRoot, 0750))
	setupRepo(t, repoRoot, true)

	// Modify after commit: this is exactly the window the monitor exists for.
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, "content.md"), []byte("changed\r\n"), 0600))

	checker := NewChecker(root, nil)
	dirty, err := checker.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{repoRoot}, dirty)
}
