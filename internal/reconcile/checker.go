// Package reconcile watches for the save pipeline's known inconsistency
// window: a body file written to disk whose commit never happened. The
// invariant "no uncommitted working tree state persists after a successful
// save" is monitored here, never silently repaired.
package reconcile

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/wikistore/internal/git"
	"git.home.luguber.info/inful/wikistore/internal/logfields"
	"git.home.luguber.info/inful/wikistore/internal/metrics"
)

// Checker sweeps every course repository under the content root and reports
// the ones left with uncommitted changes.
type Checker struct {
	root    string
	metrics metrics.Recorder
}

// NewChecker creates a checker over the given content root.
func NewChecker(root string, rec metrics.Recorder) *Checker {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Checker{root: root, metrics: rec}
}

// Check walks the content root and returns the roots of dirty repositories.
// The dirty count is exported as a gauge; each dirty root is logged so an
// operator can decide whether to commit or revert by hand.
func (c *Checker) Check(ctx context.Context) ([]string, error) {
	roots, err := c.repoRoots()
	if err != nil {
		return nil, err
	}

	var dirty []string
	for _, root := range roots {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		repo, err := git.Open(root)
		if err != nil {
			slog.Warn("Reconcile could not open repository", logfields.RepoRoot(root), logfields.Error(err))
			continue
		}
		clean, err := repo.IsClean()
		if err != nil {
			slog.Warn("Reconcile could not read status", logfields.RepoRoot(root), logfields.Error(err))
			continue
		}
		if !clean {
			slog.Warn("Course repository has uncommitted changes", logfields.RepoRoot(root))
			dirty = append(dirty, root)
		}
	}

	c.metrics.SetDirtyWorktrees(len(dirty))
	return dirty, nil
}

// repoRoots finds every directory under the content root that contains a
// .git directory. Course repositories never nest, so the walk skips below a
// repository root.
func (c *Checker) repoRoots() ([]string, error) {
	var roots []string
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, statErr := os.Stat(filepath.Join(path, ".git")); statErr == nil {
			roots = append(roots, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}
