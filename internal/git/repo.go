package git

import (
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/wikistore/internal/errors"
	"git.home.luguber.info/inful/wikistore/internal/logfields"
)

// Repo is a handle to one course repository.
type Repo struct {
	root string
	repo *git.Repository
}

// Open opens the repository rooted at root. The root must already be a
// repository; use OpenOrInit when a fresh course may not have one yet.
func Open(root string) (*Repo, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil, errors.NoHistory(root).WithCause(err)
		}
		return nil, errors.Wrap(err, errors.CategoryGit, errors.CodeInternal, "open repository failed").
			WithContext("root", root)
	}
	return &Repo{root: root, repo: repo}, nil
}

// OpenOrInit opens the repository at root, initializing a fresh one on first
// use of a course.
func OpenOrInit(root string) (*Repo, error) {
	repo, err := git.PlainOpen(root)
	if err == git.ErrRepositoryNotExists {
		slog.Debug("Initializing course repository", logfields.RepoRoot(root))
		repo, err = git.PlainInit(root, false)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryGit, errors.CodeInternal, "open repository failed").
			WithContext("root", root)
	}
	return &Repo{root: root, repo: repo}, nil
}

// Root returns the repository root directory.
func (r *Repo) Root() string { return r.root }

// Commit stages every change in the working tree and records exactly one
// commit. Empty commits are allowed so that sequential saves of identical
// content still yield distinct, retrievable commit identifiers. The commit is
// never retried; a failure is surfaced as a failed save.
func (r *Repo) Commit(message, author, email string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", errors.CommitFailed(r.root, err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", errors.CommitFailed(r.root, err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  author,
			Email: email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", errors.CommitFailed(r.root, err)
	}
	slog.Debug("Committed working tree",
		logfields.RepoRoot(r.root),
		logfields.Commit(hash.String()),
		logfields.Author(author))
	return hash.String(), nil
}

// LatestCommitHash returns the SHA of the head commit, or NoHistory when the
// repository has never been committed to.
func (r *Repo) LatestCommitHash() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return "", errors.NoHistory(r.root)
		}
		return "", errors.Wrap(err, errors.CategoryGit, errors.CodeInternal, "resolve head failed").
			WithContext("root", r.root)
	}
	return head.Hash().String(), nil
}

// IsClean reports whether the working tree matches the head commit. A dirty
// tree after a save returned means the write-then-commit window was hit; the
// reconciler watches for exactly that.
func (r *Repo) IsClean() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryGit, errors.CodeInternal, "get worktree failed").
			WithContext("root", r.root)
	}
	status, err := wt.Status()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryGit, errors.CodeInternal, "read status failed").
			WithContext("root", r.root)
	}
	return status.IsClean(), nil
}

// CommitLog returns up to limit head-first commit summaries. limit <= 0 means
// the full history.
func (r *Repo) CommitLog(limit int) ([]CommitInfo, error) {
	head, err := r.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return nil, errors.NoHistory(r.root)
		}
		return nil, errors.Wrap(err, errors.CategoryGit, errors.CodeInternal, "resolve head failed").
			WithContext("root", r.root)
	}
	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryGit, errors.CodeInternal, "read log failed").
			WithContext("root", r.root)
	}
	defer iter.Close()

	var out []CommitInfo
	err = iter.ForEach(func(c *object.Commit) error {
		out = append(out, CommitInfo{
			Hash:    c.Hash.String(),
			Message: c.Message,
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
		if limit > 0 && len(out) >= limit {
			return errStopIteration
		}
		return nil
	})
	if err != nil && err != errStopIteration {
		return nil, errors.Wrap(err, errors.CategoryGit, errors.CodeInternal, "walk log failed").
			WithContext("root", r.root)
	}
	return out, nil
}

// CommitInfo is one entry of a course's version log.
type CommitInfo struct {
	Hash    string
	Message string
	Author  string
	When    time.Time
}

var errStopIteration = errors.New(errors.CategoryInternal, errors.CodeInternal, "stop iteration")
