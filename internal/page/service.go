package page

import (
	"context"
	"log/slog"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/wikistore/internal/errors"
	"git.home.luguber.info/inful/wikistore/internal/git"
	"git.home.luguber.info/inful/wikistore/internal/logfields"
	"git.home.luguber.info/inful/wikistore/internal/markdown"
	"git.home.luguber.info/inful/wikistore/internal/metrics"
	"git.home.luguber.info/inful/wikistore/internal/notify"
	"git.home.luguber.info/inful/wikistore/internal/pagepath"
	"git.home.luguber.info/inful/wikistore/internal/recordstore"
	"git.home.luguber.info/inful/wikistore/internal/storage"
)

// excerptLength caps the plain-text excerpt stored on the record.
const excerptLength = 280

// Service orchestrates the save pipeline. Every save is a single synchronous
// transaction from the caller's perspective: normalize, render, persist
// record, write file, commit, publish. No step is retried; a failure
// surfaces as a SaveError naming the stage that broke.
//
// The store is single-writer per page: two callers racing on the same page
// get last-write-wins with no conflict detection. Saves of different pages
// touch disjoint paths and repositories and may proceed in parallel.
type Service struct {
	content *storage.ContentStore
	records recordstore.Store
	metrics metrics.Recorder
	events  notify.Publisher

	// authorEmailDomain turns a username into a commit author email.
	authorEmailDomain string
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Metrics           metrics.Recorder
	Events            notify.Publisher
	AuthorEmailDomain string
}

// NewService wires a Service. Metrics and events default to no-ops.
func NewService(content *storage.ContentStore, records recordstore.Store, opts Options) *Service {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	if opts.Events == nil {
		opts.Events = notify.NoopPublisher{}
	}
	if opts.AuthorEmailDomain == "" {
		opts.AuthorEmailDomain = "wikinotes.local"
	}
	return &Service{
		content:           content,
		records:           records,
		metrics:           opts.Metrics,
		events:            opts.Events,
		authorEmailDomain: opts.AuthorEmailDomain,
	}
}

// Save runs the full-document save pipeline and returns the new commit hash.
//
// Record and file are both written before the commit is attempted, so the
// commit snapshots exactly the new content, never a mix of old file and new
// metadata. If the commit itself fails, the working tree is left modified but
// uncommitted; that window is surfaced to the caller (and watched by the
// reconciler), never silently repaired.
func (s *Service) Save(ctx context.Context, p *Page, content, message, author string) (string, error) {
	commit, err := s.save(ctx, p, content, message, author)
	if err != nil {
		s.metrics.IncSaveOutcome(metrics.ResultFailure)
		return "", err
	}
	s.metrics.IncSaveOutcome(metrics.ResultSuccess)
	return commit, nil
}

func (s *Service) save(ctx context.Context, p *Page, content, message, author string) (string, error) {
	saveStart := time.Now()

	rel, err := pagepath.ContentFile(p.Identity)
	if err != nil {
		return "", errors.SaveFailed("resolve", err)
	}

	normalized := storage.EnsureTerminated(content)

	renderStart := time.Now()
	rendered, err := markdown.Render(normalized)
	if err != nil {
		return "", errors.SaveFailed("render", err)
	}
	s.metrics.IncRender()
	s.metrics.ObserveSaveDuration("render", time.Since(renderStart))

	p.Rendered = rendered
	p.Excerpt = markdown.Excerpt(rendered, excerptLength)
	p.Fingerprint = ContentFingerprint(normalized)

	if err := s.records.UpsertPage(ctx, p.toRecord()); err != nil {
		return "", errors.SaveFailed("record", err)
	}

	writeStart := time.Now()
	if err := s.content.Save(rel, normalized); err != nil {
		return "", errors.SaveFailed("write", err)
	}
	s.metrics.ObserveSaveDuration("write", time.Since(writeStart))

	repo, err := git.OpenOrInit(s.content.Abs(pagepath.RepoRoot(p.Identity)))
	if err != nil {
		return "", errors.SaveFailed("repository", err)
	}

	commitStart := time.Now()
	commit, err := repo.Commit(message, author, author+"@"+s.authorEmailDomain)
	if err != nil {
		// File written, commit missing: the known inconsistency window.
		slog.Warn("Save left uncommitted working tree",
			logfields.Stage("commit"),
			logfields.RepoRoot(repo.Root()),
			logfields.Slug(p.Slug),
			logfields.Error(err))
		return "", errors.SaveFailed("commit", err)
	}
	s.metrics.ObserveCommitDuration(time.Since(commitStart))

	s.publishSaved(ctx, p, commit, author)

	slog.Info("Page saved",
		logfields.Course(p.Course()),
		logfields.PageType(string(p.Type)),
		logfields.Slug(p.Slug),
		logfields.Commit(commit),
		logfields.Author(author),
		logfields.DurationMS(float64(time.Since(saveStart).Milliseconds())))
	return commit, nil
}

// SaveSection replaces the line range [start, end) of the current body with
// content, then runs the full save pipeline on the reassembled document.
//
// A range is only honored when end > 0 and it fits the current document;
// otherwise the whole document is replaced by content verbatim. That fallback
// reproduces the store's historical behavior and is kept as a named, tested
// code path; a strict range error may be the better long-term contract.
func (s *Service) SaveSection(ctx context.Context, p *Page, content, message, author string, start, end int) (string, error) {
	if end > 0 {
		current, err := s.LoadContent(p)
		if err != nil {
			s.metrics.IncSaveOutcome(metrics.ResultFailure)
			return "", errors.SaveFailed("load", err)
		}
		lines := markdown.SplitLines(current)
		if spliced, ok := spliceSection(lines, markdown.SplitLines(content), start, end); ok {
			content = spliced
		} else {
			slog.Warn("Section range invalid, replacing whole document",
				logfields.Slug(p.Slug),
				slog.Int("start", start),
				slog.Int("end", end),
				slog.Int("lines", len(lines)))
		}
	}
	return s.Save(ctx, p, content, message, author)
}

// spliceSection replaces lines[start:end] with replacement and reports
// whether the range was usable. Ranges that do not fit the document leave the
// caller on the replace-whole-document fallback.
func spliceSection(lines, replacement []string, start, end int) (string, bool) {
	if start < 0 || start > end || end > len(lines) {
		return "", false
	}
	spliced := make([]string, 0, len(lines)-(end-start)+len(replacement))
	spliced = append(spliced, lines[:start]...)
	spliced = append(spliced, replacement...)
	spliced = append(spliced, lines[end:]...)
	return markdown.JoinLines(spliced), true
}

// Edit copies the type's editable fields from data into the record and
// persists the record. Metadata only: the body file and version log are not
// touched.
func (s *Service) Edit(ctx context.Context, p *Page, data map[string]string) error {
	if err := p.ApplyEdit(data); err != nil {
		return err
	}
	if err := s.records.UpsertPage(ctx, p.toRecord()); err != nil {
		return err
	}
	slog.Debug("Page record edited",
		logfields.Department(p.Department),
		logfields.Slug(p.Slug))
	return nil
}

// LoadContent reads the page's full raw body.
func (s *Service) LoadContent(p *Page) (string, error) {
	rel, err := pagepath.ContentFile(p.Identity)
	if err != nil {
		return "", err
	}
	return s.content.Load(rel)
}

// LoadSectionContent returns the body of the section matching anchor along
// with its half-open line range, for handing back to SaveSection.
func (s *Service) LoadSectionContent(p *Page, anchor string) (section string, start, end int, err error) {
	content, err := s.LoadContent(p)
	if err != nil {
		return "", 0, 0, err
	}
	lines := markdown.SplitLines(content)
	start, end, err = markdown.LocateSection(lines, anchor)
	if err != nil {
		return "", 0, 0, err
	}
	slog.Debug("Located section",
		logfields.Slug(p.Slug),
		logfields.Anchor(anchor),
		slog.Int("start", start),
		slog.Int("end", end))
	return markdown.JoinLines(lines[start:end]), start, end, nil
}

// LatestCommitHash returns the head commit of the page's course repository.
func (s *Service) LatestCommitHash(p *Page) (string, error) {
	repo, err := git.Open(s.content.Abs(pagepath.RepoRoot(p.Identity)))
	if err != nil {
		return "", err
	}
	return repo.LatestCommitHash()
}

// History returns up to limit head-first commits of the page's course repository.
func (s *Service) History(p *Page, limit int) ([]git.CommitInfo, error) {
	repo, err := git.Open(s.content.Abs(pagepath.RepoRoot(p.Identity)))
	if err != nil {
		return nil, err
	}
	return repo.CommitLog(limit)
}

// Filepath returns the absolute path of the page's raw body file.
func (s *Service) Filepath(p *Page) (string, error) {
	rel, err := pagepath.ContentFile(p.Identity)
	if err != nil {
		return "", err
	}
	return s.content.Abs(rel), nil
}

// CacheValid reports whether the cached rendered body still matches raw.
// The cache is valid iff no body write has happened since the last render,
// which the fingerprint captures exactly.
func (s *Service) CacheValid(p *Page, raw string) bool {
	return p.Fingerprint != "" && p.Fingerprint == ContentFingerprint(storage.EnsureTerminated(raw))
}

// SaveExternal persists an external page record. No file, no commit.
func (s *Service) SaveExternal(ctx context.Context, e *ExternalPage) error {
	return s.records.UpsertExternal(ctx, &recordstore.ExternalRecord{
		Department:   e.Department,
		CourseNumber: e.CourseNumber,
		Type:         e.Type,
		Link:         e.Link,
		Title:        e.Title,
		Description:  e.Description,
		Maintainer:   e.Maintainer,
	})
}

// ContentFingerprint computes the staleness fingerprint of a raw body.
// Bodies carry no frontmatter, so only the content part is hashed.
func ContentFingerprint(normalized string) string {
	return mdfp.CalculateFingerprintFromParts("", normalized)
}

func (s *Service) publishSaved(ctx context.Context, p *Page, commit, author string) {
	ev := notify.PageSaved{
		Department:   p.Department,
		CourseNumber: p.CourseNumber,
		Term:         p.Term,
		Year:         p.Year,
		PageType:     string(p.Type),
		Slug:         p.Slug,
		Commit:       commit,
		Author:       author,
	}
	if err := s.events.PublishPageSaved(ctx, ev); err != nil {
		slog.Warn("Failed to publish page-saved event",
			logfields.Slug(p.Slug),
			logfields.Error(err))
	}
}
