package recordstore

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/wikistore/internal/errors"
	"git.home.luguber.info/inful/wikistore/internal/pagepath"
	"git.home.luguber.info/inful/wikistore/internal/pagetype"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based record store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.RecordFailed("open", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.RecordFailed("initialize schema", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		department TEXT NOT NULL,
		course_number INTEGER NOT NULL,
		term TEXT NOT NULL,
		year INTEGER NOT NULL,
		page_type TEXT NOT NULL,
		slug TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL DEFAULT '',
		maintainer TEXT NOT NULL DEFAULT '',
		hidden INTEGER NOT NULL DEFAULT 0,
		rendered TEXT NOT NULL DEFAULT '',
		excerpt TEXT NOT NULL DEFAULT '',
		fingerprint TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL,
		UNIQUE(department, course_number, term, year, slug)
	);
	CREATE INDEX IF NOT EXISTS idx_pages_course ON pages(department, course_number);
	CREATE TABLE IF NOT EXISTS external_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		department TEXT NOT NULL,
		course_number INTEGER NOT NULL,
		page_type TEXT NOT NULL,
		link TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		maintainer TEXT NOT NULL DEFAULT '',
		UNIQUE(department, course_number, link)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertPage inserts or replaces the record identified by its identity. The
// (department, course_number, term, year, slug) uniqueness invariant is
// enforced by the schema.
func (s *SQLiteStore) UpsertPage(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (department, course_number, term, year, page_type, slug,
			title, subject, link, maintainer, hidden, rendered, excerpt, fingerprint, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(department, course_number, term, year, slug) DO UPDATE SET
			page_type = excluded.page_type,
			title = excluded.title,
			subject = excluded.subject,
			link = excluded.link,
			maintainer = excluded.maintainer,
			hidden = excluded.hidden,
			rendered = excluded.rendered,
			excerpt = excluded.excerpt,
			fingerprint = excluded.fingerprint,
			updated_at = excluded.updated_at`,
		strings.ToLower(rec.Identity.Department), rec.Identity.CourseNumber,
		strings.ToLower(rec.Identity.Term), rec.Identity.Year,
		string(rec.Identity.Type), rec.Identity.Slug,
		rec.Title, rec.Subject, rec.Link, rec.Maintainer, boolToInt(rec.Hidden),
		rec.Rendered, rec.Excerpt, rec.Fingerprint, updated.Unix())
	if err != nil {
		return errors.RecordFailed("upsert page", err)
	}
	return nil
}

// GetPage retrieves a record by identity.
func (s *SQLiteStore) GetPage(ctx context.Context, id pagepath.Identity) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT page_type, slug, title, subject, link, maintainer, hidden,
			rendered, excerpt, fingerprint, updated_at
		FROM pages
		WHERE department = ? AND course_number = ? AND term = ? AND year = ? AND slug = ?`,
		strings.ToLower(id.Department), id.CourseNumber, strings.ToLower(id.Term), id.Year, id.Slug)

	rec := &Record{Identity: id}
	var hidden int
	var pageType string
	var updated int64
	err := row.Scan(&pageType, &rec.Identity.Slug, &rec.Title, &rec.Subject, &rec.Link,
		&rec.Maintainer, &hidden, &rec.Rendered, &rec.Excerpt, &rec.Fingerprint, &updated)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.CategoryRecord, errors.CodeNotFound, "page record not found").
			WithContext("slug", id.Slug)
	}
	if err != nil {
		return nil, errors.RecordFailed("get page", err)
	}
	rec.Identity.Type = pagetype.Type(pageType)
	rec.Hidden = hidden != 0
	rec.UpdatedAt = time.Unix(updated, 0)
	return rec, nil
}

// ListCourse returns the records of one course ordered by slug. Hidden pages
// are omitted unless includeHidden is set, mirroring staff-only visibility.
func (s *SQLiteStore) ListCourse(ctx context.Context, department string, courseNumber int, includeHidden bool) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT term, year, page_type, slug, title, subject, link, maintainer, hidden,
			rendered, excerpt, fingerprint, updated_at
		FROM pages
		WHERE department = ? AND course_number = ?`
	if !includeHidden {
		query += ` AND hidden = 0`
	}
	query += ` ORDER BY slug`

	rows, err := s.db.QueryContext(ctx, query, strings.ToLower(department), courseNumber)
	if err != nil {
		return nil, errors.RecordFailed("list course", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec := &Record{Identity: pagepath.Identity{
			Department:   strings.ToLower(department),
			CourseNumber: courseNumber,
		}}
		var hidden int
		var pageType string
		var updated int64
		if err := rows.Scan(&rec.Identity.Term, &rec.Identity.Year, &pageType,
			&rec.Identity.Slug, &rec.Title, &rec.Subject, &rec.Link, &rec.Maintainer,
			&hidden, &rec.Rendered, &rec.Excerpt, &rec.Fingerprint, &updated); err != nil {
			return nil, errors.RecordFailed("scan page row", err)
		}
		rec.Identity.Type = pagetype.Type(pageType)
		rec.Hidden = hidden != 0
		rec.UpdatedAt = time.Unix(updated, 0)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.RecordFailed("iterate page rows", err)
	}
	return out, nil
}

// UpsertExternal inserts or replaces an external page record.
func (s *SQLiteStore) UpsertExternal(ctx context.Context, rec *ExternalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO external_pages (department, course_number, page_type, link, title, description, maintainer)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(department, course_number, link) DO UPDATE SET
			page_type = excluded.page_type,
			title = excluded.title,
			description = excluded.description,
			maintainer = excluded.maintainer`,
		strings.ToLower(rec.Department), rec.CourseNumber, string(rec.Type),
		rec.Link, rec.Title, rec.Description, rec.Maintainer)
	if err != nil {
		return errors.RecordFailed("upsert external page", err)
	}
	return nil
}

// ListExternal returns the external pages of one course.
func (s *SQLiteStore) ListExternal(ctx context.Context, department string, courseNumber int) ([]*ExternalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT page_type, link, title, description, maintainer
		FROM external_pages
		WHERE department = ? AND course_number = ?
		ORDER BY title`,
		strings.ToLower(department), courseNumber)
	if err != nil {
		return nil, errors.RecordFailed("list external pages", err)
	}
	defer rows.Close()

	var out []*ExternalRecord
	for rows.Next() {
		rec := &ExternalRecord{
			Department:   strings.ToLower(department),
			CourseNumber: courseNumber,
		}
		var pageType string
		if err := rows.Scan(&pageType, &rec.Link, &rec.Title, &rec.Description, &rec.Maintainer); err != nil {
			return nil, errors.RecordFailed("scan external page row", err)
		}
		rec.Type = pagetype.Type(pageType)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.RecordFailed("iterate external page rows", err)
	}
	return out, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
