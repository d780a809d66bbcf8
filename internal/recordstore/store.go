// Package recordstore persists page records in SQLite. The record is the
// structured half of a page: identity, ownership, visibility, and the cached
// rendered body. The raw body itself lives in the content store and is never
// written here.
package recordstore

import (
	"context"
	"time"

	"git.home.luguber.info/inful/wikistore/internal/pagepath"
	"git.home.luguber.info/inful/wikistore/internal/pagetype"
)

// Record is the persisted form of a page.
type Record struct {
	Identity pagepath.Identity

	Title      string
	Subject    string
	Link       string
	Maintainer string
	Hidden     bool

	// Rendered is the cached HTML form of the raw body. Derived, never
	// authoritative: valid iff Fingerprint matches the current raw body.
	Rendered    string
	Excerpt     string
	Fingerprint string

	UpdatedAt time.Time
}

// ExternalRecord is a page whose content lives outside the store. No
// versioning, no body file.
type ExternalRecord struct {
	Department   string
	CourseNumber int
	Type         pagetype.Type

	Link        string
	Title       string
	Description string
	Maintainer  string
}

// Store is the persistence interface for page records.
type Store interface {
	// UpsertPage inserts or replaces the record identified by its identity.
	UpsertPage(ctx context.Context, rec *Record) error

	// GetPage retrieves a record by identity. Returns a not-found record
	// error if no such page exists.
	GetPage(ctx context.Context, id pagepath.Identity) (*Record, error)

	// ListCourse returns the records of one course ordered by slug. Hidden
	// pages are omitted unless includeHidden is set (staff viewers).
	ListCourse(ctx context.Context, department string, courseNumber int, includeHidden bool) ([]*Record, error)

	// UpsertExternal inserts or replaces an external page record.
	UpsertExternal(ctx context.Context, rec *ExternalRecord) error

	// ListExternal returns the external pages of one course.
	ListExternal(ctx context.Context, department string, courseNumber int) ([]*ExternalRecord, error)

	// Close releases the underlying database.
	Close() error
}
