// Package page is the aggregate root of the store: the Page record plus the
// Service that orchestrates path resolution, content storage, rendering,
// record persistence, and version-log commits.
package page

import (
	"git.home.luguber.info/inful/wikistore/internal/pagepath"
	"git.home.luguber.info/inful/wikistore/internal/pagetype"
	"git.home.luguber.info/inful/wikistore/internal/recordstore"
)

// Page is one version-controlled unit of content. Identity fields locate the
// backing file and repository; the remaining fields are record state. Rendered
// is a derived cache of the raw body: it is refreshed on every save and valid
// iff Fingerprint matches the current body.
type Page struct {
	pagepath.Identity

	Title      string
	Subject    string
	Link       string
	Maintainer string
	Hidden     bool

	Rendered    string
	Excerpt     string
	Fingerprint string
}

// DisplayTitle returns the title, falling back to the subject when no title
// is set. Some page types only carry a subject.
func (p *Page) DisplayTitle() string {
	if p.Title == "" {
		return p.Subject
	}
	return p.Title
}

// CanView reports whether a viewer may see this page. Hidden pages (takedown
// requests) stay visible to staff.
func (p *Page) CanView(isStaff bool) bool {
	return !p.Hidden || isStaff
}

// Metadata returns the type-declared metadata fields that currently hold a
// non-empty value. Declared-but-empty fields are omitted.
func (p *Page) Metadata() map[string]string {
	d, err := pagetype.Lookup(p.Type)
	if err != nil {
		return nil
	}
	metadata := make(map[string]string)
	for _, f := range d.MetadataFields {
		if v := p.fieldValue(f); v != "" {
			metadata[string(f)] = v
		}
	}
	return metadata
}

// ApplyEdit copies the type's editable fields from data into the record.
// Keys outside the editable set are ignored, not errors; editable fields
// absent from data are left unchanged.
func (p *Page) ApplyEdit(data map[string]string) error {
	d, err := pagetype.Lookup(p.Type)
	if err != nil {
		return err
	}
	for _, f := range d.EditableFields {
		if v, ok := data[string(f)]; ok {
			p.setField(f, v)
		}
	}
	return nil
}

// URLPath builds the page's external URL path from identity fields.
func (p *Page) URLPath() (string, error) {
	return pagepath.URLPath(p.Identity)
}

func (p *Page) fieldValue(f pagetype.Field) string {
	switch f {
	case pagetype.FieldTitle:
		return p.Title
	case pagetype.FieldSubject:
		return p.Subject
	case pagetype.FieldLink:
		return p.Link
	}
	return ""
}

func (p *Page) setField(f pagetype.Field, v string) {
	switch f {
	case pagetype.FieldTitle:
		p.Title = v
	case pagetype.FieldSubject:
		p.Subject = v
	case pagetype.FieldLink:
		p.Link = v
	}
}

func (p *Page) toRecord() *recordstore.Record {
	return &recordstore.Record{
		Identity:    p.Identity,
		Title:       p.Title,
		Subject:     p.Subject,
		Link:        p.Link,
		Maintainer:  p.Maintainer,
		Hidden:      p.Hidden,
		Rendered:    p.Rendered,
		Excerpt:     p.Excerpt,
		Fingerprint: p.Fingerprint,
	}
}

// FromRecord rebuilds a Page from its persisted record.
func FromRecord(rec *recordstore.Record) *Page {
	return &Page{
		Identity:    rec.Identity,
		Title:       rec.Title,
		Subject:     rec.Subject,
		Link:        rec.Link,
		Maintainer:  rec.Maintainer,
		Hidden:      rec.Hidden,
		Rendered:    rec.Rendered,
		Excerpt:     rec.Excerpt,
		Fingerprint: rec.Fingerprint,
	}
}

// ExternalPage is a page whose content lives outside the store. It shares the
// page type enumeration but has no body file and no version log.
type ExternalPage struct {
	Department   string
	CourseNumber int
	Type         pagetype.Type

	Link        string
	Title       string
	Description string
	Maintainer  string
}

// URL returns the page's external link; external pages resolve to their
// target directly.
func (e *ExternalPage) URL() string { return e.Link }
