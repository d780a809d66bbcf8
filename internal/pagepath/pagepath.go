// Package pagepath derives filesystem paths and URL paths from a page's
// structured identity. Every function here is pure: paths depend only on
// identity fields, never on content, so an ordinary content edit can never
// move a backing file.
package pagepath

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/wikistore/internal/errors"
	"git.home.luguber.info/inful/wikistore/internal/pagetype"
)

// ContentFileName is the fixed name of the raw body file inside a page directory.
const ContentFileName = "content.md"

// Identity is the composite key of a page. (Department, CourseNumber, Slug)
// is unique within the store; Term and Year scope the course offering.
type Identity struct {
	Department   string
	CourseNumber int
	Term         string
	Year         int
	Type         pagetype.Type
	Slug         string
}

// Course returns the course key shared by all pages of one course, e.g. "math-141".
func (id Identity) Course() string {
	return fmt.Sprintf("%s-%d", strings.ToLower(id.Department), id.CourseNumber)
}

// Validate checks that every identity field needed for path derivation is set.
func (id Identity) Validate() error {
	if strings.TrimSpace(id.Department) == "" {
		return errors.ValidationFailed("department", "empty")
	}
	if id.CourseNumber <= 0 {
		return errors.ValidationFailed("course_number", "not positive")
	}
	if strings.TrimSpace(id.Term) == "" {
		return errors.ValidationFailed("term", "empty")
	}
	if id.Year <= 0 {
		return errors.ValidationFailed("year", "not positive")
	}
	if strings.TrimSpace(id.Slug) == "" {
		return errors.ValidationFailed("slug", "empty")
	}
	if strings.ContainsAny(id.Slug, "/\\") {
		return errors.ValidationFailed("slug", "contains path separator")
	}
	if !pagetype.Valid(id.Type) {
		return errors.UnknownPageType(string(id.Type))
	}
	return nil
}

// RepoRoot returns the relative root of the course's git repository. All pages
// of one course share a single repository; pages of different courses never do.
func RepoRoot(id Identity) string {
	return path.Join(strings.ToLower(id.Department), fmt.Sprintf("%d", id.CourseNumber))
}

// PageDir resolves the relative directory holding a page's content file.
func PageDir(id Identity) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	d, err := pagetype.Lookup(id.Type)
	if err != nil {
		return "", err
	}
	return path.Join(
		RepoRoot(id),
		d.PathSegment,
		fmt.Sprintf("%s-%d", strings.ToLower(id.Term), id.Year),
		id.Slug,
	), nil
}

// ContentFile resolves the relative path of a page's raw body file.
func ContentFile(id Identity) (string, error) {
	dir, err := PageDir(id)
	if err != nil {
		return "", err
	}
	return path.Join(dir, ContentFileName), nil
}

// URLPath builds the external URL path for a page. Consumed by the
// presentation layer for link generation; kept here because it is the same
// pure function of identity as the file path.
func URLPath(id Identity) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	d, err := pagetype.Lookup(id.Type)
	if err != nil {
		return "", err
	}
	return "/" + path.Join(
		strings.ToLower(id.Department),
		fmt.Sprintf("%d", id.CourseNumber),
		d.PathSegment,
		strings.ToLower(id.Term),
		fmt.Sprintf("%d", id.Year),
		id.Slug,
	), nil
}
