package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyCourse     = "course"
	KeyDepartment = "department"
	KeyPageType   = "page_type"
	KeySlug       = "slug"
	KeyAnchor     = "anchor"
	KeyPath       = "path"
	KeyRepo       = "repo_root"
	KeyCommit     = "commit"
	KeyAuthor     = "author"
	KeyStage      = "stage"
	KeyEventID    = "event_id"
	KeySubject    = "subject"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Course(c string) slog.Attr        { return slog.String(KeyCourse, c) }
func Department(d string) slog.Attr    { return slog.String(KeyDepartment, d) }
func PageType(t string) slog.Attr      { return slog.String(KeyPageType, t) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Anchor(a string) slog.Attr        { return slog.String(KeyAnchor, a) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func RepoRoot(r string) slog.Attr      { return slog.String(KeyRepo, r) }
func Commit(c string) slog.Attr        { return slog.String(KeyCommit, c) }
func Author(a string) slog.Attr        { return slog.String(KeyAuthor, a) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func EventID(id string) slog.Attr      { return slog.String(KeyEventID, id) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
