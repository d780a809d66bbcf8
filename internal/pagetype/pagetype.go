// Package pagetype defines the closed enumeration of page types and the static
// capability descriptor bound to each type: which record fields an editor may
// change, which fields are surfaced as metadata, and the path segment used when
// deriving URLs and file paths.
package pagetype

import (
	"git.home.luguber.info/inful/wikistore/internal/errors"
)

// Type is the tag of a page type. The set of tags is closed; descriptors are
// resolved at init time, never registered dynamically.
type Type string

const (
	LectureNotes Type = "lecture_notes"
	PastExam     Type = "past_exam"
	Summary      Type = "summary"
	CourseQuiz   Type = "course_quiz"
	VocabQuiz    Type = "vocab_quiz"
	External     Type = "external"
)

// Field names a record field a page type may expose for editing or metadata.
type Field string

const (
	FieldTitle   Field = "title"
	FieldSubject Field = "subject"
	FieldLink    Field = "link"
)

// Descriptor is the static capability set of a page type.
type Descriptor struct {
	Tag         Type
	DisplayName string
	// PathSegment is the segment used in file paths and URLs for this type.
	PathSegment string
	// EditableFields are the record fields an edit operation may change.
	EditableFields []Field
	// MetadataFields are the record fields surfaced by metadata queries.
	MetadataFields []Field
	// HasContent reports whether pages of this type have a versioned body file.
	// External pages only carry a link; there is nothing to commit.
	HasContent bool
}

// Editable reports whether the given field may be changed by an edit operation.
func (d Descriptor) Editable(f Field) bool {
	for _, ef := range d.EditableFields {
		if ef == f {
			return true
		}
	}
	return false
}

var descriptors = map[Type]Descriptor{
	LectureNotes: {
		Tag:            LectureNotes,
		DisplayName:    "Lecture notes",
		PathSegment:    "lecture-notes",
		EditableFields: []Field{FieldTitle, FieldSubject},
		MetadataFields: []Field{FieldSubject},
		HasContent:     true,
	},
	PastExam: {
		Tag:            PastExam,
		DisplayName:    "Past exam",
		PathSegment:    "past-exam",
		EditableFields: []Field{FieldTitle, FieldLink},
		MetadataFields: []Field{FieldLink},
		HasContent:     true,
	},
	Summary: {
		Tag:            Summary,
		DisplayName:    "Course summary",
		PathSegment:    "summary",
		EditableFields: []Field{FieldTitle, FieldSubject},
		MetadataFields: []Field{FieldSubject},
		HasContent:     true,
	},
	CourseQuiz: {
		Tag:            CourseQuiz,
		DisplayName:    "Course quiz",
		PathSegment:    "course-quiz",
		EditableFields: []Field{FieldTitle},
		MetadataFields: nil,
		HasContent:     true,
	},
	VocabQuiz: {
		Tag:            VocabQuiz,
		DisplayName:    "Vocabulary quiz",
		PathSegment:    "vocab-quiz",
		EditableFields: []Field{FieldTitle},
		MetadataFields: nil,
		HasContent:     true,
	},
	External: {
		Tag:            External,
		DisplayName:    "External page",
		PathSegment:    "external",
		EditableFields: []Field{FieldTitle, FieldLink},
		MetadataFields: []Field{FieldLink},
		HasContent:     false,
	},
}

// Lookup resolves a type tag to its descriptor.
func Lookup(tag Type) (Descriptor, error) {
	d, ok := descriptors[tag]
	if !ok {
		return Descriptor{}, errors.UnknownPageType(string(tag))
	}
	return d, nil
}

// All returns every known descriptor. The slice is a copy; callers may not
// mutate the registry.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d)
	}
	return out
}

// Valid reports whether tag names a known page type.
func Valid(tag Type) bool {
	_, ok := descriptors[tag]
	return ok
}
