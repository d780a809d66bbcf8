package errors

import (
	"errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CategoryFileSystem, CodeNotFound, "content file not found")
	want := "filesystem (not_found): content file not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorFormattingWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CategoryFileSystem, CodeIO, "content write failed")
	want := "filesystem (io): content write failed: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, CategoryGit, CodeCommit, "commit to version log failed")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsCode(t *testing.T) {
	err := SectionNotFound("intro")
	if !IsCode(err, CodeSectionNotFound) {
		t.Error("expected CodeSectionNotFound")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("did not expect CodeNotFound")
	}
	if IsCode(errors.New("plain"), CodeSectionNotFound) {
		t.Error("plain error should not match any code")
	}
}

func TestSaveFailedKeepsStage(t *testing.T) {
	cause := CommitFailed("/repo", errors.New("lock held"))
	err := SaveFailed("commit", cause)
	if err.Context["stage"] != "commit" {
		t.Errorf("stage context = %v, want commit", err.Context["stage"])
	}
	if GetCode(err) != CodeSave {
		t.Errorf("top-level code = %v, want save", GetCode(err))
	}
	var wse *WikiStoreError
	if !errors.As(err.Cause, &wse) || wse.Code != CodeCommit {
		t.Error("cause should be the commit error")
	}
}

func TestEncodeFailed(t *testing.T) {
	cause := errors.New("bad payload")
	err := EncodeFailed("page-saved event", cause)
	if !IsCode(err, CodeEncode) {
		t.Error("expected CodeEncode")
	}
	if GetCategory(err) != CategoryEncoding {
		t.Errorf("category = %v, want encoding", GetCategory(err))
	}
	if err.Context["what"] != "page-saved event" {
		t.Errorf("what context = %v, want page-saved event", err.Context["what"])
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryValidation, CodeValidation, "validation failed").
		WithContext("field", "slug")
	if err.Context["field"] != "slug" {
		t.Errorf("context field = %v, want slug", err.Context["field"])
	}
}

func TestGetCategoryFallback(t *testing.T) {
	if GetCategory(errors.New("plain")) != CategoryInternal {
		t.Error("plain error should fall back to internal category")
	}
}
