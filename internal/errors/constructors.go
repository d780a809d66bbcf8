package errors

// Convenience constructors for the failure modes of the page store engine.

// Content storage errors

func NotFound(path string) *WikiStoreError {
	return New(CategoryFileSystem, CodeNotFound, "content file not found").
		WithContext("path", path)
}

func DecodeFailed(path string, cause error) *WikiStoreError {
	return Wrap(cause, CategoryEncoding, CodeDecode, "content is not valid UTF-8").
		WithContext("path", path)
}

func EncodeFailed(what string, cause error) *WikiStoreError {
	return Wrap(cause, CategoryEncoding, CodeEncode, "encoding failed").
		WithContext("what", what)
}

func WriteFailed(path string, cause error) *WikiStoreError {
	return Wrap(cause, CategoryFileSystem, CodeIO, "content write failed").
		WithContext("path", path)
}

func ReadFailed(path string, cause error) *WikiStoreError {
	return Wrap(cause, CategoryFileSystem, CodeIO, "content read failed").
		WithContext("path", path)
}

// Section errors

func SectionNotFound(anchor string) *WikiStoreError {
	return New(CategorySection, CodeSectionNotFound, "no heading matches anchor").
		WithContext("anchor", anchor)
}

// Versioning errors

func CommitFailed(root string, cause error) *WikiStoreError {
	return Wrap(cause, CategoryGit, CodeCommit, "commit to version log failed").
		WithContext("root", root)
}

func NoHistory(root string) *WikiStoreError {
	return New(CategoryGit, CodeNoHistory, "repository has no commits").
		WithContext("root", root)
}

// Record persistence errors

func RecordFailed(operation string, cause error) *WikiStoreError {
	return Wrap(cause, CategoryRecord, CodeRecord, "record store operation failed").
		WithContext("operation", operation)
}

// Save pipeline errors

// SaveFailed wraps a failure from any step of the save pipeline. The stage name
// identifies which step broke so callers can tell "file written but not
// committed" apart from earlier failures.
func SaveFailed(stage string, cause error) *WikiStoreError {
	return Wrap(cause, CategoryInternal, CodeSave, "save failed").
		WithContext("stage", stage)
}

// Validation errors

func ValidationFailed(field, reason string) *WikiStoreError {
	return New(CategoryValidation, CodeValidation, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func UnknownPageType(tag string) *WikiStoreError {
	return New(CategoryValidation, CodeValidation, "unknown page type").
		WithContext("page_type", tag)
}

// Config errors

func ConfigNotFound(path string) *WikiStoreError {
	e := New(CategoryConfig, CodeConfig, "configuration file not found").
		WithContext("path", path)
	e.Severity = SeverityFatal
	return e
}

func ConfigInvalid(reason string, cause error) *WikiStoreError {
	e := Wrap(cause, CategoryConfig, CodeConfig, "configuration invalid").
		WithContext("reason", reason)
	e.Severity = SeverityFatal
	return e
}
