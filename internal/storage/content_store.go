// Package storage reads and writes raw page bodies beneath a single content
// root. It owns the body's on-disk form: UTF-8 text terminated by exactly one
// trailing CRLF.
package storage

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"git.home.luguber.info/inful/wikistore/internal/errors"
)

// LineTerminator is the canonical terminator for stored bodies. The store
// predates LF normalization; existing repositories are full of CRLF content,
// so writes keep producing it.
const LineTerminator = "\r\n"

// ContentStore persists raw page bodies as files under a content root.
// Paths passed to Load/Save are relative to that root.
type ContentStore struct {
	root string
}

// NewContentStore creates a store rooted at the given directory.
func NewContentStore(root string) *ContentStore {
	return &ContentStore{root: root}
}

// Root returns the absolute content root directory.
func (s *ContentStore) Root() string { return s.root }

// Abs resolves a store-relative path to an absolute one.
func (s *ContentStore) Abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Load reads the full raw body at rel as UTF-8 text. A leading byte-order
// mark is stripped. Returns NotFound if the file does not exist and a decode
// error if the bytes are not valid UTF-8.
func (s *ContentStore) Load(rel string) (string, error) {
	path := s.Abs(rel)
	// #nosec G304 - path is derived from validated identity fields
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFound(rel)
		}
		return "", errors.ReadFailed(rel, err)
	}
	if !utf8.Valid(raw) {
		return "", errors.DecodeFailed(rel, nil)
	}
	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", errors.DecodeFailed(rel, err)
	}
	return string(decoded), nil
}

// Save writes the full raw body at rel, overwriting any previous content and
// creating parent directories as needed. The body is terminated before
// writing, so stored files always end with a single trailing terminator.
func (s *ContentStore) Save(rel, content string) error {
	path := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.WriteFailed(rel, err)
	}
	if err := os.WriteFile(path, []byte(EnsureTerminated(content)), 0600); err != nil {
		return errors.WriteFailed(rel, err)
	}
	return nil
}

// Exists reports whether a body file is present at rel.
func (s *ContentStore) Exists(rel string) bool {
	_, err := os.Stat(s.Abs(rel))
	return err == nil
}

// EnsureTerminated guarantees a trailing CRLF. Idempotent: a body that
// already ends with CRLF is returned unchanged, so re-saving identical
// content never grows the file.
func EnsureTerminated(content string) string {
	if strings.HasSuffix(content, LineTerminator) {
		return content
	}
	return content + LineTerminator
}
