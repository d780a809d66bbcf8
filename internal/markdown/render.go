// Package markdown turns raw page bodies into their rendered HTML form and
// locates editable sections by heading anchor.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/wikistore/internal/errors"
)

// md is the shared converter. Goldmark converters are safe for concurrent use
// and building one per call would re-resolve the extension chain every time.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts a raw markdown body into HTML. It is a pure function: no
// I/O, deterministic for a given input. The output is a derived cache of the
// raw body and never authoritative.
func Render(raw string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(raw), &buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, errors.CodeInternal, "markdown render failed")
	}
	return buf.String(), nil
}
