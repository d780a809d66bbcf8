package markdown

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/wikistore/internal/errors"
)

// atxHeading matches an ATX heading line and captures the marker and text.
// Trailing closing hashes are stripped, per CommonMark.
var atxHeading = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)

// LocateSection finds the half-open line range [start, end) of the section
// whose heading matches anchor.
//
// Convention: start is the line immediately AFTER the matching heading, so the
// range covers the section body without the heading itself. end is the index
// of the next heading of equal or higher level, or len(lines) when the
// matched section runs to the end of the document.
//
// A heading matches when its text equals the anchor case-insensitively, or
// when both slugify to the same value ("Big Theorems" matches "big-theorems").
func LocateSection(lines []string, anchor string) (start, end int, err error) {
	level := 0
	start = -1
	for i, line := range lines {
		m := atxHeading.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if start >= 0 {
			if len(m[1]) <= level {
				return start, i, nil
			}
			continue
		}
		if headingMatches(m[2], anchor) {
			level = len(m[1])
			start = i + 1
		}
	}
	if start < 0 {
		return 0, 0, errors.SectionNotFound(anchor)
	}
	return start, len(lines), nil
}

func headingMatches(text, anchor string) bool {
	if strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(anchor)) {
		return true
	}
	return Slugify(text) == Slugify(anchor)
}

// Slugify reduces a heading to its anchor form: lowercased, runs of
// non-alphanumerics collapsed to single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SplitLines splits a body into lines, accepting both LF and CRLF endings.
// A single trailing terminator does not produce a trailing empty line, so
// "a\r\nb\r\n" yields ["a", "b"].
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}

// JoinLines reassembles lines with CRLF separators and no trailing
// terminator; the store adds the terminator on save.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\r\n")
}
