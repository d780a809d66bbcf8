package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// Excerpt extracts a plain-text excerpt from rendered HTML, for listings and
// search previews. Whitespace is collapsed; the result is truncated to at most
// maxRunes runes. Script and style content is skipped.
func Excerpt(renderedHTML string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	root, err := html.Parse(strings.NewReader(renderedHTML))
	if err != nil {
		// Rendered HTML comes from our own renderer; a parse failure means
		// garbage input, and an empty excerpt is the safest output.
		return ""
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
