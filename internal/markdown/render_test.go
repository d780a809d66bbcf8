package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderBasicMarkdown(t *testing.T) {
	out, err := Render("# Intro\r\nhello\r\n")
	require.NoError(t, err)
	require.Contains(t, out, "<h1>Intro</h1>")
	require.Contains(t, out, "hello")
}

func TestRenderIsDeterministic(t *testing.T) {
	raw := "# Title\n\nSome *emphasis* and a [link](./other.md).\n"
	first, err := Render(raw)
	require.NoError(t, err)
	second, err := Render(raw)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRenderGFMTables(t *testing.T) {
	out, err := Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	require.Contains(t, out, "<table>")
}

func TestRenderEmptyBody(t *testing.T) {
	out, err := Render("")
	require.NoError(t, err)
	require.Equal(t, "", strings.TrimSpace(out))
}
