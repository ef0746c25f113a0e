package hunt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestBuildSnippet_HighlightsToken(t *testing.T) {
	t.Parallel()

	got := BuildSnippet("Got my SORA2X9 code!", "", "SORA2X9")
	require.Contains(t, got, "<mark>SORA2X9</mark>")
}

func TestBuildSnippet_HighlightsEveryOccurrence(t *testing.T) {
	t.Parallel()

	got := BuildSnippet("AB12CD3 works, ab12cd3 confirmed", "", "AB12CD3")
	require.Equal(t, 2, strings.Count(got, "<mark>"))
	require.Contains(t, got, "<mark>AB12CD3</mark>")
	require.Contains(t, got, "<mark>ab12cd3</mark>")
}

func TestBuildSnippet_EscapesMarkup(t *testing.T) {
	t.Parallel()

	got := BuildSnippet("<b>bold</b> & AB12CD3", "", "AB12CD3")
	require.NotContains(t, got, "<b>")
	require.Contains(t, got, "&lt;b&gt;")
	require.Contains(t, got, "&amp;")
	require.Contains(t, got, "<mark>AB12CD3</mark>")

	// Outside the highlight tags the output carries no raw angle brackets.
	stripped := strings.ReplaceAll(got, "<mark>", "")
	stripped = strings.ReplaceAll(stripped, "</mark>", "")
	require.NotContains(t, stripped, "<")
	require.NotContains(t, stripped, ">")
}

func TestBuildSnippet_WindowsAroundMatch(t *testing.T) {
	t.Parallel()

	pad := strings.Repeat("x", 300)
	got := BuildSnippet("", pad+" AB12CD3 "+pad, "AB12CD3")
	require.Contains(t, got, "<mark>AB12CD3</mark>")
	// Window radius is 60 on each side; far-away padding is excluded.
	require.Less(t, len(got), 200)
}

func TestBuildSnippet_TokenMissingUsesLeadingWindow(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("abcde ", 100)
	got := BuildSnippet("", long, "ZZ9TOP")
	require.NotContains(t, got, "<mark>")
	require.NotEmpty(t, got)
	require.LessOrEqual(t, len(got), snippetLead)
}

func TestBuildSnippet_CollapsesNewlines(t *testing.T) {
	t.Parallel()

	got := BuildSnippet("line one", "has\nAB12CD3\nafter", "AB12CD3")
	require.NotContains(t, got, "\n")
	require.Contains(t, got, "<mark>AB12CD3</mark>")
}

func TestBuildSnippet_EmptyInputs(t *testing.T) {
	t.Parallel()

	require.Equal(t, "AB12CD3", BuildSnippet("", "", "AB12CD3"))
	require.Equal(t, "<mark>title</mark> &lt;x&gt;", BuildSnippet("title <x>", "", "TITLE"))
	require.NotPanics(t, func() { BuildSnippet("", "", "") })
}

func TestBuildSnippet_Idempotent(t *testing.T) {
	t.Parallel()

	first := BuildSnippet("Got my SORA2X9 code!", "body text", "SORA2X9")
	for i := 0; i < 5; i++ {
		require.Equal(t, first, BuildSnippet("Got my SORA2X9 code!", "body text", "SORA2X9"))
	}
}

func TestBuildSnippet_MultiByteWindowEdges(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("héllo wörld ", 30) + "AB12CD3" + strings.Repeat(" wörld héllo", 30)
	got := BuildSnippet("", body, "AB12CD3")
	require.Contains(t, got, "<mark>AB12CD3</mark>")
	require.True(t, utf8.ValidString(got), "window must not split runes: %q", got)
}
