package hunt

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	snippetRadius = 60
	snippetLead   = 200
)

// BuildSnippet produces an HTML-safe excerpt of title+body with every
// case-insensitive occurrence of token wrapped in <mark> tags. It never
// fails: empty or malformed input yields a best-effort escaped string.
func BuildSnippet(title, body, token string) string {
	combined := strings.TrimSpace(title + "\n" + body)
	if combined == "" {
		if title != "" {
			return html.EscapeString(title)
		}
		return html.EscapeString(token)
	}

	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(token))

	var start, end int
	if loc := pattern.FindStringIndex(combined); loc != nil {
		start = loc[0] - snippetRadius
		end = loc[1] + snippetRadius
	} else {
		// Defensive: the token was extracted from this text, but fall
		// back to the leading window if it cannot be located.
		start = 0
		end = snippetLead
	}
	if start < 0 {
		start = 0
	}
	if end > len(combined) {
		end = len(combined)
	}
	start = alignRuneStart(combined, start)
	end = alignRuneStart(combined, end)

	window := strings.TrimSpace(strings.ReplaceAll(combined[start:end], "\n", " "))

	var b strings.Builder
	last := 0
	for _, loc := range pattern.FindAllStringIndex(window, -1) {
		b.WriteString(html.EscapeString(window[last:loc[0]]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(window[loc[0]:loc[1]]))
		b.WriteString("</mark>")
		last = loc[1]
	}
	b.WriteString(html.EscapeString(window[last:]))
	return b.String()
}

// alignRuneStart moves i forward to the next rune boundary so window
// slicing never splits a multi-byte character.
func alignRuneStart(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
