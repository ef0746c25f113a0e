package hunt

import (
	"regexp"
	"strings"
)

// tokenPattern matches word-bounded runs of 5-12 uppercase
// alphanumerics after the input has been uppercased.
var tokenPattern = regexp.MustCompile(`\b[A-Z0-9]{5,12}\b`)

// tokenDenylist holds substrings that mark a token as a URL/markup
// artifact rather than an invite code. HTTPS is redundant with HTTP but
// kept for parity with the historical list.
var tokenDenylist = []string{"HTTP", "HTML", "JSON", "XML", "HTTPS"}

// ExtractTokens returns the distinct candidate tokens found in text,
// in first-occurrence order. A token must contain at least one digit;
// pure-letter runs are overwhelmingly ordinary words once uppercased.
func ExtractTokens(text string) []string {
	upper := strings.ToUpper(text)
	seen := make(map[string]struct{})
	var tokens []string
	for _, token := range tokenPattern.FindAllString(upper, -1) {
		if !ValidToken(token) {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

// ValidToken reports whether token satisfies the extraction contract:
// at least one digit and no denylisted substring. The orchestrator uses
// it as a defensive re-check before touching shared state.
func ValidToken(token string) bool {
	if !strings.ContainsAny(token, "0123456789") {
		return false
	}
	for _, deny := range tokenDenylist {
		if strings.Contains(token, deny) {
			return false
		}
	}
	return true
}
