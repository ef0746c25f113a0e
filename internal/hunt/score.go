package hunt

import "strings"

// inviteKeywords each add 0.1 to the confidence score when present,
// capped at 0.3 total.
var inviteKeywords = []string{
	"invite",
	"code",
	"beta",
	"access",
	"key",
	"token",
	"giveaway",
	"sharing",
	"redeem",
	"signup",
}

// noiseTerms suggest the text is a stack trace or log dump rather than
// a genuine sharing post.
var noiseTerms = []string{"error", "exception", "stack", "debug"}

const brandTerm = "sora"

// Score computes the confidence that token, found in text, is a real
// invite code. Deterministic; the result is always within [0.1, 1.0].
func Score(text, token string) float64 {
	_ = token // scoring depends only on the surrounding text
	lower := strings.ToLower(text)
	score := 0.5

	keywordBonus := 0.0
	for _, kw := range inviteKeywords {
		if strings.Contains(lower, kw) {
			keywordBonus += 0.1
		}
	}
	if keywordBonus > 0.3 {
		keywordBonus = 0.3
	}
	score += keywordBonus

	if strings.Contains(lower, brandTerm) {
		score += 0.15
	}

	for _, term := range noiseTerms {
		if strings.Contains(lower, term) {
			score -= 0.3
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.1 {
		score = 0.1
	}
	return score
}
