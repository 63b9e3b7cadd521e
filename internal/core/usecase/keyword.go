package usecase

import (
	"strings"
	"unicode"
)

// Tokens shorter than this carry no lexical signal ("a", "is", Thai
// single characters) and are dropped before scoring.
const minKeywordTokenLen = 2

// keywordScore returns the fraction of usable query tokens that appear as
// substrings of content, in [0,1]. A query with no usable tokens scores
// 0.0; that is not an error.
func keywordScore(query, content string) float64 {
	tokens := keywordTokens(query)
	if len(tokens) == 0 {
		return 0
	}
	haystack := strings.ToLower(content)
	matched := 0
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}

// keywordScoreWeighted adds a fixed boost on top of keywordScore when the
// candidate's metadata category textually overlaps the query, capped at
// 1.0. Missing or malformed metadata never raises the score and never
// fails.
func keywordScoreWeighted(query, content string, metadata map[string]any, boost float64) float64 {
	score := keywordScore(query, content)
	if metadata == nil || boost <= 0 {
		return score
	}
	category, _ := metadata["category"].(string)
	if category == "" {
		return score
	}
	if categoryOverlaps(query, category) {
		score += boost
	}
	if score > 1 {
		return 1
	}
	return score
}

func categoryOverlaps(query, category string) bool {
	q := strings.ToLower(query)
	cat := strings.ToLower(category)
	if strings.Contains(q, cat) {
		return true
	}
	for _, token := range keywordTokens(category) {
		if strings.Contains(q, token) {
			return true
		}
	}
	return false
}

// keywordTokens lowercases and splits on anything that is not a letter or
// digit, keeping the full Unicode range so Thai text is not discarded.
func keywordTokens(s string) []string {
	if s == "" {
		return nil
	}
	tokens := make([]string, 0, 16)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			token := b.String()
			if len([]rune(token)) >= minKeywordTokenLen {
				tokens = append(tokens, token)
			}
			b.Reset()
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return tokens
}
