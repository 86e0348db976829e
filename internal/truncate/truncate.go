// Package truncate caps text to the token budget of the translation model
// before it is encoded.
//
// Tokens are estimated at CharsPerToken runes each. When text is over budget
// it is cut at the last boundary that fits and keeps at least half of the
// budget, preferring, in order:
//  1. a paragraph break (blank line)
//  2. sentence-ending punctuation followed by whitespace
//  3. any whitespace
//  4. a hard cut at the rune limit
//
// The remainder is dropped, so a boundary near the start is never taken.
package truncate

import (
	"strings"
	"unicode"
)

// CharsPerToken is the rune-per-token ratio used to estimate length.
const CharsPerToken = 4

// EstimateTokens returns the approximate token count of text.
func EstimateTokens(text string) int {
	n := len([]rune(text))
	return (n + CharsPerToken - 1) / CharsPerToken
}

// ToBudget returns text unchanged when it fits in maxTokens, otherwise the
// longest boundary-aligned prefix that does. maxTokens <= 0 disables the cap.
func ToBudget(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	maxRunes := maxTokens * CharsPerToken
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	candidate := runes[:maxRunes]
	return strings.TrimSpace(string(candidate[:cutPoint(candidate)]))
}

// cutPoint returns the rune index at which candidate should be cut.
func cutPoint(candidate []rune) int {
	minKeep := len(candidate) / 2

	s := string(candidate)
	if idx := strings.LastIndex(s, "\n\n"); idx > 0 {
		if n := len([]rune(s[:idx])); n >= minKeep {
			return n
		}
	}

	for i := len(candidate) - 2; i >= minKeep; i-- {
		switch candidate[i] {
		case '.', '!', '?', '。', '！', '？':
			if unicode.IsSpace(candidate[i+1]) {
				return i + 1
			}
		}
	}

	for i := len(candidate) - 1; i >= minKeep && i > 0; i-- {
		if unicode.IsSpace(candidate[i]) {
			return i
		}
	}

	return len(candidate)
}
