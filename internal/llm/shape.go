package llm

import (
	"strings"
)

// sentenceEnds are the runes accepted as a sentence boundary when clamping
var sentenceEnds = []rune{'.', '?', '।'}

// StripQuotes trims whitespace and removes one enclosing pair of double
// quotes, then one enclosing pair of single quotes.
func StripQuotes(text string) string {
	text = strings.TrimSpace(text)
	text = stripPair(text, '"')
	text = stripPair(text, '\'')
	return text
}

func stripPair(text string, quote byte) string {
	if len(text) >= 2 && text[0] == quote && text[len(text)-1] == quote {
		return text[1 : len(text)-1]
	}
	return text
}

// EnforceWindow clamps text to at most maxChars runes. Over-long text is cut
// at the last sentence end past minChars; failing that it is cut at the last
// word boundary before maxChars and closed with a period.
func EnforceWindow(text string, minChars, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	runes = runes[:maxChars]
	if end := lastSentenceEnd(runes); end > minChars {
		return string(runes[:end+1])
	}

	head := runes[:max(maxChars-1, 0)]
	if i := lastIndexRune(head, ' '); i >= 0 {
		head = head[:i]
	}
	return string(head) + "."
}

func lastSentenceEnd(runes []rune) int {
	last := -1
	for _, r := range sentenceEnds {
		last = max(last, lastIndexRune(runes, r))
	}
	return last
}

func lastIndexRune(runes []rune, target rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == target {
			return i
		}
	}
	return -1
}
