package similarity

import (
	"regexp"
	"strings"
)

var punctuation = regexp.MustCompile(`[^\w\s]`)

// tokenize lowercases, strips punctuation and splits on whitespace.
func tokenize(text string) []string {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(text), "")
	return strings.Fields(cleaned)
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
