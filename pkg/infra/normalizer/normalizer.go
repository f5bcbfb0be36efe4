// Package normalizer canonicalizes arbitrary text into a plain-ASCII form
// used by both moderation directions: transliterate, strip disallowed
// runes, collapse whitespace, truncate.
package normalizer

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Normalizer holds the allowed punctuation set and the maximum length for
// one traffic direction. It is immutable and safe for concurrent use.
type Normalizer struct {
	allowed map[rune]struct{}
	maxLen  int
}

// New builds a Normalizer that keeps alphanumerics, whitespace, the base
// punctuation set (. , ! ? ' ") and any extra runes. maxLen <= 0 disables
// truncation.
func New(maxLen int, extra ...rune) *Normalizer {
	allowed := map[rune]struct{}{
		'.': {}, ',': {}, '!': {}, '?': {}, '\'': {}, '"': {},
	}
	for _, r := range extra {
		allowed[r] = struct{}{}
	}
	return &Normalizer{allowed: allowed, maxLen: maxLen}
}

// Normalize always returns a string, possibly empty, and is idempotent.
func (n *Normalizer) Normalize(text string) string {
	ascii := unidecode.Unidecode(text)

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if isAlphanumeric(r) || isSpace(r) {
			b.WriteRune(r)
			continue
		}
		if _, ok := n.allowed[r]; ok {
			b.WriteRune(r)
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")

	if n.maxLen > 0 && len(collapsed) > n.maxLen {
		collapsed = strings.TrimRight(collapsed[:n.maxLen], " ")
	}
	return collapsed
}

// MaxLength returns the configured truncation bound.
func (n *Normalizer) MaxLength() int { return n.maxLen }

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
