package moderation

import (
	"regexp"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/promptguard/promptgate/pkg/domain/moderation"
)

const injectionMatchStep = 0.2

// scorer computes the per-category risk vector for a piece of text. Pure
// and deterministic for a fixed policy.
type scorer struct {
	patterns         []*regexp.Regexp
	phrases          []string
	weights          map[moderation.Category]float64
	phraseMultiplier float64
	detector         *goaway.ProfanityDetector
}

func (s *scorer) Score(text string) moderation.Verdict {
	risks := moderation.RiskVector{}
	for cat := range s.weights {
		risks[cat] = 0.0
	}

	injections := 0
	for _, pattern := range s.patterns {
		injections += len(pattern.FindAllStringIndex(text, -1))
	}
	risks[moderation.CategoryInjection] = capScore(float64(injections) * injectionMatchStep)

	risks[moderation.CategoryProfanity] = s.profanityScore(text)

	lower := strings.ToLower(text)
	found := 0
	for _, phrase := range s.phrases {
		if strings.Contains(lower, phrase) {
			found++
		}
	}
	risks[moderation.CategoryDisallowedPhrase] = capScore(float64(found) * s.phraseMultiplier)

	total := 0.0
	for cat, weight := range s.weights {
		total += weight * risks[cat]
	}

	return moderation.Verdict{TotalRisk: total, CategoryRisks: risks}
}

// profanityScore is the flagged fraction of whitespace-delimited tokens,
// 0.0 for token-free text.
func (s *scorer) profanityScore(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0.0
	}
	flagged := 0
	for _, word := range words {
		if s.detector.IsProfane(word) {
			flagged++
		}
	}
	return float64(flagged) / float64(len(words))
}

func capScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}
