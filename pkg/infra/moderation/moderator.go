// Package moderation implements the risk-scoring and sanitization engine
// that guards both traffic directions of the gateway.
package moderation

import (
	"fmt"
	"regexp"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/promptguard/promptgate/pkg/domain/moderation"
	"github.com/promptguard/promptgate/pkg/infra/normalizer"
)

const rejectionMessage = "Content violates safety policies"

// Policy is the immutable moderation configuration snapshot. Category keys
// use the domain category names.
type Policy struct {
	DisallowedPhrases   []string
	InjectionPatterns   []string
	CategoryWeights     map[string]float64
	CategoryThresholds  map[string]float64
	InputRiskThreshold  float64
	OutputRiskThreshold float64
	PhraseMultiplier    float64
	MaxTextLength       int
	RedactionMarker     string
}

// Moderator owns its policy snapshot exclusively. All methods are
// side-effect free and safe for concurrent use.
type Moderator struct {
	scorer          *scorer
	inputNorm       *normalizer.Normalizer
	outputNorm      *normalizer.Normalizer
	patterns        []*regexp.Regexp
	phraseRedactor  *regexp.Regexp
	thresholds      map[moderation.Category]float64
	inputThreshold  float64
	outputThreshold float64
	marker          string
	detector        *goaway.ProfanityDetector
}

func NewModerator(policy Policy) (*Moderator, error) {
	patterns := make([]*regexp.Regexp, 0, len(policy.InjectionPatterns))
	for _, raw := range policy.InjectionPatterns {
		pattern, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			return nil, fmt.Errorf("invalid injection pattern %q: %w", raw, err)
		}
		patterns = append(patterns, pattern)
	}

	phrases := make([]string, 0, len(policy.DisallowedPhrases))
	for _, phrase := range policy.DisallowedPhrases {
		phrases = append(phrases, strings.ToLower(phrase))
	}

	var phraseRedactor *regexp.Regexp
	if len(phrases) > 0 {
		quoted := make([]string, 0, len(phrases))
		for _, phrase := range phrases {
			quoted = append(quoted, regexp.QuoteMeta(phrase))
		}
		var err error
		phraseRedactor, err = regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("failed to build phrase redactor: %w", err)
		}
	}

	weights := make(map[moderation.Category]float64, len(policy.CategoryWeights))
	for name, weight := range policy.CategoryWeights {
		weights[moderation.Category(name)] = weight
	}
	thresholds := make(map[moderation.Category]float64, len(policy.CategoryThresholds))
	for name, threshold := range policy.CategoryThresholds {
		thresholds[moderation.Category(name)] = threshold
	}

	marker := policy.RedactionMarker
	if marker == "" {
		marker = "[redacted]"
	}

	detector := goaway.NewProfanityDetector()

	return &Moderator{
		scorer: &scorer{
			patterns:         patterns,
			phrases:          phrases,
			weights:          weights,
			phraseMultiplier: policy.PhraseMultiplier,
			detector:         detector,
		},
		inputNorm:       normalizer.New(policy.MaxTextLength),
		outputNorm:      normalizer.New(policy.MaxTextLength, '-', '\n'),
		patterns:        patterns,
		phraseRedactor:  phraseRedactor,
		thresholds:      thresholds,
		inputThreshold:  policy.InputRiskThreshold,
		outputThreshold: policy.OutputRiskThreshold,
		marker:          marker,
		detector:        detector,
	}, nil
}

// Score exposes the raw risk verdict for a piece of text.
func (m *Moderator) Score(text string) moderation.Verdict {
	return m.scorer.Score(text)
}

// ModerateInput sanitizes and risk-scores an inbound prompt. Risk is
// computed on the raw, untruncated prompt; the sanitized candidate the
// caller receives is built from the normalized text.
func (m *Moderator) ModerateInput(raw string) moderation.Result {
	candidate := m.redactInjections(m.inputNorm.Normalize(raw))

	verdict := m.scorer.Score(raw)

	if result, rejected := m.rejectPerCategory(verdict); rejected {
		return result
	}
	if verdict.TotalRisk > m.inputThreshold {
		return moderation.Reject(rejectionMessage, "", verdict.TotalRisk, verdict.CategoryRisks)
	}

	return moderation.Accept(m.sanitize(candidate))
}

// ModerateOutput sanitizes and risk-scores generated text. Risk is
// computed on the normalized (truncated) text and gated by the stricter
// output threshold.
func (m *Moderator) ModerateOutput(raw string) moderation.Result {
	candidate := m.outputNorm.Normalize(raw)

	verdict := m.scorer.Score(candidate)

	if verdict.TotalRisk > m.outputThreshold {
		return moderation.Reject(rejectionMessage, "", verdict.TotalRisk, verdict.CategoryRisks)
	}

	return moderation.Accept(m.sanitize(m.redactInjections(candidate)))
}

// rejectPerCategory applies the per-category thresholds in category order,
// before the global check. Concentrated risk in one category rejects even
// when the aggregate stays low.
func (m *Moderator) rejectPerCategory(verdict moderation.Verdict) (moderation.Result, bool) {
	for _, cat := range moderation.Categories {
		threshold, ok := m.thresholds[cat]
		if !ok {
			continue
		}
		if verdict.CategoryRisks[cat] > threshold {
			return moderation.Reject(rejectionMessage, cat, verdict.TotalRisk, verdict.CategoryRisks), true
		}
	}
	return moderation.Result{}, false
}

func (m *Moderator) redactInjections(text string) string {
	for _, pattern := range m.patterns {
		text = pattern.ReplaceAllString(text, m.marker)
	}
	return text
}

// sanitize redacts whole-word disallowed phrases and censors profane
// tokens on an accepted candidate.
func (m *Moderator) sanitize(text string) string {
	if m.phraseRedactor != nil && m.phraseRedactor.MatchString(text) {
		text = m.phraseRedactor.ReplaceAllString(text, m.marker)
	}
	if m.detector.IsProfane(text) {
		text = m.detector.Censor(text)
	}
	return text
}
