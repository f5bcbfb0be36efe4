package moderation

// Category is one axis of content-safety scoring.
type Category string

const (
	CategoryInjection        Category = "injection"
	CategoryProfanity        Category = "profanity"
	CategoryDisallowedPhrase Category = "disallowed_phrase"
)

// Categories lists every category in evaluation order. Per-category
// threshold checks walk this slice so verdicts are deterministic.
var Categories = []Category{
	CategoryInjection,
	CategoryProfanity,
	CategoryDisallowedPhrase,
}

// RiskVector maps each configured category to a score in [0.0, 1.0].
// Every configured category is present; absent categories read as 0.0.
type RiskVector map[Category]float64

func (v RiskVector) Clone() RiskVector {
	out := make(RiskVector, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}
