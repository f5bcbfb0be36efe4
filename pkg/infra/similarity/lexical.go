package similarity

import (
	domain "github.com/promptguard/promptgate/pkg/domain/similarity"
)

// lexicalOverlap is the Jaccard index over the two token sets. Two empty
// sets have no defined overlap and surface as a degenerate-input error;
// exactly one empty set is a defined 0.0.
func lexicalOverlap(a, b string) (float64, error) {
	setA := tokenSet(tokenize(a))
	setB := tokenSet(tokenize(b))

	if len(setA) == 0 && len(setB) == 0 {
		return 0, domain.ErrDegenerateInput
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0, nil
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union), nil
}
