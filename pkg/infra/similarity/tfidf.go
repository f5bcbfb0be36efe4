package similarity

import (
	"math"

	domain "github.com/promptguard/promptgate/pkg/domain/similarity"
)

// vectorCosine builds a TF-IDF model over exactly the two input texts and
// returns the cosine between their weighted term vectors. The model is
// corpus-relative by construction: scores are only meaningful within a
// pair, never across pairs.
//
// Term weighting follows the smoothed form idf(t) = ln((1+n)/(1+df)) + 1
// with raw term counts, so a term present in both documents still carries
// weight and cosine(t, t) is exactly 1. Empty documents and pairs that
// share no vocabulary after tokenization are degenerate inputs.
func vectorCosine(a, b string) (float64, error) {
	tokensA := tokenize(a)
	tokensB := tokenize(b)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0, domain.ErrDegenerateInput
	}

	countsA := termCounts(tokensA)
	countsB := termCounts(tokensB)

	// the smoothed idf keeps unshared terms weighted, so a pair with no
	// common vocabulary would otherwise slip through as a quiet 0.0
	shared := 0
	for term := range countsA {
		if countsB[term] > 0 {
			shared++
		}
	}
	if shared == 0 {
		return 0, domain.ErrDegenerateInput
	}

	vocabulary := make(map[string]struct{}, len(countsA)+len(countsB))
	for term := range countsA {
		vocabulary[term] = struct{}{}
	}
	for term := range countsB {
		vocabulary[term] = struct{}{}
	}

	const corpusSize = 2.0
	var dot, normA, normB float64
	for term := range vocabulary {
		df := 0.0
		if countsA[term] > 0 {
			df++
		}
		if countsB[term] > 0 {
			df++
		}
		idf := math.Log((1+corpusSize)/(1+df)) + 1

		weightA := float64(countsA[term]) * idf
		weightB := float64(countsB[term]) * idf

		dot += weightA * weightB
		normA += weightA * weightA
		normB += weightB * weightB
	}

	if normA == 0 || normB == 0 {
		return 0, domain.ErrDegenerateInput
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}
