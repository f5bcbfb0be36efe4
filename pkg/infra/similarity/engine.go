// Package similarity scores how close two normalized prompts are, using a
// selectable algorithm. Scores are method-dependent and gate generation
// against a single configured threshold.
package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/promptguard/promptgate/pkg/domain/embedding"
	domain "github.com/promptguard/promptgate/pkg/domain/similarity"
)

// Engine is stateless apart from its optional embedding backend and is
// safe for concurrent use.
type Engine struct {
	creator        embedding.Creator
	embeddingModel string
}

// NewEngine builds an Engine. creator may be nil, in which case the
// embedding_cosine method reports itself unavailable instead of silently
// falling back to another algorithm.
func NewEngine(creator embedding.Creator, embeddingModel string) *Engine {
	return &Engine{creator: creator, embeddingModel: embeddingModel}
}

// Score computes the similarity of the unordered pair (a, b) with the
// selected method.
func (e *Engine) Score(ctx context.Context, a, b string, method domain.Method) (float64, error) {
	switch method {
	case domain.MethodLexicalOverlap:
		return lexicalOverlap(a, b)
	case domain.MethodVectorCosine:
		return vectorCosine(a, b)
	case domain.MethodEmbeddingCosine:
		return e.embeddingCosine(ctx, a, b)
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMethod, method)
	}
}

func (e *Engine) embeddingCosine(ctx context.Context, a, b string) (float64, error) {
	if e.creator == nil {
		return 0, fmt.Errorf("%w: no embedding service configured", domain.ErrMethodUnavailable)
	}

	embA, err := e.creator.Generate(ctx, a, e.embeddingModel)
	if err != nil {
		return 0, fmt.Errorf("failed to embed first prompt: %w", err)
	}
	embB, err := e.creator.Generate(ctx, b, e.embeddingModel)
	if err != nil {
		return 0, fmt.Errorf("failed to embed second prompt: %w", err)
	}

	return cosine(embA.Value, embB.Value)
}

// cosine of two L2-normalized vectors is their dot product; norms are
// still checked so zero vectors surface as degenerate instead of NaN.
func cosine(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, domain.ErrDegenerateInput
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, domain.ErrDegenerateInput
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
