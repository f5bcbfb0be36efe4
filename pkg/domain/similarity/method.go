package similarity

import "errors"

var (
	// ErrInvalidMethod is returned for an unknown method selector.
	ErrInvalidMethod = errors.New("invalid similarity method")
	// ErrDegenerateInput is returned when the selected algorithm has no
	// mathematically defined answer for the given pair, e.g. two empty
	// token sets. Never coerced to 0.0.
	ErrDegenerateInput = errors.New("similarity is undefined for the given inputs")
	// ErrMethodUnavailable is returned when a method is recognized but not
	// wired in this deployment (no embedding service configured).
	ErrMethodUnavailable = errors.New("similarity method unavailable")
)

// Method selects the scoring algorithm. Scores are method-dependent and
// not comparable across methods.
type Method string

const (
	MethodLexicalOverlap  Method = "lexical_overlap"
	MethodVectorCosine    Method = "vector_cosine"
	MethodEmbeddingCosine Method = "embedding_cosine"
)

// ParseMethod resolves a request selector to a Method. The short aliases
// are the selectors older clients send.
func ParseMethod(s string) (Method, error) {
	switch s {
	case string(MethodLexicalOverlap), "jaccard":
		return MethodLexicalOverlap, nil
	case string(MethodVectorCosine), "cosine":
		return MethodVectorCosine, nil
	case string(MethodEmbeddingCosine), "embedding":
		return MethodEmbeddingCosine, nil
	default:
		return "", ErrInvalidMethod
	}
}
