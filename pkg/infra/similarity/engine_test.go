package similarity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promptguard/promptgate/pkg/domain/embedding"
	domain "github.com/promptguard/promptgate/pkg/domain/similarity"
	"github.com/promptguard/promptgate/pkg/infra/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCreator struct {
	vectors map[string][]float64
	err     error
}

func (s *stubCreator) Generate(_ context.Context, text, _ string) (*embedding.Embedding, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.Embedding{Value: s.vectors[text], CreatedAt: time.Now()}, nil
}

func TestLexicalOverlap_KnownValue(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	score, err := engine.Score(context.Background(), "the quick brown fox jumps", "the fox jumps over lazily", domain.MethodLexicalOverlap)
	require.NoError(t, err)
	assert.InDelta(t, 3.0/7.0, score, 1e-9)
}

func TestLexicalOverlap_Identity(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	score, err := engine.Score(context.Background(), "hello there world", "hello there world", domain.MethodLexicalOverlap)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestLexicalOverlap_Symmetry(t *testing.T) {
	engine := similarity.NewEngine(nil, "")
	pairs := [][2]string{
		{"alpha beta gamma", "beta gamma delta"},
		{"one two", "three four"},
		{"Tell me about AI", "Explain artificial intelligence to me"},
	}
	for _, pair := range pairs {
		ab, err := engine.Score(context.Background(), pair[0], pair[1], domain.MethodLexicalOverlap)
		require.NoError(t, err)
		ba, err := engine.Score(context.Background(), pair[1], pair[0], domain.MethodLexicalOverlap)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestLexicalOverlap_DisjointVocabularies(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	score, err := engine.Score(context.Background(), "alpha beta", "gamma delta", domain.MethodLexicalOverlap)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestLexicalOverlap_IgnoresCaseAndPunctuation(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	score, err := engine.Score(context.Background(), "Hello, World!", "hello world", domain.MethodLexicalOverlap)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestLexicalOverlap_OneEmptyIsZero(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	score, err := engine.Score(context.Background(), "", "hello world", domain.MethodLexicalOverlap)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestLexicalOverlap_BothEmptyIsDegenerate(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	_, err := engine.Score(context.Background(), "", "  ", domain.MethodLexicalOverlap)
	assert.ErrorIs(t, err, domain.ErrDegenerateInput)
}

func TestVectorCosine_Identity(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	score, err := engine.Score(context.Background(), "an identical sentence", "an identical sentence", domain.MethodVectorCosine)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestVectorCosine_PartialOverlap(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	score, err := engine.Score(context.Background(), "Tell me about AI", "Explain artificial intelligence to me", domain.MethodVectorCosine)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}

func TestVectorCosine_DisjointVocabulariesAreDegenerate(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	_, err := engine.Score(context.Background(), "alpha beta", "gamma delta", domain.MethodVectorCosine)
	assert.ErrorIs(t, err, domain.ErrDegenerateInput)
}

func TestVectorCosine_EmptyIsDegenerate(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	_, err := engine.Score(context.Background(), "", "hello", domain.MethodVectorCosine)
	assert.ErrorIs(t, err, domain.ErrDegenerateInput)

	_, err = engine.Score(context.Background(), "", "", domain.MethodVectorCosine)
	assert.ErrorIs(t, err, domain.ErrDegenerateInput)
}

func TestEmbeddingCosine_Unavailable(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	_, err := engine.Score(context.Background(), "a", "b", domain.MethodEmbeddingCosine)
	assert.ErrorIs(t, err, domain.ErrMethodUnavailable)
}

func TestEmbeddingCosine_UsesCreator(t *testing.T) {
	creator := &stubCreator{vectors: map[string][]float64{
		"first":  {1, 0, 0},
		"second": {0.6, 0.8, 0},
	}}
	engine := similarity.NewEngine(creator, "text-embedding-3-small")

	score, err := engine.Score(context.Background(), "first", "second", domain.MethodEmbeddingCosine)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, score, 1e-9)
}

func TestEmbeddingCosine_CreatorFailure(t *testing.T) {
	creator := &stubCreator{err: errors.New("provider down")}
	engine := similarity.NewEngine(creator, "text-embedding-3-small")

	_, err := engine.Score(context.Background(), "a", "b", domain.MethodEmbeddingCosine)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrMethodUnavailable)
}

func TestScore_InvalidMethod(t *testing.T) {
	engine := similarity.NewEngine(nil, "")

	_, err := engine.Score(context.Background(), "a", "b", domain.Method("levenshtein"))
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Method
		wantErr bool
	}{
		{"lexical_overlap", domain.MethodLexicalOverlap, false},
		{"jaccard", domain.MethodLexicalOverlap, false},
		{"vector_cosine", domain.MethodVectorCosine, false},
		{"cosine", domain.MethodVectorCosine, false},
		{"embedding_cosine", domain.MethodEmbeddingCosine, false},
		{"embedding", domain.MethodEmbeddingCosine, false},
		{"", "", true},
		{"euclidean", "", true},
	}
	for _, tc := range tests {
		got, err := domain.ParseMethod(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidMethod, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
