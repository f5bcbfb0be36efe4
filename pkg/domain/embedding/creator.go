package embedding

import (
	"context"
	"errors"
)

var ErrProviderNonOKResponse = errors.New("embedding provider returned non-OK response")

// Creator encodes text into a dense vector with a pretrained model.
type Creator interface {
	Generate(ctx context.Context, text, model string) (*Embedding, error)
}
