package embedding

import "time"

// Embedding is an L2-normalized dense vector for a piece of text.
type Embedding struct {
	Value     []float64 `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
