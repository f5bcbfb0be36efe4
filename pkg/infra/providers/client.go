package providers

import (
	"context"
	"errors"
)

// ErrGenerationFailed wraps any backend failure into one uniform error;
// the underlying cause stays on the chain for logs.
var ErrGenerationFailed = errors.New("generation failed")

type Config struct {
	Credentials  Credentials            `json:"credentials"`
	Model        string                 `json:"model"`
	MaxTokens    int                    `json:"max_tokens,omitempty"`
	Temperature  float64                `json:"temperature,omitempty"`
	SystemPrompt string                 `json:"system_prompt,omitempty"`
	Options      map[string]interface{} `json:"options,omitempty"`
}

type Credentials struct {
	ApiKey string `json:"api_key"`
}

// Client is a text-generation backend: accepts a string prompt, returns a
// string completion.
type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (*CompletionResponse, error)
}
