package factory

import (
	"fmt"

	"github.com/promptguard/promptgate/pkg/infra/providers"
	"github.com/promptguard/promptgate/pkg/infra/providers/anthropic"
	"github.com/promptguard/promptgate/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	openai    providers.Client
	anthropic providers.Client
}

func NewProviderLocator() ProviderLocator {
	return &providerLocator{
		openai:    openai.NewOpenaiClient(),
		anthropic: anthropic.NewAnthropicClient(),
	}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	switch provider {
	case ProviderOpenAI:
		return f.openai, nil
	case ProviderAnthropic:
		return f.anthropic, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
