package factory_test

import (
	"testing"

	"github.com/promptguard/promptgate/pkg/infra/providers/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderLocator_Get(t *testing.T) {
	locator := factory.NewProviderLocator()

	openaiClient, err := locator.Get(factory.ProviderOpenAI)
	require.NoError(t, err)
	assert.NotNil(t, openaiClient)

	anthropicClient, err := locator.Get(factory.ProviderAnthropic)
	require.NoError(t, err)
	assert.NotNil(t, anthropicClient)
}

func TestProviderLocator_Unknown(t *testing.T) {
	locator := factory.NewProviderLocator()

	client, err := locator.Get("bedrock")
	assert.Error(t, err)
	assert.Nil(t, client)
}
