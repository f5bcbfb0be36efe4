// Package guard drives the moderate -> compare -> generate -> moderate
// pipeline for a pair of candidate prompts.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promptguard/promptgate/pkg/config"
	domainmod "github.com/promptguard/promptgate/pkg/domain/moderation"
	domainsim "github.com/promptguard/promptgate/pkg/domain/similarity"
	"github.com/promptguard/promptgate/pkg/infra/moderation"
	"github.com/promptguard/promptgate/pkg/infra/prometheus"
	"github.com/promptguard/promptgate/pkg/infra/providers"
	"github.com/promptguard/promptgate/pkg/infra/providers/factory"
	"github.com/promptguard/promptgate/pkg/infra/similarity"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const notSimilarMessage = "The prompts are not similar enough to generate a meaningful response."

// Direction tags which moderation pass rejected the content.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// PolicyRejectionError is a normal moderation outcome surfaced through the
// error channel so handlers can map it to a client response; it is never
// retried and never fatal.
type PolicyRejectionError struct {
	Direction Direction
	Rejection domainmod.Rejection
}

func (e *PolicyRejectionError) Error() string {
	return e.Rejection.Reason
}

type CheckResult struct {
	LLMResponse      string
	SimilarityScore  float64
	IsSimilar        bool
	SanitizedPrompt1 string
	SanitizedPrompt2 string
}

type CheckPromptSimilarity interface {
	Check(ctx context.Context, prompt1, prompt2, method, model string) (*CheckResult, error)
}

type service struct {
	moderator       *moderation.Moderator
	engine          *similarity.Engine
	locator         factory.ProviderLocator
	providersConfig config.ProvidersConfig
	threshold       float64
	breaker         *gobreaker.CircuitBreaker
	logger          *logrus.Logger
}

func NewCheckPromptSimilarity(
	moderator *moderation.Moderator,
	engine *similarity.Engine,
	locator factory.ProviderLocator,
	providersConfig config.ProvidersConfig,
	similarityThreshold float64,
	logger *logrus.Logger,
) CheckPromptSimilarity {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "generation-backend",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &service{
		moderator:       moderator,
		engine:          engine,
		locator:         locator,
		providersConfig: providersConfig,
		threshold:       similarityThreshold,
		breaker:         breaker,
		logger:          logger,
	}
}

func (s *service) Check(ctx context.Context, prompt1, prompt2, method, model string) (*CheckResult, error) {
	parsedMethod, err := domainsim.ParseMethod(method)
	if err != nil {
		return nil, err
	}

	sanitized1, err := s.moderate(prompt1)
	if err != nil {
		return nil, err
	}
	sanitized2, err := s.moderate(prompt2)
	if err != nil {
		return nil, err
	}

	score, err := s.engine.Score(ctx, sanitized1, sanitized2, parsedMethod)
	if err != nil {
		return nil, err
	}
	prometheus.SimilarityScore.WithLabelValues(string(parsedMethod)).Observe(score)

	result := &CheckResult{
		SimilarityScore:  score,
		SanitizedPrompt1: sanitized1,
		SanitizedPrompt2: sanitized2,
	}

	if score < s.threshold {
		result.LLMResponse = notSimilarMessage
		return result, nil
	}
	result.IsSimilar = true

	completion, err := s.generate(ctx, sanitized1, model)
	if err != nil {
		return nil, err
	}

	outcome := s.moderator.ModerateOutput(completion.Response)
	prometheus.ModerationVerdictTotal.WithLabelValues(string(DirectionOutput), string(outcome.Action())).Inc()
	sanitizedOutput, ok := outcome.SanitizedText()
	if !ok {
		rejection, _ := outcome.Rejection()
		s.logger.WithFields(logrus.Fields{
			"risk_score": rejection.RiskScore,
			"direction":  DirectionOutput,
		}).Warn("generated output rejected by moderation")
		return nil, &PolicyRejectionError{Direction: DirectionOutput, Rejection: rejection}
	}

	result.LLMResponse = sanitizedOutput
	return result, nil
}

func (s *service) moderate(prompt string) (string, error) {
	outcome := s.moderator.ModerateInput(prompt)
	prometheus.ModerationVerdictTotal.WithLabelValues(string(DirectionInput), string(outcome.Action())).Inc()
	sanitized, ok := outcome.SanitizedText()
	if !ok {
		rejection, _ := outcome.Rejection()
		s.logger.WithFields(logrus.Fields{
			"risk_score": rejection.RiskScore,
			"category":   rejection.Category,
			"direction":  DirectionInput,
		}).Warn("prompt rejected by moderation")
		return "", &PolicyRejectionError{Direction: DirectionInput, Rejection: rejection}
	}
	return sanitized, nil
}

func (s *service) generate(ctx context.Context, prompt, model string) (*providers.CompletionResponse, error) {
	providerName, providerConfig := s.resolveProvider(model)

	client, err := s.locator.Get(providerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrGenerationFailed, err)
	}

	start := time.Now()
	value, err := s.breaker.Execute(func() (interface{}, error) {
		return client.Ask(ctx, providerConfig, prompt)
	})
	prometheus.GenerationLatency.WithLabelValues(providerName).
		Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		prometheus.GenerationFailuresTotal.WithLabelValues(providerName).Inc()
		s.logger.WithError(err).WithField("provider", providerName).Error("generation backend call failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", providers.ErrGenerationFailed, err)
	}

	completion, ok := value.(*providers.CompletionResponse)
	if !ok || completion == nil {
		return nil, fmt.Errorf("%w: backend returned no completion", providers.ErrGenerationFailed)
	}
	return completion, nil
}

// resolveProvider picks the backend for the requested model, falling back
// to the configured default provider and its model.
func (s *service) resolveProvider(model string) (string, *providers.Config) {
	name := s.providersConfig.Default
	if name == "" {
		name = factory.ProviderOpenAI
	}

	var cfg config.ProviderConfig
	switch name {
	case factory.ProviderAnthropic:
		cfg = s.providersConfig.Anthropic
	default:
		cfg = s.providersConfig.OpenAI
	}

	if model == "" {
		model = cfg.Model
	}

	return name, &providers.Config{
		Credentials: providers.Credentials{ApiKey: cfg.ApiKey},
		Model:       model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}
