package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Similarity SimilarityConfig `mapstructure:"similarity"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ModerationConfig is the process-wide moderation policy. It is loaded once
// at startup and treated as immutable afterwards; every moderation call
// reads the same snapshot.
type ModerationConfig struct {
	DisallowedPhrases   []string           `mapstructure:"disallowed_phrases"`
	InjectionPatterns   []string           `mapstructure:"injection_patterns"`
	CategoryWeights     map[string]float64 `mapstructure:"category_weights"`
	CategoryThresholds  map[string]float64 `mapstructure:"category_thresholds"`
	InputRiskThreshold  float64            `mapstructure:"input_risk_threshold"`
	OutputRiskThreshold float64            `mapstructure:"output_risk_threshold"`
	PhraseMultiplier    float64            `mapstructure:"phrase_multiplier"`
	MaxTextLength       int                `mapstructure:"max_text_length"`
	RedactionMarker     string             `mapstructure:"redaction_marker"`
}

type SimilarityConfig struct {
	Threshold      float64 `mapstructure:"threshold"`
	DefaultMethod  string  `mapstructure:"default_method"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
}

type ProvidersConfig struct {
	Default   string         `mapstructure:"default"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
}

type ProviderConfig struct {
	ApiKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// Load reads config.yaml from configPath (environment variables override
// file values) and returns an immutable snapshot.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no file is fine, defaults plus environment apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default moderation policy. Weights, thresholds and the phrase list match
// the shipped config.yaml so a bare binary behaves the same as a deployed
// one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("metrics.enabled", true)

	v.SetDefault("moderation.disallowed_phrases", []string{
		"kill", "bomb", "attack", "suicide", "nsfw", "nazi", "rape", "execute",
		"drop database", "shutdown", "hack", "backdoor", "exploit", "killer",
	})
	v.SetDefault("moderation.injection_patterns", []string{
		`(ignore|disregard)\s+(all|previous)?\s*(instructions|rules)`,
		`pretend\s+(to|you are)`,
		`bypass.*filter`,
		`as\s+an\s+AI\s+language\s+model`,
		`<\|.*?\|>`,
		`system:\s*`,
	})
	v.SetDefault("moderation.category_weights", map[string]float64{
		"injection":         0.5,
		"profanity":         0.3,
		"disallowed_phrase": 0.4,
	})
	v.SetDefault("moderation.category_thresholds", map[string]float64{
		"injection":         0.5,
		"profanity":         0.5,
		"disallowed_phrase": 0.3,
	})
	v.SetDefault("moderation.input_risk_threshold", 0.7)
	v.SetDefault("moderation.output_risk_threshold", 0.6)
	v.SetDefault("moderation.phrase_multiplier", 0.33)
	v.SetDefault("moderation.max_text_length", 512)
	v.SetDefault("moderation.redaction_marker", "[redacted]")

	v.SetDefault("similarity.threshold", 0.1)
	v.SetDefault("similarity.default_method", "vector_cosine")
	v.SetDefault("similarity.embedding_model", "text-embedding-3-small")

	v.SetDefault("providers.default", "openai")
	// empty defaults register the keys so AutomaticEnv can fill them
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.model", "gpt-4o-mini")
	v.SetDefault("providers.openai.max_tokens", 512)
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("providers.anthropic.max_tokens", 512)
}
