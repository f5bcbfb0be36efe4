package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/promptguard/promptgate/pkg/app/guard"
	"github.com/promptguard/promptgate/pkg/config"
	"github.com/promptguard/promptgate/pkg/domain/embedding"
	handlers "github.com/promptguard/promptgate/pkg/handlers/http"
	openaiembedding "github.com/promptguard/promptgate/pkg/infra/embedding/openai"
	infraLogger "github.com/promptguard/promptgate/pkg/infra/logger"
	"github.com/promptguard/promptgate/pkg/infra/moderation"
	"github.com/promptguard/promptgate/pkg/infra/providers/factory"
	"github.com/promptguard/promptgate/pkg/infra/similarity"
	"github.com/promptguard/promptgate/pkg/middleware"
	"github.com/promptguard/promptgate/pkg/server"
	"github.com/valyala/fasthttp"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	cfg, err := config.Load("./config")
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	moderator, err := moderation.NewModerator(moderation.Policy{
		DisallowedPhrases:   cfg.Moderation.DisallowedPhrases,
		InjectionPatterns:   cfg.Moderation.InjectionPatterns,
		CategoryWeights:     cfg.Moderation.CategoryWeights,
		CategoryThresholds:  cfg.Moderation.CategoryThresholds,
		InputRiskThreshold:  cfg.Moderation.InputRiskThreshold,
		OutputRiskThreshold: cfg.Moderation.OutputRiskThreshold,
		PhraseMultiplier:    cfg.Moderation.PhraseMultiplier,
		MaxTextLength:       cfg.Moderation.MaxTextLength,
		RedactionMarker:     cfg.Moderation.RedactionMarker,
	})
	if err != nil {
		logger.Fatalf("Failed to build moderator: %v", err)
	}

	// embedding_cosine stays unavailable without an OpenAI key
	var embeddingCreator embedding.Creator
	if cfg.Providers.OpenAI.ApiKey != "" {
		embeddingCreator = openaiembedding.NewOpenAIEmbeddingService(
			&fasthttp.Client{},
			cfg.Providers.OpenAI.ApiKey,
			logger,
		)
	}
	engine := similarity.NewEngine(embeddingCreator, cfg.Similarity.EmbeddingModel)

	checker := guard.NewCheckPromptSimilarity(
		moderator,
		engine,
		factory.NewProviderLocator(),
		cfg.Providers,
		cfg.Similarity.Threshold,
		logger,
	)

	handlerTransport := handlers.HandlerTransport{
		CheckPromptSimilarityHandler: handlers.NewCheckPromptSimilarityHandler(logger, checker, cfg.Similarity.DefaultMethod),
		GetVersionHandler:            handlers.NewGetVersionHandler(logger),
	}

	middlewareTransport := middleware.Transport{
		RequestIDMiddleware: middleware.NewRequestIDMiddleware(),
	}

	gatewayServer := server.NewGatewayServer(server.GatewayServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- gatewayServer.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Gateway server failed: %v", err)
		}
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Shutting down gateway server")
		if err := gatewayServer.Shutdown(); err != nil {
			logger.WithError(err).Error("Failed to shut down gateway server")
		}
	}
}
