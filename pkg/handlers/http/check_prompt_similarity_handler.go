package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/promptguard/promptgate/pkg/app/guard"
	"github.com/promptguard/promptgate/pkg/domain/similarity"
	"github.com/promptguard/promptgate/pkg/handlers/http/request"
	"github.com/promptguard/promptgate/pkg/handlers/http/response"
	"github.com/promptguard/promptgate/pkg/infra/providers"
	"github.com/promptguard/promptgate/pkg/middleware"
	"github.com/sirupsen/logrus"
)

type checkPromptSimilarityHandler struct {
	logger        *logrus.Logger
	checker       guard.CheckPromptSimilarity
	defaultMethod string
}

func NewCheckPromptSimilarityHandler(
	logger *logrus.Logger,
	checker guard.CheckPromptSimilarity,
	defaultMethod string,
) Handler {
	return &checkPromptSimilarityHandler{
		logger:        logger,
		checker:       checker,
		defaultMethod: defaultMethod,
	}
}

// Handle @Summary Check prompt similarity
// @Description Moderates both prompts, scores their similarity and, when they clear the gate, returns a moderated completion
// @Tags Guard
// @Accept json
// @Produce json
// @Success 200 {object} response.CheckPromptSimilarityOutput
// @Router /check_prompt_similarity [post]
func (h *checkPromptSimilarityHandler) Handle(c *fiber.Ctx) error {
	var req request.CheckPromptSimilarityRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("Failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	method := req.SimilarityMethod
	if method == "" {
		method = h.defaultMethod
	}

	result, err := h.checker.Check(c.Context(), req.Prompt1, req.Prompt2, method, req.LLMModel)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(response.CheckPromptSimilarityOutput{
		StatusCode:       fiber.StatusOK,
		LLMResponse:      result.LLMResponse,
		SimilarityScore:  result.SimilarityScore,
		IsSimilar:        result.IsSimilar,
		SanitizedPrompt1: result.SanitizedPrompt1,
		SanitizedPrompt2: result.SanitizedPrompt2,
	})
}

func (h *checkPromptSimilarityHandler) mapError(c *fiber.Ctx, err error) error {
	var rejection *guard.PolicyRejectionError
	switch {
	case errors.As(err, &rejection):
		h.logger.WithFields(logrus.Fields{
			"request_id": c.Locals(middleware.RequestIDKey),
			"direction":  rejection.Direction,
			"risk_score": rejection.Rejection.RiskScore,
		}).Warn("request rejected by moderation")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":     "rejected",
			"message":    rejection.Rejection.Reason,
			"direction":  rejection.Direction,
			"risk_score": rejection.Rejection.RiskScore,
		})
	case errors.Is(err, similarity.ErrInvalidMethod), errors.Is(err, similarity.ErrMethodUnavailable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, similarity.ErrDegenerateInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, providers.ErrGenerationFailed):
		h.logger.WithError(err).Error("generation backend unavailable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "generation backend failed"})
	default:
		h.logger.WithError(err).Error("check prompt similarity failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
