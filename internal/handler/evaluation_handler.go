package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/projeval/projeval-api/internal/dto"
	"github.com/projeval/projeval-api/internal/middleware"
	"github.com/projeval/projeval-api/internal/service"
	"github.com/projeval/projeval-api/internal/utils"
)

// EvaluationHandler wires the evaluation and results HTTP routes.
type EvaluationHandler struct {
	evaluations service.EvaluationService
	results     service.ResultsService
	logger      zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(evaluations service.EvaluationService, results service.ResultsService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		evaluations: evaluations,
		results:     results,
		logger:      logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches evaluation endpoints to the projects router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("/:id/evaluate/ai", h.evaluateAutomated)
	router.Post("/:id/evaluate/manual", h.recordManual)
	router.Get("/:id/results", h.getResults)
}

func (h *EvaluationHandler) evaluateAutomated(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.evaluations.EvaluateAutomated(c.Context(), id, middleware.FacultyID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "automated evaluation completed", evaluation)
}

func (h *EvaluationHandler) recordManual(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ManualEvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.evaluations.RecordManualScore(c.Context(), id, middleware.FacultyID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "manual evaluation recorded", evaluation)
}

func (h *EvaluationHandler) getResults(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.results.Get(c.Context(), id, middleware.FacultyID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation results retrieved", evaluation)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrEvaluationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not evaluated yet")
	case errors.Is(err, service.ErrNoCriteria):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrNoCriteria.Error())
	case errors.Is(err, service.ErrInvalidManualScore):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrInvalidManualScore.Error())
	case errors.Is(err, service.ErrEvaluatorNotConfigured):
		return utils.SendError(c, fiber.StatusServiceUnavailable, service.ErrEvaluatorNotConfigured.Error())
	case errors.Is(err, service.ErrEvaluatorUnavailable):
		return utils.SendError(c, fiber.StatusBadGateway, service.ErrEvaluatorUnavailable.Error())
	case errors.Is(err, service.ErrEvaluationConflict):
		return utils.SendError(c, fiber.StatusConflict, service.ErrEvaluationConflict.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
