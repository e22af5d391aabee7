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

// CriteriaHandler wires evaluation criteria HTTP routes.
type CriteriaHandler struct {
	service service.CriteriaService
	logger  zerolog.Logger
}

// NewCriteriaHandler constructs the handler.
func NewCriteriaHandler(service service.CriteriaService, logger zerolog.Logger) *CriteriaHandler {
	return &CriteriaHandler{
		service: service,
		logger:  logger.With().Str("component", "criteria_handler").Logger(),
	}
}

// Register attaches criteria endpoints to the router group.
func (h *CriteriaHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *CriteriaHandler) list(c *fiber.Ctx) error {
	criteria, err := h.service.List(c.Context(), middleware.FacultyID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "criteria retrieved", criteria)
}

func (h *CriteriaHandler) create(c *fiber.Ctx) error {
	var payload dto.CriterionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	criterion, err := h.service.Create(c.Context(), middleware.FacultyID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "criterion created", criterion)
}

func (h *CriteriaHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CriterionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	criterion, err := h.service.Update(c.Context(), id, middleware.FacultyID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "criterion updated", criterion)
}

func (h *CriteriaHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, middleware.FacultyID(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "criterion deleted", fiber.Map{"id": id})
}

func (h *CriteriaHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCriterionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "criterion not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
