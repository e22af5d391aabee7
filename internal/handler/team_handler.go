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

// TeamHandler wires team and membership HTTP routes.
type TeamHandler struct {
	service service.TeamService
	logger  zerolog.Logger
}

// NewTeamHandler constructs the handler.
func NewTeamHandler(service service.TeamService, logger zerolog.Logger) *TeamHandler {
	return &TeamHandler{
		service: service,
		logger:  logger.With().Str("component", "team_handler").Logger(),
	}
}

// Register attaches team endpoints to the router group.
func (h *TeamHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/members", h.addMember)
	router.Delete("/:id/members/:memberId", h.removeMember)
	router.Post("/:id/leader/:studentId", h.setLeader)
}

func (h *TeamHandler) list(c *fiber.Ctx) error {
	teams, err := h.service.List(c.Context(), middleware.FacultyID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "teams retrieved", teams)
}

func (h *TeamHandler) create(c *fiber.Ctx) error {
	var payload dto.TeamCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	team, err := h.service.Create(c.Context(), middleware.FacultyID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "team created", team)
}

func (h *TeamHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	team, err := h.service.Get(c.Context(), id, middleware.FacultyID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "team retrieved", team)
}

func (h *TeamHandler) addMember(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AddMemberRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	team, err := h.service.AddMember(c.Context(), id, middleware.FacultyID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "member added", team)
}

func (h *TeamHandler) removeMember(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	memberID, err := parseUintParam(c, "memberId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.RemoveMember(c.Context(), id, memberID, middleware.FacultyID(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "member removed", fiber.Map{"id": memberID})
}

func (h *TeamHandler) setLeader(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	credentials, err := h.service.SetLeader(c.Context(), id, studentID, middleware.FacultyID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "team leader assigned", credentials)
}

func (h *TeamHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "team not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrMemberNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "team member not found")
	case errors.Is(err, service.ErrTeamFull):
		return utils.SendError(c, fiber.StatusConflict, service.ErrTeamFull.Error())
	case errors.Is(err, service.ErrMemberExists):
		return utils.SendError(c, fiber.StatusConflict, service.ErrMemberExists.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
