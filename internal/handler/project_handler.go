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

// ProjectHandler wires project HTTP routes. Submission is performed by a
// team leader with their issued credentials; viewing is faculty-scoped.
type ProjectHandler struct {
	service service.ProjectService
	logger  zerolog.Logger
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(service service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger.With().Str("component", "project_handler").Logger(),
	}
}

// RegisterFaculty attaches the faculty-facing project endpoints.
func (h *ProjectHandler) RegisterFaculty(router fiber.Router) {
	router.Get("/:id", h.get)
}

// RegisterSubmission attaches the leader-facing submission endpoint.
func (h *ProjectHandler) RegisterSubmission(router fiber.Router) {
	router.Post("", h.submit)
}

func (h *ProjectHandler) submit(c *fiber.Ctx) error {
	payload := dto.ProjectSubmitRequest{
		LeaderUsername: c.FormValue("leader_username"),
		LeaderPassword: c.FormValue("leader_password"),
		ProjectName:    c.FormValue("project_name"),
		RepoLink:       c.FormValue("repo_link"),
	}

	file, err := c.FormFile("report")
	if err != nil {
		file = nil
	}

	project, err := h.service.Submit(c.Context(), payload, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "project submitted", project)
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := h.service.Get(c.Context(), id, middleware.FacultyID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "project retrieved", project)
}

func (h *ProjectHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrInvalidLeaderCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrInvalidLeaderCredentials.Error())
	case errors.Is(err, service.ErrReportRequired):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrReportRequired.Error())
	case errors.Is(err, service.ErrReportNotPDF):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrReportNotPDF.Error())
	case errors.Is(err, service.ErrReportTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, service.ErrReportTooLarge.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
