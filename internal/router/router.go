package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projeval/projeval-api/internal/config"
	"github.com/projeval/projeval-api/internal/handler"
	"github.com/projeval/projeval-api/internal/middleware"
	"github.com/projeval/projeval-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CriteriaHandler   *handler.CriteriaHandler
	TeamHandler       *handler.TeamHandler
	ProjectHandler    *handler.ProjectHandler
	EvaluationHandler *handler.EvaluationHandler
	FacultyMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	facultyMiddleware := deps.FacultyMiddleware
	if facultyMiddleware == nil {
		facultyMiddleware = middleware.FacultyRequired()
	}

	if deps.CriteriaHandler != nil {
		criteria := api.Group("/criteria", facultyMiddleware)
		deps.CriteriaHandler.Register(criteria)
	}

	if deps.TeamHandler != nil {
		teams := api.Group("/teams", facultyMiddleware)
		deps.TeamHandler.Register(teams)
	}

	if deps.ProjectHandler != nil {
		// Leader submissions carry their own credentials and bypass the
		// faculty identity requirement.
		submissions := api.Group("/submissions")
		deps.ProjectHandler.RegisterSubmission(submissions)

		projects := api.Group("/projects", facultyMiddleware)
		deps.ProjectHandler.RegisterFaculty(projects)

		if deps.EvaluationHandler != nil {
			deps.EvaluationHandler.Register(projects)
		}
	}
}
