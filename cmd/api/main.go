package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/projeval/projeval-api/internal/config"
	"github.com/projeval/projeval-api/internal/database"
	"github.com/projeval/projeval-api/internal/handler"
	"github.com/projeval/projeval-api/internal/middleware"
	"github.com/projeval/projeval-api/internal/models"
	"github.com/projeval/projeval-api/internal/repository"
	"github.com/projeval/projeval-api/internal/router"
	"github.com/projeval/projeval-api/internal/service"
	"github.com/projeval/projeval-api/pkg/ai"
	"github.com/projeval/projeval-api/pkg/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Faculty{},
		&models.Student{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Criterion{},
		&models.Evaluation{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis is optional; without it, result reads go straight to the
	// database on every request.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, results caching disabled")
	}

	storage, err := report.NewStorage(cfg.ReportDir)
	if err != nil {
		log.Fatalf("failed to prepare report storage: %v", err)
	}
	extractor := report.NewPDFExtractor(logger)

	evaluator := buildEvaluator(cfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	criteriaRepo := repository.NewCriteriaRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	criteriaService := service.NewCriteriaService(criteriaRepo, validate, logger)
	teamService := service.NewTeamService(teamRepo, studentRepo, projectRepo, validate, logger)
	projectService := service.NewProjectService(projectRepo, teamRepo, evaluationRepo, storage, cfg.MaxReportSizeMB, validate, logger)
	evaluationService := service.NewEvaluationService(projectRepo, criteriaRepo, evaluationRepo, extractor, evaluator, redisClient, validate, logger)
	resultsService := service.NewResultsService(projectRepo, evaluationRepo, redisClient, cfg.ResultsCacheTTL, logger)

	criteriaHandler := handler.NewCriteriaHandler(criteriaService, logger)
	teamHandler := handler.NewTeamHandler(teamService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, resultsService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxReportSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CriteriaHandler:   criteriaHandler,
		TeamHandler:       teamHandler,
		ProjectHandler:    projectHandler,
		EvaluationHandler: evaluationHandler,
		FacultyMiddleware: middleware.FacultyRequired(),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildEvaluator wires the configured AI provider. A missing key logs a
// warning and leaves automated evaluation disabled rather than blocking
// startup; everything else still works.
func buildEvaluator(cfg config.Config, logger zerolog.Logger) ai.Evaluator {
	switch cfg.AIProvider {
	case "gemini":
		evaluator, err := ai.NewGeminiEvaluator(context.Background(), ai.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Logger: logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("gemini evaluator unavailable, automated evaluation disabled")
			return nil
		}
		return evaluator
	case "openai":
		evaluator, err := ai.NewOpenAIEvaluator(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Logger: logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("openai evaluator unavailable, automated evaluation disabled")
			return nil
		}
		return evaluator
	default:
		logger.Warn().Msg("no ai provider configured, automated evaluation disabled")
		return nil
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
