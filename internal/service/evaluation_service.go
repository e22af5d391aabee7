package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/dto"
	"github.com/projeval/projeval-api/internal/feedback"
	"github.com/projeval/projeval-api/internal/models"
	"github.com/projeval/projeval-api/internal/repository"
	"github.com/projeval/projeval-api/pkg/ai"
	"github.com/projeval/projeval-api/pkg/report"
)

var (
	// ErrNoCriteria indicates the faculty has not defined any evaluation criteria yet.
	ErrNoCriteria = errors.New("no evaluation criteria defined")
	// ErrEvaluatorNotConfigured indicates no AI evaluator was wired at startup.
	ErrEvaluatorNotConfigured = errors.New("ai evaluator is not configured")
	// ErrEvaluatorUnavailable indicates the external evaluation call failed.
	ErrEvaluatorUnavailable = errors.New("ai evaluation failed")
	// ErrInvalidManualScore indicates the manual score is not a number in [0, 100].
	ErrInvalidManualScore = errors.New("manual score must be a number between 0 and 100")
	// ErrEvaluationConflict indicates concurrent score writes kept colliding.
	ErrEvaluationConflict = errors.New("evaluation was updated concurrently, please retry")
)

// casAttempts bounds how often a score write is retried after losing the
// optimistic version check to a concurrent writer.
const casAttempts = 3

// EvaluationService merges automated and manual scores into one evaluation
// record per project and drives the project status transition.
type EvaluationService interface {
	EvaluateAutomated(ctx context.Context, projectID, facultyID uint) (dto.EvaluationResponse, error)
	RecordManualScore(ctx context.Context, projectID, facultyID uint, payload dto.ManualEvaluationRequest) (dto.EvaluationResponse, error)
}

type evaluationService struct {
	projects    repository.ProjectRepository
	criteria    repository.CriteriaRepository
	evaluations repository.EvaluationRepository
	extractor   report.TextExtractor
	evaluator   ai.Evaluator
	cache       *redis.Client
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEvaluationService constructs the evaluation service. evaluator may be
// nil when no AI provider is configured; automated evaluation then fails
// with ErrEvaluatorNotConfigured instead of an ambient misconfiguration.
func NewEvaluationService(
	projects repository.ProjectRepository,
	criteria repository.CriteriaRepository,
	evaluations repository.EvaluationRepository,
	extractor report.TextExtractor,
	evaluator ai.Evaluator,
	cache *redis.Client,
	validator *validator.Validate,
	logger zerolog.Logger,
) EvaluationService {
	return &evaluationService{
		projects:    projects,
		criteria:    criteria,
		evaluations: evaluations,
		extractor:   extractor,
		evaluator:   evaluator,
		cache:       cache,
		validator:   validator,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		tracer:      otel.Tracer("github.com/projeval/projeval-api/internal/service/evaluation"),
		now:         time.Now,
	}
}

func (s *evaluationService) EvaluateAutomated(ctx context.Context, projectID, facultyID uint) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.automated", trace.WithAttributes(
		attribute.Int64("evaluation.project_id", int64(projectID)),
		attribute.Int64("evaluation.faculty_id", int64(facultyID)),
	))
	defer span.End()

	project, err := s.projects.GetByIDForFaculty(ctx, projectID, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrProjectNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	criteria, err := s.criteria.ListByFaculty(ctx, facultyID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}
	if len(criteria) == 0 {
		return dto.EvaluationResponse{}, ErrNoCriteria
	}

	if s.evaluator == nil {
		return dto.EvaluationResponse{}, ErrEvaluatorNotConfigured
	}

	// Extraction never fails; degradations arrive as sentinel text and
	// flow into the prompt.
	reportText := s.extractor.ExtractText(project.ReportPath)

	snapshots := make([]models.CriterionSnapshot, 0, len(criteria))
	for _, criterion := range criteria {
		snapshots = append(snapshots, models.CriterionSnapshot{
			Name:        criterion.Name,
			Description: criterion.Description,
			MaxMarks:    criterion.MaxMarks,
		})
	}

	prompt := buildEvaluationPrompt(promptInput{
		ProjectName: project.Name,
		RepoLink:    project.RepoLink,
		TeamName:    project.Team.Name,
		ReportText:  reportText,
		Criteria:    snapshots,
	})

	raw, err := s.evaluator.Evaluate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluator_call_failed")
		s.logger.Error().Err(err).Uint("project_id", projectID).Msg("ai evaluation call failed")
		return dto.EvaluationResponse{}, fmt.Errorf("%w: %v", ErrEvaluatorUnavailable, err)
	}

	score := feedback.ExtractScore(raw, models.TotalMarks(snapshots))
	html := feedback.FormatHTML(raw)
	evaluatedAt := s.now()

	evaluation, err := s.writeScores(ctx, project, criteria, func(evaluation *models.Evaluation) {
		evaluation.AIScore = &score
		evaluation.AIFeedback = html
		evaluation.AIEvaluatedAt = &evaluatedAt
	})
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	span.SetAttributes(attribute.Float64("evaluation.ai_score", score))
	s.logger.Info().Uint("project_id", projectID).Float64("score", score).Msg("automated evaluation recorded")

	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) RecordManualScore(ctx context.Context, projectID, facultyID uint, payload dto.ManualEvaluationRequest) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.manual", trace.WithAttributes(
		attribute.Int64("evaluation.project_id", int64(projectID)),
		attribute.Int64("evaluation.faculty_id", int64(facultyID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(payload.Score), 64)
	if err != nil || score < 0 || score > 100 {
		return dto.EvaluationResponse{}, ErrInvalidManualScore
	}

	project, err := s.projects.GetByIDForFaculty(ctx, projectID, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrProjectNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	criteria, err := s.criteria.ListByFaculty(ctx, facultyID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}
	if len(criteria) == 0 {
		return dto.EvaluationResponse{}, ErrNoCriteria
	}

	sanitized := s.sanitizer.Sanitize(payload.Feedback)
	evaluatedAt := s.now()

	evaluation, err := s.writeScores(ctx, project, criteria, func(evaluation *models.Evaluation) {
		evaluation.ManualScore = &score
		evaluation.ManualFeedback = sanitized
		evaluation.ManualEvaluatedAt = &evaluatedAt
	})
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	span.SetAttributes(attribute.Float64("evaluation.manual_score", score))
	s.logger.Info().Uint("project_id", projectID).Float64("score", score).Msg("manual evaluation recorded")

	return dto.NewEvaluationResponse(evaluation), nil
}

// writeScores applies one score mutation under the optimistic version
// check, re-reading and re-applying on conflict. The evaluation record is
// created lazily with its frozen criteria snapshot on the first write.
func (s *evaluationService) writeScores(ctx context.Context, project models.Project, criteria []models.Criterion, mutate func(*models.Evaluation)) (models.Evaluation, error) {
	var evaluation models.Evaluation

	for attempt := 0; attempt < casAttempts; attempt++ {
		current, err := s.getOrCreate(ctx, project, criteria)
		if err != nil {
			return models.Evaluation{}, err
		}

		mutate(&current)

		err = s.evaluations.UpdateScores(ctx, &current)
		if err == nil {
			evaluation = current
			break
		}
		if !errors.Is(err, repository.ErrStaleEvaluation) {
			return models.Evaluation{}, err
		}
		if attempt == casAttempts-1 {
			return models.Evaluation{}, ErrEvaluationConflict
		}
	}

	if evaluation.IsFullyEvaluated() && project.Status != models.ProjectStatusEvaluated {
		if err := s.projects.UpdateStatus(ctx, project.ID, models.ProjectStatusEvaluated); err != nil {
			return models.Evaluation{}, err
		}
	}

	s.invalidateResults(ctx, project.ID)

	return evaluation, nil
}

func (s *evaluationService) getOrCreate(ctx context.Context, project models.Project, criteria []models.Criterion) (models.Evaluation, error) {
	evaluation, err := s.evaluations.GetByProject(ctx, project.ID)
	if err == nil {
		return evaluation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Evaluation{}, err
	}

	snapshot, err := models.SnapshotCriteria(criteria)
	if err != nil {
		return models.Evaluation{}, err
	}

	evaluation = models.Evaluation{
		ProjectID: project.ID,
		FacultyID: project.Team.FacultyID,
		Criteria:  snapshot,
	}
	if err := s.evaluations.Create(ctx, &evaluation); err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (s *evaluationService) invalidateResults(ctx context.Context, projectID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, resultsCacheKey(projectID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("project_id", projectID).Msg("failed to invalidate results cache")
	}
}
