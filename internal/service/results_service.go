package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/dto"
	"github.com/projeval/projeval-api/internal/repository"
)

// ErrEvaluationNotFound indicates the project has not been evaluated yet.
var ErrEvaluationNotFound = errors.New("project not evaluated yet")

// ResultsService serves the complete evaluation record for a project,
// cached briefly since result pages are read far more often than scores
// are written.
type ResultsService interface {
	Get(ctx context.Context, projectID, facultyID uint) (dto.EvaluationResponse, error)
}

type resultsService struct {
	projects    repository.ProjectRepository
	evaluations repository.EvaluationRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewResultsService constructs the results service.
func NewResultsService(projects repository.ProjectRepository, evaluations repository.EvaluationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ResultsService {
	return &resultsService{
		projects:    projects,
		evaluations: evaluations,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "results_service").Logger(),
	}
}

func resultsCacheKey(projectID uint) string {
	return fmt.Sprintf("evaluation:results:%d", projectID)
}

func (s *resultsService) Get(ctx context.Context, projectID, facultyID uint) (dto.EvaluationResponse, error) {
	// Ownership is always re-validated, even on a cache hit.
	if _, err := s.projects.GetByIDForFaculty(ctx, projectID, facultyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrProjectNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	key := resultsCacheKey(projectID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var response dto.EvaluationResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("project_id", projectID).Msg("results cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read results cache")
		}
	}

	evaluation, err := s.evaluations.GetByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	response := dto.NewEvaluationResponse(evaluation)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store results cache")
			}
		}
	}

	return response, nil
}
