package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/models"
)

// ErrStaleEvaluation indicates a concurrent writer advanced the evaluation
// version between read and write.
var ErrStaleEvaluation = errors.New("evaluation was modified concurrently")

// EvaluationRepository defines data operations for evaluation records.
type EvaluationRepository interface {
	GetByProject(ctx context.Context, projectID uint) (models.Evaluation, error)
	Create(ctx context.Context, evaluation *models.Evaluation) error
	// UpdateScores persists the score fields under an optimistic version
	// check; it fails with ErrStaleEvaluation when the stored version no
	// longer matches the one the evaluation was read at.
	UpdateScores(ctx context.Context, evaluation *models.Evaluation) error
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) GetByProject(ctx context.Context, projectID uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&evaluation).Error; err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (r *evaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepository) UpdateScores(ctx context.Context, evaluation *models.Evaluation) error {
	result := r.db.WithContext(ctx).Model(&models.Evaluation{}).
		Where("id = ? AND version = ?", evaluation.ID, evaluation.Version).
		Updates(map[string]interface{}{
			"ai_score":            evaluation.AIScore,
			"ai_feedback":         evaluation.AIFeedback,
			"ai_evaluated_at":     evaluation.AIEvaluatedAt,
			"manual_score":        evaluation.ManualScore,
			"manual_feedback":     evaluation.ManualFeedback,
			"manual_evaluated_at": evaluation.ManualEvaluatedAt,
			"version":             evaluation.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrStaleEvaluation
	}

	evaluation.Version++

	return nil
}
