package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/models"
)

// CriteriaRepository defines data operations for evaluation criteria.
// Lookups are always scoped to the owning faculty.
type CriteriaRepository interface {
	ListByFaculty(ctx context.Context, facultyID uint) ([]models.Criterion, error)
	GetByID(ctx context.Context, id, facultyID uint) (models.Criterion, error)
	Create(ctx context.Context, criterion *models.Criterion) error
	Update(ctx context.Context, criterion *models.Criterion) error
	Delete(ctx context.Context, criterion *models.Criterion) error
}

type criteriaRepository struct {
	db *gorm.DB
}

// NewCriteriaRepository instantiates the repository.
func NewCriteriaRepository(db *gorm.DB) CriteriaRepository {
	return &criteriaRepository{db: db}
}

func (r *criteriaRepository) ListByFaculty(ctx context.Context, facultyID uint) ([]models.Criterion, error) {
	var criteria []models.Criterion
	if err := r.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("created_at ASC").
		Find(&criteria).Error; err != nil {
		return nil, err
	}

	return criteria, nil
}

func (r *criteriaRepository) GetByID(ctx context.Context, id, facultyID uint) (models.Criterion, error) {
	var criterion models.Criterion
	if err := r.db.WithContext(ctx).
		Where("id = ? AND faculty_id = ?", id, facultyID).
		First(&criterion).Error; err != nil {
		return models.Criterion{}, err
	}

	return criterion, nil
}

func (r *criteriaRepository) Create(ctx context.Context, criterion *models.Criterion) error {
	return r.db.WithContext(ctx).Create(criterion).Error
}

func (r *criteriaRepository) Update(ctx context.Context, criterion *models.Criterion) error {
	return r.db.WithContext(ctx).Save(criterion).Error
}

func (r *criteriaRepository) Delete(ctx context.Context, criterion *models.Criterion) error {
	return r.db.WithContext(ctx).Delete(criterion).Error
}
