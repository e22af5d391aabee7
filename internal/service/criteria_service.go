package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/dto"
	"github.com/projeval/projeval-api/internal/models"
	"github.com/projeval/projeval-api/internal/repository"
)

// ErrCriterionNotFound indicates the criterion does not exist for this faculty.
var ErrCriterionNotFound = errors.New("criterion not found")

// CriteriaService manages the evaluation criteria owned by a faculty member.
// Criteria may be edited or deleted freely; evaluations keep their own
// frozen snapshot and are never affected.
type CriteriaService interface {
	List(ctx context.Context, facultyID uint) ([]dto.CriterionResponse, error)
	Create(ctx context.Context, facultyID uint, payload dto.CriterionCreateRequest) (dto.CriterionResponse, error)
	Update(ctx context.Context, id, facultyID uint, payload dto.CriterionUpdateRequest) (dto.CriterionResponse, error)
	Delete(ctx context.Context, id, facultyID uint) error
}

type criteriaService struct {
	repo      repository.CriteriaRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCriteriaService constructs the criteria service.
func NewCriteriaService(repo repository.CriteriaRepository, validator *validator.Validate, logger zerolog.Logger) CriteriaService {
	return &criteriaService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "criteria_service").Logger(),
	}
}

func (s *criteriaService) List(ctx context.Context, facultyID uint) ([]dto.CriterionResponse, error) {
	criteria, err := s.repo.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	return dto.NewCriterionResponseSlice(criteria), nil
}

func (s *criteriaService) Create(ctx context.Context, facultyID uint, payload dto.CriterionCreateRequest) (dto.CriterionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CriterionResponse{}, err
	}

	criterion := models.Criterion{
		FacultyID:   facultyID,
		Name:        payload.Name,
		Description: payload.Description,
		MaxMarks:    payload.MaxMarks,
	}

	if err := s.repo.Create(ctx, &criterion); err != nil {
		return dto.CriterionResponse{}, err
	}

	s.logger.Info().Uint("criterion_id", criterion.ID).Uint("faculty_id", facultyID).Msg("criterion created")

	return dto.NewCriterionResponse(criterion), nil
}

func (s *criteriaService) Update(ctx context.Context, id, facultyID uint, payload dto.CriterionUpdateRequest) (dto.CriterionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CriterionResponse{}, err
	}

	criterion, err := s.repo.GetByID(ctx, id, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CriterionResponse{}, ErrCriterionNotFound
		}
		return dto.CriterionResponse{}, err
	}

	criterion.Name = payload.Name
	criterion.Description = payload.Description
	criterion.MaxMarks = payload.MaxMarks

	if err := s.repo.Update(ctx, &criterion); err != nil {
		return dto.CriterionResponse{}, err
	}

	return dto.NewCriterionResponse(criterion), nil
}

func (s *criteriaService) Delete(ctx context.Context, id, facultyID uint) error {
	criterion, err := s.repo.GetByID(ctx, id, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCriterionNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, &criterion); err != nil {
		return err
	}

	s.logger.Info().Uint("criterion_id", id).Uint("faculty_id", facultyID).Msg("criterion deleted")

	return nil
}
