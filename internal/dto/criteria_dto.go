package dto

import (
	"time"

	"github.com/projeval/projeval-api/internal/models"
)

// CriterionCreateRequest describes the payload for creating a criterion.
type CriterionCreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	MaxMarks    int    `json:"max_marks" validate:"required,gt=0"`
}

// CriterionUpdateRequest describes the payload for editing a criterion.
type CriterionUpdateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	MaxMarks    int    `json:"max_marks" validate:"required,gt=0"`
}

// CriterionResponse is returned to API clients when viewing criteria.
type CriterionResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MaxMarks    int       `json:"max_marks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCriterionResponse converts a Criterion model into a DTO.
func NewCriterionResponse(model models.Criterion) CriterionResponse {
	return CriterionResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		MaxMarks:    model.MaxMarks,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewCriterionResponseSlice converts criterion models into DTOs.
func NewCriterionResponseSlice(criteria []models.Criterion) []CriterionResponse {
	responses := make([]CriterionResponse, 0, len(criteria))
	for _, criterion := range criteria {
		responses = append(responses, NewCriterionResponse(criterion))
	}

	return responses
}
