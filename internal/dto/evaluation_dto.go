package dto

import (
	"time"

	"github.com/projeval/projeval-api/internal/models"
)

// ManualEvaluationRequest carries the faculty's own score and feedback.
// Score arrives as raw text so non-numeric input can be rejected as a
// validation error before any state is touched.
type ManualEvaluationRequest struct {
	Score    string `json:"score" form:"score" validate:"required"`
	Feedback string `json:"feedback" form:"feedback"`
}

// CriterionSnapshotResponse echoes one frozen criterion from the snapshot.
type CriterionSnapshotResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMarks    int    `json:"max_marks"`
}

// EvaluationResponse is returned to API clients when viewing evaluations.
type EvaluationResponse struct {
	ID                uint                        `json:"id"`
	ProjectID         uint                        `json:"project_id"`
	FacultyID         uint                        `json:"faculty_id"`
	Criteria          []CriterionSnapshotResponse `json:"criteria"`
	AIScore           *float64                    `json:"ai_score"`
	AIFeedback        string                      `json:"ai_feedback"`
	AIEvaluatedAt     *time.Time                  `json:"ai_evaluated_at"`
	ManualScore       *float64                    `json:"manual_score"`
	ManualFeedback    string                      `json:"manual_feedback"`
	ManualEvaluatedAt *time.Time                  `json:"manual_evaluated_at"`
	FullyEvaluated    bool                        `json:"fully_evaluated"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// NewEvaluationResponse converts an Evaluation model into a DTO.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	response := EvaluationResponse{
		ID:                model.ID,
		ProjectID:         model.ProjectID,
		FacultyID:         model.FacultyID,
		AIScore:           model.AIScore,
		AIFeedback:        model.AIFeedback,
		AIEvaluatedAt:     model.AIEvaluatedAt,
		ManualScore:       model.ManualScore,
		ManualFeedback:    model.ManualFeedback,
		ManualEvaluatedAt: model.ManualEvaluatedAt,
		FullyEvaluated:    model.IsFullyEvaluated(),
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}

	if snapshots, err := model.CriteriaSnapshot(); err == nil {
		response.Criteria = make([]CriterionSnapshotResponse, 0, len(snapshots))
		for _, snapshot := range snapshots {
			response.Criteria = append(response.Criteria, CriterionSnapshotResponse{
				Name:        snapshot.Name,
				Description: snapshot.Description,
				MaxMarks:    snapshot.MaxMarks,
			})
		}
	}

	return response
}
