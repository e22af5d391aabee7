package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Evaluation merges the automated and manual scores for one project.
// Exactly one evaluation exists per project and it is cascade-deleted
// with it. Version backs the optimistic check on concurrent score writes.
type Evaluation struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ProjectID         uint           `gorm:"not null;uniqueIndex" json:"project_id"`
	FacultyID         uint           `gorm:"not null;index" json:"faculty_id"`
	Criteria          datatypes.JSON `gorm:"not null" json:"criteria"`
	AIScore           *float64       `json:"ai_score"`
	AIFeedback        string         `gorm:"type:text" json:"ai_feedback"`
	AIEvaluatedAt     *time.Time     `json:"ai_evaluated_at"`
	ManualScore       *float64       `json:"manual_score"`
	ManualFeedback    string         `gorm:"type:text" json:"manual_feedback"`
	ManualEvaluatedAt *time.Time     `json:"manual_evaluated_at"`
	Version           uint           `gorm:"not null;default:0" json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Project           Project        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsFullyEvaluated reports whether both score paths have completed.
// This is derived, never stored.
func (e Evaluation) IsFullyEvaluated() bool {
	return e.AIScore != nil && e.ManualScore != nil
}

// CriteriaSnapshot decodes the frozen criteria captured at creation time.
func (e Evaluation) CriteriaSnapshot() ([]CriterionSnapshot, error) {
	if len(e.Criteria) == 0 {
		return nil, nil
	}

	var snapshots []CriterionSnapshot
	if err := json.Unmarshal(e.Criteria, &snapshots); err != nil {
		return nil, err
	}

	return snapshots, nil
}

// SnapshotCriteria freezes live criteria into the snapshot column format.
func SnapshotCriteria(criteria []Criterion) (datatypes.JSON, error) {
	snapshots := make([]CriterionSnapshot, 0, len(criteria))
	for _, c := range criteria {
		snapshots = append(snapshots, CriterionSnapshot{
			Name:        c.Name,
			Description: c.Description,
			MaxMarks:    c.MaxMarks,
		})
	}

	payload, err := json.Marshal(snapshots)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(payload), nil
}
