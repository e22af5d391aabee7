package models

import "time"

// Project is the single deliverable a team submits for evaluation.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeamID      uint      `gorm:"not null;uniqueIndex" json:"team_id"`
	Name        string    `gorm:"size:300;not null" json:"name"`
	RepoLink    string    `gorm:"size:500" json:"repo_link"`
	ReportPath  string    `gorm:"size:512" json:"report_path"`
	Status      string    `gorm:"size:20;not null;default:pending" json:"status"`
	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Team        Team      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"team"`
}

const (
	// ProjectStatusPending indicates no report has been submitted yet.
	ProjectStatusPending = "pending"
	// ProjectStatusSubmitted indicates a report was uploaded and awaits evaluation.
	ProjectStatusSubmitted = "submitted"
	// ProjectStatusEvaluated indicates both automated and manual scores exist.
	ProjectStatusEvaluated = "evaluated"
)
