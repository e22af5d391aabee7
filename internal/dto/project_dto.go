package dto

import (
	"time"

	"github.com/projeval/projeval-api/internal/models"
)

// ProjectSubmitRequest describes the multipart payload for a leader
// submitting or updating the team's project. The leader credentials are
// verified against the stored hash on every submission.
type ProjectSubmitRequest struct {
	LeaderUsername string `form:"leader_username" validate:"required"`
	LeaderPassword string `form:"leader_password" validate:"required"`
	ProjectName    string `form:"project_name" validate:"required,max=300"`
	RepoLink       string `form:"repo_link" validate:"required,url,max=500"`
}

// ProjectLite summarizes a project inside team responses.
type ProjectLite struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ProjectResponse is returned to API clients when viewing projects.
type ProjectResponse struct {
	ID          uint                 `json:"id"`
	TeamID      uint                 `json:"team_id"`
	Name        string               `json:"name"`
	RepoLink    string               `json:"repo_link"`
	Status      string               `json:"status"`
	SubmittedAt time.Time            `json:"submitted_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	TeamName    string               `json:"team_name"`
	Members     []TeamMemberResponse `json:"members,omitempty"`
	Evaluation  *EvaluationResponse  `json:"evaluation,omitempty"`
}

// NewProjectLite converts a Project model into its compact DTO.
func NewProjectLite(model models.Project) ProjectLite {
	return ProjectLite{
		ID:     model.ID,
		Name:   model.Name,
		Status: model.Status,
	}
}

// NewProjectResponse converts a Project model into a DTO.
func NewProjectResponse(model models.Project) ProjectResponse {
	response := ProjectResponse{
		ID:          model.ID,
		TeamID:      model.TeamID,
		Name:        model.Name,
		RepoLink:    model.RepoLink,
		Status:      model.Status,
		SubmittedAt: model.SubmittedAt,
		UpdatedAt:   model.UpdatedAt,
		TeamName:    model.Team.Name,
	}

	for _, member := range model.Team.Members {
		response.Members = append(response.Members, TeamMemberResponse{
			ID:       member.ID,
			IsLeader: member.IsLeader,
			AddedAt:  member.AddedAt,
			Student:  newStudentLite(member.Student),
		})
	}

	return response
}
