package dto

import (
	"time"

	"github.com/projeval/projeval-api/internal/models"
)

// TeamCreateRequest describes the payload for creating a project team.
type TeamCreateRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// AddMemberRequest adds a student to a team by university serial number.
type AddMemberRequest struct {
	USN string `json:"usn" validate:"required,max=20"`
}

// StudentLite summarizes a student inside team responses.
type StudentLite struct {
	ID       uint   `json:"id"`
	USN      string `json:"usn"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Semester int    `json:"semester"`
}

// TeamMemberResponse serializes one team membership.
type TeamMemberResponse struct {
	ID       uint        `json:"id"`
	IsLeader bool        `json:"is_leader"`
	AddedAt  time.Time   `json:"added_at"`
	Student  StudentLite `json:"student"`
}

// TeamResponse is returned to API clients when viewing teams.
type TeamResponse struct {
	ID             uint                 `json:"id"`
	Name           string               `json:"name"`
	FacultyID      uint                 `json:"faculty_id"`
	LeaderUsername *string              `json:"leader_username"`
	Leader         *StudentLite         `json:"leader,omitempty"`
	Members        []TeamMemberResponse `json:"members"`
	Project        *ProjectLite         `json:"project,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// LeaderCredentialsResponse carries the generated leader login exactly
// once, at assignment time. Only the hash is stored afterwards.
type LeaderCredentialsResponse struct {
	TeamID   uint   `json:"team_id"`
	Leader   string `json:"leader"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func newStudentLite(model models.Student) StudentLite {
	return StudentLite{
		ID:       model.ID,
		USN:      model.USN,
		Name:     model.Name,
		Email:    model.Email,
		Semester: model.Semester,
	}
}

// NewTeamResponse converts a Team model into a DTO.
func NewTeamResponse(model models.Team) TeamResponse {
	response := TeamResponse{
		ID:             model.ID,
		Name:           model.Name,
		FacultyID:      model.FacultyID,
		LeaderUsername: model.LeaderUsername,
		CreatedAt:      model.CreatedAt,
		Members:        make([]TeamMemberResponse, 0, len(model.Members)),
	}

	if model.Leader != nil {
		leader := newStudentLite(*model.Leader)
		response.Leader = &leader
	}

	for _, member := range model.Members {
		response.Members = append(response.Members, TeamMemberResponse{
			ID:       member.ID,
			IsLeader: member.IsLeader,
			AddedAt:  member.AddedAt,
			Student:  newStudentLite(member.Student),
		})
	}

	return response
}

// NewTeamResponseSlice converts team models into DTOs.
func NewTeamResponseSlice(teams []models.Team) []TeamResponse {
	responses := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, NewTeamResponse(team))
	}

	return responses
}
