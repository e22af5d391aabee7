package models

import "time"

// MaxTeamMembers caps how many students a single team may hold.
const MaxTeamMembers = 4

// Team groups students under one faculty for a single project.
type Team struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	Name               string       `gorm:"size:200;not null" json:"name"`
	FacultyID          uint         `gorm:"not null;index" json:"faculty_id"`
	LeaderID           *uint        `json:"leader_id"`
	LeaderUsername     *string      `gorm:"size:50;uniqueIndex" json:"leader_username"`
	LeaderPasswordHash string       `gorm:"size:100" json:"-"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	Faculty            Faculty      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Leader             *Student     `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Members            []TeamMember `json:"members,omitempty"`
}

// HasLeader reports whether a leader has been assigned with credentials.
func (t Team) HasLeader() bool {
	return t.LeaderID != nil && t.LeaderUsername != nil
}

// TeamMember links a student to a team.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_team_student" json:"team_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_team_student" json:"student_id"`
	IsLeader  bool      `gorm:"not null;default:false" json:"is_leader"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
	Student   Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
