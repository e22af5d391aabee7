package models

import "time"

// Student represents a learner who can be placed on a project team.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	USN        string    `gorm:"size:20;uniqueIndex;not null" json:"usn"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Department string    `gorm:"size:100" json:"department"`
	Semester   int       `json:"semester"`
	Phone      string    `gorm:"size:15" json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
