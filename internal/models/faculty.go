package models

import "time"

// Faculty represents an evaluator who owns teams, criteria and evaluations.
type Faculty struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Department  string    `gorm:"size:100" json:"department"`
	Designation string    `gorm:"size:100" json:"designation"`
	Phone       string    `gorm:"size:15" json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
