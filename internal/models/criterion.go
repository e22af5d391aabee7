package models

import "time"

// Criterion is a named scoring rule owned by one faculty member.
type Criterion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FacultyID   uint      `gorm:"not null;index" json:"faculty_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	MaxMarks    int       `gorm:"not null" json:"max_marks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Faculty     Faculty   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// CriterionSnapshot is the frozen copy of a criterion captured when an
// evaluation record is created. Edits and deletions of the live Criterion
// never touch it.
type CriterionSnapshot struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMarks    int    `json:"max_marks"`
}

// TotalMarks sums the maximum points across a snapshot set.
func TotalMarks(snapshots []CriterionSnapshot) int {
	total := 0
	for _, s := range snapshots {
		total += s.MaxMarks
	}
	return total
}
