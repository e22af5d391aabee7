package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/models"
)

// StudentRepository defines data operations for students.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByUSN(ctx context.Context, usn string) (models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByUSN(ctx context.Context, usn string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("usn = ?", usn).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}
