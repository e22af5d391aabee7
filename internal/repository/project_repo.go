package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/models"
)

// ProjectRepository defines data operations for submitted projects.
type ProjectRepository interface {
	GetByIDForFaculty(ctx context.Context, id, facultyID uint) (models.Project, error)
	GetByTeam(ctx context.Context, teamID uint) (models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository instantiates the repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Preload("Team").
		Preload("Team.Members.Student").
		Preload("Team.Leader")
}

// GetByIDForFaculty re-validates ownership: the project must belong to a
// team supervised by the given faculty.
func (r *projectRepository) GetByIDForFaculty(ctx context.Context, id, facultyID uint) (models.Project, error) {
	var project models.Project
	if err := r.baseQuery(ctx).
		Joins("JOIN teams ON teams.id = projects.team_id").
		Where("projects.id = ? AND teams.faculty_id = ?", id, facultyID).
		First(&project).Error; err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (r *projectRepository) GetByTeam(ctx context.Context, teamID uint) (models.Project, error) {
	var project models.Project
	if err := r.baseQuery(ctx).
		Where("projects.team_id = ?", teamID).
		First(&project).Error; err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Update("status", status).Error
}
