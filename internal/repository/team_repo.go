package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/models"
)

// TeamRepository defines data operations for project teams and membership.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id, facultyID uint) (models.Team, error)
	GetByLeaderUsername(ctx context.Context, username string) (models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	ListByFaculty(ctx context.Context, facultyID uint) ([]models.Team, error)
	CountMembers(ctx context.Context, teamID uint) (int64, error)
	GetMember(ctx context.Context, teamID, studentID uint) (models.TeamMember, error)
	GetMemberByID(ctx context.Context, memberID, teamID uint) (models.TeamMember, error)
	AddMember(ctx context.Context, member *models.TeamMember) error
	UpdateMember(ctx context.Context, member *models.TeamMember) error
	RemoveMember(ctx context.Context, member *models.TeamMember) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository instantiates the repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Team{}).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("team_members.added_at ASC")
		}).
		Preload("Members.Student").
		Preload("Leader")
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) GetByID(ctx context.Context, id, facultyID uint) (models.Team, error) {
	var team models.Team
	if err := r.baseQuery(ctx).
		Where("id = ? AND faculty_id = ?", id, facultyID).
		First(&team).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

func (r *teamRepository) GetByLeaderUsername(ctx context.Context, username string) (models.Team, error) {
	var team models.Team
	if err := r.baseQuery(ctx).
		Where("leader_username = ?", username).
		First(&team).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *teamRepository) ListByFaculty(ctx context.Context, facultyID uint) ([]models.Team, error) {
	var teams []models.Team
	if err := r.baseQuery(ctx).
		Where("faculty_id = ?", facultyID).
		Order("created_at DESC").
		Find(&teams).Error; err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *teamRepository) CountMembers(ctx context.Context, teamID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ?", teamID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *teamRepository) GetMember(ctx context.Context, teamID, studentID uint) (models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("team_id = ? AND student_id = ?", teamID, studentID).
		First(&member).Error; err != nil {
		return models.TeamMember{}, err
	}

	return member, nil
}

func (r *teamRepository) GetMemberByID(ctx context.Context, memberID, teamID uint) (models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("id = ? AND team_id = ?", memberID, teamID).
		First(&member).Error; err != nil {
		return models.TeamMember{}, err
	}

	return member, nil
}

func (r *teamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *teamRepository) UpdateMember(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *teamRepository) RemoveMember(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Delete(member).Error
}
