package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/models"
)

func TestProjectGetByIDForFacultyEnforcesOwnership(t *testing.T) {
	db := setupTestDB(t)
	teams := NewTeamRepository(db)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	team := models.Team{Name: "Ownership Alpha", FacultyID: 301}
	require.NoError(t, teams.Create(ctx, &team))

	project := models.Project{TeamID: team.ID, Name: "Scoped Project", Status: models.ProjectStatusSubmitted}
	require.NoError(t, repo.Create(ctx, &project))

	found, err := repo.GetByIDForFaculty(ctx, project.ID, 301)
	require.NoError(t, err)
	require.Equal(t, "Scoped Project", found.Name)
	require.Equal(t, "Ownership Alpha", found.Team.Name)

	_, err = repo.GetByIDForFaculty(ctx, project.ID, 302)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProjectGetByTeamAndStatusUpdate(t *testing.T) {
	db := setupTestDB(t)
	teams := NewTeamRepository(db)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	team := models.Team{Name: "Status Beta", FacultyID: 303}
	require.NoError(t, teams.Create(ctx, &team))

	_, err := repo.GetByTeam(ctx, team.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	project := models.Project{TeamID: team.ID, Name: "Status Project", Status: models.ProjectStatusSubmitted}
	require.NoError(t, repo.Create(ctx, &project))

	require.NoError(t, repo.UpdateStatus(ctx, project.ID, models.ProjectStatusEvaluated))

	found, err := repo.GetByTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusEvaluated, found.Status)
}

func TestTeamMembershipQueries(t *testing.T) {
	db := setupTestDB(t)
	teams := NewTeamRepository(db)
	students := NewStudentRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Student{USN: "1ZZ98XX901", Name: "Mira", Email: "mira-repo@example.com"}).Error)
	student, err := students.GetByUSN(ctx, "1ZZ98XX901")
	require.NoError(t, err)

	team := models.Team{Name: "Membership Gamma", FacultyID: 305}
	require.NoError(t, teams.Create(ctx, &team))

	member := models.TeamMember{TeamID: team.ID, StudentID: student.ID}
	require.NoError(t, teams.AddMember(ctx, &member))

	count, err := teams.CountMembers(ctx, team.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	found, err := teams.GetMember(ctx, team.ID, student.ID)
	require.NoError(t, err)
	require.Equal(t, member.ID, found.ID)

	loaded, err := teams.GetByID(ctx, team.ID, 305)
	require.NoError(t, err)
	require.Len(t, loaded.Members, 1)
	require.Equal(t, "Mira", loaded.Members[0].Student.Name)

	require.NoError(t, teams.RemoveMember(ctx, &found))
	count, err = teams.CountMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}
