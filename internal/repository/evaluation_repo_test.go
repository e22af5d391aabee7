package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Faculty{},
		&models.Student{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Criterion{},
		&models.Evaluation{},
	))
	return db
}

func TestEvaluationUpdateScoresOptimisticVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	evaluation := models.Evaluation{
		ProjectID: 9001,
		FacultyID: 7,
		Criteria:  []byte(`[{"name":"Implementation","description":"","max_marks":30}]`),
	}
	require.NoError(t, repo.Create(ctx, &evaluation))
	require.Zero(t, evaluation.Version)

	score := 70.0
	now := time.Now().UTC()
	evaluation.AIScore = &score
	evaluation.AIFeedback = "<h4>EVALUATION SUMMARY</h4>"
	evaluation.AIEvaluatedAt = &now
	require.NoError(t, repo.UpdateScores(ctx, &evaluation))
	require.Equal(t, uint(1), evaluation.Version)

	// A writer still holding the old version must be rejected.
	stale := evaluation
	stale.Version = 0
	staleScore := 10.0
	stale.AIScore = &staleScore
	require.ErrorIs(t, repo.UpdateScores(ctx, &stale), ErrStaleEvaluation)

	// A fresh read carries the current version and the earlier score.
	fresh, err := repo.GetByProject(ctx, 9001)
	require.NoError(t, err)
	require.Equal(t, uint(1), fresh.Version)
	require.NotNil(t, fresh.AIScore)
	require.InDelta(t, 70.0, *fresh.AIScore, 0.001)

	manualScore := 85.0
	fresh.ManualScore = &manualScore
	fresh.ManualFeedback = "Solid submission"
	fresh.ManualEvaluatedAt = &now
	require.NoError(t, repo.UpdateScores(ctx, &fresh))
	require.Equal(t, uint(2), fresh.Version)

	final, err := repo.GetByProject(ctx, 9001)
	require.NoError(t, err)
	require.NotNil(t, final.AIScore)
	require.NotNil(t, final.ManualScore)
	require.True(t, final.IsFullyEvaluated())
}

func TestEvaluationGetByProjectMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)

	_, err := repo.GetByProject(context.Background(), 9999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEvaluationSnapshotRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	snapshot, err := models.SnapshotCriteria([]models.Criterion{
		{Name: "Implementation", Description: "Code quality", MaxMarks: 30},
		{Name: "Report", MaxMarks: 20},
	})
	require.NoError(t, err)

	evaluation := models.Evaluation{ProjectID: 9002, FacultyID: 7, Criteria: snapshot}
	require.NoError(t, repo.Create(ctx, &evaluation))

	stored, err := repo.GetByProject(ctx, 9002)
	require.NoError(t, err)

	criteria, err := stored.CriteriaSnapshot()
	require.NoError(t, err)
	require.Len(t, criteria, 2)
	require.Equal(t, "Implementation", criteria[0].Name)
	require.Equal(t, 50, models.TotalMarks(criteria))
}
