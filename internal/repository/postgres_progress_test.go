package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

func setupMockProgressDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresProgressRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewPostgresProgressRepo(db, logger)

	return db, mock, repo
}

func sampleProgress(t *testing.T) *domain.UserProgress {
	t.Helper()
	user := domain.User{
		ID:        "trainer_demo_1a2b3c4d",
		Email:     "trainer@demo.com",
		Name:      "Trainer",
		Password:  "password123",
		CreatedAt: time.Now(),
		LastLogin: time.Now(),
	}
	return domain.NewUserProgress(user)
}

func TestSaveProgress_Upsert(t *testing.T) {
	db, mock, repo := setupMockProgressDB(t)
	defer db.Close()

	ctx := context.Background()
	progress := sampleProgress(t)
	progress.TotalAttempts = 3
	progress.TotalCorrect = 2
	progress.Experience = 120
	progress.Level = 1

	data, err := json.Marshal(progress)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO user_progress`).
		WithArgs(progress.User.ID, data).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SaveProgress(ctx, progress)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProgress_Success(t *testing.T) {
	db, mock, repo := setupMockProgressDB(t)
	defer db.Close()

	ctx := context.Background()
	progress := sampleProgress(t)
	progress.CurrentStreak = 4
	progress.BestStreak = 7

	data, err := json.Marshal(progress)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"progress"}).AddRow(data)

	mock.ExpectQuery(`SELECT progress`).
		WithArgs(progress.User.ID).
		WillReturnRows(rows)

	loaded, err := repo.GetProgress(ctx, progress.User.ID)

	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Equal(t, progress.User.ID, loaded.User.ID)
	assert.Equal(t, 4, loaded.CurrentStreak)
	assert.Equal(t, 7, loaded.BestStreak)
	assert.True(t, loaded.Scenario(domain.ScenarioHealthy).Unlocked)
	assert.False(t, loaded.Scenario(domain.ScenarioHypertensive).Unlocked)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProgress_NotFound(t *testing.T) {
	db, mock, repo := setupMockProgressDB(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery(`SELECT progress`).
		WithArgs("missing_user").
		WillReturnError(sql.ErrNoRows)

	loaded, err := repo.GetProgress(ctx, "missing_user")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, loaded)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryProgressRepo_RoundTrip(t *testing.T) {
	repo := NewMemoryProgressRepo()
	ctx := context.Background()

	progress := sampleProgress(t)
	progress.TotalAttempts = 1

	require.NoError(t, repo.SaveProgress(ctx, progress))

	// Mutating the original after save must not leak into the stored copy.
	progress.TotalAttempts = 99

	loaded, err := repo.GetProgress(ctx, progress.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalAttempts)

	_, err = repo.GetProgress(ctx, "missing_user")
	assert.ErrorIs(t, err, ErrNotFound)
}
