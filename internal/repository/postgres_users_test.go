package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

func setupMockUsersDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresUsersRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewPostgresUsersRepo(db, logger)

	return db, mock, repo
}

func TestCreateUser_Success(t *testing.T) {
	db, mock, repo := setupMockUsersDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	user := domain.User{
		ID:        "trainer_demo_1a2b3c4d",
		Email:     "trainer@demo.com",
		Name:      "Trainer",
		Password:  "password123",
		CreatedAt: now,
		LastLogin: now,
	}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Email, user.Name, user.Password, user.CreatedAt, user.LastLogin).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateUser(ctx, user)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_Success(t *testing.T) {
	db, mock, repo := setupMockUsersDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"user_id", "email", "name", "password", "created_at", "last_login",
	}).AddRow(
		"trainer_demo_1a2b3c4d", "trainer@demo.com", "Trainer", "password123", now, now,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs("trainer@demo.com").
		WillReturnRows(rows)

	user, err := repo.GetUserByEmail(ctx, "trainer@demo.com")

	require.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "trainer_demo_1a2b3c4d", user.ID)
	assert.Equal(t, "trainer@demo.com", user.Email)
	assert.Equal(t, "Trainer", user.Name)
	assert.Equal(t, "password123", user.Password)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, mock, repo := setupMockUsersDB(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery(`SELECT`).
		WithArgs("nobody@demo.com").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetUserByEmail(ctx, "nobody@demo.com")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, user)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLastLogin_Success(t *testing.T) {
	db, mock, repo := setupMockUsersDB(t)
	defer db.Close()

	ctx := context.Background()
	at := time.Now()

	mock.ExpectExec(`UPDATE users`).
		WithArgs("trainer_demo_1a2b3c4d", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateLastLogin(ctx, "trainer_demo_1a2b3c4d", at)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLastLogin_NotFound(t *testing.T) {
	db, mock, repo := setupMockUsersDB(t)
	defer db.Close()

	ctx := context.Background()
	at := time.Now()

	mock.ExpectExec(`UPDATE users`).
		WithArgs("missing_user", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateLastLogin(ctx, "missing_user", at)

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
