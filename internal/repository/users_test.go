package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/models"
)

func setupUserMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewUserRepository(sqlx.NewDb(db, "postgres"))
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := setupUserMock(t)
	mock.ExpectExec(`INSERT INTO users \(id,\s?username,\s?password,\s?created_at\) VALUES`).
		WithArgs(sqlmock.AnyArg(), "alice", "hash", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Username: "alice", Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Error(t *testing.T) {
	repo, mock := setupUserMock(t)
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("disk full"))

	assert.Error(t, repo.Create(context.Background(), &models.User{Username: "alice"}))
}

func TestUserRepository_FindByUsername_TakesEarliest(t *testing.T) {
	repo, mock := setupUserMock(t)
	mock.ExpectQuery(`SELECT id, username, password, created_at FROM users WHERE username = \$1 ORDER BY created_at ASC LIMIT 1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "created_at"}).
			AddRow("u1", "alice", "hash", fixedNow))

	user, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "hash", user.Password)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	repo, mock := setupUserMock(t)
	mock.ExpectQuery(`SELECT .* FROM users`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "created_at"}))

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_FindByUsername_Error(t *testing.T) {
	repo, mock := setupUserMock(t)
	mock.ExpectQuery(`SELECT .* FROM users`).WillReturnError(errors.New("broken pipe"))

	_, err := repo.FindByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
