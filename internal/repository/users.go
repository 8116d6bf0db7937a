package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"todo-api/internal/models"
	"todo-api/pkg/logger"
)

// UserRepository persists credential records.
type UserRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db, now: now}
}

// Create inserts the user unconditionally; usernames are not unique.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = r.now()
	q, args, err := psql.Insert("users").
		Columns("id", "username", "password", "created_at").
		Values(user.ID, user.Username, user.Password, user.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		logger.Error(ctx, "Repository CreateUser failed", "error", err)
		return err
	}
	return nil
}

// FindByUsername returns the earliest created user with exactly this username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	q, args, err := psql.Select("id", "username", "password", "created_at").
		From("users").
		Where(squirrel.Eq{"username": username}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build lookup query: %w", err)
	}
	var user models.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		logger.Error(ctx, "Repository FindByUsername failed", "error", err)
		return models.User{}, err
	}
	return user, nil
}
