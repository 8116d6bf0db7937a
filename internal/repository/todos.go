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

var todoColumns = []string{"id", "user_id", "title", "description", "created_at", "updated_at"}

// TodoRepository persists todos. Every query that touches an existing row
// filters by both id and owner.
type TodoRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db, now: now}
}

// ListByUser returns the user's todos oldest first. The result is never nil.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	q, args, err := psql.Select(todoColumns...).
		From("todos").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	todos := []models.Todo{}
	if err := r.db.SelectContext(ctx, &todos, q, args...); err != nil {
		logger.Error(ctx, "Repository ListByUser failed", "error", err, "user_id", userID)
		return nil, err
	}
	return todos, nil
}

// Create inserts a new todo, filling in ID and CreatedAt.
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	todo.CreatedAt = r.now()
	todo.UpdatedAt = nil
	q, args, err := psql.Insert("todos").
		Columns("id", "user_id", "title", "description", "created_at").
		Values(todo.ID, todo.UserID, todo.Title, todo.Description, todo.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		logger.Error(ctx, "Repository Create failed", "error", err)
		return err
	}
	return nil
}

// Update replaces title and description and touches updated_at on the todo
// matching id and userID. Returns ErrNotFound when no such todo exists.
func (r *TodoRepository) Update(ctx context.Context, userID, id, title, description string) (models.Todo, error) {
	q, args, err := psql.Update("todos").
		Set("title", title).
		Set("description", description).
		Set("updated_at", r.now()).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING id, user_id, title, description, created_at, updated_at").
		ToSql()
	if err != nil {
		return models.Todo{}, fmt.Errorf("build update query: %w", err)
	}
	var todo models.Todo
	if err := r.db.GetContext(ctx, &todo, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, ErrNotFound
		}
		logger.Error(ctx, "Repository Update failed", "error", err, "id", id)
		return models.Todo{}, err
	}
	return todo, nil
}

// Delete removes the todo matching id and userID. Returns ErrNotFound when nothing was deleted.
func (r *TodoRepository) Delete(ctx context.Context, userID, id string) error {
	q, args, err := psql.Delete("todos").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateBatch inserts todos in a single statement. Used by the seed command.
func (r *TodoRepository) CreateBatch(ctx context.Context, todos []models.Todo) error {
	if len(todos) == 0 {
		return nil
	}
	b := psql.Insert("todos").Columns("id", "user_id", "title", "description", "created_at")
	for i := range todos {
		if todos[i].ID == "" {
			todos[i].ID = uuid.New().String()
		}
		todos[i].CreatedAt = r.now()
		b = b.Values(todos[i].ID, todos[i].UserID, todos[i].Title, todos[i].Description, todos[i].CreatedAt)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build batch insert: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}
