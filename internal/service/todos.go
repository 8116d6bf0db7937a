package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"todo-api/internal/models"
	"todo-api/internal/repository"
	"todo-api/pkg/logger"
)

// TodoStore defines the ownership-scoped persistence operations on todos.
type TodoStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, userID, id, title, description string) (models.Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

// ListCache caches a user's todo list. SetTodos must drop the write when
// InvalidateTodos ran for the user after Generation returned gen.
type ListCache interface {
	GetTodos(ctx context.Context, userID string) ([]models.Todo, bool)
	Generation(ctx context.Context, userID string) (int64, error)
	SetTodos(ctx context.Context, userID string, gen int64, todos []models.Todo)
	InvalidateTodos(ctx context.Context, userID string)
}

// EventPublisher announces applied writes.
type EventPublisher interface {
	Publish(ctx context.Context, event models.TodoEvent) error
}

type TodoService struct {
	store  TodoStore
	cache  ListCache
	events EventPublisher
	group  singleflight.Group
	now    func() time.Time
}

// NewTodoService wires the store with an optional cache and event publisher (nil disables either).
func NewTodoService(store TodoStore, cache ListCache, events EventPublisher) *TodoService {
	if cache == nil {
		cache = noopCache{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &TodoService{store: store, cache: cache, events: events, now: time.Now}
}

// List returns all todos owned by userID. Concurrent misses for the same user share one query.
func (s *TodoService) List(ctx context.Context, userID string) ([]models.Todo, error) {
	if todos, ok := s.cache.GetTodos(ctx, userID); ok {
		return todos, nil
	}
	v, err, _ := s.group.Do(userID, func() (any, error) {
		shared := context.WithoutCancel(ctx)
		gen, genErr := s.cache.Generation(shared, userID)
		todos, err := s.store.ListByUser(shared, userID)
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			s.cache.SetTodos(shared, userID, gen, todos)
		}
		return todos, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list todos: %w", ErrPersistence, err)
	}
	return v.([]models.Todo), nil
}

func (s *TodoService) Create(ctx context.Context, userID, title, description string) (models.Todo, error) {
	todo := models.Todo{UserID: userID, Title: title, Description: description}
	if err := s.store.Create(ctx, &todo); err != nil {
		return models.Todo{}, fmt.Errorf("%w: create todo: %w", ErrPersistence, err)
	}
	s.afterWrite(ctx, models.ActionCreated, todo)
	return todo, nil
}

// Update replaces title and description of a todo the user owns.
func (s *TodoService) Update(ctx context.Context, userID, id, title, description string) (models.Todo, error) {
	todo, err := s.store.Update(ctx, userID, id, title, description)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Todo{}, ErrNotFound
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("%w: update todo: %w", ErrPersistence, err)
	}
	s.afterWrite(ctx, models.ActionUpdated, todo)
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	err := s.store.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: delete todo: %w", ErrPersistence, err)
	}
	s.afterWrite(ctx, models.ActionDeleted, models.Todo{ID: id, UserID: userID})
	return nil
}

func (s *TodoService) afterWrite(ctx context.Context, action string, todo models.Todo) {
	s.cache.InvalidateTodos(ctx, todo.UserID)
	// Later reads must not join a load that started before this write.
	s.group.Forget(todo.UserID)
	event := models.TodoEvent{
		Action:      action,
		ID:          todo.ID,
		UserID:      todo.UserID,
		Title:       todo.Title,
		Description: todo.Description,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Warn(ctx, "Publish todo event failed", "error", err, "action", action, "todo_id", todo.ID)
	}
}

type noopCache struct{}

func (noopCache) GetTodos(context.Context, string) ([]models.Todo, bool)  { return nil, false }
func (noopCache) Generation(context.Context, string) (int64, error)       { return 0, nil }
func (noopCache) SetTodos(context.Context, string, int64, []models.Todo) {}
func (noopCache) InvalidateTodos(context.Context, string)                 {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.TodoEvent) error { return nil }
