package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/internal/models"
	"todo-api/internal/service"
	"todo-api/pkg/logger"
)

// TodoService is what the todo handlers need; every call is scoped to a user id.
type TodoService interface {
	List(ctx context.Context, userID string) ([]models.Todo, error)
	Create(ctx context.Context, userID, title, description string) (models.Todo, error)
	Update(ctx context.Context, userID, id, title, description string) (models.Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

type TodoController struct {
	Todos TodoService
}

type todoBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetTodos (auth): the caller's todos.
func (h *TodoController) GetTodos(c *gin.Context) {
	ctx := c.Request.Context()
	todos, err := h.Todos.List(ctx, userID(c))
	if err != nil {
		logger.Error(ctx, "GetTodos failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todos"})
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	c.JSON(http.StatusOK, todos)
}

// CreateTodo (auth): inserts a todo owned by the caller, returns 201 with it.
func (h *TodoController) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	var body todoBody
	if !bindJSON(c, &body) {
		return
	}
	todo, err := h.Todos.Create(ctx, userID(c), body.Title, body.Description)
	if err != nil {
		logger.Error(ctx, "CreateTodo failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo (auth): replaces title and description of one of the caller's todos.
func (h *TodoController) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	var body todoBody
	if !bindJSON(c, &body) {
		return
	}
	todo, err := h.Todos.Update(ctx, userID(c), c.Param("id"), body.Title, body.Description)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found or unauthorized"})
		return
	}
	if err != nil {
		logger.Error(ctx, "UpdateTodo failed", "error", err, "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo"})
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodo (auth): removes one of the caller's todos.
func (h *TodoController) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()
	err := h.Todos.Delete(ctx, userID(c), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found or unauthorized"})
		return
	}
	if err != nil {
		logger.Error(ctx, "DeleteTodo failed", "error", err, "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}
