package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/internal/middleware"
	"todo-api/internal/service"
	"todo-api/pkg/logger"
)

// AuthService is what the auth handlers need from the credential layer.
type AuthService interface {
	Signup(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (token, userID string, err error)
}

type AuthController struct {
	Auth   AuthService
	Tokens middleware.TokenVerifier
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup (public): stores the user and returns 201.
func (h *AuthController) Signup(c *gin.Context) {
	ctx := c.Request.Context()
	var body credentials
	if !bindJSON(c, &body) {
		return
	}
	if err := h.Auth.Signup(ctx, body.Username, body.Password); err != nil {
		logger.Error(ctx, "Signup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// Login (public): exchanges credentials for a token.
func (h *AuthController) Login(c *gin.Context) {
	ctx := c.Request.Context()
	var body credentials
	if !bindJSON(c, &body) {
		return
	}
	token, uid, err := h.Auth.Login(ctx, body.Username, body.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		logger.Error(ctx, "Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": uid})
}

// VerifyToken reports the user id behind the bearer token; every failure is a 401.
func (h *AuthController) VerifyToken(c *gin.Context) {
	tokenStr, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}
	uid, err := h.Tokens.Verify(tokenStr)
	if err != nil {
		logger.Debug(c.Request.Context(), "verifyToken rejected token", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to authenticate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": uid})
}
