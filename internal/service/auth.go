package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"todo-api/internal/models"
	"todo-api/internal/repository"
)

// UserStore defines the persistence operations required by AuthService.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	// FindByUsername returns repository.ErrNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// TokenIssuer signs a bearer token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthService implements signup and login.
type AuthService struct {
	users    UserStore
	tokens   TokenIssuer
	hashCost int
}

type AuthOption func(*AuthService)

// WithHashCost sets the bcrypt cost used at signup.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

func NewAuthService(users UserStore, tokens TokenIssuer, opts ...AuthOption) *AuthService {
	s := &AuthService{users: users, tokens: tokens, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup stores a new user. Usernames are not checked for duplicates.
func (s *AuthService) Signup(ctx context.Context, username, password string) error {
	_, err := s.Register(ctx, username, password)
	return err
}

// Register is Signup that also returns the stored record.
func (s *AuthService) Register(ctx context.Context, username, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, Password: string(hash)}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("%w: create user: %w", ErrPersistence, err)
	}
	return user, nil
}

// Login checks the password of the first user registered under username and
// returns a fresh token together with the user's id.
func (s *AuthService) Login(ctx context.Context, username, password string) (token, userID string, err error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: find user: %w", ErrPersistence, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.tokens.Issue(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}
	return token, user.ID, nil
}
