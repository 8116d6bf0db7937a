// Package service holds the credential and todo operations behind the HTTP layer.
package service

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound means the todo does not exist or belongs to someone else.
	ErrNotFound = errors.New("todo not found or unauthorized")
	// ErrPersistence wraps any failure of the underlying store.
	ErrPersistence = errors.New("persistence error")
)
