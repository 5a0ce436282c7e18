// Package user owns account records and the register/login operations
// built on top of them.
package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user: not found")
	ErrAlreadyExists      = errors.New("user: already exists")
	ErrInvalidInput       = errors.New("user: invalid input")
	ErrInvalidCredentials = errors.New("user: invalid credentials")
)

// User represents a registered account. Immutable after creation except
// for password reset, which is not implemented.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store describes persistence operations for user records.
type Store interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
