package user

import (
	"context"
	"fmt"
	"strings"

	"dermaview.org/internal/auth"
)

// Service implements registration and authentication on top of a Store.
type Service struct {
	store  Store
	tokens *auth.Tokens
}

// NewService wires the credential store with the token signer.
func NewService(store Store, tokens *auth.Tokens) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates an account and issues a bearer token for it.
// Duplicate emails fail with ErrAlreadyExists and never create a second
// record.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &User{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, _, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password both surface as ErrInvalidCredentials so the response
// does not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Get resolves a user by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.Find(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
