package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"dermaview.org/internal/auth"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return NewService(NewInMemory(), tokens)
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc := newTestService(t)

	u, token, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == "" || u.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "correct-horse" {
		t.Fatal("password stored in plaintext")
	}

	tokens, _ := auth.NewTokens("test-secret", time.Hour)
	subject, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != u.ID {
		t.Fatalf("token subject %q, want %q", subject, u.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	if _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pw-one"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, _, err := svc.Register(context.Background(), "Imposter", "Ada@Example.com", "pw-two")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	cases := [][3]string{
		{"", "a@b.com", "pw"},
		{"Ada", "", "pw"},
		{"Ada", "a@b.com", ""},
		{"Ada", "not-an-email", "pw"},
	}
	for _, c := range cases {
		if _, _, err := svc.Register(context.Background(), c[0], c[1], c[2]); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Register(%q,%q,%q): expected ErrInvalidInput, got %v", c[0], c[1], c[2], err)
		}
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "correct-horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, token, err := svc.Login(ctx, "ADA@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || u.Email != "ada@example.com" {
		t.Fatalf("unexpected login result: %+v token=%q", u, token)
	}

	if _, _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
