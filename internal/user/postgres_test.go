package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGStoreCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Now().UTC()
	mock.ExpectQuery("insert into users").
		WithArgs(sqlmock.AnyArg(), "Ada", "ada@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	store := NewPGStore(db)
	u := &User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	if err := store.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if !u.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", u.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("insert into users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	store := NewPGStore(db)
	err = store.Create(context.Background(), &User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPGStoreFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
		AddRow("u-1", "Ada", "ada@example.com", "hash", time.Now())
	mock.ExpectQuery("select id, name, email, password_hash, created_at from users where email").
		WithArgs("ada@example.com").
		WillReturnRows(rows)

	store := NewPGStore(db)
	u, err := store.FindByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u.ID != "u-1" || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestPGStoreFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, name, email, password_hash, created_at from users where id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}))

	store := NewPGStore(db)
	if _, err := store.Find(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
