package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"dermaview.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

const uniqueViolation = "23505"

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	err := s.db.QueryRowContext(ctx,
		`insert into users(id, name, email, password_hash) values($1,$2,$3,$4) returning created_at`,
		u.ID, u.Name, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *PGStore) Find(ctx context.Context, id string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select id, name, email, password_hash, created_at from users where id=$1`, id))
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select id, name, email, password_hash, created_at from users where email=$1`, email))
}

func (s *PGStore) scanOne(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
