package diagnosis

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dermaview.org/internal/report"
)

// PGStore keeps diagnosis records in Postgres. Symptoms and results are
// stored as jsonb so the answer set can grow without schema changes.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Create(ctx context.Context, d *Diagnosis) error {
	const q = `insert into diagnoses(id, user_id, image_url) values ($1, $2, $3) returning created_at`
	if err := s.db.QueryRowContext(ctx, q, d.ID, d.UserID, d.ImageURL).Scan(&d.CreatedAt); err != nil {
		return fmt.Errorf("diagnosis insert: %w", err)
	}
	return nil
}

func (s *PGStore) Find(ctx context.Context, id string) (*Diagnosis, error) {
	const q = `select id, user_id, image_url, symptoms, results, created_at from diagnoses where id = $1`
	return scanDiagnosis(s.db.QueryRowContext(ctx, q, id))
}

func (s *PGStore) SetSymptomsAndResults(ctx context.Context, id string, symptoms map[string]string, results []report.Condition) error {
	sj, err := json.Marshal(symptoms)
	if err != nil {
		return fmt.Errorf("marshal symptoms: %w", err)
	}
	rj, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	const q = `update diagnoses set symptoms = $2, results = $3 where id = $1`
	res, err := s.db.ExecContext(ctx, q, id, sj, rj)
	if err != nil {
		return fmt.Errorf("diagnosis update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]*Diagnosis, error) {
	const q = `select id, user_id, image_url, symptoms, results, created_at
		from diagnoses where user_id = $1 order by created_at desc, id desc`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("diagnosis list: %w", err)
	}
	defer rows.Close()

	var out []*Diagnosis
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("diagnosis rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiagnosis(row rowScanner) (*Diagnosis, error) {
	var (
		d  Diagnosis
		sj sql.NullString
		rj sql.NullString
	)
	err := row.Scan(&d.ID, &d.UserID, &d.ImageURL, &sj, &rj, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("diagnosis scan: %w", err)
	}
	if sj.Valid && sj.String != "" {
		if err := json.Unmarshal([]byte(sj.String), &d.Symptoms); err != nil {
			return nil, fmt.Errorf("unmarshal symptoms: %w", err)
		}
	}
	if rj.Valid && rj.String != "" {
		if err := json.Unmarshal([]byte(rj.String), &d.Results); err != nil {
			return nil, fmt.Errorf("unmarshal results: %w", err)
		}
	}
	return &d, nil
}
