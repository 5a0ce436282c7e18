// Package diagnosis owns diagnosis records: one uploaded image, the
// symptom answers attached to it, and the classification results.
package diagnosis

import (
	"context"
	"errors"
	"time"

	"dermaview.org/internal/report"
)

var (
	ErrNotFound  = errors.New("diagnosis: not found")
	ErrForbidden = errors.New("diagnosis: not owned by requester")
	ErrNoResults = errors.New("diagnosis: no results yet")
	ErrNotImage  = errors.New("diagnosis: file is not an image")
)

// Diagnosis is the stored unit combining an uploaded image, optional
// symptom answers and optional classification results. Created with only
// ImageURL populated; mutated once when symptoms are submitted; read-only
// thereafter. Concurrent symptom submissions are last-write-wins (no
// version column on the row).
type Diagnosis struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	ImageURL  string             `json:"imageUrl"`
	Symptoms  map[string]string  `json:"symptoms"`
	Results   []report.Condition `json:"results"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Summary is the history projection: no symptoms, no full results.
type Summary struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	HasResults bool      `json:"hasResults"`
}

// Store describes persistence operations for diagnosis records.
type Store interface {
	Create(ctx context.Context, d *Diagnosis) error
	Find(ctx context.Context, id string) (*Diagnosis, error)
	SetSymptomsAndResults(ctx context.Context, id string, symptoms map[string]string, results []report.Condition) error
	ListByUser(ctx context.Context, userID string) ([]*Diagnosis, error)
}
