package diagnosis

import (
	"context"
	"sort"
	"sync"
	"time"

	"dermaview.org/internal/report"
)

// InMemory is a map-backed Store for tests and local development.
type InMemory struct {
	mu   sync.RWMutex
	byID map[string]*Diagnosis
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*Diagnosis)}
}

func (s *InMemory) Create(_ context.Context, d *Diagnosis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	cp := *d
	s.byID[d.ID] = &cp
	return nil
}

func (s *InMemory) Find(_ context.Context, id string) (*Diagnosis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *InMemory) SetSymptomsAndResults(_ context.Context, id string, symptoms map[string]string, results []report.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	d.Symptoms = symptoms
	d.Results = results
	return nil
}

func (s *InMemory) ListByUser(_ context.Context, userID string) ([]*Diagnosis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Diagnosis
	for _, d := range s.byID {
		if d.UserID != userID {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
