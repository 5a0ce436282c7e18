// Package httpapi is the HTTP layer: routing, auth guard, middleware and
// the JSON error envelope.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"dermaview.org/internal/auth"
	"dermaview.org/internal/diagnosis"
	"dermaview.org/internal/obs"
	"dermaview.org/internal/user"
)

// StoreProbe reports whether the backing store is reachable.
type StoreProbe struct {
	DB *sql.DB
}

func (p StoreProbe) Check(ctx context.Context) error {
	if p.DB == nil {
		return nil
	}
	return p.DB.PingContext(ctx)
}

// API is the HTTP layer over the user and diagnosis services.
type API struct {
	mux        *http.ServeMux
	users      *user.Service
	diagnoses  *diagnosis.Service
	tokens     *auth.Tokens
	probe      StoreProbe
	version    string
	maxUpload  int64
	uploadsDir string
}

// Options carries the optional knobs for New.
type Options struct {
	Version    string
	MaxUpload  int64 // multipart upload cap in bytes
	UploadsDir string // non-empty enables static /uploads/ serving (disk backend)
}

func New(users *user.Service, diagnoses *diagnosis.Service, tokens *auth.Tokens, probe StoreProbe, opts Options) *API {
	a := &API{
		mux:        http.NewServeMux(),
		users:      users,
		diagnoses:  diagnoses,
		tokens:     tokens,
		probe:      probe,
		version:    opts.Version,
		maxUpload:  opts.MaxUpload,
		uploadsDir: opts.UploadsDir,
	}
	if a.maxUpload <= 0 {
		a.maxUpload = 10 << 20
	}

	a.mux.HandleFunc("POST /api/auth/register", a.Register)
	a.mux.HandleFunc("POST /api/auth/login", a.Login)
	a.mux.HandleFunc("GET /api/auth/user", a.CurrentUser)
	a.mux.HandleFunc("POST /api/auth/logout", a.Logout)

	a.mux.HandleFunc("POST /api/diagnosis/upload", a.Upload)
	a.mux.HandleFunc("POST /api/diagnosis/{id}/symptoms", a.SubmitSymptoms)
	a.mux.HandleFunc("GET /api/diagnosis/{id}/results", a.Results)
	a.mux.HandleFunc("GET /api/diagnosis/{id}/report", a.Report)
	a.mux.HandleFunc("GET /api/diagnosis/history", a.History)

	a.mux.HandleFunc("GET /api/health", a.Health)
	a.mux.Handle("GET /metrics", obs.Handler())

	if a.uploadsDir != "" {
		fs := http.FileServer(http.Dir(a.uploadsDir))
		a.mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", fs))
	}

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full handler chain for the server.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.withAuth(a.mux))
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	store := "connected"
	if err := a.probe.Check(r.Context()); err != nil {
		store = "disconnected"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "dermaview-api",
		"version": a.version,
		"store":   store,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	body := map[string]any{"error": msg}
	if rid := w.Header().Get(requestIDHeader); rid != "" {
		body["request_id"] = rid
	} else if r != nil {
		if rid := r.Header.Get(requestIDHeader); rid != "" {
			body["request_id"] = rid
		}
	}
	writeJSON(w, code, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
