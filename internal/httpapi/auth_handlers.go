package httpapi

import (
	"errors"
	"net/http"

	"dermaview.org/internal/audit"
	"dermaview.org/internal/auth"
	"dermaview.org/internal/user"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userPayload(u *user.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
}

// Register creates an account and returns a bearer token for it.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := a.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.handleUserError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{"user_id": u.ID})
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  userPayload(u),
	})
}

// Login verifies credentials and returns a fresh bearer token.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := a.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.handleUserError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{"user_id": u.ID})
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userPayload(u),
	})
}

// CurrentUser returns the account behind the bearer token.
func (a *API) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}

	u, err := a.users.Get(r.Context(), userID)
	if err != nil {
		a.handleUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userPayload(u))
}

// Logout is stateless: tokens are not persisted server-side, so the
// client simply discards its copy. The endpoint exists so the frontend
// has a single call for the action.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	_ = audit.LogEvent(r.Context(), "auth.logout", nil)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (a *API) handleUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrAlreadyExists):
		respondError(w, r, http.StatusBadRequest, "email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		respondError(w, r, http.StatusBadRequest, "invalid credentials")
	case errors.Is(err, user.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "user not found")
	default:
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}
