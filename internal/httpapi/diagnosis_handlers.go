package httpapi

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"dermaview.org/internal/audit"
	"dermaview.org/internal/auth"
	"dermaview.org/internal/diagnosis"
	"dermaview.org/internal/report"
)

// Upload accepts a multipart form with an "image" field and creates a
// diagnosis record for the authenticated user.
func (a *API) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}

	// извлекаем файл с жёстким лимитом на размер тела
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusBadRequest, "file too large")
			return
		}
		respondError(w, r, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			contentType = byExt
		}
	}

	up, err := a.diagnoses.Upload(r.Context(), userID, header.Filename, contentType, file)
	if err != nil {
		a.handleDiagnosisError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "diagnosis.upload", map[string]any{"diagnosis_id": up.DiagnosisID})
	writeJSON(w, http.StatusOK, map[string]any{
		"diagnosisId": up.DiagnosisID,
		"imageUrl":    up.ImageURL,
	})
}

// SubmitSymptoms attaches the answer map and runs classification.
func (a *API) SubmitSymptoms(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id := r.PathValue("id")

	var symptoms map[string]string
	if err := decodeJSON(r, &symptoms); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	results, err := a.diagnoses.SubmitSymptoms(r.Context(), id, userID, symptoms)
	if err != nil {
		a.handleDiagnosisError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "diagnosis.symptoms", map[string]any{"diagnosis_id": id})
	writeJSON(w, http.StatusOK, map[string]any{
		"diagnosisId": id,
		"results":     results,
	})
}

// Results returns the full stored record once classification has run.
func (a *API) Results(w http.ResponseWriter, r *http.Request) {
	d, ok := a.ownedDiagnosis(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Report renders the multi-tab report for a classified diagnosis.
func (a *API) Report(w http.ResponseWriter, r *http.Request) {
	d, ok := a.ownedDiagnosis(w, r)
	if !ok {
		return
	}
	rep, err := report.Build(d.Results, d.Symptoms)
	if err != nil {
		a.handleDiagnosisError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// History lists the caller's diagnoses newest first.
func (a *API) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}
	list, err := a.diagnoses.History(r.Context(), userID)
	if err != nil {
		a.handleDiagnosisError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) ownedDiagnosis(w http.ResponseWriter, r *http.Request) (*diagnosis.Diagnosis, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "missing bearer token")
		return nil, false
	}
	d, err := a.diagnoses.Results(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		a.handleDiagnosisError(w, r, err)
		return nil, false
	}
	return d, true
}

func (a *API) handleDiagnosisError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, diagnosis.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "diagnosis not found")
	case errors.Is(err, diagnosis.ErrForbidden):
		respondError(w, r, http.StatusForbidden, "not your diagnosis")
	case errors.Is(err, diagnosis.ErrNoResults):
		respondError(w, r, http.StatusBadRequest, "no results for this diagnosis yet")
	case errors.Is(err, diagnosis.ErrNotImage):
		respondError(w, r, http.StatusBadRequest, "uploaded file is not an image")
	case errors.Is(err, report.ErrNoConditions):
		respondError(w, r, http.StatusBadRequest, "no results for this diagnosis yet")
	default:
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}
