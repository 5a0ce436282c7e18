package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"dermaview.org/internal/obs"
)

// Remote talks to a standalone model server exposing the classification
// HTTP surface: GET /health and POST /classify with a multipart "image"
// field returning {"predictions": {label: score}}.
type Remote struct {
	baseURL string
	labels  []string
	client  *http.Client
}

var _ Classifier = (*Remote)(nil)

// LoadRemote verifies the model server is reachable and healthy. Failures
// wrap ErrModelLoad so the caller can degrade to the fallback classifier.
func LoadRemote(ctx context.Context, baseURL string, labels []string) (*Remote, error) {
	r := &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		labels:  labels,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: health returned %d", ErrModelLoad, resp.StatusCode)
	}
	var health struct {
		Status      string `json:"status"`
		ModelLoaded *bool  `json:"model_loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	if health.Status != "ok" || (health.ModelLoaded != nil && !*health.ModelLoaded) {
		return nil, fmt.Errorf("%w: server not ready (status=%q)", ErrModelLoad, health.Status)
	}
	return r, nil
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Classify(ctx context.Context, image io.Reader) (preds []Prediction, err error) {
	start := time.Now()
	defer func() { obs.ObserveClassify(r.Name(), time.Since(start), err) }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "upload.jpg")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("buffer image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/classify", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned %d", resp.StatusCode)
	}

	var payload struct {
		Predictions map[string]float64 `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if len(payload.Predictions) != len(r.labels) {
		return nil, ErrLabelMismatch
	}

	// Re-zip against the configured order; the server must know every
	// configured label.
	out := make([]Prediction, len(r.labels))
	for i, label := range r.labels {
		score, ok := payload.Predictions[label]
		if !ok {
			return nil, fmt.Errorf("%w: server missing label %q", ErrLabelMismatch, label)
		}
		out[i] = Prediction{Label: label, Probability: roundProbability(score * 100)}
	}
	return out, nil
}
