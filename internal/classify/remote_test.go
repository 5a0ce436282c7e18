package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func modelServer(t *testing.T, predictions map[string]float64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "model_loaded": true})
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("image"); err != nil {
			http.Error(w, "no image", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"predictions": predictions})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func encodedTestImage(t *testing.T) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(50, 50)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestRemoteClassify(t *testing.T) {
	labels := []string{"Eczema", "Melanoma", "Psoriasis"}
	srv := modelServer(t, map[string]float64{
		"Eczema":    0.871234,
		"Melanoma":  0.042511,
		"Psoriasis": 0.086255,
	})

	remote, err := LoadRemote(context.Background(), srv.URL, labels)
	if err != nil {
		t.Fatalf("LoadRemote: %v", err)
	}

	preds, err := remote.Classify(context.Background(), encodedTestImage(t))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(preds))
	}
	if preds[0].Label != "Eczema" || preds[0].Probability != 87.1234 {
		t.Fatalf("unexpected first prediction: %+v", preds[0])
	}
}

func TestRemoteClassifyLabelMismatch(t *testing.T) {
	srv := modelServer(t, map[string]float64{"Eczema": 1})

	remote, err := LoadRemote(context.Background(), srv.URL, []string{"Eczema", "Melanoma"})
	if err != nil {
		t.Fatalf("LoadRemote: %v", err)
	}
	if _, err := remote.Classify(context.Background(), encodedTestImage(t)); !errors.Is(err, ErrLabelMismatch) {
		t.Fatalf("expected ErrLabelMismatch, got %v", err)
	}
}

func TestLoadRemoteUnreachable(t *testing.T) {
	_, err := LoadRemote(context.Background(), "http://127.0.0.1:1", nil)
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
}

func TestLoadRemoteUnhealthy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		loaded := false
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "model_loaded": &loaded})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	if _, err := LoadRemote(context.Background(), srv.URL, nil); !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
}
