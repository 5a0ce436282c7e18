// Package classify turns an uploaded lesion photo into a probability
// distribution over condition labels. Classification runs either against
// a remote model server or a bundled fallback model; both paths produce
// predictions on the canonical 0-100 scale rounded to 4 decimal places.
package classify

import (
	"context"
	"errors"
	"io"
	"math"
)

var (
	// ErrModelLoad indicates the classifier backend could not be reached
	// or returned an unusable payload. Callers degrade to the fallback.
	ErrModelLoad = errors.New("classify: model load failed")

	// ErrLabelMismatch indicates the raw model output length does not
	// match the configured label list. Mismatches fail loudly instead of
	// silently truncating.
	ErrLabelMismatch = errors.New("classify: output length does not match label list")
)

// Prediction pairs a condition label with its probability (0-100).
type Prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Classifier produces a prediction distribution for one image.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, image io.Reader) ([]Prediction, error)
}

// MapToLabels zips a raw model output vector against the ordered label
// list. The raw scores are softmax outputs in [0,1]; the result is scaled
// to 0-100 and rounded to 4 decimal places, preserving label order.
func MapToLabels(raw []float32, labels []string) ([]Prediction, error) {
	if len(raw) != len(labels) {
		return nil, ErrLabelMismatch
	}
	out := make([]Prediction, len(raw))
	for i, score := range raw {
		out[i] = Prediction{
			Label:       labels[i],
			Probability: roundProbability(float64(score) * 100),
		}
	}
	return out, nil
}

func roundProbability(p float64) float64 {
	return math.Round(p*10000) / 10000
}
