package classify

import (
	"context"
	"fmt"
	"io"
)

// Local runs the full in-process pipeline: decode, preprocess, predict,
// map to labels.
type Local struct {
	model  Model
	labels []string
	target Size
}

var _ Classifier = (*Local)(nil)

// NewLocal wires a model with the ordered label list it was trained on.
func NewLocal(model Model, labels []string) *Local {
	return &Local{model: model, labels: labels, target: DefaultSize}
}

func (l *Local) Name() string { return l.model.Name() }

func (l *Local) Classify(ctx context.Context, image io.Reader) ([]Prediction, error) {
	img, err := DecodeImage(image)
	if err != nil {
		return nil, err
	}
	input, err := Preprocess(img, l.target)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	raw, err := Predict(ctx, l.model, input)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return MapToLabels(raw, l.labels)
}
