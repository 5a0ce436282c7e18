package classify

import (
	"context"
	"math"
	"time"

	"dermaview.org/internal/obs"
)

// Model predicts a raw score vector for a preprocessed input tensor.
type Model interface {
	Name() string
	Predict(ctx context.Context, input *Tensor) ([]float32, error)
}

// Predict invokes the model and guarantees the input tensor is released
// on every path, success and error alike. Inference errors propagate
// unchanged.
func Predict(ctx context.Context, m Model, input *Tensor) ([]float32, error) {
	defer input.Release()
	start := time.Now()
	out, err := m.Predict(ctx, input)
	obs.ObserveClassify(m.Name(), time.Since(start), err)
	return out, err
}

// StaticModel is the in-process fallback used when no model server is
// configured: a deterministic softmax over simple image statistics. It
// stands in for real inference the same way the original deployment
// stubbed server-side classification.
type StaticModel struct {
	classes int
}

var _ Model = (*StaticModel)(nil)

// NewStaticModel creates a fallback model with the given output width.
func NewStaticModel(classes int) *StaticModel {
	return &StaticModel{classes: classes}
}

func (m *StaticModel) Name() string { return "static" }

func (m *StaticModel) Predict(ctx context.Context, input *Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Per-channel means of the input image drive the logits, so the same
	// image always maps to the same distribution while distinct images
	// spread across classes.
	shape := input.Shape()
	h, w, c := shape[1], shape[2], shape[3]
	means := make([]float64, c)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				means[ch] += float64(input.At(y, x, ch))
			}
		}
	}
	for ch := range means {
		means[ch] /= float64(h * w)
	}

	logits := make([]float64, m.classes)
	for i := range logits {
		for ch, mean := range means {
			logits[i] += math.Sin(float64(i+1)*(mean+float64(ch)*0.31)) * 2
		}
	}
	return softmax(logits), nil
}

func softmax(logits []float64) []float32 {
	max := math.Inf(-1)
	for _, l := range logits {
		if l > max {
			max = l
		}
	}
	var sum float64
	exps := make([]float64, len(logits))
	for i, l := range logits {
		exps[i] = math.Exp(l - max)
		sum += exps[i]
	}
	out := make([]float32, len(logits))
	for i, e := range exps {
		out[i] = float32(e / sum)
	}
	return out
}
