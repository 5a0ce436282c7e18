package diagnosis

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"dermaview.org/internal/blob"
	"dermaview.org/internal/classify"
	"dermaview.org/internal/ids"
	"dermaview.org/internal/report"
)

// Service implements the diagnosis workflow: upload an image, attach
// symptom answers (which triggers classification), read results and
// browse history. Ownership is enforced here, not in the stores.
type Service struct {
	store      Store
	blobs      blob.Store
	classifier classify.Classifier
}

func NewService(store Store, blobs blob.Store, classifier classify.Classifier) *Service {
	return &Service{store: store, blobs: blobs, classifier: classifier}
}

// UploadResult is what the caller gets back after a successful upload.
// ImageURL is ready to render: a static path for the disk backend, a
// presigned URL for S3.
type UploadResult struct {
	DiagnosisID string
	ImageURL    string
}

// Upload stores the image and creates a diagnosis record without
// symptoms or results. The caller is expected to cap the reader size;
// Upload only rejects non-image content types.
func (s *Service) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*UploadResult, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}
	name := ids.UploadName(filename)
	if err := s.blobs.Save(ctx, name, contentType, r); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	d := &Diagnosis{
		ID:       ids.New(),
		UserID:   userID,
		ImageURL: "/uploads/" + name,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	url, err := s.blobs.URL(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("image url: %w", err)
	}
	return &UploadResult{DiagnosisID: d.ID, ImageURL: url}, nil
}

// SubmitSymptoms attaches the answers to the record, runs the classifier
// over the stored image and persists the resulting condition list.
// Repeat submissions re-run classification and overwrite both fields.
func (s *Service) SubmitSymptoms(ctx context.Context, id, userID string, symptoms map[string]string) ([]report.Condition, error) {
	d, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	img, err := s.blobs.Open(ctx, path.Base(d.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer img.Close()

	preds, err := s.classifier.Classify(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	results := report.Conditions(preds)
	if err := s.store.SetSymptomsAndResults(ctx, d.ID, symptoms, results); err != nil {
		return nil, err
	}
	return results, nil
}

// Results returns the full record once classification has run.
// ImageURL is rewritten to a renderable URL.
func (s *Service) Results(ctx context.Context, id, userID string) (*Diagnosis, error) {
	d, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if len(d.Results) == 0 {
		return nil, ErrNoResults
	}
	url, err := s.blobs.URL(ctx, path.Base(d.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("image url: %w", err)
	}
	d.ImageURL = url
	return d, nil
}

// History lists the caller's diagnoses newest first as summaries.
func (s *Service) History(ctx context.Context, userID string) ([]Summary, error) {
	list, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(list))
	for _, d := range list {
		url, err := s.blobs.URL(ctx, path.Base(d.ImageURL))
		if err != nil {
			return nil, fmt.Errorf("image url: %w", err)
		}
		out = append(out, Summary{
			ID:         d.ID,
			ImageURL:   url,
			CreatedAt:  d.CreatedAt,
			HasResults: len(d.Results) > 0,
		})
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, id, userID string) (*Diagnosis, error) {
	d, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}
