// Package blob stores uploaded lesion images. The disk backend serves
// files straight from the uploads directory; the S3 backend targets any
// S3-compatible endpoint and hands out presigned GET URLs.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the named object does not exist.
var ErrNotFound = errors.New("blob: not found")

// Store persists uploaded images under caller-chosen names. Names are
// already unique (timestamp-prefixed) when they reach the store.
type Store interface {
	// Save writes the object. The reader is consumed fully.
	Save(ctx context.Context, name, contentType string, r io.Reader) error
	// Open returns the object contents for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// URL returns a URL a client can fetch the object from.
	URL(ctx context.Context, name string) (string, error)
}
