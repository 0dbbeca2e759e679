package storage

import (
	"context"
	"io"
)

// BlobStore persists raw upload bytes under a suggested name and returns a
// stable reference the presentation layer can address later.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
