package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"

	gcs "cloud.google.com/go/storage"
)

// GCSStore uploads report images to a Google Cloud Storage bucket and
// references objects by their public URL.
type GCSStore struct {
	client *gcs.Client
	bucket string
	folder string
}

// NewGCSStore connects with default credentials and verifies the bucket is
// reachable before first use.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("bucket %s not accessible: %w", bucket, err)
	}
	log.Printf("Connected to GCS bucket %s", bucket)
	return &GCSStore{client: client, bucket: bucket, folder: "uploads"}, nil
}

func (s *GCSStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	object := path.Join(s.folder, path.Base(name))

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, object), nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
