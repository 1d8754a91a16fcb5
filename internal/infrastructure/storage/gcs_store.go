package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// PublicURL builds a public URL for an object (assuming public read access)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

// GCSStore uploads images to a bucket and references them by public URL.
type GCSStore struct {
	client   *storage.Client
	bucket   string
	maxBytes int64
}

func NewGCSStore(client *storage.Client, bucket string, maxBytes int64) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, maxBytes: maxBytes}
}

func (s *GCSStore) Save(ctx context.Context, ownerID string, r io.Reader) (string, error) {
	contentType, ext, body, err := sniff(r)
	if err != nil {
		return "", err
	}
	name := objectName(ownerID, ext)

	// cancelling before Close aborts the upload, so no partial object is committed
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wc := s.client.Bucket(s.bucket).Object(name).NewWriter(wctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, limitReader(body, s.maxBytes)); err != nil {
		cancel()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("gcs upload: %w", err)
	}
	return PublicURL(s.bucket, name), nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	prefix := PublicURL(s.bucket, "")
	if !strings.HasPrefix(ref, prefix) {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(strings.TrimPrefix(ref, prefix)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

var _ ImageStore = (*GCSStore)(nil)
