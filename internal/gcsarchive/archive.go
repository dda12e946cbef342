// Package gcsarchive stores raw import payloads (receipt images, statement
// text) in a Cloud Storage bucket so a failed import can be replayed later.
package gcsarchive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// Archiver writes and reads payload objects. The interface exists so the
// import handler can be tested without a real bucket.
type Archiver interface {
	// Archive stores data under objectName and returns the gs:// URI.
	Archive(ctx context.Context, objectName string, data []byte) (string, error)

	// Fetch downloads the payload bytes from the given gs:// URI.
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// BucketArchiver is the Cloud Storage backed Archiver. It assumes Application
// Default Credentials are configured.
type BucketArchiver struct {
	bucket string
}

func NewBucketArchiver(bucket string) *BucketArchiver {
	return &BucketArchiver{bucket: bucket}
}

func (a *BucketArchiver) Archive(ctx context.Context, objectName string, data []byte) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s/%s: %w", a.bucket, objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object writer: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

func (a *BucketArchiver) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucketName, objectPath, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object bytes: %w", err)
	}
	return data, nil
}

// ParseURI splits a gs://bucket/path URI into bucket and object path.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// Filename extracts the base filename from a gs:// URI, e.g.
// "gs://bucket/imports/receipt.jpg" becomes "receipt.jpg".
func Filename(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

var _ Archiver = (*BucketArchiver)(nil)
