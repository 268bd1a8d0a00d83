package file

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/abduss/uploader/internal/storage"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/tags"
)

// MinIOStore adapts minio.Client to the BinaryStore interface.
type MinIOStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinIOStore constructs an adapter bound to one bucket.
func NewMinIOStore(client *minio.Client, bucket, publicBase string) *MinIOStore {
	return &MinIOStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// Write streams body to key in a single PutObject call.
func (s *MinIOStore) Write(ctx context.Context, key string, body io.Reader, size int64, contentType string, meta map[string]string) error {
	userMeta := make(map[string]string, len(meta))
	for k, v := range meta {
		// header values must stay ASCII
		userMeta[k] = url.QueryEscape(v)
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: userMeta,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// SetPublic tags the object so the bucket policy serves it anonymously.
func (s *MinIOStore) SetPublic(ctx context.Context, key string) error {
	t, err := tags.NewTags(map[string]string{storage.VisibilityTag: storage.VisibilityPublic}, true)
	if err != nil {
		return fmt.Errorf("build tags: %w", err)
	}
	if err := s.client.PutObjectTagging(ctx, s.bucket, key, t, minio.PutObjectTaggingOptions{}); err != nil {
		return fmt.Errorf("tag object %q: %w", key, err)
	}
	return nil
}

// Delete removes the object at key.
func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// PublicURL returns the anonymous URL of key. It depends only on the
// configured base and the key.
func (s *MinIOStore) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBase + "/" + strings.Join(segments, "/")
}
