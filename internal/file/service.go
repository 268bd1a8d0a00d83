package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/abduss/uploader/internal/config"
	"github.com/abduss/uploader/internal/logger"
	"github.com/abduss/uploader/internal/metrics"
	"go.uber.org/zap"
)

const defaultMaxFileSize = 10 * 1024 * 1024 // 10MB

// Side metadata attached to every stored object.
const (
	MetaUploadedBy   = "uploaded-by"
	MetaOriginalName = "original-name"
)

// MetadataStore persists file records.
type MetadataStore interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Record, error)
	FindOne(ctx context.Context, id, ownerID string) (Record, error)
	DeleteByID(ctx context.Context, id string) error
}

// BinaryStore holds file contents addressed by storage key.
type BinaryStore interface {
	Write(ctx context.Context, key string, body io.Reader, size int64, contentType string, meta map[string]string) error
	SetPublic(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// EventRecorder receives upload lifecycle events for metrics.
type EventRecorder interface {
	RecordUpload(result string, size int64)
	RecordOrphanedBlob()
	RecordBlobDeleteFailure()
}

// Service manages file lifecycle operations.
type Service struct {
	records     MetadataStore
	blobs       BinaryStore
	events      EventRecorder
	keyPrefix   string
	maxFileSize int64
	nowFunc     func() time.Time
}

// NewService constructs a file service.
func NewService(records MetadataStore, blobs BinaryStore, cfg config.UploadConfig, events EventRecorder) *Service {
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}
	prefix := strings.Trim(cfg.KeyPrefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}
	if events == nil {
		events = noopRecorder{}
	}
	return &Service{
		records:     records,
		blobs:       blobs,
		events:      events,
		keyPrefix:   prefix,
		maxFileSize: maxSize,
		nowFunc:     time.Now,
	}
}

// MaxFileSize reports the largest accepted upload in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// Upload stores the object, publishes it and records its metadata.
func (s *Service) Upload(ctx context.Context, ownerID string, in *Upload) (Record, error) {
	log := logger.Ctx(ctx)

	if err := validateUpload(in, s.maxFileSize); err != nil {
		s.events.RecordUpload(metrics.ResultRejected, 0)
		return Record{}, err
	}

	now := s.nowFunc().UTC()
	storedName := fmt.Sprintf("%d-%s", now.UnixMilli(), in.Filename)
	key := s.StorageKey(ownerID, storedName)
	contentType := strings.TrimSpace(in.ContentType)

	meta := map[string]string{
		MetaUploadedBy:   ownerID,
		MetaOriginalName: in.Filename,
	}
	if err := s.blobs.Write(ctx, key, in.Body, in.Size, contentType, meta); err != nil {
		s.events.RecordUpload(metrics.ResultStorageError, 0)
		return Record{}, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	if err := s.blobs.SetPublic(ctx, key); err != nil {
		s.orphaned(log, key, err)
		return Record{}, fmt.Errorf("%w: publish object: %v", ErrMetadataWrite, err)
	}

	stored, err := s.records.Insert(ctx, Record{
		OwnerID:      ownerID,
		StoredName:   storedName,
		OriginalName: in.Filename,
		MimeType:     contentType,
		SizeBytes:    in.Size,
		URL:          s.blobs.PublicURL(key),
		StorageKey:   key,
		CreatedAt:    now,
	})
	if err != nil {
		s.orphaned(log, key, err)
		return Record{}, fmt.Errorf("%w: %v", ErrMetadataWrite, err)
	}

	s.events.RecordUpload(metrics.ResultSuccess, stored.SizeBytes)
	log.Info("file uploaded",
		zap.String("file_id", stored.ID),
		zap.String("owner_id", ownerID),
		zap.String("storage_key", key),
		zap.Int64("size", stored.SizeBytes),
	)
	return stored, nil
}

// StorageKey returns the object key for a stored name under the owner's prefix.
func (s *Service) StorageKey(ownerID, storedName string) string {
	return s.keyPrefix + "/" + ownerID + "/" + storedName
}

// List returns the owner's records, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Record, error) {
	records, err := s.records.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if records == nil {
		records = []Record{}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Delete removes the object (best effort) and then the owner's record.
func (s *Service) Delete(ctx context.Context, ownerID, fileID string) error {
	log := logger.Ctx(ctx)

	rec, err := s.records.FindOne(ctx, fileID, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.blobs.Delete(ctx, rec.StorageKey); err != nil {
		s.events.RecordBlobDeleteFailure()
		log.Warn("remove object failed; deleting record anyway",
			zap.String("file_id", rec.ID),
			zap.String("storage_key", rec.StorageKey),
			zap.Error(err),
		)
	}

	if err := s.records.DeleteByID(ctx, rec.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrDeletion, err)
	}

	log.Info("file deleted", zap.String("file_id", rec.ID), zap.String("owner_id", ownerID))
	return nil
}

func (s *Service) orphaned(log *zap.Logger, key string, cause error) {
	s.events.RecordUpload(metrics.ResultMetadataError, 0)
	s.events.RecordOrphanedBlob()
	log.Error("object stored without metadata record",
		zap.String("storage_key", key),
		zap.Error(cause),
	)
}

type noopRecorder struct{}

func (noopRecorder) RecordUpload(string, int64) {}
func (noopRecorder) RecordOrphanedBlob()        {}
func (noopRecorder) RecordBlobDeleteFailure()   {}
