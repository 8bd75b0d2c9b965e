package services

import (
	"context"
	"io"

	"github.com/google/uuid"
	"travelkeep/domain/models"
)

// FileInput is one binary file of an upload batch.
type FileInput struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

type UploadService interface {
	// UploadBatch stores every file of the batch in the blob store and
	// persists one photo record per file. The batch is all-or-nothing: if
	// any file fails, no photo records are created and the error is
	// apperrors.UploadFailedError. An empty batch returns an empty slice
	// without touching the blob store.
	UploadBatch(ctx context.Context, placeID uuid.UUID, files []FileInput) ([]models.Photo, error)
}

// BlobStorage is the durable byte store behind the upload pipeline.
type BlobStorage interface {
	// Upload stores the blob under key and returns its durable fetch URL.
	Upload(ctx context.Context, key string, content io.Reader, contentType string) (string, error)
}
