// Package storage provides a domain-agnostic interface for S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned when a key has no object behind it.
var ErrObjectNotFound = errors.New("object not found")

// PresignedURL contains the URL and metadata for a presigned upload/download operation.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ObjectInfo is what storage reports about an uploaded object.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// StorageService defines the interface for object storage operations.
type StorageService interface {
	// GenerateUploadURL creates a presigned PUT URL under folder. The key gets
	// a random suffix so uploads never overwrite each other.
	GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)

	// GenerateDownloadURL creates a presigned GET URL. fileName, when set,
	// becomes the attachment name in Content-Disposition.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey, fileName string) (*PresignedURL, error)

	// StatObject returns ErrObjectNotFound when nothing was uploaded.
	StatObject(ctx context.Context, bucket, fileKey string) (ObjectInfo, error)

	DeleteObject(ctx context.Context, bucket, fileKey string) error

	EnsureBucketExists(ctx context.Context, bucket string) error

	ValidateContentType(contentType string) error
	ValidateFileSize(sizeBytes int64) error
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
