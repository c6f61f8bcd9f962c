// File: services/storage/interface.go
package storage

import (
	"context"
	"time"
)

// StorageService defines the interface for file storage operations. Public
// assets (avatars) go through UploadFile; identity documents go through
// UploadEncryptedFile and are only reachable via signed URLs.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	UploadEncryptedFile(ctx context.Context, localFilePath, destFolder, encryptionKey string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error)
	GetSecureDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error)
}
