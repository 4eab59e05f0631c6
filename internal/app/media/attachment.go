/*
Package media manages image attachments: their metadata, the bytes kept in
object storage, and the in-process view of which attachments currently exist.
*/
package media

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"calmavatar/internal/pkg/errs"
)

const (
	// MaxAttachmentSizeMB is the maximum allowed file size in megabytes.
	MaxAttachmentSizeMB = 5

	// MaxAttachmentSize is the maximum allowed file size in bytes.
	MaxAttachmentSize = MaxAttachmentSizeMB * 1024 * 1024
)

// ExtToMIME maps accepted file extensions to their MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// Attachment is an uploaded image.
type Attachment struct {
	ID         uuid.UUID
	Filename   string
	StorageKey string
	MimeType   string
	Size       int64
	CreatedAt  time.Time
}

// Store persists attachment metadata.
type Store interface {
	CreateAttachment(ctx context.Context, a *Attachment) error
	// GetAttachment returns an ErrAttachmentNotFound error for unknown ids.
	GetAttachment(ctx context.Context, id uuid.UUID) (*Attachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
}

// ValidateUpload checks the size, MIME type and extension of an upload.
func ValidateUpload(filename, mimeType string, size int64) *errs.CustomError {
	if size <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if size > MaxAttachmentSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := ExtToMIME[ext]
	if !ok || expected != strings.ToLower(mimeType) {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}
	return nil
}
