/*
Package randx generates identifiers for stored objects.
*/
package randx

import (
	"strings"

	"github.com/google/uuid"
)

// AttachmentPrefix is the object storage prefix for uploaded avatar images.
const AttachmentPrefix = "attachments/"

// AttachmentKey returns a fresh storage key ending in ext (".png", ...).
func AttachmentKey(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return AttachmentPrefix + uuid.New().String() + strings.ToLower(ext)
}

// IsAttachmentKey reports whether key has the shape AttachmentKey produces.
func IsAttachmentKey(key string) bool {
	rest, ok := strings.CutPrefix(key, AttachmentPrefix)
	if !ok || len(rest) < 36 {
		return false
	}
	if _, err := uuid.Parse(rest[:36]); err != nil {
		return false
	}
	ext := rest[36:]
	return ext == "" || (strings.HasPrefix(ext, ".") && len(ext) > 1 && !strings.Contains(ext, "/"))
}
