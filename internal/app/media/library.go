package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"calmavatar/internal/pkg/errs"
	"calmavatar/internal/pkg/logx"
	"calmavatar/internal/pkg/randx"
)

// ObjectStore holds attachment bytes.
type ObjectStore interface {
	Upload(ctx context.Context, key, mimeType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// Library fronts the metadata store and the object store. It keeps the
// metadata of the attachments it last saw in the store, so Locate can
// answer without I/O. Every Load goes back to the store, and an attachment
// the store no longer has is evicted.
//
// Ids of deleted attachments are kept as tombstones. Attachment ids are
// never reused, so a Load that read a row before it was deleted cannot put
// it back.
type Library struct {
	store   Store
	objects ObjectStore
	logger  zerolog.Logger

	mu      sync.RWMutex
	known   map[uuid.UUID]*Attachment
	deleted map[uuid.UUID]struct{}
}

// NewLibrary creates a Library.
func NewLibrary(store Store, objects ObjectStore) *Library {
	return &Library{
		store:   store,
		objects: objects,
		logger:  logx.Component("media"),
		known:   make(map[uuid.UUID]*Attachment),
		deleted: make(map[uuid.UUID]struct{}),
	}
}

// Load fetches the attachment with the given id from the store and
// refreshes the metadata Locate answers from.
func (l *Library) Load(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	a, err := l.store.GetAttachment(ctx, id)
	if err != nil {
		if errs.HasCode(err, errs.ErrAttachmentNotFound) {
			l.forget(id)
		}
		return nil, err
	}
	if !l.remember(a) {
		return nil, errs.NewError(errs.ErrAttachmentNotFound)
	}
	return a, nil
}

// Upload validates data, stores the bytes and records the metadata.
func (l *Library) Upload(ctx context.Context, filename, mimeType string, data []byte) (*Attachment, error) {
	if customErr := ValidateUpload(filename, mimeType, int64(len(data))); customErr != nil {
		return nil, customErr
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := randx.AttachmentKey(ext)

	if err := l.objects.Upload(ctx, key, mimeType, bytes.NewReader(data)); err != nil {
		return nil, errs.NewError(errs.ErrFileStorageFailed).WithCause(err)
	}

	a := &Attachment{
		Filename:   filepath.Base(filename),
		StorageKey: key,
		MimeType:   strings.ToLower(mimeType),
		Size:       int64(len(data)),
	}
	if err := l.store.CreateAttachment(ctx, a); err != nil {
		if delErr := l.objects.Delete(ctx, key); delErr != nil {
			l.logger.Warn().Err(delErr).Str("key", key).Msg("orphaned object after failed insert")
		}
		return nil, fmt.Errorf("create attachment record: %w", err)
	}

	l.remember(a)
	l.logger.Info().Str("attachment_id", a.ID.String()).Int64("size", a.Size).Msg("attachment uploaded")
	return a, nil
}

// Delete removes the attachment metadata and then, best effort, its bytes.
// Avatars still holding the attachment render blank from then on.
func (l *Library) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := l.Load(ctx, id)
	if err != nil {
		return err
	}

	if err := l.store.DeleteAttachment(ctx, id); err != nil {
		return fmt.Errorf("delete attachment record: %w", err)
	}
	l.forget(id)

	if err := l.objects.Delete(ctx, a.StorageKey); err != nil {
		l.logger.Warn().Err(err).Str("key", a.StorageKey).Msg("failed to delete attachment object")
	}
	return nil
}

// Locate implements avatar.ImageLocator from the loaded metadata only.
func (l *Library) Locate(a *Attachment) (string, bool) {
	if a == nil {
		return "", false
	}

	l.mu.RLock()
	known, ok := l.known[a.ID]
	l.mu.RUnlock()
	if !ok {
		return "", false
	}
	return l.objects.PublicURL(known.StorageKey), true
}

// remember records a and reports false when a was deleted meanwhile.
func (l *Library) remember(a *Attachment) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, gone := l.deleted[a.ID]; gone {
		return false
	}
	l.known[a.ID] = a
	return true
}

func (l *Library) forget(id uuid.UUID) {
	l.mu.Lock()
	delete(l.known, id)
	l.deleted[id] = struct{}{}
	l.mu.Unlock()
}
