/*
Package db owns the PostgreSQL connection pool, the schema migrations and the
queries behind the identity and media stores.
*/
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"calmavatar/internal/app/identity"
	"calmavatar/internal/app/media"
	"calmavatar/internal/pkg/errs"
)

// DBTX is the subset of pgxpool.Pool (and pgx.Tx) the queries need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries implements identity.Store and media.Store.
type Queries struct {
	db DBTX
}

// New wraps a pool or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

var (
	_ identity.Store = (*Queries)(nil)
	_ media.Store    = (*Queries)(nil)
)

const getUser = `
SELECT id, display_name, email, avatar_attachment_id
FROM users WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var (
		u        identity.User
		userID   pgtype.UUID
		avatarID pgtype.UUID
	)
	err := q.db.QueryRow(ctx, getUser, pgUUID(id)).Scan(&userID, &u.DisplayName, &u.Email, &avatarID)
	if err != nil {
		if IsNoRows(err) {
			return nil, errs.NewError(errs.ErrUserNotFound)
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	u.ID = uuid.UUID(userID.Bytes)
	u.AvatarID = uuidPtr(avatarID)
	return &u, nil
}

const getPost = `
SELECT id, author_id, title, image_attachment_id
FROM posts WHERE id = $1`

func (q *Queries) GetPost(ctx context.Context, id uuid.UUID) (*identity.Post, error) {
	var (
		p        identity.Post
		postID   pgtype.UUID
		authorID pgtype.UUID
		imageID  pgtype.UUID
	)
	err := q.db.QueryRow(ctx, getPost, pgUUID(id)).Scan(&postID, &authorID, &p.Title, &imageID)
	if err != nil {
		if IsNoRows(err) {
			return nil, errs.NewError(errs.ErrPostNotFound)
		}
		return nil, fmt.Errorf("query post by id: %w", err)
	}
	p.ID = uuid.UUID(postID.Bytes)
	p.AuthorID = uuidPtr(authorID)
	p.ImageID = uuidPtr(imageID)
	return &p, nil
}

const getComment = `
SELECT id, post_id, user_id, author_name, author_email
FROM comments WHERE id = $1`

func (q *Queries) GetComment(ctx context.Context, id uuid.UUID) (*identity.Comment, error) {
	var (
		c         identity.Comment
		commentID pgtype.UUID
		postID    pgtype.UUID
		userID    pgtype.UUID
	)
	err := q.db.QueryRow(ctx, getComment, pgUUID(id)).Scan(&commentID, &postID, &userID, &c.AuthorName, &c.AuthorEmail)
	if err != nil {
		if IsNoRows(err) {
			return nil, errs.NewError(errs.ErrCommentNotFound)
		}
		return nil, fmt.Errorf("query comment by id: %w", err)
	}
	c.ID = uuid.UUID(commentID.Bytes)
	c.PostID = uuid.UUID(postID.Bytes)
	c.UserID = uuidPtr(userID)
	return &c, nil
}

const listPostTerms = `
SELECT t.id, t.name, t.image_attachment_id
FROM terms t
JOIN post_terms pt ON pt.term_id = t.id
WHERE pt.post_id = $1
ORDER BY t.name`

func (q *Queries) ListPostTerms(ctx context.Context, postID uuid.UUID) ([]identity.Term, error) {
	rows, err := q.db.Query(ctx, listPostTerms, pgUUID(postID))
	if err != nil {
		return nil, fmt.Errorf("list post terms: %w", err)
	}
	defer rows.Close()

	var terms []identity.Term
	for rows.Next() {
		var (
			t       identity.Term
			termID  pgtype.UUID
			imageID pgtype.UUID
		)
		if err := rows.Scan(&termID, &t.Name, &imageID); err != nil {
			return nil, fmt.Errorf("scan post term: %w", err)
		}
		t.ID = uuid.UUID(termID.Bytes)
		t.ImageID = uuidPtr(imageID)
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

const setUserAvatar = `UPDATE users SET avatar_attachment_id = $2 WHERE id = $1`

// SetUserAvatar points the user's avatar at an attachment.
func (q *Queries) SetUserAvatar(ctx context.Context, userID, attachmentID uuid.UUID) error {
	tag, err := q.db.Exec(ctx, setUserAvatar, pgUUID(userID), pgUUID(attachmentID))
	if err != nil {
		if IsForeignKeyViolation(err) {
			return errs.NewError(errs.ErrAttachmentNotFound)
		}
		return fmt.Errorf("update user avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NewError(errs.ErrUserNotFound)
	}
	return nil
}

const createAttachment = `
INSERT INTO attachments (filename, storage_key, mime_type, size)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

func (q *Queries) CreateAttachment(ctx context.Context, a *media.Attachment) error {
	var id pgtype.UUID
	err := q.db.QueryRow(ctx, createAttachment, a.Filename, a.StorageKey, a.MimeType, a.Size).Scan(&id, &a.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return errs.NewError(errs.ErrInvalidParams).WithCause(err)
		}
		return fmt.Errorf("insert attachment: %w", err)
	}
	a.ID = uuid.UUID(id.Bytes)
	return nil
}

const getAttachment = `
SELECT id, filename, storage_key, mime_type, size, created_at
FROM attachments WHERE id = $1`

func (q *Queries) GetAttachment(ctx context.Context, id uuid.UUID) (*media.Attachment, error) {
	var (
		a  media.Attachment
		pk pgtype.UUID
	)
	err := q.db.QueryRow(ctx, getAttachment, pgUUID(id)).Scan(&pk, &a.Filename, &a.StorageKey, &a.MimeType, &a.Size, &a.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, errs.NewError(errs.ErrAttachmentNotFound)
		}
		return nil, fmt.Errorf("query attachment by id: %w", err)
	}
	a.ID = uuid.UUID(pk.Bytes)
	return &a, nil
}

const deleteAttachment = `DELETE FROM attachments WHERE id = $1`

func (q *Queries) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, deleteAttachment, pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NewError(errs.ErrAttachmentNotFound)
	}
	return nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func uuidPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := uuid.UUID(id.Bytes)
	return &u
}
