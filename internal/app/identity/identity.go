/*
Package identity decides which avatar represents a user, a post or a comment.

A resolver reads the identity record, then walks a fixed fallback chain:
an attached image first, then derived images, then initials built from the
display name and email, and finally the blank avatar.
*/
package identity

import (
	"context"

	"github.com/google/uuid"

	"calmavatar/internal/app/media"
)

// User is a registered account.
type User struct {
	ID          uuid.UUID
	DisplayName string
	Email       string
	AvatarID    *uuid.UUID
}

// Post is a piece of content written by a user.
type Post struct {
	ID       uuid.UUID
	AuthorID *uuid.UUID
	Title    string
	ImageID  *uuid.UUID
}

// Comment is a reply to a post, by a registered user or an anonymous author.
type Comment struct {
	ID          uuid.UUID
	PostID      uuid.UUID
	UserID      *uuid.UUID
	AuthorName  string
	AuthorEmail string
}

// Term is a taxonomy term attached to posts. It may carry an image.
type Term struct {
	ID      uuid.UUID
	Name    string
	ImageID *uuid.UUID
}

// Store reads identity records. Unknown ids yield the matching
// ErrUserNotFound, ErrPostNotFound or ErrCommentNotFound error.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	GetComment(ctx context.Context, id uuid.UUID) (*Comment, error)
	// ListPostTerms returns the post's terms ordered by name.
	ListPostTerms(ctx context.Context, postID uuid.UUID) ([]Term, error)
}

// AttachmentLoader loads attachment metadata; media.Library implements it.
type AttachmentLoader interface {
	Load(ctx context.Context, id uuid.UUID) (*media.Attachment, error)
}
