package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"calmavatar/internal/app/avatar"
	"calmavatar/internal/pkg/errs"
	"calmavatar/internal/pkg/logx"
)

// Resolver builds the avatar for users, posts and comments.
type Resolver struct {
	store       Store
	attachments AttachmentLoader
	avatars     *avatar.Factory
	logger      zerolog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(store Store, attachments AttachmentLoader, avatars *avatar.Factory) *Resolver {
	return &Resolver{
		store:       store,
		attachments: attachments,
		avatars:     avatars,
		logger:      logx.Component("identity"),
	}
}

// UserAvatar returns the user's uploaded image, or initials from the
// display name coloured by the email.
func (r *Resolver) UserAvatar(ctx context.Context, id uuid.UUID) (avatar.Avatar, error) {
	user, err := r.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.userAvatar(ctx, user), nil
}

func (r *Resolver) userAvatar(ctx context.Context, user *User) avatar.Avatar {
	if a, ok := r.image(ctx, user.AvatarID); ok {
		return a
	}
	return r.avatars.Text(user.DisplayName, user.Email)
}

// CommentAvatar returns the commenter's user avatar when the comment was
// written by a registered user, or initials from the author fields.
func (r *Resolver) CommentAvatar(ctx context.Context, id uuid.UUID) (avatar.Avatar, error) {
	comment, err := r.store.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.UserID != nil {
		user, err := r.store.GetUser(ctx, *comment.UserID)
		switch {
		case err == nil:
			return r.userAvatar(ctx, user), nil
		case errs.HasCode(err, errs.ErrUserNotFound):
			r.logger.Debug().Str("comment_id", id.String()).Msg("comment user is gone, using author fields")
		default:
			return nil, err
		}
	}
	return r.avatars.Text(comment.AuthorName, comment.AuthorEmail), nil
}

// PostAvatar returns, in order of preference: the post's own image, the
// image of its first term that has one, its author's avatar, or blank.
func (r *Resolver) PostAvatar(ctx context.Context, id uuid.UUID) (avatar.Avatar, error) {
	post, err := r.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if a, ok := r.image(ctx, post.ImageID); ok {
		return a, nil
	}

	terms, err := r.store.ListPostTerms(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	for _, term := range terms {
		if a, ok := r.image(ctx, term.ImageID); ok {
			return a, nil
		}
	}

	if post.AuthorID != nil {
		user, err := r.store.GetUser(ctx, *post.AuthorID)
		switch {
		case err == nil:
			return r.userAvatar(ctx, user), nil
		case !errs.HasCode(err, errs.ErrUserNotFound):
			return nil, err
		}
	}
	return r.avatars.Blank(), nil
}

// image loads the attachment behind id. Any failure means "no image".
func (r *Resolver) image(ctx context.Context, id *uuid.UUID) (avatar.Avatar, bool) {
	if id == nil {
		return nil, false
	}

	a, err := r.attachments.Load(ctx, *id)
	if err != nil {
		if !errs.HasCode(err, errs.ErrAttachmentNotFound) {
			r.logger.Warn().Err(err).Str("attachment_id", id.String()).Msg("attachment lookup failed")
		}
		return nil, false
	}
	return r.avatars.Image(a), true
}
