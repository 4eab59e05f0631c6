package handler

import (
	"context"

	"github.com/google/uuid"

	"calmavatar/internal/app/avatar"
	"calmavatar/internal/app/identity"
	"calmavatar/internal/app/media"
	"calmavatar/internal/configs"
)

// UserAvatarSetter records which attachment is a user's avatar.
type UserAvatarSetter interface {
	SetUserAvatar(ctx context.Context, userID, attachmentID uuid.UUID) error
}

// AppDeps carries everything the handlers need.
type AppDeps struct {
	Config   *configs.AppConfig
	Avatars  *avatar.Factory
	Resolver *identity.Resolver
	Media    *media.Library
	Users    UserAvatarSetter
}
