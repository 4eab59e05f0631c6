package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"calmavatar/internal/app/avatar"
	"calmavatar/internal/pkg/auth/jwt"
	"calmavatar/internal/pkg/errs"
	"calmavatar/internal/pkg/req"
	"calmavatar/internal/pkg/resp"
)

// resolveFunc looks up the avatar for one kind of identity.
type resolveFunc func(ctx context.Context, id uuid.UUID) (avatar.Avatar, error)

// HandleUserAvatar renders a user's avatar.
// GET /avatars/users/{id}?w=&h=
func HandleUserAvatar(deps *AppDeps) http.HandlerFunc {
	return handleIdentityAvatar(deps, deps.Resolver.UserAvatar)
}

// HandlePostAvatar renders the avatar shown for a post.
// GET /avatars/posts/{id}?w=&h=
func HandlePostAvatar(deps *AppDeps) http.HandlerFunc {
	return handleIdentityAvatar(deps, deps.Resolver.PostAvatar)
}

// HandleCommentAvatar renders the avatar shown for a comment.
// GET /avatars/comments/{id}?w=&h=
func HandleCommentAvatar(deps *AppDeps) http.HandlerFunc {
	return handleIdentityAvatar(deps, deps.Resolver.CommentAvatar)
}

func handleIdentityAvatar(deps *AppDeps, resolve resolveFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		width, height, customErr := dimensions(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		a, err := resolve(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		renderHTML(w, r, a, width, height)
	}
}

// HandlePreviewAvatar renders a text avatar from query parameters, letting
// forms preview the avatar of a commenter who has no account.
// GET /avatars/preview?name=&email=&w=&h=
func HandlePreviewAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		width, height, customErr := dimensions(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		q := r.URL.Query()
		renderHTML(w, r, deps.Avatars.Text(q.Get("name"), q.Get("email")), width, height)
	}
}

// HandleMyAvatar returns the caller's avatar markup as JSON.
// GET /api/me/avatar?w=&h=
func HandleMyAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := callerID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		width, height, customErr := dimensions(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		a, err := deps.Resolver.UserAvatar(r.Context(), userID)
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		html, err := a.Render(width, height)
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"html":   html,
			"width":  width,
			"height": height,
		})
	}
}

func renderHTML(w http.ResponseWriter, r *http.Request, a avatar.Avatar, width, height int) {
	html, err := a.Render(width, height)
	if err != nil {
		resp.RespondError(w, r, errs.From(err))
		return
	}
	resp.RespondHTML(w, r, html)
}

// dimensions reads w and h. A missing w falls back to the configured
// default size and a missing h to w. Sizes are capped by AvatarMaxSize;
// non-positive sizes are left for the avatar to reject.
func dimensions(r *http.Request, deps *AppDeps) (int, int, *errs.CustomError) {
	width, customErr := req.QueryInt(r, "w", deps.Config.AvatarDefaultSize)
	if customErr != nil {
		return 0, 0, customErr
	}
	height, customErr := req.QueryInt(r, "h", width)
	if customErr != nil {
		return 0, 0, customErr
	}

	maxSize := deps.Config.AvatarMaxSize
	if width > maxSize || height > maxSize {
		return 0, 0, errs.NewError(errs.ErrDimensionsTooLarge, maxSize)
	}
	return width, height, nil
}

func callerID(r *http.Request) (uuid.UUID, *errs.CustomError) {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		return uuid.Nil, errs.NewError(errs.ErrUnauthorized)
	}
	id, err := uuid.Parse(payload.ID)
	if err != nil {
		return uuid.Nil, errs.NewError(errs.ErrUnauthorized)
	}
	return id, nil
}
