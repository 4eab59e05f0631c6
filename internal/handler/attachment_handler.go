package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"calmavatar/internal/pkg/auth/jwt"
	"calmavatar/internal/pkg/errs"
	"calmavatar/internal/pkg/logx"
	"calmavatar/internal/pkg/req"
	"calmavatar/internal/pkg/resp"
)

// HandleUploadMyAvatar stores the uploaded image and makes it the caller's avatar.
// POST /api/me/avatar (multipart, field "image")
func HandleUploadMyAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := callerID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}

		attachment, err := deps.Media.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		if err := deps.Users.SetUserAvatar(r.Context(), userID, attachment.ID); err != nil {
			if delErr := deps.Media.Delete(r.Context(), attachment.ID); delErr != nil {
				logx.Error(delErr, "upload_avatar: failed to roll back attachment", "attachment_id", attachment.ID.String())
			}
			resp.RespondError(w, r, errs.From(err))
			return
		}

		size := deps.Config.AvatarDefaultSize
		resp.RespondSuccess(w, r, map[string]any{
			"attachmentId": attachment.ID.String(),
			"html":         deps.Avatars.Image(attachment).HTML(size, size),
		})
	}
}

// HandleDeleteAttachment deletes an attachment. Administrators only.
// DELETE /api/attachments/{id}
func HandleDeleteAttachment(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil || !payload.IsAdmin() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Media.Delete(r.Context(), id); err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"deleted": id.String()})
	}
}
