/*
Package handler provides the HTTP handlers and routing setup for the avatar service.

This file defines the main Router, applying logging, CORS and IP-based rate limiting
before delegating requests to the avatar and attachment handlers.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"calmavatar/internal/pkg/auth/jwt"
	"calmavatar/internal/pkg/limiter"
	"calmavatar/internal/pkg/logx"
	"calmavatar/internal/pkg/resp"
)

const (
	// RenderRate and RenderBurst bound avatar renders per client IP.
	RenderRate  = 20
	RenderBurst = 60

	// UploadRate and UploadBurst bound uploads per client IP.
	UploadRate  = 0.05
	UploadBurst = 3
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// Background cleanup of the rate limiters stops when ctx is done.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	renderLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(RenderRate), RenderBurst)
	uploadLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(UploadRate), UploadBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "calmavatar",
		})
	})

	r.Route("/avatars", func(av chi.Router) {
		av.Use(renderLimiter.Middleware)

		av.Get("/users/{id}", HandleUserAvatar(deps))
		av.Get("/posts/{id}", HandlePostAvatar(deps))
		av.Get("/comments/{id}", HandleCommentAvatar(deps))
		av.Get("/preview", HandlePreviewAvatar(deps))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))
		api.Use(jwt.RequireIdentity)

		api.With(renderLimiter.Middleware).Get("/me/avatar", HandleMyAvatar(deps))
		api.With(uploadLimiter.Middleware).Post("/me/avatar", HandleUploadMyAvatar(deps))
		api.Delete("/attachments/{id}", HandleDeleteAttachment(deps))
	})

	return r
}
