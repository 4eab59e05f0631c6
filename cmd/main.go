/*
Package main is the entry point for the calmavatar service.

It is responsible for loading configuration, initializing the global logging system,
connecting to PostgreSQL and object storage, registering the avatar mutators,
setting up the HTTP server, and gracefully handling operating system interrupt
signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calmavatar/internal/app/avatar"
	"calmavatar/internal/app/db"
	"calmavatar/internal/app/identity"
	"calmavatar/internal/app/media"
	"calmavatar/internal/app/storage"
	"calmavatar/internal/configs"
	"calmavatar/internal/handler"
	"calmavatar/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("avatar_default_size", cfg.AvatarDefaultSize).
		Int("avatar_max_size", cfg.AvatarMaxSize).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN, db.PoolOptions{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()
	queries := db.New(pool)

	storageSvc, err := storage.NewStorageService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
		PublicBaseURL:     cfg.AssetBaseURL,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	library := media.NewLibrary(queries, storageSvc)

	mutators := avatar.NewMutators()
	if cfg.AvatarLazyLoading {
		mutators.Image.MustRegister(avatar.LazyLoading())
	}
	if cfg.AvatarCSSClass != "" {
		mutators.Text.MustRegister(avatar.ExtraClass[avatar.TextSubject](cfg.AvatarCSSClass))
		mutators.Image.MustRegister(avatar.ExtraClass[avatar.ImageSubject](cfg.AvatarCSSClass))
	}
	logx.Info("Avatar mutators registered",
		"text", mutators.Text.Names(),
		"image", mutators.Image.Names(),
	)

	factory := avatar.NewFactory(mutators, library)

	router := handler.Router(ctx, &handler.AppDeps{
		Config:   cfg,
		Avatars:  factory,
		Resolver: identity.NewResolver(queries, library, factory),
		Media:    library,
		Users:    queries,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("calmavatar starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
