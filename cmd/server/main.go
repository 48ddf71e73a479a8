package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soniclabel/media-admin/pkg/mediaadmin"
	"github.com/soniclabel/media-admin/pkg/mediaadmin/api"
	"github.com/soniclabel/media-admin/pkg/mediaadmin/config"
	"github.com/soniclabel/media-admin/pkg/mediaadmin/puburl"
	memoryrepo "github.com/soniclabel/media-admin/pkg/mediaadmin/repo/memory"
	postgresrepo "github.com/soniclabel/media-admin/pkg/mediaadmin/repo/postgres"
	s3signer "github.com/soniclabel/media-admin/pkg/mediaadmin/storage/s3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, err := buildRepository(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	options := []mediaadmin.Option{
		mediaadmin.WithRepository(repo),
		mediaadmin.WithURLResolver(puburl.New(cfg.S3.Bucket, cfg.S3.Region, cfg.S3.CDNHost)),
	}

	if cfg.S3.Bucket != "" {
		signer, err := s3signer.New(s3signer.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			slog.Error("Failed to configure blob signer", "error", err)
			os.Exit(1)
		}
		options = append(options, mediaadmin.WithBlobSigner(signer))
	} else {
		slog.Warn("S3_BUCKET not set; upload credential issuance is disabled")
	}

	svc, err := mediaadmin.New(options...)
	if err != nil {
		slog.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	auth := jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
	handler := api.NewHandler(svc, auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/api", handler.Routes())

	slog.Info("Starting server", "addr", cfg.ListenAddr, "environment", cfg.Environment)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func buildRepository(ctx context.Context, cfg config.Config) (mediaadmin.Repository, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set; using in-memory repository")
		return memoryrepo.New(), nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}
	return postgresrepo.NewWithPool(pool), nil
}
