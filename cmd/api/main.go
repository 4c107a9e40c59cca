package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"matterdesk/api/internal/app"
	"matterdesk/api/internal/authpw"
	"matterdesk/api/internal/config"
	"matterdesk/api/internal/export"
	"matterdesk/api/internal/gitrepo"
	"matterdesk/api/internal/search"
	"matterdesk/api/internal/session"
	"matterdesk/api/internal/store"
	"matterdesk/api/internal/uploads"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("failed to create data dir: %v", err)
	}

	var matterStore store.MatterStore
	var ownerStore store.OwnerStore
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
		if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		log.Printf("Using PostgreSQL record storage")
		matterStore = store.NewPostgresMatterStore(db)
		ownerStore = store.NewPostgresOwnerStore(db)
	} else {
		log.Printf("Using JSON file record storage in %s", cfg.DataDir)
		matterStore = store.NewFileMatterStore(cfg.MattersPath())
		ownerStore = store.NewFileOwnerStore(cfg.OwnersPath())
	}

	var sessionStore session.Store
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for refresh token storage")
		redisStore, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisStore.Close()
		sessionStore = redisStore
	} else {
		log.Printf("Using in-memory refresh token storage")
		sessionStore = session.NewMemoryStore()
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient)

	gitService := gitrepo.New(filepath.Join(cfg.DataDir, "history"))

	var archiver uploads.Archiver
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		minioArchiver, err := uploads.NewMinioArchiver(
			cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("minio connection failed: %v", err)
		}
		archiver = minioArchiver
	} else {
		archiver = uploads.NewLocalArchiver(cfg.UploadsDir())
	}

	service := app.New(
		cfg,
		matterStore,
		ownerStore,
		sessionStore,
		authpw.NewService(cfg.AdminPassword),
		gitService,
		searchService,
		export.NewService(),
		uploads.NewService(archiver),
	)
	if err := service.Bootstrap(ctx); err != nil {
		log.Printf("WARNING: bootstrap error (will retry on next restart): %v", err)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("MatterDesk API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
