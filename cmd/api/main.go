// cmd/api/main.go
//
// Viya Kaptan – JSON data API entry point.
//
// Start-up
// --------
//
//  1. Bootstrap a console logger, point config at Vault, load config.
//
//  2. Start the daily rotating file logger.
//
//  3. Open MySQL and, when database.migrate is set, apply the schema.
//
//  4. Select the media blob store (disk or S3).
//
//  5. Serve /api/* and /metrics until SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/viyakaptan/internal/api"
	"github.com/yanizio/viyakaptan/internal/config"
	"github.com/yanizio/viyakaptan/internal/database"
	"github.com/yanizio/viyakaptan/internal/logger"
	"github.com/yanizio/viyakaptan/internal/server"
	"github.com/yanizio/viyakaptan/internal/session"
	"github.com/yanizio/viyakaptan/internal/storage"
	"github.com/yanizio/viyakaptan/internal/store"
	"github.com/yanizio/viyakaptan/internal/vault"
)

func main() {
	logger.Bootstrap()
	config.NewSecretSource = vault.Source

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(logger.Options{
		Root:  cfg.Paths.Root,
		App:   "api",
		Level: cfg.Log.Level,
		Tee:   logger.RunningInTTY(),
	})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Database ─────────────────────────────────────────────────────
	//
	if cfg.Database.DSN == "" {
		logOut.Fatal("database.dsn is not set")
	}
	logOut.Info("connecting to database …")
	db, err := database.OpenWithOptions(cfg.Database.DSN, cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if err != nil {
		logOut.Fatalw("connect database", "err", err)
	}
	defer db.Close()
	logOut.Info("database online")

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logOut.Fatalw("migrate", "err", err)
		}
		logOut.Infow("schema applied", "statements", len(database.Statements()))
	}

	//
	// ── 2.  Blob storage ─────────────────────────────────────────────────
	//
	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logOut.Fatalw("storage", "driver", cfg.Storage.Driver, "err", err)
	}
	mediaDir := ""
	if cfg.Storage.Driver == "disk" {
		mediaDir = cfg.Storage.Dir
	}
	logOut.Infow("storage online", "driver", cfg.Storage.Driver)

	//
	// ── 3.  Router ───────────────────────────────────────────────────────
	//
	sessions := session.New(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	handler := api.New(store.New(db), blobs, sessions, api.Options{
		AllowedOrigins: cfg.API.AllowedOrigins,
		MediaDir:       mediaDir,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler)

	logOut.Infow("listening", "addr", cfg.HTTP.APIAddr)
	if err := server.Run(ctx, server.New(cfg.HTTP.APIAddr, mux)); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Info("shut down cleanly")
}
