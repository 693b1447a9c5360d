// cmd/web/main.go
//
// Viya Kaptan – site and back-office entry point.
//
// Start-up
// --------
//
//  1. Bootstrap a console logger, point config at Vault, load config.
//
//  2. Start the daily rotating file logger (tees to console in a TTY).
//
//  3. Build the query cache (in-process LRU or Redis) and the API client.
//
//  4. Open the optional GeoLite2 database for visitor countries.
//
//  5. Build the site router, expose Prometheus /metrics, and wrap it all
//     with ForceHTTPS so non-local HTTP requests are 308-redirected.
//
//  6. Serve until SIGINT/SIGTERM, then drain in-flight requests.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/apiclient"
	"github.com/yanizio/viyakaptan/internal/config"
	"github.com/yanizio/viyakaptan/internal/logger"
	"github.com/yanizio/viyakaptan/internal/middleware"
	"github.com/yanizio/viyakaptan/internal/query"
	"github.com/yanizio/viyakaptan/internal/requestinfo"
	"github.com/yanizio/viyakaptan/internal/server"
	"github.com/yanizio/viyakaptan/internal/session"
	"github.com/yanizio/viyakaptan/internal/vault"
	"github.com/yanizio/viyakaptan/internal/web"
)

func main() {
	logger.Bootstrap()
	config.NewSecretSource = vault.Source

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 1.  File logger ──────────────────────────────────────────────────
	//
	logOut, err := logger.New(logger.Options{
		Root:  cfg.Paths.Root,
		App:   "web",
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
	// ── 2.  Query cache + API client ────────────────────────────────────
	//
	var cache query.Cache
	switch cfg.Cache.Driver {
	case "redis":
		rc, err := query.DialRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			logOut.Fatalw("connect redis", "err", err)
		}
		cache = rc
		logOut.Infow("query cache online", "driver", "redis")
	default:
		cache = query.NewMemory(cfg.Cache.Capacity, cfg.Cache.TTL)
		logOut.Infow("query cache online", "driver", "memory", "capacity", cfg.Cache.Capacity)
	}
	// No client timeout: calls end with the request context.
	api := apiclient.New(cfg.API.BaseURL, nil)
	q := query.New(api, cache)

	//
	// ── 3.  GeoIP (optional) ────────────────────────────────────────────
	//
	loc, err := requestinfo.OpenLocator(cfg.GeoIP.DBPath)
	if err != nil {
		logOut.Warnw("geoip disabled", "path", cfg.GeoIP.DBPath, "err", err)
	}
	defer loc.Close()

	//
	// ── 4.  Router + metrics + HTTPS enforcement ────────────────────────
	//
	sessions := session.New(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	site := web.New(q, sessions, web.Options{
		Auth:          cfg.Auth,
		CSRFKey:       cfg.CSRF.Key,
		ForceFallback: cfg.Fallback.Force,
		Locator:       loc,
		DevTemplates:  cfg.Log.Level == "debug",
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", site)

	srv := server.New(cfg.HTTP.WebAddr, middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS)(mux))

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	logOut.Infow("listening", "addr", cfg.HTTP.WebAddr, "api", cfg.API.BaseURL)
	if err := server.Run(ctx, srv); err != nil {
		zap.L().Fatal("http server", zap.Error(err))
	}
	logOut.Info("shut down cleanly")
}
