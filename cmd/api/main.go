package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/config"
	"fleetdesk/internal/core/janitor"
	"fleetdesk/internal/fleet"
	httpx "fleetdesk/internal/http"
	"fleetdesk/internal/metrics"
	"fleetdesk/internal/services/views"
	"fleetdesk/internal/store/postgres"
	"fleetdesk/internal/store/redisstore"
	"fleetdesk/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

const connectWait = 30 * time.Second

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.App.LogLevel)
	cfg.MustValidate()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Offline mirror for fuel entries
	mirror, purger, closeMirror := openMirror(ctx, cfg)
	defer closeMirror()

	m := metrics.New()
	client := backend.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.TimeoutSec)
	catalog := fleet.NewCatalog(fleet.Observers{List: m, Form: m})
	fleet.RegisterAll(catalog, client, mirror)

	sessions := views.NewService(catalog, m, views.Config{
		DefaultCount: cfg.List.DefaultCount,
		Debounce:     cfg.List.Debounce,
		Timeout:      time.Duration(cfg.Backend.TimeoutSec) * time.Second,
	})
	defer sessions.CloseAll()

	worker := janitor.NewWorker(sessions, purger, cfg.List.SessionTTL)
	go worker.Run(ctx)

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:  cfg,
		Catalog: catalog,
		Views:   sessions,
		Metrics: m,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("backend", client.BaseURL()).Msgf("fleetdesk API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}

// openMirror connects the configured mirror store. purger is nil for stores
// that expire entries themselves.
func openMirror(ctx context.Context, cfg config.Cfg) (repositories.MirrorRepository, janitor.Purger, func()) {
	switch cfg.Mirror.Driver {
	case "redis":
		rdb := redisstore.MustOpen(ctx, cfg.Redis.Addr, connectWait)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Mirror.TTL).Msg("fuel mirror on redis")
		return redisstore.NewMirrorRepository(rdb, redisstore.DefaultPrefix, cfg.Mirror.TTL), nil, func() { _ = rdb.Close() }
	case "postgres":
		pool := postgres.MustOpen(ctx, cfg.DB.DSN, connectWait)
		repo := postgres.NewMirrorRepository(pool, cfg.Mirror.TTL)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("mirror schema")
		}
		log.Info().Dur("ttl", cfg.Mirror.TTL).Msg("fuel mirror on postgres")
		return repo, repo, pool.Close
	default:
		log.Info().Msg("fuel mirror disabled")
		return nil, nil, func() {}
	}
}
