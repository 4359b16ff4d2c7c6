package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"taskora.org/internal/auth"
	"taskora.org/internal/config"
	"taskora.org/internal/httpapi"
	"taskora.org/internal/obs"
	"taskora.org/internal/store/pg"
	"taskora.org/internal/task"
)

var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	log := obs.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open db")
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	if db == nil {
		log.Fatal().Msg("missing database DSN: set TASKORA_PG_DSN")
	}

	issuer, err := auth.NewTokenIssuer([]byte(cfg.AuthSecret), cfg.AccessTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("configure token issuer")
	}

	authSvc := auth.NewService(pg.NewUserStore(db), auth.NewHasher(), issuer, log)
	taskSvc := task.NewService(pg.NewTaskStore(db))

	api := httpapi.New(authSvc, taskSvc, httpapi.ReadyProbe{DB: db}, httpapi.Config{
		Version:        version,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().Str("version", version).Str("addr", srv.Addr).Msg("starting taskora-api")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Info().Msg("stopped")
}
