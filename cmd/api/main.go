package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videocall-service/internal/audit"
	"videocall-service/internal/auth"
	"videocall-service/internal/config"
	"videocall-service/internal/httpapi"
	"videocall-service/internal/notify"
	"videocall-service/internal/rooms"
	"videocall-service/internal/upstream"
	"videocall-service/pkg/logger"
	"videocall-service/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Credential verification is pluggable: local HS256 against the shared
	// secret, or a round-trip to the identity service.
	var verifier auth.Verifier
	switch cfg.Auth.Mode {
	case config.AuthModeRemote:
		verifier = auth.NewRemoteVerifier(cfg.Upstream)
	default:
		m, err := auth.NewManager(cfg.Auth)
		if err != nil {
			log.Error("auth init failed", "err", err)
			os.Exit(1)
		}
		verifier = m
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	registry := rooms.NewService(rooms.NewPostgresRepo(db)).
		WithCache(rooms.NewActiveCache(rdb, 10*time.Second)).
		WithLocker(rooms.NewRedisLocker(rdb, 3*time.Second))

	handlers := httpapi.Handlers{
		Rooms:  registry,
		Groups: upstream.NewGroupClient(cfg.Upstream),
		Notify: notify.NewService(upstream.NewNotificationClient(cfg.Upstream)),
		Audit:  audit.NewService(audit.NewPostgresRepo(db)),
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(httpapi.CORS(cfg.CORS.AllowedOrigins))
	}

	registerRoutes(r, auth.RequireIdentity(verifier), handlers)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "auth_mode", cfg.Auth.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
