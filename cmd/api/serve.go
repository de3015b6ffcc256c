package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ishaan583/foodshare/internal/analytics"
	"github.com/Ishaan583/foodshare/internal/auth"
	"github.com/Ishaan583/foodshare/internal/db"
	"github.com/Ishaan583/foodshare/internal/donation"
	"github.com/Ishaan583/foodshare/internal/llm"
	"github.com/Ishaan583/foodshare/internal/router"
	"github.com/Ishaan583/foodshare/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply the schema before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	cfg, log := e.cfg, e.log
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pool, err := e.openDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrateOnStart {
		if err := db.Migrate(ctx, pool, log); err != nil {
			return err
		}
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var photos donation.PhotoStore
	r2, err := storage.NewR2Client(ctx, cfg.Storage)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		log.Warn("R2 storage not configured; photo uploads disabled")
	case err != nil:
		return err
	default:
		photos = r2
	}

	if cfg.AI.APIKey == "" {
		log.Warn("AI gateway API key missing; inference endpoints will fail")
	}

	// ───────────────────────── SERVICES ─────────────────────────
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	inference := llm.NewService(llm.NewGatewayClient(cfg.AI, log), log)
	donations := donation.NewService(donation.NewPostgresRepository(pool), photos, log)

	r := router.NewRouter(router.Deps{
		Log:          log,
		AllowOrigins: cfg.Server.AllowOrigins,
		Tokens:       tokens,
		Auth:         auth.NewService(auth.NewPostgresUserRepository(pool), tokens),
		Donations:    donations,
		Analytics:    analytics.NewService(analytics.NewPostgresRepository(pool), inference, log),
		Inference:    inference,
	})

	// ───────────────────────── WORKERS ─────────────────────────
	go donations.RunExpirySweeper(ctx, cfg.Donation.SweepInterval)

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("API listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
