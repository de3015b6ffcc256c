package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Ishaan583/foodshare/internal/config"
	"github.com/Ishaan583/foodshare/internal/db"
	"github.com/Ishaan583/foodshare/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "foodshare",
	Short: "Food donation and mess analytics API",
	Long: `foodshare serves the donation marketplace, the mess wastage dashboard and
the AI demand-prediction and wastage-analysis endpoints.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file; env vars override it")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every subcommand starts from.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) openDB(ctx context.Context) (*pgxpool.Pool, error) {
	return db.Connect(ctx, e.cfg.Database, e.log)
}
