package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ishaan583/foodshare/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PoolConfig turns the database section into a pgxpool config.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	return poolCfg, nil
}

func Connect(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.Info("connected to postgres",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return pool, nil
}

var schema = []struct {
	name string
	sql  string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'DONOR',
			organization VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`},
	{"donations", `
		CREATE TABLE IF NOT EXISTS donations (
			id UUID PRIMARY KEY,
			donor_id UUID NOT NULL REFERENCES users(id),
			food_type VARCHAR(20) NOT NULL,
			quantity_kg NUMERIC(10,2) NOT NULL CHECK (quantity_kg > 0),
			expiry_hours INTEGER NOT NULL CHECK (expiry_hours > 0),
			location TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			photo_url TEXT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
			reserved_by UUID NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			expires_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`},
	{"donations_indexes", `
		CREATE INDEX IF NOT EXISTS donations_donor_created_idx ON donations (donor_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS donations_status_expires_idx ON donations (status, expires_at)
	`},
	{"meal_records", `
		CREATE TABLE IF NOT EXISTS meal_records (
			id UUID PRIMARY KEY,
			meal_type VARCHAR(20) NOT NULL,
			served_on DATE NOT NULL,
			footfall INTEGER NOT NULL CHECK (footfall >= 0),
			items JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`},
	{"meal_records_indexes", `
		CREATE INDEX IF NOT EXISTS meal_records_served_on_idx ON meal_records (served_on)
	`},
}

// Migrate creates or updates the database schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	for _, step := range schema {
		if _, err := pool.Exec(ctx, step.sql); err != nil {
			return fmt.Errorf("migrate %s: %w", step.name, err)
		}
		log.Debug("schema step applied", zap.String("step", step.name))
	}

	log.Info("schema initialized", zap.Int("steps", len(schema)))
	return nil
}
