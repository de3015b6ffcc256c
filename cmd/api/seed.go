package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ishaan583/foodshare/internal/analytics"
	"github.com/Ishaan583/foodshare/internal/auth"
	"github.com/Ishaan583/foodshare/internal/db"
	"github.com/Ishaan583/foodshare/internal/donation"
	"github.com/Ishaan583/foodshare/internal/seed"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const maxSeedAttempts = 5

var seedOpts struct {
	seed      int64
	donors    int
	ngos      int
	donations int
	days      int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo users, donations and meal records",
	RunE:  runSeed,
}

func init() {
	f := seedCmd.Flags()
	f.Int64Var(&seedOpts.seed, "seed", 42, "random seed")
	f.IntVar(&seedOpts.donors, "donors", 5, "donor accounts to create")
	f.IntVar(&seedOpts.ngos, "ngos", 3, "NGO accounts to create")
	f.IntVar(&seedOpts.donations, "donations", 40, "donations to create")
	f.IntVar(&seedOpts.days, "days", 30, "days of meal records to create")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	pool, err := e.openDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, e.log); err != nil {
		return err
	}

	gen := seed.NewGenerator(seedOpts.seed)
	tokens := auth.NewTokenManager(e.cfg.Auth.JWTSecret, e.cfg.Auth.TokenTTL)
	users := auth.NewService(auth.NewPostgresUserRepository(pool), tokens)
	donations := donation.NewService(donation.NewPostgresRepository(pool), nil, e.log)
	meals := analytics.NewService(analytics.NewPostgresRepository(pool), nil, e.log)

	donorIDs, err := seedUsers(ctx, users, gen, auth.RoleDonor, seedOpts.donors)
	if err != nil {
		return err
	}
	if _, err := seedUsers(ctx, users, gen, auth.RoleNGO, seedOpts.ngos); err != nil {
		return err
	}

	if len(donorIDs) > 0 {
		bar := progressbar.Default(int64(seedOpts.donations), "donations")
		for i := 0; i < seedOpts.donations; i++ {
			if _, err := donations.Create(ctx, donorIDs[i%len(donorIDs)], gen.Donation()); err != nil {
				return fmt.Errorf("seed donation: %w", err)
			}
			_ = bar.Add(1)
		}
		_ = bar.Finish()
	}

	records := gen.MealRecords(seedOpts.days, time.Now().UTC())
	bar := progressbar.Default(int64(len(records)), "meal records")
	for _, rec := range records {
		if _, err := meals.Record(ctx, rec); err != nil {
			return fmt.Errorf("seed meal record: %w", err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	e.log.Info("seed complete",
		zap.Int("donors", len(donorIDs)),
		zap.Int("donations", seedOpts.donations),
		zap.Int("meal_records", len(records)),
		zap.String("password", seed.DemoPassword),
	)
	return nil
}

func seedUsers(ctx context.Context, svc *auth.Service, gen *seed.Generator, role string, n int) ([]string, error) {
	ids := make([]string, 0, n)
	for attempts := 0; len(ids) < n; attempts++ {
		if attempts >= n*maxSeedAttempts {
			return nil, fmt.Errorf("seed %s users: too many duplicate emails, try another --seed", role)
		}
		user, err := svc.Register(ctx, gen.User(role))
		if errors.Is(err, auth.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed %s user: %w", role, err)
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}
