package main

import (
	"github.com/Ishaan583/foodshare/internal/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		pool, err := e.openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		return db.Migrate(cmd.Context(), pool, e.log)
	},
}
