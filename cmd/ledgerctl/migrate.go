package main

import (
	"fmt"

	"github.com/LavaJover/shvark-procurement-service/internal/config"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the SQL migrations of a postgres ledger",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, path, err := openForMigrations(cmd)
		if err != nil {
			return err
		}
		return migrate.RunMigrations(db, path)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Example: `  # undo the last migration
  ledgerctl migrate down --steps 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps <= 0 {
			return fmt.Errorf("steps must be positive")
		}
		db, path, err := openForMigrations(cmd)
		if err != nil {
			return err
		}
		return migrate.RollbackMigrations(db, path, steps)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)

	migrateCmd.PersistentFlags().String("path", "", "migrations directory (default: order_db.migrations_path)")
	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to roll back")
}

func openForMigrations(cmd *cobra.Command) (db *gorm.DB, path string, err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	if cfg.OrderDB.Driver == "sqlite" {
		return nil, "", fmt.Errorf("sqlite ledgers are migrated automatically on start")
	}
	path, _ = cmd.Flags().GetString("path")
	if path == "" {
		path = cfg.OrderDB.MigrationsPath
	}
	if path == "" {
		return nil, "", fmt.Errorf("no migrations path: pass --path or set order_db.migrations_path")
	}
	db, err = postgres.Open(cfg.OrderDB)
	return db, path, err
}
