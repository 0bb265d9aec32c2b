package postgres

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/LavaJover/shvark-procurement-service/internal/config"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MustInitDB(cfg *config.LedgerConfig) *gorm.DB {
	db, err := InitDB(cfg.OrderDB)
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}
	return db
}

// InitDB opens the configured database and brings its schema up to date.
// Postgres uses SQL migrations when a migrations path is set, anything else
// falls back to AutoMigrate.
func InitDB(cfg config.OrderDB) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if db.Dialector.Name() == "postgres" && cfg.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		return db, nil
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	slog.Info("schema auto-migrated", "driver", db.Dialector.Name())
	return db, nil
}

// Open connects without touching the schema.
func Open(cfg config.OrderDB) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "postgres":
		dialector = postgres.Open(cfg.Dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.OrderModel{}, &models.PaymentModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
