package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/LavaJover/shvark-procurement-service/internal/config"
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	publisher "github.com/LavaJover/shvark-procurement-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/repository"
	usecase "github.com/LavaJover/shvark-procurement-service/internal/usecase/order"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operate the procurement order ledger from the command line",
	Long: `ledgerctl works directly against the ledger database configured for the
procurement service: schema migrations, CSV snapshots, the summary view,
Google Sheets sync and voucher analytics.

The config file is taken from --config or LEDGER_CONFIG_PATH.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = os.Getenv("LEDGER_CONFIG_PATH")
		}
		if configPath == "" {
			return fmt.Errorf("no config: pass --config or set LEDGER_CONFIG_PATH")
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config")
}

// ledger bundles what the data commands need.
type ledger struct {
	cfg *config.LedgerConfig
	db  *gorm.DB
	uc  *usecase.DefaultOrderUsecase
}

func openLedger() (*ledger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	appLogger, _, err := logger.New(config.LogConfig{
		LogLevel:  cfg.LogConfig.LogLevel,
		LogFormat: cfg.LogConfig.LogFormat,
		LogOutput: "stderr",
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(appLogger)

	db, err := postgres.InitDB(cfg.OrderDB)
	if err != nil {
		return nil, err
	}
	feeFactor, err := cfg.Ledger.FeeFactorDecimal()
	if err != nil {
		return nil, err
	}

	var events domain.EventPublisher = publisher.LogPublisher{Logger: logger.WithComponent(appLogger, "events")}
	uc, err := usecase.NewDefaultOrderUsecase(
		repository.NewDefaultOrderRepository(db),
		repository.NewDefaultPaymentRepository(db),
		repository.NewGormTxManager(db),
		events,
		nil,
		feeFactor,
		cfg.Ledger.Currency,
	)
	if err != nil {
		return nil, err
	}
	return &ledger{cfg: cfg, db: db, uc: uc}, nil
}

func (l *ledger) Close() {
	if sqlDB, err := l.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
