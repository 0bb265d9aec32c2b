package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/config"
	"github.com/LavaJover/shvark-procurement-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-procurement-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	publisher "github.com/LavaJover/shvark-procurement-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-procurement-service/internal/usecase/analytics"
	usecase "github.com/LavaJover/shvark-procurement-service/internal/usecase/order"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	// Logging
	appLogger, logCloser, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init database
	db := postgres.MustInitDB(cfg)
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql db: %v", err)
	}
	defer sqlDB.Close()

	feeFactor, err := cfg.Ledger.FeeFactorDecimal()
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Order events
	var eventPublisher domain.EventPublisher = publisher.LogPublisher{Logger: logger.WithComponent(appLogger, "events")}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := publisher.NewKafkaPublisher(publisher.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		if err != nil {
			log.Fatalf("failed to init kafka publisher: %v", err)
		}
		defer kafkaPublisher.Close()
		eventPublisher = kafkaPublisher
	}

	// Init repos and usecases
	ledgerMetrics := metrics.NewLedgerMetrics(prometheus.DefaultRegisterer)
	uc, err := usecase.NewDefaultOrderUsecase(
		repository.NewDefaultOrderRepository(db),
		repository.NewDefaultPaymentRepository(db),
		repository.NewGormTxManager(db),
		eventPublisher,
		ledgerMetrics,
		feeFactor,
		cfg.Ledger.Currency,
	)
	if err != nil {
		log.Fatalf("failed to init order usecase: %v", err)
	}
	vouchers := analytics.NewVoucherUsecase(
		domain.NewKeywordClassifier(cfg.Analytics.PurchaseKeywords, cfg.Analytics.ReturnKeywords),
		cfg.Analytics.HeadersPath,
		cfg.Analytics.LinesPath,
	)

	// HTTP server
	httpServer := &http.Server{
		Addr: fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: handlers.NewRouter(handlers.Handlers{
			Orders:    handlers.NewOrderHandler(uc),
			Ledger:    handlers.NewLedgerHandler(uc),
			Analytics: handlers.NewAnalyticsHandler(vouchers),
			Gatherer:  prometheus.DefaultGatherer,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC health server
	grpcServer := grpc.NewServer()
	healthServer := grpcapi.NewHealthServer(sqlDB)
	healthServer.Register(grpcServer)
	go healthServer.Watch(ctx, 15*time.Second)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		slog.Info("gRPC health server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err)
			stop()
		}
	}()
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
}
