package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"savingsbank/internal/api"
	"savingsbank/internal/config"
	"savingsbank/internal/repository"
	"savingsbank/internal/repository/memory"
	"savingsbank/internal/repository/postgres"
	"savingsbank/internal/savings"
	"savingsbank/internal/service"
	"savingsbank/pkg/auth"
	"savingsbank/pkg/metrics"
	"syscall"
	"time"
)

const (
	appName = "savingsbank"
)

type repositories struct {
	accounts        repository.AccountRepository
	customers       repository.CustomerRepository
	savingsAccounts repository.SavingsAccountRepository
	maturities      repository.MaturityRepository
}

func main() {
	logger := setupLogger()
	logger.Info("Starting application",
		slog.String("name", appName))

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, err := setupRepositories(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsCollector := metrics.NewMetricsCollector(logger)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, logger)
	notificationService := setupNotificationService(cfg, logger)

	savingsService := savings.NewService(
		repos.accounts,
		repos.customers,
		repos.savingsAccounts,
		repos.maturities,
		auth.ContextIdentity{},
		savings.NewRatePolicy(cfg.BankRate),
		logger,
	).WithNotifier(notificationService).WithRecorder(metricsCollector)

	if cfg.SeedDemo {
		if cfg.StorageDriver != config.StorageMemory {
			logger.Warn("SEED_DEMO is only honoured with memory storage")
		} else if err := seedDemo(context.Background(), repos, tokens, logger); err != nil {
			logger.Error("Failed to seed demo data", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	apiHandler := api.NewAPIHandler(savingsService, tokens, metricsCollector, logger).
		WithRequestTimeout(cfg.RequestTimeout)
	metricsServer := metricsCollector.StartMetricsServer(cfg.MetricsAddr)
	httpServer := startHTTPServer(cfg.HTTPAddr, apiHandler, logger)
	waitForShutdown(logger, httpServer, metricsServer, notificationService, metricsCollector)
	logger.Info("Application shutdown complete")
}

func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func setupRepositories(cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := postgres.Open(postgres.Options{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Name:     cfg.DBName,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, err
		}
		logger.Info("Using postgres storage",
			slog.String("host", cfg.DBHost),
			slog.String("database", cfg.DBName))
		return &repositories{
			accounts:        postgres.NewAccountRepository(db),
			customers:       postgres.NewCustomerRepository(db),
			savingsAccounts: postgres.NewSavingsAccountRepository(db),
			maturities:      postgres.NewMaturityRepository(db),
		}, nil
	default:
		logger.Info("Using in-memory storage")
		savingsAccounts := memory.NewSavingsAccountRepository()
		return &repositories{
			accounts:        memory.NewAccountRepository(),
			customers:       memory.NewCustomerRepository(),
			savingsAccounts: savingsAccounts,
			maturities:      memory.NewMaturityRepository(savingsAccounts),
		}, nil
	}
}

func setupNotificationService(cfg *config.Config, logger *slog.Logger) *service.NotificationService {
	emailService := service.LogEmailService{Logger: logger}

	return service.NewNotificationService(
		emailService,
		cfg.NotificationWorkers,
		logger,
	)
}

func startHTTPServer(addr string, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      api.RequireHTTPS(logger, mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	notificationService *service.NotificationService,
	metricsCollector *metrics.MetricsCollector,
) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if err := notificationService.Shutdown(ctx); err != nil {
		logger.Error("Notification service shutdown failed", slog.String("error", err.Error()))
	}
	if err := metricsCollector.Shutdown(ctx); err != nil {
		logger.Error("Metrics collector shutdown failed", slog.String("error", err.Error()))
	}
}
