package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "shop-ledger/docs"
	"shop-ledger/internal/api"
	"shop-ledger/internal/batch"
	"shop-ledger/internal/config"
	"shop-ledger/internal/domain/customer"
	"shop-ledger/internal/domain/ledger"
	"shop-ledger/internal/domain/report"
	"shop-ledger/internal/event"
	"shop-ledger/internal/infrastructure/database/postgres"
	"shop-ledger/internal/infrastructure/logging"
	"shop-ledger/internal/pkg/money"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// @title Shop Ledger API
// @version 1.0
// @description Credit ledger service for shop sales, payments and reminders.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	amqpConn, publisher := initializeEventPublisher(cfg, logger)
	if amqpConn != nil {
		defer amqpConn.Close()
	}

	ledgerService, customerService, reportService, ledgerRepo := initializeServices(cfg, dbPool, publisher, logger)

	dispatchJob := batch.NewReminderDispatchJob(ledgerRepo, customerService, resolvePublisher(publisher, logger), logger)

	cronScheduler := startBatchJobs(cfg, logger, dispatchJob, publisher)
	router := api.SetupRouter(ledgerService, customerService, reportService, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// initializeEventPublisher connects to RabbitMQ. The broker is optional
// infrastructure: when it is unreachable the service still takes sales
// and payments, it just cannot notify collaborators until restart.
func initializeEventPublisher(cfg *config.Config, logger *slog.Logger) (*amqp.Connection, event.EventPublisher) {
	amqpURL := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		cfg.RabbitMQ.Username, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		logger.Warn("Failed to connect to RabbitMQ, events will not be published",
			"host", cfg.RabbitMQ.Host, "error", err)
		return nil, nil
	}

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Warn("Failed to initialize RabbitMQ event publisher, events will not be published", "error", err)
		conn.Close()
		return nil, nil
	}

	logger.Info("RabbitMQ event publisher initialized", "exchange", cfg.RabbitMQ.ExchangeName)
	return conn, publisher
}

// resolvePublisher substitutes a logging no-op when the broker is down
// so the dispatch job can still be constructed.
func resolvePublisher(publisher event.EventPublisher, logger *slog.Logger) event.EventPublisher {
	if publisher != nil {
		return publisher
	}
	return event.NewNoopPublisher(logger)
}

func initializeServices(cfg *config.Config, dbPool *pgxpool.Pool, publisher event.EventPublisher, logger *slog.Logger) (ledger.LedgerService, customer.CustomerService, report.ReportService, ledger.Repository) {
	logger.Info("Initializing application components...")
	ledgerRepo := postgres.NewLedgerRepository(dbPool, logger)
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)

	customerService := customer.NewCustomerService(customerRepo, publisher, logger)
	threshold := money.FromFloat(cfg.Ledger.ReminderThreshold)
	ledgerService := ledger.NewLedgerService(ledgerRepo, threshold, cfg.Ledger.MaxRetries, logger)
	reportService := report.NewReportService(ledgerRepo, customerRepo, logger)

	return ledgerService, customerService, reportService, ledgerRepo
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, dispatchJob *batch.ReminderDispatchJob, publisher event.EventPublisher) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	if publisher == nil {
		logger.Warn("Reminder dispatch scheduled without a broker connection; reminders stay queued until one is available.")
	}

	scheduleSpec := cfg.Batch.ReminderDispatchSchedule
	if scheduleSpec == "" {
		scheduleSpec = "*/5 * * * *"
		logger.Warn("Reminder dispatch schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 2 * time.Minute
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "ReminderDispatch")
		jobLogger.Info("Cron triggered: Running reminder dispatch job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := dispatchJob.Run(ctx); runErr != nil {
			jobLogger.Error("Reminder dispatch job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Reminder dispatch job finished successfully.")
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule reminder dispatch job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled reminder dispatch job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
