package api

import (
	"log/slog"
	"net/http"
	"time"

	"shop-ledger/internal/api/handler"
	mw "shop-ledger/internal/api/middleware"
	"shop-ledger/internal/config"
	"shop-ledger/internal/domain/customer"
	"shop-ledger/internal/domain/ledger"
	"shop-ledger/internal/domain/report"

	_ "shop-ledger/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(ledgerService ledger.LedgerService, customerService customer.CustomerService, reportService report.ReportService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupCustomerRoutes(router, cfg, customerService, ledgerService, logger)
	setupReportRoutes(router, cfg, reportService, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupCustomerRoutes(router *chi.Mux, cfg *config.Config, customerService customer.CustomerService, ledgerService ledger.LedgerService, logger *slog.Logger) {
	customerHandler := handler.NewCustomerHandler(customerService, logger)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", customerHandler.RegisterCustomer)
		r.Get("/", customerHandler.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", customerHandler.GetCustomer)
			r.Post("/sales", ledgerHandler.RecordSale)
			r.Get("/sales", ledgerHandler.ListSales)
			r.Post("/payments", ledgerHandler.RecordPayment)
			r.Get("/payments", ledgerHandler.ListPayments)
			r.Get("/reminders", ledgerHandler.ListReminders)
		})
	})
}

func setupReportRoutes(router *chi.Mux, cfg *config.Config, reportService report.ReportService, logger *slog.Logger) {
	reportHandler := handler.NewReportHandler(reportService, logger)

	router.Route("/reports", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/summary", reportHandler.GetSummary)
	})
}
