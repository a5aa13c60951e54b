package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

type MetricsCollector struct {
	registry          *prometheus.Registry
	depositsCreated   prometheus.Counter
	depositsRejected  *prometheus.CounterVec
	depositedAmount   prometheus.Counter
	requestDuration   *prometheus.HistogramVec
	savingsAccountsUp prometheus.Counter
	logger            *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &MetricsCollector{
		registry: registry,
		depositsCreated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "savings_deposits_created_total",
			Help: "Total number of savings deposits persisted",
		}),
		depositsRejected: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "savings_deposits_rejected_total",
			Help: "Total number of rejected savings deposits by reason",
		}, []string{"reason"}),
		depositedAmount: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "savings_deposited_principal_total",
			Help: "Sum of principal deposited into savings accounts",
		}),
		requestDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "savings_request_duration_seconds",
			Help:    "Time taken to serve a savings API request",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		savingsAccountsUp: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "savings_accounts_created_total",
			Help: "Total number of savings accounts opened",
		}),
		logger: logger,
	}
}

func (m *MetricsCollector) RecordDeposit(principal decimal.Decimal) {
	m.depositsCreated.Inc()
	m.depositedAmount.Add(principal.InexactFloat64())
}

func (m *MetricsCollector) RecordRejectedDeposit(reason string) {
	m.depositsRejected.WithLabelValues(reason).Inc()
}

func (m *MetricsCollector) RecordSavingsAccountCreated() {
	m.savingsAccountsUp.Inc()
}

func (m *MetricsCollector) RecordRequest(operation string, status int, duration time.Duration) {
	m.requestDuration.WithLabelValues(operation, http.StatusText(status)).Observe(duration.Seconds())
}

func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	m.logger.Info("Metrics collector shutdown complete")
	return nil
}
