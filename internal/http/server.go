// Package http exposes the operational surface: health probes and
// prometheus metrics for the delivery pipeline.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Wortexhf/spotify-downloader/internal/core"
)

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

// Metrics implements core.Recorder so the pipeline feeds these directly.
type Metrics struct {
	DeliveriesTotal  *prometheus.CounterVec
	BatchItemsTotal  *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
	DeliveryDuration prometheus.Histogram
	ActiveDeliveries prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifydl_deliveries_total",
				Help: "Total number of finished track deliveries",
			},
			[]string{"status"},
		),
		BatchItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifydl_batch_items_total",
				Help: "Total number of album batch items processed",
			},
			[]string{"status"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifydl_errors_total",
				Help: "Total number of component errors",
			},
			[]string{"component"},
		),
		DeliveryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spotifydl_delivery_duration_seconds",
				Help:    "Time from request to uploaded audio",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		ActiveDeliveries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spotifydl_active_deliveries",
				Help: "Number of deliveries currently in flight",
			},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifydl_requests_total",
				Help: "Total number of chat requests by link kind",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(
		m.DeliveriesTotal,
		m.BatchItemsTotal,
		m.ErrorsTotal,
		m.DeliveryDuration,
		m.ActiveDeliveries,
		m.RequestsTotal,
	)

	return m
}

// DeliveryStarted implements core.Recorder.
func (m *Metrics) DeliveryStarted() {
	m.ActiveDeliveries.Inc()
}

// DeliveryFinished implements core.Recorder.
func (m *Metrics) DeliveryFinished(status string, seconds float64) {
	m.ActiveDeliveries.Dec()
	m.DeliveriesTotal.WithLabelValues(status).Inc()
	m.DeliveryDuration.Observe(seconds)
}

// BatchItem implements core.Recorder.
func (m *Metrics) BatchItem(status string) {
	m.BatchItemsTotal.WithLabelValues(status).Inc()
}

// ComponentError implements core.Recorder.
func (m *Metrics) ComponentError(component string) {
	m.ErrorsTotal.WithLabelValues(component).Inc()
}

// Request counts an incoming chat request by link kind.
func (m *Metrics) Request(kind string) {
	m.RequestsTotal.WithLabelValues(kind).Inc()
}

func NewServer(config *core.ServerConfig, logger *zap.Logger) *Server {
	registry := prometheus.NewRegistry()
	metrics := newMetrics(registry)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"spotify-downloader"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready","service":"spotify-downloader"}`))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return &Server{
		config:  config,
		logger:  logger,
		server:  server,
		metrics: metrics,
	}
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}
