package output

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/maleeper/cyberscope/internal/domain"
)

// PrometheusMetrics exposes session observability for the running
// dashboard: dataset size, recompute activity and latency, exports,
// reloads, and process memory.
type PrometheusMetrics struct {
	rowsLoaded    prometheus.GaugeFunc
	filteredRows  prometheus.Gauge
	recomputes    prometheus.Counter
	recomputeTime prometheus.Histogram
	exports       prometheus.Counter
	reloads       prometheus.Counter
	memoryUsage   prometheus.GaugeFunc

	server *http.Server
	mu     sync.Mutex
}

type MetricsConfig struct {
	Addr string
	Path string
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{Addr: ":9090", Path: "/metrics"}
}

func NewPrometheusMetrics(namespace string, session *domain.SessionMetrics) *PrometheusMetrics {
	if namespace == "" {
		namespace = "cyberscope"
	}

	m := &PrometheusMetrics{}

	m.rowsLoaded = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rows_loaded",
		Help:      "Number of records in the loaded dataset",
	}, func() float64 {
		if session != nil {
			return float64(session.RowsLoaded())
		}
		return 0
	})

	m.filteredRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "filtered_rows",
		Help:      "Number of records matching the current filter selection",
	})

	m.recomputes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recomputes_total",
		Help:      "Total view-model recomputations",
	})

	m.recomputeTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recompute_duration_seconds",
		Help:      "Time spent deriving the filtered view and aggregates",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 10),
	})

	m.exports = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total filtered-subset exports",
	})

	m.reloads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_reloads_total",
		Help:      "Total dataset reloads triggered by file changes",
	})

	m.memoryUsage = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "memory_bytes",
		Help:      "Current memory usage in bytes",
	}, func() float64 {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return float64(ms.Alloc)
	})

	return m
}

func (m *PrometheusMetrics) ObserveRecompute(seconds float64) {
	m.recomputes.Inc()
	m.recomputeTime.Observe(seconds)
}

func (m *PrometheusMetrics) SetFilteredRows(n int) {
	m.filteredRows.Set(float64(n))
}

func (m *PrometheusMetrics) IncrementExports() { m.exports.Inc() }
func (m *PrometheusMetrics) IncrementReloads() { m.reloads.Inc() }

// StartServer serves the metrics endpoint in the background.
func (m *PrometheusMetrics) StartServer(config MetricsConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(config.Path, promhttp.Handler())

	m.server = &http.Server{
		Addr:         config.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn().Err(err).Msg("Metrics server stopped")
		}
	}()

	return nil
}

func (m *PrometheusMetrics) StopServer() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Metrics server shutdown failed")
	}
	m.server = nil
}
