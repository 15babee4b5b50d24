package observability

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/yungbote/prizely-backend/internal/platform/envutil"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

type Metrics struct {
	reg *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	apiErrors   prometheus.Counter

	comparisons       *prometheus.CounterVec
	comparisonLatency *prometheus.HistogramVec
	comparisonSize    *prometheus.HistogramVec
	snapshotLoads     *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	catalogWrites     *prometheus.CounterVec

	dbStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", true)
}

func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	d := envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second)
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Init builds the process-wide metrics once. It returns nil when METRICS_ENABLED is
// false; every method on a nil *Metrics is a no-op.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// New builds an independent registry, mostly for tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pz_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pz_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pz_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		apiErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pz_api_requests_error_total",
			Help: "Total API requests with 5xx status.",
		}),
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pz_comparisons_total",
			Help: "Comparisons served by kind (result/report) and status.",
		}, []string{"kind", "status"}),
		comparisonLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pz_comparison_duration_seconds",
			Help:    "Comparison latency including the catalog snapshot.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind"}),
		comparisonSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pz_comparison_selection_size",
			Help:    "Number of selected items and markets per comparison.",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		}, []string{"dimension"}),
		snapshotLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pz_catalog_snapshot_loads_total",
			Help: "Catalog snapshot reads from the database by status.",
		}, []string{"status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pz_snapshot_cache_lookups_total",
			Help: "Snapshot cache lookups by result (hit/miss/error).",
		}, []string{"result"}),
		catalogWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pz_catalog_writes_total",
			Help: "Catalog writes by entity and operation.",
		}, []string{"entity", "op"}),
		dbStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pz_db_pool",
			Help: "database/sql pool statistics by stat.",
		}, []string{"stat"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pz_redis_up",
			Help: "1 when the last Redis ping succeeded.",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pz_redis_ping_seconds",
			Help: "Latency of the last Redis ping.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.comparisons, m.comparisonLatency, m.comparisonSize,
		m.snapshotLoads, m.cacheLookups, m.catalogWrites,
		m.dbStats, m.redisUp, m.redisPing,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
	if isServerErrorStatus(status) {
		m.apiErrors.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveComparison(kind, status string, items, markets int, dur time.Duration) {
	if m == nil {
		return
	}
	m.comparisons.WithLabelValues(kind, status).Inc()
	m.comparisonLatency.WithLabelValues(kind).Observe(dur.Seconds())
	if status == "ok" {
		m.comparisonSize.WithLabelValues("items").Observe(float64(items))
		m.comparisonSize.WithLabelValues("markets").Observe(float64(markets))
	}
}

func (m *Metrics) IncSnapshotLoad(status string) {
	if m == nil {
		return
	}
	m.snapshotLoads.WithLabelValues(status).Inc()
}

func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCatalogWrite(entity, op string) {
	if m == nil {
		return
	}
	m.catalogWrites.WithLabelValues(entity, op).Inc()
}

// StartDBCollector samples connection pool stats until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.dbStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

// Pinger is the live Redis connection whose health is sampled.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StartRedisCollector pings p on every scrape interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, p Pinger) {
	if m == nil || p == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sampleRedis(ctx, log, p)
			}
		}
	}()
}

func (m *Metrics) sampleRedis(ctx context.Context, log *logger.Logger, p Pinger) {
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		m.redisUp.Set(0)
		if log != nil {
			log.Warn("metrics: redis ping failed", "error", err)
		}
		return
	}
	m.redisUp.Set(1)
	m.redisPing.Set(time.Since(start).Seconds())
}

func isServerErrorStatus(status string) bool {
	code, err := strconv.Atoi(status)
	return err == nil && code >= 500
}
