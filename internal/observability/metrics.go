package observability

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiErrors   *CounterVec

	catalogOps   *CounterVec
	engagement   *CounterVec
	cacheLookups *CounterVec
	uploads      *CounterVec
	uploadBytes  *HistogramVec
	blobCleanups *CounterVec

	activeSolutions *Gauge
	dbPool          *GaugeVec
	redisUp         *Gauge
	redisPing       *Gauge

	all []collector
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init builds the process-wide registry when enabled. Disabled metrics leave
// Current() nil; every method on a nil *Metrics is a no-op.
func Init(enabled bool, log *logger.Logger) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// New builds an unregistered registry; tests use it directly.
func New() *Metrics {
	m := &Metrics{
		apiRequests: NewCounterVec("sc_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"sc_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("sc_api_inflight_requests", "In-flight API requests."),
		apiErrors:   NewCounterVec("sc_api_errors_total", "API error responses by code.", []string{"code"}),

		catalogOps:   NewCounterVec("sc_catalog_operations_total", "Catalog operations by op/outcome.", []string{"op", "outcome"}),
		engagement:   NewCounterVec("sc_catalog_engagement_total", "View and like increments.", []string{"kind"}),
		cacheLookups: NewCounterVec("sc_cache_lookups_total", "Cache lookups by cache/result.", []string{"cache", "result"}),
		uploads:      NewCounterVec("sc_uploads_total", "Image uploads by store/status.", []string{"store", "status"}),
		uploadBytes: NewHistogramVec(
			"sc_upload_bytes",
			"Accepted upload sizes in bytes.",
			[]string{"store"},
			[]float64{16 << 10, 64 << 10, 256 << 10, 1 << 20, 4 << 20, 10 << 20},
		),
		blobCleanups: NewCounterVec("sc_blob_cleanups_total", "Orphaned blob deletions by mode/status.", []string{"mode", "status"}),

		activeSolutions: NewGauge("sc_active_solutions", "Active catalog entries."),
		dbPool:          NewGaugeVec("sc_db_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:         NewGauge("sc_redis_up", "1 when the last redis ping succeeded."),
		redisPing:       NewGauge("sc_redis_ping_seconds", "Last redis ping latency."),
	}
	m.all = []collector{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.catalogOps, m.engagement, m.cacheLookups, m.uploads, m.uploadBytes, m.blobCleanups,
		m.activeSolutions, m.dbPool, m.redisUp, m.redisPing,
	}
	return m
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.all {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) IncAPIError(code string) {
	if m == nil {
		return
	}
	m.apiErrors.Inc(code)
}

// ObserveCatalogOp counts one service call. outcome is "ok" or an error code.
func (m *Metrics) ObserveCatalogOp(op, outcome string) {
	if m == nil {
		return
	}
	m.catalogOps.Inc(op, outcome)
}

func (m *Metrics) CatalogOpCount(op, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.catalogOps.Value(op, outcome)
}

func (m *Metrics) IncEngagement(kind string) {
	if m == nil {
		return
	}
	m.engagement.Inc(kind)
}

func (m *Metrics) IncCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Inc(cache, result)
}

func (m *Metrics) ObserveUpload(store, status string, size int64) {
	if m == nil {
		return
	}
	m.uploads.Inc(store, status)
	if status == "ok" && size > 0 {
		m.uploadBytes.Observe(float64(size), store)
	}
}

func (m *Metrics) IncBlobCleanup(mode, status string) {
	if m == nil {
		return
	}
	m.blobCleanups.Inc(mode, status)
}

func scrapeInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Second
	}
	return d
}

// StartDBCollector samples the connection pool until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, every time.Duration) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval(every))
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
				m.dbPool.Set(float64(stats.OpenConnections), "open_connections")
				m.dbPool.Set(float64(stats.InUse), "in_use")
				m.dbPool.Set(float64(stats.Idle), "idle")
				m.dbPool.Set(float64(stats.WaitCount), "wait_count")
				m.dbPool.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbPool.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient, every time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval(every))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

// StartCatalogCollector periodically records the active entry count.
func (m *Metrics) StartCatalogCollector(ctx context.Context, log *logger.Logger, count func(context.Context) (int64, error), every time.Duration) {
	if m == nil || count == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval(every))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := count(ctx)
				if err != nil {
					if log != nil {
						log.Warn("metrics: catalog count failed", "error", err)
					}
					continue
				}
				m.activeSolutions.Set(float64(n))
			}
		}
	}()
}
