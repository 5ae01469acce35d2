package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics контейнер prometheus-метрик сервиса
// HTTP-метрики заполняются из middleware, DB-метрики - из обертки dbmetrics,
// бизнес-метрики - из сервисов
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec

	bookingsCreated   *prometheus.CounterVec
	bookingsCancelled *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Count of HTTP requests by method, route and status code.",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration by method and route.",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		dbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query duration by operation.",
				ConstLabels: constLabels,
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
		dbPoolOpen: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_pool_open_connections",
				Help:        "Number of open connections in the pool.",
				ConstLabels: constLabels,
			},
			[]string{"db"},
		),
		dbPoolIdle: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_pool_idle_connections",
				Help:        "Number of idle connections in the pool.",
				ConstLabels: constLabels,
			},
			[]string{"db"},
		),
		dbPoolInUse: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "db_pool_in_use_connections",
				Help:        "Number of connections currently in use.",
				ConstLabels: constLabels,
			},
			[]string{"db"},
		),
		bookingsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "bookings_created_total",
				Help:        "Count of bookings created by initial status.",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),
		bookingsCancelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "bookings_cancelled_total",
				Help:        "Count of bookings cancelled by initiator.",
				ConstLabels: constLabels,
			},
			[]string{"by"},
		),
	}

	prometheus.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbPoolOpen,
		m.dbPoolIdle,
		m.dbPoolInUse,
		m.bookingsCreated,
		m.bookingsCancelled,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route, status string, seconds float64) {
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, seconds float64) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(seconds)
}

// SetDBPoolStats обновляет gauges состояния connection pool
func (m *Metrics) SetDBPoolStats(db string, stats sql.DBStats) {
	m.dbPoolOpen.WithLabelValues(db).Set(float64(stats.OpenConnections))
	m.dbPoolIdle.WithLabelValues(db).Set(float64(stats.Idle))
	m.dbPoolInUse.WithLabelValues(db).Set(float64(stats.InUse))
}

// IncBookingCreated инкрементирует счетчик созданных бронирований
func (m *Metrics) IncBookingCreated(status string) {
	m.bookingsCreated.WithLabelValues(status).Inc()
}

// IncBookingCancelled инкрементирует счетчик отмененных бронирований
func (m *Metrics) IncBookingCancelled(by string) {
	m.bookingsCancelled.WithLabelValues(by).Inc()
}
