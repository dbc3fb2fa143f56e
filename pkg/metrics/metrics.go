package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus-коллекторов сервиса
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	ReservationsTotal  *prometheus.CounterVec
	OptimisticRetries  *prometheus.CounterVec
	ResetRunsTotal     *prometheus.CounterVec
	ResetStationsTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation", "status"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_total",
			Help:        "Reservation operations by kind and outcome",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		OptimisticRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "station_version_conflicts_total",
			Help:        "Station saves rejected by the version check",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		ResetRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "daily_reset_runs_total",
			Help:        "Daily reset runs by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		ResetStationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "daily_reset_stations_total",
			Help:        "Stations processed by the daily reset",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.ReservationsTotal,
		m.OptimisticRetries,
		m.ResetRunsTotal,
		m.ResetStationsTotal,
	)

	return m
}

// Handler http-обработчик для эндпоинта метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен тестам для чтения значений
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// ReservationOutcome увеличивает счетчик исходов бронирований/освобождений
func (m *Metrics) ReservationOutcome(operation, outcome string) {
	m.ReservationsTotal.WithLabelValues(operation, outcome).Inc()
}

// VersionConflict фиксирует отказ сохранения станции из-за устаревшей версии
func (m *Metrics) VersionConflict(operation string) {
	m.OptimisticRetries.WithLabelValues(operation).Inc()
}

// ResetRun фиксирует результат запуска ежедневного сброса
func (m *Metrics) ResetRun(result string, resetStations, failedStations int) {
	m.ResetRunsTotal.WithLabelValues(result).Inc()
	m.ResetStationsTotal.WithLabelValues("reset").Add(float64(resetStations))
	m.ResetStationsTotal.WithLabelValues("failed").Add(float64(failedStations))
}

// Nop заглушка для выключенных метрик
type Nop struct{}

func (Nop) ReservationOutcome(operation, outcome string) {}
func (Nop) VersionConflict(operation string) {}
func (Nop) ResetRun(result string, resetStations, failedStations int) {}
func (Nop) ObserveDBQuery(operation string, err error, d time.Duration) {}
