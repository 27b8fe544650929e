package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса. Все метрики регистрируются в собственном registry,
// поэтому New можно вызывать несколько раз (например, в тестах).
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// БД
	DBQueryDuration      *prometheus.HistogramVec
	DBOpenConnections    *prometheus.GaugeVec
	DBInUseConnections   *prometheus.GaugeVec
	DBIdleConnections    *prometheus.GaugeVec
	DBWaitCount          *prometheus.GaugeVec
	DBWaitDurationSecond *prometheus.GaugeVec

	// Расчёт слотов
	SlotsComputed          *prometheus.CounterVec
	DegradedComputations   *prometheus.CounterVec
	MalformedAppointments  *prometheus.CounterVec
	StaleSelections        *prometheus.CounterVec
	SlotConflicts          *prometheus.CounterVec
	BusinessCacheRequests  *prometheus.CounterVec
	ComputeDurationSeconds *prometheus.HistogramVec
}

// New создаёт и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests.",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency.",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query latency.",
				ConstLabels: constLabels,
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "db_open_connections", Help: "Open connections.", ConstLabels: constLabels},
			[]string{"db"},
		),
		DBInUseConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "db_in_use_connections", Help: "Connections in use.", ConstLabels: constLabels},
			[]string{"db"},
		),
		DBIdleConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "db_idle_connections", Help: "Idle connections.", ConstLabels: constLabels},
			[]string{"db"},
		),
		DBWaitCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "db_wait_count", Help: "Total number of connections waited for.", ConstLabels: constLabels},
			[]string{"db"},
		),
		DBWaitDurationSecond: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "db_wait_duration_seconds", Help: "Total time blocked waiting for a connection.", ConstLabels: constLabels},
			[]string{"db"},
		),

		SlotsComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "availability_slots_total",
				Help:        "Slots produced by the availability engine, by state.",
				ConstLabels: constLabels,
			},
			[]string{"state"},
		),
		DegradedComputations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "availability_degraded_total",
				Help:        "Availability computations served in degraded mode, by reason.",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		MalformedAppointments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "availability_malformed_appointments_total",
				Help:        "Appointments skipped by the conflict index.",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		StaleSelections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "availability_stale_selections_total",
				Help:        "Computations discarded because a newer selection superseded them.",
				ConstLabels: constLabels,
			},
			[]string{},
		),
		SlotConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "appointment_slot_conflicts_total",
				Help:        "Appointment creations rejected because the slot was no longer free.",
				ConstLabels: constLabels,
			},
			[]string{"source"},
		),
		BusinessCacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "business_cache_requests_total",
				Help:        "Business snapshot cache lookups, by result.",
				ConstLabels: constLabels,
			},
			[]string{"result"},
		),
		ComputeDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "availability_compute_duration_seconds",
				Help:        "End-to-end availability computation latency.",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"degraded"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBWaitDurationSecond,
		m.SlotsComputed,
		m.DegradedComputations,
		m.MalformedAppointments,
		m.StaleSelections,
		m.SlotConflicts,
		m.BusinessCacheRequests,
		m.ComputeDurationSeconds,
	)

	return m
}

// Handler возвращает HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
