package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	// Кэш
	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	CacheEvictions     *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec
	CacheEntries       prometheus.Gauge

	// База данных
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	// Бизнес-метрики
	AppointmentMutations *prometheus.CounterVec
	RemindersSent        *prometheus.CounterVec
}

// New регистрирует метрики в глобальном registry prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registry (удобно для тестов)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_hits_total",
			Help:        "Количество попаданий в кэш",
			ConstLabels: labels,
		}, []string{"region"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_misses_total",
			Help:        "Количество промахов кэша (включая протухшие записи)",
			ConstLabels: labels,
		}, []string{"region"}),
		CacheEvictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_evictions_total",
			Help:        "Количество вытесненных записей кэша",
			ConstLabels: labels,
		}, []string{"region", "reason"}),
		CacheInvalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_invalidations_total",
			Help:        "Количество инвалидаций регионов кэша",
			ConstLabels: labels,
		}, []string{"region", "scope"}),
		CacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "cache_entries",
			Help:        "Текущее количество записей в кэше",
			ConstLabels: labels,
		}),
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Длительность запросов к БД",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Количество открытых соединений с БД",
			ConstLabels: labels,
		}),
		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Количество используемых соединений с БД",
			ConstLabels: labels,
		}),
		DBIdleConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Количество простаивающих соединений с БД",
			ConstLabels: labels,
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Суммарное количество ожиданий свободного соединения",
			ConstLabels: labels,
		}),
		AppointmentMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_mutations_total",
			Help:        "Количество изменений записей на приём",
			ConstLabels: labels,
		}, []string{"mutation", "result"}),
		RemindersSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_reminders_total",
			Help:        "Количество отправленных напоминаний о приёме",
			ConstLabels: labels,
		}, []string{"result"}),
	}
}

// ObserveMutation учитывает изменение записи на приём; безопасен для nil
func (m *Metrics) ObserveMutation(mutation, result string) {
	if m == nil {
		return
	}
	m.AppointmentMutations.WithLabelValues(mutation, result).Inc()
}

// ObserveReminder учитывает отправку напоминания; безопасен для nil
func (m *Metrics) ObserveReminder(result string) {
	if m == nil {
		return
	}
	m.RemindersSent.WithLabelValues(result).Inc()
}
