// Package metrics собирает Prometheus-метрики бота.
// Все методы безопасны для nil-получателя.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	handler    http.Handler
	validation *prometheus.CounterVec
	fallbacks  prometheus.Counter
	llmLatency *prometheus.HistogramVec
	reconciled *prometheus.CounterVec
	sessions   *prometheus.CounterVec
	updates    *prometheus.CounterVec
}

// New регистрирует коллекторы в собственном registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	validation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "headsup_validations_total",
		Help: "Heads-up validations by strategy and result",
	}, []string{"strategy", "result"})

	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "headsup_validator_fallbacks_total",
		Help: "Times the rule-based validator replaced the LLM",
	})

	llmLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Duration of LLM completion calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "status"})

	reconciled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "headsup_reconcile_total",
		Help: "Roster reconciliation outcomes",
	}, []string{"outcome"})

	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sessions_created_total",
		Help: "Activity sessions created by type",
	}, []string{"type"})

	updates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telegram_updates_total",
		Help: "Telegram updates handled by kind",
	}, []string{"kind"})

	registry.MustRegister(validation, fallbacks, llmLatency, reconciled, sessions, updates,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Metrics{
		registry:   registry,
		handler:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		validation: validation,
		fallbacks:  fallbacks,
		llmLatency: llmLatency,
		reconciled: reconciled,
		sessions:   sessions,
		updates:    updates,
	}
}

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) ObserveValidation(strategy string, valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.validation.WithLabelValues(strategy, result).Inc()
}

func (m *Metrics) IncValidatorFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

func (m *Metrics) ObserveLLMRequest(provider string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.llmLatency.WithLabelValues(provider, status).Observe(duration.Seconds())
}

// ObserveReconcile outcome: accepted, updated, unregistered, name_mismatch, group_mismatch, error
func (m *Metrics) ObserveReconcile(outcome string) {
	if m == nil {
		return
	}
	m.reconciled.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncSession(sessionType string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(sessionType).Inc()
}

func (m *Metrics) IncUpdate(kind string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(kind).Inc()
}
