// Package metrics содержит prometheus-метрики сервиса: решения политики доступа
// и длительность HTTP-запросов.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Проверки политики доступа.
const (
	CheckAuthentication = "authentication"
	CheckSubscription   = "subscription"
	CheckRole           = "role"
	CheckTier           = "tier"
)

// Recorder учитывает решения политики доступа.
type Recorder interface {
	AccessDecision(check, outcome string)
}

// Metrics набор метрик HTTP-сервера.
type Metrics struct {
	accessDecisions *prometheus.CounterVec
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mining_consultancy",
			Name:      "access_decisions_total",
			Help:      "Access policy decisions by check and outcome.",
		}, []string{"check", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mining_consultancy",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mining_consultancy",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.accessDecisions, m.requests, m.duration)
	return m
}

// AccessDecision увеличивает счётчик решения check с исходом outcome
// ("allowed" или класс отказа).
func (m *Metrics) AccessDecision(check, outcome string) {
	m.accessDecisions.WithLabelValues(check, outcome).Inc()
}

// Middleware считает запросы и их длительность. Метка route берётся из шаблона
// маршрута chi, чтобы идентификаторы ресурсов не раздували число серий.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Nop реализация Recorder, которая ничего не учитывает.
type Nop struct{}

// AccessDecision ничего не делает.
func (Nop) AccessDecision(string, string) {}
