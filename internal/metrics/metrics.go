// Package metrics provides the Prometheus metrics registry for the matchups service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PagesRenderedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchups",
		Name:      "pages_rendered_total",
		Help:      "Total number of pages rendered by view",
	}, []string{"view"})
	PlayerNotFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "matchups",
		Name:      "player_not_found_total",
		Help:      "Total number of detail requests for unknown players",
	})
	DataLoadErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchups",
		Name:      "data_load_errors_total",
		Help:      "Total number of failed matchup document loads",
	}, []string{"source"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchups",
		Name:      "cache_lookups_total",
		Help:      "Total number of cache lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	PlayersLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "matchups",
		Name:      "players_loaded",
		Help:      "Number of players in the most recently loaded document",
	})
)

// Histogram metrics
var (
	DataLoadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "matchups",
		Name:      "data_load_duration_seconds",
		Help:      "Time spent reading and parsing the matchup document",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "matchups",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PagesRenderedTotal)
		registry.MustRegister(PlayerNotFoundTotal)
		registry.MustRegister(DataLoadErrorsTotal)
		registry.MustRegister(CacheLookupsTotal)

		registry.MustRegister(PlayersLoaded)

		registry.MustRegister(DataLoadDuration)
		registry.MustRegister(RequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPageRendered records a rendered page for a view.
func RecordPageRendered(view string) {
	PagesRenderedTotal.WithLabelValues(view).Inc()
}

// RecordPlayerNotFound records a lookup for an unknown player.
func RecordPlayerNotFound() {
	PlayerNotFoundTotal.Inc()
}

// RecordDataLoad records a successful document load.
func RecordDataLoad(source string, players int, durationSeconds float64) {
	DataLoadDuration.WithLabelValues(source).Observe(durationSeconds)
	PlayersLoaded.Set(float64(players))
}

// RecordDataLoadError records a failed document load.
func RecordDataLoadError(source string) {
	DataLoadErrorsTotal.WithLabelValues(source).Inc()
}

// RecordCacheHit records a cache hit.
func RecordCacheHit() {
	CacheLookupsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss() {
	CacheLookupsTotal.WithLabelValues("miss").Inc()
}

// RecordRequest records request latency.
func RecordRequest(route, status string, durationSeconds float64) {
	RequestDuration.WithLabelValues(route, status).Observe(durationSeconds)
}
