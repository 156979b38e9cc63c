package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeNetwork = "network_error"
	OutcomeStatus  = "status_error"
	OutcomeParse   = "parse_error"
)

var (
	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetches_total",
			Help: "Total number of upstream content fetches by source and outcome.",
		},
		[]string{"source", "outcome"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Duration of upstream content fetches in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)
	UpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled Telegram updates by kind.",
		},
		[]string{"kind"},
	)
	PublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "served_publish_errors_total",
			Help: "Total number of served events that could not be published.",
		},
	)
)

// NewRegistry returns a registry with the bot collectors and the Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		FetchesTotal,
		FetchDuration,
		UpdatesTotal,
		PublishErrorsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
