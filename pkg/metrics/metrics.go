package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts API requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secondbrain_http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "secondbrain_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"route"})

	// LLMRequests counts gateway calls by operation (tagging, answer) and outcome.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secondbrain_llm_requests_total",
		Help: "Total number of LLM gateway calls by operation and outcome",
	}, []string{"op", "outcome"})

	LLMLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "secondbrain_llm_request_duration_seconds",
		Help:    "LLM gateway latency in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"op"})

	// TaggingFallbacks counts replies that were not valid summary/tags JSON.
	TaggingFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secondbrain_tagging_fallbacks_total",
		Help: "Tagging replies recovered by falling back to the raw text summary",
	})

	NotesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secondbrain_notes_created_total",
		Help: "Total number of notes persisted",
	})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "secondbrain_websocket_connections_active",
		Help: "Number of connected live-feed clients",
	})
)
