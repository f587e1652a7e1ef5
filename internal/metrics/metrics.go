package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumeai",
			Name:      "requests_total",
			Help:      "Total resume requests by mode (analysis, adjust) and result",
		},
		[]string{"mode", "result"},
	)

	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumeai",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of analysis webhook calls by result",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"result"},
	)

	renderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumeai",
			Name:      "pdf_render_duration_seconds",
			Help:      "Duration of PDF rendering",
			Buckets:   prometheus.DefBuckets,
		},
	)

	uploadsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumeai",
			Name:      "uploads_rejected_total",
			Help:      "Uploads rejected before processing, by reason (too_large, unsupported)",
		},
		[]string{"reason"},
	)

	uploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumeai",
			Name:      "upload_bytes",
			Help:      "Size of accepted uploads in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(requestsTotal, upstreamLatency, renderDuration, uploadsRejected, uploadBytes)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func IncRequest(mode, result string) { requestsTotal.WithLabelValues(mode, result).Inc() }

func ObserveUpstream(result string, dur time.Duration) {
	upstreamLatency.WithLabelValues(result).Observe(dur.Seconds())
}

func ObserveRender(dur time.Duration) { renderDuration.Observe(dur.Seconds()) }

func IncRejected(reason string) { uploadsRejected.WithLabelValues(reason).Inc() }

func ObserveUploadSize(n int64) { uploadBytes.Observe(float64(n)) }
