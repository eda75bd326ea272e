package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry through promauto.

var (
	// HttpRequestsTotal counts requests by method, path and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibermap_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures server response time.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fibermap_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	// FibersDecodedTotal counts fibers successfully decoded from Fibers.bin sources.
	FibersDecodedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fibermap_fibers_decoded_total",
			Help: "Total number of fibers decoded",
		},
	)

	// CodecBytesTotal counts bytes moved through the codec, by direction (encode/decode).
	CodecBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibermap_codec_bytes_total",
			Help: "Total bytes written or read in the Fibers.bin format",
		},
		[]string{"direction"},
	)

	// MembershipEntries tracks the size of the membership table of each model.
	MembershipEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fibermap_membership_entries",
			Help: "Number of (fiber, zone) entries in the membership table",
		},
		[]string{"model"},
	)

	// AnalysisDuration measures a full membership computation.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fibermap_analysis_duration_seconds",
			Help:    "Duration of membership analysis in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
)
