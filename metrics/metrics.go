package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesRendered counts flyer pages written to disk, by theme
	PagesRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flyers_pages_rendered_total",
			Help: "Total number of flyer pages rendered",
		},
		[]string{"theme"},
	)

	// DocumentsBundled counts multi-page documents written
	DocumentsBundled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flyers_documents_total",
			Help: "Total number of multi-page flyer documents bundled",
		},
	)

	// ImageFetches counts remote image fetches by outcome
	ImageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flyers_image_fetch_total",
			Help: "Remote image fetches by result (ok, skipped, error, status, decode)",
		},
		[]string{"result"},
	)

	// RenderDuration records how long one flyer page takes to compose
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flyers_render_duration_seconds",
			Help:    "Duration of flyer page composition in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// GroupFailures counts groups aborted by a persistence failure
	GroupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flyers_group_failures_total",
			Help: "Total number of groups that failed to render or persist",
		},
	)
)

// Fetch outcomes
const (
	FetchOK      = "ok"
	FetchSkipped = "skipped"
	FetchError   = "error"
	FetchStatus  = "status"
	FetchDecode  = "decode"
)
