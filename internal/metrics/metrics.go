package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audio_downloader_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "audio_downloader_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "audio_downloader_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audio_downloader_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// Pipeline metrics
var (
	JobsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audio_downloader_jobs_submitted_total",
			Help: "Total number of jobs accepted for processing",
		},
	)

	JobsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audio_downloader_jobs_finished_total",
			Help: "Total number of jobs reaching a terminal state",
		},
		[]string{"status"}, // "completed" or "failed"
	)

	JobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "audio_downloader_jobs_active",
			Help: "Number of pipeline runs currently executing",
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "audio_downloader_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage"}, // "fetch" or "transcode"
	)

	BytesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audio_downloader_bytes_fetched_total",
			Help: "Total bytes read from source streams",
		},
	)

	BytesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audio_downloader_bytes_published_total",
			Help: "Total bytes of published output artifacts",
		},
	)

	SubmitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audio_downloader_submit_rejections_total",
			Help: "Total submissions rejected before a job was created",
		},
		[]string{"reason"},
	)
)

// Direct streaming metrics
var (
	DirectStreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audio_downloader_direct_streams_total",
			Help: "Total number of direct-pipe stream requests",
		},
		[]string{"status"}, // "completed", "failed", "aborted"
	)
)

// Janitor metrics
var (
	JanitorRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audio_downloader_janitor_runs_total",
			Help: "Total number of janitor sweeps",
		},
	)

	JanitorFilesReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audio_downloader_janitor_files_reaped_total",
			Help: "Total number of artifacts deleted by the janitor",
		},
	)
)
