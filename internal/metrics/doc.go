// Package metrics defines the Prometheus metrics exposed by the audio
// downloader: HTTP request counters and latencies, pipeline job
// outcomes and stage durations, artifact byte counters, and janitor
// sweep activity.
//
// All metrics are registered via promauto at package init and carry the
// audio_downloader_ prefix.
package metrics
