// Package handlers implements the HTTP API surface: download
// submission and status polling, published artifact delivery, direct
// audio streaming, video metadata lookups, and the health and version
// endpoints.
//
// Handlers translate between HTTP and the pipeline; they hold no job
// state of their own. Status queries consult the registry first and
// fall back to scanning the staging directory only for jobs the
// registry has never seen (submitted before a restart).
package handlers
