// Package workers computes worker counts for concurrent tasks based on
// the CPUs actually available to the process (container CPU limits are
// respected via GOMAXPROCS). The pipeline uses it to size the cap on
// simultaneous download-transcode runs.
package workers
