package store

import (
	"os"
	"time"

	"audio-downloader/internal/logging"
	"audio-downloader/internal/metrics"
)

// ExpireFunc is invoked with the job ID of every published artifact the
// janitor reaps, so the registry can mark the job Expired.
type ExpireFunc func(jobID string)

// Janitor periodically deletes stale artifacts from the staging area.
type Janitor struct {
	store     *Store
	interval  time.Duration
	retention time.Duration
	onExpire  ExpireFunc

	stop chan struct{}
	done chan struct{}
}

// NewJanitor creates a janitor that sweeps every interval, deleting
// artifacts whose modification time is older than the retention window.
// onExpire may be nil.
func NewJanitor(store *Store, interval, retention time.Duration, onExpire ExpireFunc) *Janitor {
	return &Janitor{
		store:     store,
		interval:  interval,
		retention: retention,
		onExpire:  onExpire,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs the sweep loop in a new goroutine.
func (j *Janitor) Start() {
	go j.run()
}

// Stop halts the sweep loop and waits for an in-progress sweep to end.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}

func (j *Janitor) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep(time.Now())
		case <-j.stop:
			return
		}
	}
}

// Sweep deletes every artifact older than the retention window and
// returns the number removed. Files vanishing between listing and
// deletion are treated as already cleaned.
func (j *Janitor) Sweep(now time.Time) int {
	metrics.JanitorRunsTotal.Inc()

	entries, err := os.ReadDir(j.store.Dir())
	if err != nil {
		logging.Warn("janitor: reading staging directory: %v", err)
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// File disappeared between listing and stat.
			continue
		}
		if now.Sub(info.ModTime()) <= j.retention {
			continue
		}

		name := entry.Name()
		if err := j.store.Remove(j.store.Path(name)); err != nil {
			logging.Warn("janitor: failed to remove %s: %v", name, err)
			continue
		}

		removed++
		metrics.JanitorFilesReaped.Inc()
		logging.Info("janitor: cleaned up old file: %s", name)

		if !IsTemp(name) && j.onExpire != nil {
			if jobID := ParseJobID(name); jobID != "" {
				j.onExpire(jobID)
			}
		}
	}

	if removed > 0 {
		logging.Debug("janitor: sweep removed %d artifacts", removed)
	}
	return removed
}
