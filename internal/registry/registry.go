package registry

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"audio-downloader/internal/logging"
)

// Registry is the process-wide job store. The zero value is not usable;
// construct with New.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job

	idMu   sync.Mutex
	lastID int64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// nextID allocates a millisecond-timestamp job ID that is strictly
// increasing within the process, even when submissions land inside the
// same millisecond.
func (r *Registry) nextID() string {
	r.idMu.Lock()
	defer r.idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return strconv.FormatInt(id, 10)
}

// CreateParams carries the provisional metadata for a new job. Paths are
// supplied by the caller, derived from the ID handed to DerivePaths.
type CreateParams struct {
	VideoID            string
	Title              string
	Author             string
	DurationSeconds    int
	TargetFormat       string
	EstimatedSizeBytes int64
}

// Create registers a new Pending job and returns a snapshot of it. The
// derive callback maps the fresh job ID to its temp path, output path
// and output filename, keeping artifact naming injective in the ID.
func (r *Registry) Create(p CreateParams, derive func(jobID string) (tempPath, outputPath, outputFilename string)) Job {
	id := r.nextID()
	tempPath, outputPath, outputFilename := derive(id)

	job := &Job{
		ID:                 id,
		VideoID:            p.VideoID,
		Title:              p.Title,
		Author:             p.Author,
		DurationSeconds:    p.DurationSeconds,
		TargetFormat:       p.TargetFormat,
		State:              StatePending,
		TempPath:           tempPath,
		OutputPath:         outputPath,
		OutputFilename:     outputFilename,
		EstimatedSizeBytes: p.EstimatedSizeBytes,
		CreatedAt:          time.Now(),
	}

	r.mu.Lock()
	r.jobs[id] = job
	r.mu.Unlock()

	logging.Debug("registry: created job %s for video %s", id, p.VideoID)
	return *job
}

// Transition moves a job to the next state, validating the edge. All
// fields touched by a transition become visible atomically to readers.
func (r *Registry) Transition(jobID string, next State) error {
	return r.transition(jobID, next, ErrorKindNone, "")
}

// Fail moves a job to Failed, recording which stage died and why. The
// detail stays internal; callers surface only the kind.
func (r *Registry) Fail(jobID string, kind ErrorKind, detail string) error {
	return r.transition(jobID, StateFailed, kind, detail)
}

func (r *Registry) transition(jobID string, next State, kind ErrorKind, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("unknown job %s", jobID)
	}
	if !validTransition(job.State, next) {
		return fmt.Errorf("invalid transition for job %s: %s -> %s", jobID, job.State, next)
	}

	job.State = next
	if kind != ErrorKindNone {
		job.ErrorKind = kind
		job.ErrorDetail = detail
	}
	if next == StateCompleted || next == StateFailed {
		job.CompletedAt = time.Now()
	}
	return nil
}

// Get returns a snapshot of a job by exact ID.
func (r *Registry) Get(jobID string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// FindByPrefix resolves a partial download ID to a job. An exact ID
// match wins; otherwise the newest job whose ID starts with the partial
// value, or whose published filename contains it, is returned.
func (r *Registry) FindByPrefix(partial string) (Job, bool) {
	if partial == "" {
		return Job{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if job, ok := r.jobs[partial]; ok {
		return *job, true
	}

	var best *Job
	for _, job := range r.jobs {
		if !strings.HasPrefix(job.ID, partial) && !strings.Contains(job.OutputFilename, partial) {
			continue
		}
		if best == nil || job.CreatedAt.After(best.CreatedAt) {
			best = job
		}
	}
	if best == nil {
		return Job{}, false
	}
	return *best, true
}

// Stats holds per-state job counts for the health surface.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Expired    int `json:"expired"`
}

// GetStats counts jobs by state.
func (r *Registry) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{Total: len(r.jobs)}
	for _, job := range r.jobs {
		switch job.State {
		case StatePending:
			s.Pending++
		case StateFetching, StateTranscoding:
			s.Processing++
		case StateCompleted:
			s.Completed++
		case StateFailed:
			s.Failed++
		case StateExpired:
			s.Expired++
		}
	}
	return s
}
