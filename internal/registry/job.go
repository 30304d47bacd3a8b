package registry

import "time"

// State is one stage of the job lifecycle.
type State string

const (
	// StatePending means the job is registered but its run has not begun.
	StatePending State = "pending"
	// StateFetching means the source stream is being written to the temp artifact.
	StateFetching State = "fetching"
	// StateTranscoding means ffmpeg is producing the output artifact.
	StateTranscoding State = "transcoding"
	// StateCompleted means the output artifact is published and downloadable.
	StateCompleted State = "completed"
	// StateFailed means a stage errored; artifacts have been cleaned up.
	StateFailed State = "failed"
	// StateExpired means the janitor reaped the published artifact.
	StateExpired State = "expired"
)

// Terminal reports whether no further forward transition is possible.
// Completed still expires, but the pipeline run is done with it.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateExpired:
		return true
	}
	return false
}

// ErrorKind tags the stage a failed job died in.
type ErrorKind string

const (
	// ErrorKindNone marks a job without error.
	ErrorKindNone ErrorKind = ""
	// ErrorKindFetch marks a network or disk failure while fetching.
	ErrorKindFetch ErrorKind = "fetch"
	// ErrorKindTranscode marks an ffmpeg failure.
	ErrorKindTranscode ErrorKind = "transcode"
)

// Job is one fetch-transcode-publish request and its lifecycle state.
// The registry hands out copies; the authoritative record is only ever
// mutated under the registry lock.
type Job struct {
	ID              string
	VideoID         string
	Title           string
	Author          string
	DurationSeconds int
	TargetFormat    string
	State           State

	TempPath           string
	OutputPath         string
	OutputFilename     string
	EstimatedSizeBytes int64

	CreatedAt   time.Time
	CompletedAt time.Time // zero until a terminal state is reached

	ErrorKind   ErrorKind
	ErrorDetail string // internal diagnostic, not surfaced to callers
}

// validTransition enforces the allowed state machine edges. No edge
// re-enters Pending, and Expired is reachable only from Completed.
func validTransition(from, to State) bool {
	switch from {
	case StatePending:
		return to == StateFetching
	case StateFetching:
		return to == StateTranscoding || to == StateFailed
	case StateTranscoding:
		return to == StateCompleted || to == StateFailed
	case StateCompleted:
		return to == StateExpired
	default:
		return false
	}
}
