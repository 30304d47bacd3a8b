package catalog

import (
	"context"
	"errors"
	"io"
)

// Provider errors surfaced to callers. Anything else coming out of
// Lookup or OpenStream is a generic provider failure.
var (
	// ErrNotFound indicates the video does not exist or is unavailable.
	ErrNotFound = errors.New("video not found or unavailable")

	// ErrPrivate indicates the video exists but access is restricted.
	ErrPrivate = errors.New("video is private")
)

// StreamCandidate describes one decodable rendition offered by the
// source. Zero values for bitrate and content length mean unknown.
type StreamCandidate struct {
	Itag               int    `json:"itag"`
	HasAudio           bool   `json:"hasAudio"`
	HasVideo           bool   `json:"hasVideo"`
	Container          string `json:"container"`
	AudioBitrateKbps   int    `json:"audioBitrateKbps"`
	ContentLengthBytes int64  `json:"contentLengthBytes"`
	CodecID            string `json:"codec"`
}

// Thumbnail is one preview image offered by the source.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Video is the resolved metadata for one video ID plus its stream
// candidates. The struct is immutable once returned by Lookup.
type Video struct {
	ID              string
	Title           string
	Author          string
	DurationSeconds int
	Thumbnails      []Thumbnail
	Candidates      []StreamCandidate

	// source carries the provider's own handle so OpenStream can avoid a
	// second lookup. Fake providers leave it nil.
	source any
}

// Provider is the external catalog the pipeline consumes.
type Provider interface {
	// Lookup resolves metadata and stream candidates for a video ID.
	// Returns ErrNotFound, ErrPrivate, or a wrapped provider error.
	Lookup(ctx context.Context, videoID string) (*Video, error)

	// OpenStream opens the byte stream for one candidate of a video
	// previously returned by Lookup. The caller owns the ReadCloser.
	// The returned size is the expected byte count, 0 if unknown.
	OpenStream(ctx context.Context, v *Video, c StreamCandidate) (io.ReadCloser, int64, error)
}
