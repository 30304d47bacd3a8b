package catalog

import (
	"context"
	"errors"
	"testing"

	yt "github.com/kkdai/youtube/v2"
)

func TestCandidateFromFormat(t *testing.T) {
	tests := []struct {
		name     string
		format   yt.Format
		expected StreamCandidate
	}{
		{
			name: "audio only opus",
			format: yt.Format{
				ItagNo:        251,
				MimeType:      `audio/webm; codecs="opus"`,
				Bitrate:       128000,
				ContentLength: 4096,
				AudioChannels: 2,
			},
			expected: StreamCandidate{
				Itag:               251,
				HasAudio:           true,
				HasVideo:           false,
				Container:          "webm",
				AudioBitrateKbps:   128,
				ContentLengthBytes: 4096,
				CodecID:            "opus",
			},
		},
		{
			name: "muxed mp4",
			format: yt.Format{
				ItagNo:        18,
				MimeType:      `video/mp4; codecs="avc1.42001E, mp4a.40.2"`,
				Bitrate:       500000,
				AudioChannels: 2,
				AudioQuality:  "AUDIO_QUALITY_LOW",
			},
			expected: StreamCandidate{
				Itag:             18,
				HasAudio:         true,
				HasVideo:         true,
				Container:        "mp4",
				AudioBitrateKbps: 70,
				CodecID:          "avc1.42001E, mp4a.40.2",
			},
		},
		{
			name: "video only",
			format: yt.Format{
				ItagNo:   137,
				MimeType: `video/mp4; codecs="avc1.640028"`,
				Bitrate:  4000000,
			},
			expected: StreamCandidate{
				Itag:      137,
				HasAudio:  false,
				HasVideo:  true,
				Container: "mp4",
				CodecID:   "avc1.640028",
			},
		},
		{
			name: "no codecs token",
			format: yt.Format{
				ItagNo:        140,
				MimeType:      "audio/mp4",
				Bitrate:       130000,
				AudioChannels: 2,
			},
			expected: StreamCandidate{
				Itag:             140,
				HasAudio:         true,
				Container:        "mp4",
				AudioBitrateKbps: 130,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := candidateFromFormat(tt.format); got != tt.expected {
				t.Errorf("candidateFromFormat() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "nil", err: nil, expected: nil},
		{name: "private sentinel", err: yt.ErrVideoPrivate, expected: ErrPrivate},
		{name: "private message", err: errors.New("this video is private"), expected: ErrPrivate},
		{name: "unavailable message", err: errors.New("Video unavailable"), expected: ErrNotFound},
		{name: "missing message", err: errors.New("video does not exist"), expected: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			if tt.expected == nil {
				if got != nil {
					t.Errorf("classifyError(nil) = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.expected) {
				t.Errorf("classifyError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClassifyErrorWrapsGeneric(t *testing.T) {
	cause := errors.New("connection reset")
	got := classifyError(cause)
	if !errors.Is(got, cause) {
		t.Errorf("generic error should wrap the cause, got %v", got)
	}
	if errors.Is(got, ErrNotFound) || errors.Is(got, ErrPrivate) {
		t.Errorf("generic error misclassified: %v", got)
	}
}

func TestOpenStreamRejectsForeignVideo(t *testing.T) {
	p := NewYouTubeProvider()
	v := &Video{ID: "abc"} // no provider source handle
	if _, _, err := p.OpenStream(context.Background(), v, StreamCandidate{Itag: 251}); err == nil {
		t.Error("expected error opening stream for a video the provider did not resolve")
	}
}
