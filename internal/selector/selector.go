// Package selector implements the deterministic quality policy that
// picks the source stream to transcode: audio-only renditions beat muxed
// ones, higher audio bitrate beats lower, and ties keep catalog order.
package selector

import (
	"errors"
	"sort"

	"audio-downloader/internal/catalog"
)

// ErrNoAudioFormat is returned when no candidate carries an audio track.
// It is a reported condition, not a process failure.
var ErrNoAudioFormat = errors.New("no suitable audio format found")

// BestAudio picks the best stream candidate for audio extraction.
//
// Audio-only candidates (ignoring the mhtml storyboard container) are
// preferred; if none exist, any candidate with an audio track qualifies.
// Within the chosen partition the highest audio bitrate wins, with
// unknown bitrate counting as zero and ties resolved by input order.
func BestAudio(candidates []catalog.StreamCandidate) (catalog.StreamCandidate, error) {
	pool := audioOnly(candidates)
	if len(pool) == 0 {
		pool = audioCapable(candidates)
	}
	if len(pool) == 0 {
		return catalog.StreamCandidate{}, ErrNoAudioFormat
	}

	best := pool[0]
	for _, c := range pool[1:] {
		if c.AudioBitrateKbps > best.AudioBitrateKbps {
			best = c
		}
	}
	return best, nil
}

// AudioCandidates returns the audio-only candidates sorted by descending
// bitrate, preserving catalog order between equal bitrates. Used by the
// video-info surface to list available qualities.
func AudioCandidates(candidates []catalog.StreamCandidate) []catalog.StreamCandidate {
	pool := audioOnly(candidates)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].AudioBitrateKbps > pool[j].AudioBitrateKbps
	})
	return pool
}

func audioOnly(candidates []catalog.StreamCandidate) []catalog.StreamCandidate {
	var out []catalog.StreamCandidate
	for _, c := range candidates {
		if c.HasAudio && !c.HasVideo && c.Container != "mhtml" {
			out = append(out, c)
		}
	}
	return out
}

func audioCapable(candidates []catalog.StreamCandidate) []catalog.StreamCandidate {
	var out []catalog.StreamCandidate
	for _, c := range candidates {
		if c.HasAudio {
			out = append(out, c)
		}
	}
	return out
}
