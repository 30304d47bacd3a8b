package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	yt "github.com/kkdai/youtube/v2"

	"audio-downloader/internal/logging"
	"audio-downloader/internal/youtube"
)

// YouTubeProvider resolves videos through the YouTube player API.
type YouTubeProvider struct {
	client yt.Client
}

// NewYouTubeProvider creates a provider with a default client.
func NewYouTubeProvider() *YouTubeProvider {
	return &YouTubeProvider{}
}

// Lookup implements Provider.
func (p *YouTubeProvider) Lookup(ctx context.Context, videoID string) (*Video, error) {
	v, err := p.client.GetVideoContext(ctx, fmt.Sprintf(youtube.WatchURL, videoID))
	if err != nil {
		return nil, classifyError(err)
	}

	candidates := make([]StreamCandidate, 0, len(v.Formats))
	for _, f := range v.Formats {
		candidates = append(candidates, candidateFromFormat(f))
	}

	thumbnails := make([]Thumbnail, 0, len(v.Thumbnails))
	for _, t := range v.Thumbnails {
		thumbnails = append(thumbnails, Thumbnail{
			URL:    t.URL,
			Width:  int(t.Width),
			Height: int(t.Height),
		})
	}
	if len(thumbnails) == 0 {
		// The player API occasionally omits thumbnails; the CDN URL
		// scheme is stable enough to synthesize one.
		thumbnails = append(thumbnails, Thumbnail{
			URL:    youtube.ThumbnailURL(v.ID, "high"),
			Width:  480,
			Height: 360,
		})
	}

	logging.Debug("catalog: resolved %s (%q, %d formats)", v.ID, v.Title, len(candidates))

	return &Video{
		ID:              v.ID,
		Title:           v.Title,
		Author:          v.Author,
		DurationSeconds: int(v.Duration.Seconds()),
		Thumbnails:      thumbnails,
		Candidates:      candidates,
		source:          v,
	}, nil
}

// OpenStream implements Provider.
func (p *YouTubeProvider) OpenStream(ctx context.Context, v *Video, c StreamCandidate) (io.ReadCloser, int64, error) {
	src, ok := v.source.(*yt.Video)
	if !ok {
		return nil, 0, fmt.Errorf("video %s was not resolved by this provider", v.ID)
	}

	format := src.Formats.FindByItag(c.Itag)
	if format == nil {
		return nil, 0, fmt.Errorf("itag %d not offered for video %s", c.Itag, v.ID)
	}

	rc, size, err := p.client.GetStreamContext(ctx, src, format)
	if err != nil {
		return nil, 0, classifyError(err)
	}
	return rc, size, nil
}

// candidateFromFormat maps a player-API format onto the neutral
// candidate type used by the selector.
func candidateFromFormat(f yt.Format) StreamCandidate {
	mime := f.MimeType
	container := ""
	if slash := strings.Index(mime, "/"); slash != -1 {
		rest := mime[slash+1:]
		if semi := strings.Index(rest, ";"); semi != -1 {
			rest = rest[:semi]
		}
		container = strings.TrimSpace(rest)
	}

	hasAudio := f.AudioChannels > 0 || strings.HasPrefix(mime, "audio/")
	hasVideo := strings.HasPrefix(mime, "video/")

	return StreamCandidate{
		Itag:               f.ItagNo,
		HasAudio:           hasAudio,
		HasVideo:           hasVideo,
		Container:          container,
		AudioBitrateKbps:   audioBitrateKbps(f, hasAudio, hasVideo),
		ContentLengthBytes: f.ContentLength,
		CodecID:            codecID(mime),
	}
}

// audioBitrateKbps estimates the audio bitrate of a format. Audio-only
// formats report their overall bitrate; muxed formats only expose a
// coarse quality tier, mapped to its nominal rate. Unknown is 0.
func audioBitrateKbps(f yt.Format, hasAudio, hasVideo bool) int {
	if !hasAudio {
		return 0
	}
	if !hasVideo {
		return f.Bitrate / 1000
	}
	switch f.AudioQuality {
	case "AUDIO_QUALITY_LOW":
		return 70
	case "AUDIO_QUALITY_MEDIUM":
		return 128
	case "AUDIO_QUALITY_HIGH":
		return 192
	}
	return 0
}

// codecID extracts the codecs="..." token from a MIME type.
func codecID(mime string) string {
	const marker = `codecs="`
	idx := strings.Index(mime, marker)
	if idx == -1 {
		return ""
	}
	rest := mime[idx+len(marker):]
	if end := strings.Index(rest, `"`); end != -1 {
		return rest[:end]
	}
	return rest
}

// classifyError maps provider failures onto the stable error taxonomy.
// The player API reports restricted and missing videos with playability
// statuses whose messages are matched here.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, yt.ErrVideoPrivate) {
		return ErrPrivate
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "private"):
		return ErrPrivate
	case strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "not found"),
		strings.Contains(msg, "not exist"):
		return ErrNotFound
	}
	return fmt.Errorf("provider: %w", err)
}
