package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"audio-downloader/internal/catalog"
	"audio-downloader/internal/selector"
	"audio-downloader/internal/youtube"
)

type videoInfoRequest struct {
	URL string `json:"url"`
}

type audioFormatInfo struct {
	Itag      int    `json:"itag"`
	Container string `json:"container"`
	Quality   string `json:"quality"`
	Filesize  *int64 `json:"filesize"`
	Codec     string `json:"codec"`
}

type videoInfoResponse struct {
	VideoID           string              `json:"videoId"`
	Title             string              `json:"title"`
	Author            string              `json:"author"`
	LengthSeconds     int                 `json:"lengthSeconds"`
	Thumbnails        []catalog.Thumbnail `json:"thumbnails"`
	AudioFormats      []audioFormatInfo   `json:"audioFormats"`
	RecommendedFormat audioFormatInfo     `json:"recommendedFormat"`
}

// VideoInfo resolves a URL to metadata and the list of audio renditions
// sorted best-first.
func (h *Handlers) VideoInfo(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.resolveRequestURL(w, r)
	if !ok {
		return
	}

	video, err := h.provider.Lookup(r.Context(), videoID)
	if err != nil {
		status, message := mapLookupError(err)
		writeJSONError(w, message, status)
		return
	}

	formats := audioFormats(video.Candidates)
	if len(formats) == 0 {
		writeJSONError(w, "No audio formats available for this video", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, videoInfoResponse{
		VideoID:           video.ID,
		Title:             video.Title,
		Author:            video.Author,
		LengthSeconds:     video.DurationSeconds,
		Thumbnails:        video.Thumbnails,
		AudioFormats:      formats,
		RecommendedFormat: formats[0],
	})
}

type checkVideoResponse struct {
	IsDownloadable bool   `json:"isDownloadable"`
	Title          string `json:"title"`
	Duration       int    `json:"duration"`
}

// CheckVideo reports whether a URL points at a video with a usable
// audio track.
func (h *Handlers) CheckVideo(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.resolveRequestURL(w, r)
	if !ok {
		return
	}

	video, err := h.provider.Lookup(r.Context(), videoID)
	if err != nil {
		status, message := mapLookupError(err)
		writeJSONError(w, message, status)
		return
	}

	hasAudio := false
	for _, c := range video.Candidates {
		if c.HasAudio {
			hasAudio = true
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, checkVideoResponse{
		IsDownloadable: hasAudio,
		Title:          video.Title,
		Duration:       video.DurationSeconds,
	})
}

// resolveRequestURL decodes the {url} payload and extracts a video ID,
// writing the error response itself on failure.
func (h *Handlers) resolveRequestURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req videoInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return "", false
	}
	if req.URL == "" {
		writeJSONError(w, "YouTube URL is required", http.StatusBadRequest)
		return "", false
	}
	if !youtube.ValidateURL(req.URL) {
		writeJSONError(w, "Invalid YouTube URL", http.StatusBadRequest)
		return "", false
	}

	videoID := youtube.ExtractVideoID(req.URL)
	if videoID == "" {
		writeJSONError(w, "Could not extract video ID from URL", http.StatusBadRequest)
		return "", false
	}
	return videoID, true
}

func mapLookupError(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "Video not found or unavailable"
	case errors.Is(err, catalog.ErrPrivate):
		return http.StatusForbidden, "This video is private"
	default:
		return http.StatusInternalServerError, "Failed to fetch video information"
	}
}

// audioFormats converts the audio-only candidates into the wire shape,
// best bitrate first. Only real media containers are listed.
func audioFormats(candidates []catalog.StreamCandidate) []audioFormatInfo {
	var out []audioFormatInfo
	for _, c := range selector.AudioCandidates(candidates) {
		if c.Container != "mp4" && c.Container != "webm" {
			continue
		}

		quality := "unknown"
		if c.AudioBitrateKbps > 0 {
			quality = fmt.Sprintf("%dkbps", c.AudioBitrateKbps)
		}

		info := audioFormatInfo{
			Itag:      c.Itag,
			Container: c.Container,
			Quality:   quality,
			Codec:     c.CodecID,
		}
		if c.ContentLengthBytes > 0 {
			size := c.ContentLengthBytes
			info.Filesize = &size
		}
		out = append(out, info)
	}
	return out
}
