package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"audio-downloader/internal/logging"
	"audio-downloader/internal/streaming"
	"audio-downloader/internal/youtube"
)

// StreamAudio serves a video's audio straight to the response without
// staging it on disk: mp3 goes through the transcoder, any other format
// passes the source bytes through untouched. Headers go out before the
// first byte, so errors discovered mid-stream can only abort the
// connection; JSON errors are possible only while nothing has been
// written.
func (h *Handlers) StreamAudio(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoId"]

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "mp3"
	}

	video, candidate, err := h.pipeline.Resolve(r.Context(), videoID)
	if err != nil {
		status, message := mapSubmitError(err)
		writeJSONError(w, message, status)
		return
	}

	filename := youtube.SanitizeFilename(video.Title) + "." + format
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	tw := streaming.NewTimeoutWriter(r.Context(), w, streaming.DefaultConfig())
	defer tw.Close()

	var streamErr error
	var failMessage string
	if format == "mp3" {
		w.Header().Set("Content-Type", "audio/mpeg")
		streamErr = h.pipeline.StreamDirect(r.Context(), video, candidate, tw)
		failMessage = "Conversion failed"
	} else {
		w.Header().Set("Content-Type", "audio/webm")
		streamErr = h.pipeline.StreamRaw(r.Context(), video, candidate, tw)
		failMessage = "Download failed"
	}

	if streamErr != nil {
		if tw.BytesWritten() == 0 {
			w.Header().Del("Content-Disposition")
			writeJSONError(w, failMessage, http.StatusInternalServerError)
			return
		}
		logging.Debug("stream of %s aborted after %d bytes: %v", videoID, tw.BytesWritten(), streamErr)
	}
}
