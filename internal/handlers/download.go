package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"audio-downloader/internal/catalog"
	"audio-downloader/internal/logging"
	"audio-downloader/internal/pipeline"
	"audio-downloader/internal/registry"
	"audio-downloader/internal/selector"
	"audio-downloader/internal/store"
	"audio-downloader/internal/streaming"
)

// downloadRequest is the submission payload. Quality is accepted for
// compatibility but the output policy is fixed at 192kbps.
type downloadRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Quality string `json:"quality"`
}

type downloadResponse struct {
	Message       string `json:"message"`
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Duration      int    `json:"duration"`
	DownloadID    string `json:"downloadId"`
	Filename      string `json:"filename"`
	EstimatedSize *int64 `json:"estimatedSize"`
}

// StartDownload accepts a watch URL, registers a job and returns its
// receipt. The actual fetch and conversion run in the background; the
// client polls DownloadStatus with the returned downloadId.
func (h *Handlers) StartDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		writeJSONError(w, "YouTube URL is required", http.StatusBadRequest)
		return
	}

	res, err := h.pipeline.Submit(r.Context(), req.URL)
	if err != nil {
		status, message := mapSubmitError(err)
		writeJSONError(w, message, status)
		return
	}

	var estimatedSize *int64
	if res.Candidate.ContentLengthBytes > 0 {
		estimatedSize = &res.Candidate.ContentLengthBytes
	} else if res.Job.EstimatedSizeBytes > 0 {
		estimatedSize = &res.Job.EstimatedSizeBytes
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, downloadResponse{
		Message:       "Download started",
		VideoID:       res.Video.ID,
		Title:         res.Video.Title,
		Author:        res.Video.Author,
		Duration:      res.Video.DurationSeconds,
		DownloadID:    res.Job.ID,
		Filename:      res.Job.OutputFilename,
		EstimatedSize: estimatedSize,
	})
}

// mapSubmitError turns a submission failure into a status code and a
// caller-safe message. Internal detail stays in the logs.
func mapSubmitError(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid YouTube URL"
	case errors.Is(err, pipeline.ErrUnresolvableID):
		return http.StatusBadRequest, "Could not extract video ID from URL"
	case errors.Is(err, selector.ErrNoAudioFormat):
		return http.StatusBadRequest, "No suitable audio format found"
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "Video not found or unavailable"
	case errors.Is(err, catalog.ErrPrivate):
		return http.StatusForbidden, "This video is private"
	default:
		return http.StatusInternalServerError, "Failed to start download"
	}
}

type statusResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Filesize    int64  `json:"filesize,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DownloadStatus reports the state of a job by download ID. The
// registry is authoritative; the staging directory is consulted only
// when the registry has no record, which happens after a restart.
func (h *Handlers) DownloadStatus(w http.ResponseWriter, r *http.Request) {
	downloadID := mux.Vars(r)["downloadId"]

	w.Header().Set("Content-Type", "application/json")

	if job, ok := h.registry.FindByPrefix(downloadID); ok {
		writeJSON(w, h.statusFromJob(job))
		return
	}

	writeJSON(w, h.statusFromDisk(downloadID))
}

func (h *Handlers) statusFromJob(job registry.Job) statusResponse {
	switch job.State {
	case registry.StatePending:
		return statusResponse{Status: "pending", Message: "Download is queued..."}
	case registry.StateFetching, registry.StateTranscoding:
		return statusResponse{Status: "processing", Message: "File is being processed..."}
	case registry.StateCompleted:
		resp := statusResponse{
			Status:      "completed",
			Filename:    job.OutputFilename,
			DownloadURL: "/downloads/" + job.OutputFilename,
			CompletedAt: job.CompletedAt.Format(time.RFC3339),
		}
		if info, err := h.store.Stat(job.OutputFilename); err == nil {
			resp.Filesize = info.Size()
		}
		return resp
	case registry.StateFailed:
		return statusResponse{Status: "failed", Error: failureMessage(job.ErrorKind)}
	default: // expired
		return statusResponse{Status: "not_found", Message: "Download not found or expired"}
	}
}

// statusFromDisk recovers status for jobs that predate this process.
func (h *Handlers) statusFromDisk(downloadID string) statusResponse {
	filename, temp, ok := h.store.FindByDownloadID(downloadID)
	if !ok {
		return statusResponse{Status: "not_found", Message: "Download not found or expired"}
	}
	if temp {
		return statusResponse{Status: "processing", Message: "File is being processed..."}
	}

	resp := statusResponse{
		Status:      "completed",
		Filename:    filename,
		DownloadURL: "/downloads/" + filename,
	}
	if info, err := h.store.Stat(filename); err == nil {
		resp.Filesize = info.Size()
		resp.CompletedAt = info.ModTime().Format(time.RFC3339)
	}
	return resp
}

func failureMessage(kind registry.ErrorKind) string {
	if kind == registry.ErrorKindTranscode {
		return "Conversion failed"
	}
	return "Download failed"
}

// DownloadFile serves a published artifact with forced-download
// headers. Temp artifacts are never served.
func (h *Handlers) DownloadFile(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	if store.IsTemp(filename) {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}

	path := h.store.Path(filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", contentTypeFor(filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))

	tw := streaming.NewTimeoutWriter(r.Context(), w, streaming.DefaultConfig())
	defer tw.Close()

	if _, err := io.Copy(tw, f); err != nil {
		logging.Debug("download of %s aborted: %v", filename, err)
	}
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(filename, ".webm"):
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
