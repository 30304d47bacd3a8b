package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"audio-downloader/internal/catalog"
	"audio-downloader/internal/logging"
	"audio-downloader/internal/metrics"
	"audio-downloader/internal/registry"
	"audio-downloader/internal/selector"
	"audio-downloader/internal/store"
	"audio-downloader/internal/transcode"
	"audio-downloader/internal/workers"
	"audio-downloader/internal/youtube"
)

// Submission errors. Catalog and selector errors pass through unwrapped
// so callers can map them with errors.Is.
var (
	// ErrInvalidURL indicates the submitted string is not a YouTube URL.
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrUnresolvableID indicates a YouTube URL with no extractable video ID.
	ErrUnresolvableID = errors.New("could not extract video ID from URL")
)

// Transcoder is the conversion backend the pipeline drives.
type Transcoder interface {
	TranscodeFile(ctx context.Context, key, inputPath, outputPath string, opts transcode.Options) error
	TranscodeStream(ctx context.Context, key string, input io.Reader, output io.Writer, opts transcode.Options) error
}

// Config tunes the orchestrator.
type Config struct {
	// Concurrency bounds simultaneous job runs. 0 picks a size from the
	// CPU count.
	Concurrency int

	// Format is the target audio format for submitted jobs.
	Format string
}

// Orchestrator runs download jobs and direct streams.
type Orchestrator struct {
	registry   *registry.Registry
	store      *store.Store
	provider   catalog.Provider
	transcoder Transcoder

	format string
	sem    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// New wires an orchestrator from its dependencies.
func New(reg *registry.Registry, st *store.Store, provider catalog.Provider, tc Transcoder, cfg Config) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = workers.ForMixed(8)
	}
	if cfg.Format == "" {
		cfg.Format = "mp3"
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		registry:   reg,
		store:      st,
		provider:   provider,
		transcoder: tc,
		format:     cfg.Format,
		sem:        make(chan struct{}, cfg.Concurrency),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Close cancels all in-flight job runs.
func (o *Orchestrator) Close() {
	o.cancel()
}

// SubmitResult is the accepted-job receipt returned to the caller.
type SubmitResult struct {
	Job       registry.Job
	Video     *catalog.Video
	Candidate catalog.StreamCandidate
}

// Submit validates a watch URL, resolves the video, registers a job and
// starts its run. The job may wait in Pending until a worker slot frees.
func (o *Orchestrator) Submit(ctx context.Context, rawURL string) (SubmitResult, error) {
	if !youtube.ValidateURL(rawURL) {
		metrics.SubmitRejections.WithLabelValues("invalid_url").Inc()
		return SubmitResult{}, ErrInvalidURL
	}

	videoID := youtube.ExtractVideoID(rawURL)
	if videoID == "" {
		if youtube.IsPlaylistURL(rawURL) {
			logging.Debug("pipeline: rejecting playlist-only URL (list %s)", youtube.ExtractPlaylistID(rawURL))
		}
		metrics.SubmitRejections.WithLabelValues("unresolvable_id").Inc()
		return SubmitResult{}, ErrUnresolvableID
	}

	video, candidate, err := o.Resolve(ctx, videoID)
	if err != nil {
		metrics.SubmitRejections.WithLabelValues(rejectionReason(err)).Inc()
		return SubmitResult{}, err
	}

	job := o.registry.Create(registry.CreateParams{
		VideoID:            video.ID,
		Title:              video.Title,
		Author:             video.Author,
		DurationSeconds:    video.DurationSeconds,
		TargetFormat:       o.format,
		EstimatedSizeBytes: estimateOutputBytes(video.DurationSeconds),
	}, func(jobID string) (string, string, string) {
		tempName := store.TempFilename(jobID, video.ID)
		outputName := store.OutputFilename(video.Title, jobID, o.format)
		return o.store.Path(tempName), o.store.Path(outputName), outputName
	})

	metrics.JobsSubmitted.Inc()
	logging.Info("pipeline: job %s accepted for video %s (%q, %s)",
		job.ID, video.ID, video.Title, youtube.FormatDuration(video.DurationSeconds))

	go o.run(job, video, candidate)

	return SubmitResult{Job: job, Video: video, Candidate: candidate}, nil
}

// Resolve looks up a video and picks its best audio candidate.
func (o *Orchestrator) Resolve(ctx context.Context, videoID string) (*catalog.Video, catalog.StreamCandidate, error) {
	video, err := o.provider.Lookup(ctx, videoID)
	if err != nil {
		return nil, catalog.StreamCandidate{}, err
	}
	candidate, err := selector.BestAudio(video.Candidates)
	if err != nil {
		return nil, catalog.StreamCandidate{}, err
	}
	return video, candidate, nil
}

// run drives one job through fetch, transcode and publish. It owns the
// job's artifacts until a terminal state is reached.
func (o *Orchestrator) run(job registry.Job, video *catalog.Video, candidate catalog.StreamCandidate) {
	select {
	case o.sem <- struct{}{}:
	case <-o.ctx.Done():
		logging.Warn("pipeline: job %s abandoned before start: %v", job.ID, o.ctx.Err())
		return
	}
	defer func() { <-o.sem }()

	metrics.JobsActive.Inc()
	defer metrics.JobsActive.Dec()

	if err := o.registry.Transition(job.ID, registry.StateFetching); err != nil {
		logging.Error("pipeline: job %s: %v", job.ID, err)
		return
	}

	if err := o.fetch(job, video, candidate); err != nil {
		o.fail(job, registry.ErrorKindFetch, err)
		return
	}

	if err := o.registry.Transition(job.ID, registry.StateTranscoding); err != nil {
		logging.Error("pipeline: job %s: %v", job.ID, err)
		return
	}

	if err := o.transcodeJob(job, video); err != nil {
		o.fail(job, registry.ErrorKindTranscode, err)
		return
	}

	// The temp artifact goes before the state flips so a Completed job
	// never coexists with its partial.
	if err := o.store.Remove(job.TempPath); err != nil {
		logging.Warn("pipeline: job %s: removing temp artifact: %v", job.ID, err)
	}

	if info, err := os.Stat(job.OutputPath); err == nil {
		metrics.BytesPublished.Add(float64(info.Size()))
	}

	if err := o.registry.Transition(job.ID, registry.StateCompleted); err != nil {
		logging.Error("pipeline: job %s: %v", job.ID, err)
		return
	}

	metrics.JobsFinished.WithLabelValues("completed").Inc()
	logging.Info("pipeline: job %s completed (%s)", job.ID, job.OutputFilename)
}

// fetch writes the source stream to the job's temp artifact.
func (o *Orchestrator) fetch(job registry.Job, video *catalog.Video, candidate catalog.StreamCandidate) error {
	start := time.Now()

	stream, _, err := o.provider.OpenStream(o.ctx, video, candidate)
	if err != nil {
		return fmt.Errorf("opening source stream: %w", err)
	}
	defer stream.Close()

	f, err := os.Create(job.TempPath)
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}

	n, err := io.Copy(f, stream)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("fetching stream: %w", err)
	}

	metrics.BytesFetched.Add(float64(n))
	metrics.StageDuration.WithLabelValues("fetch").Observe(time.Since(start).Seconds())
	logging.Debug("pipeline: job %s fetched %s in %s",
		job.ID, youtube.FormatFileSize(n), time.Since(start).Round(time.Millisecond))
	return nil
}

// transcodeJob converts the temp artifact into the published output.
func (o *Orchestrator) transcodeJob(job registry.Job, video *catalog.Video) error {
	start := time.Now()

	opts := transcode.DefaultOptions(job.TargetFormat)
	opts.Title = video.Title
	opts.Artist = video.Author
	opts.DurationSeconds = video.DurationSeconds
	opts.OnProgress = func(percent int) {
		logging.Debug("pipeline: job %s transcoding %d%%", job.ID, percent)
	}

	if err := o.transcoder.TranscodeFile(o.ctx, job.ID, job.TempPath, job.OutputPath, opts); err != nil {
		return err
	}

	metrics.StageDuration.WithLabelValues("transcode").Observe(time.Since(start).Seconds())
	return nil
}

// fail marks a job Failed and removes whatever artifacts exist. Leaving
// no partial behind keeps the staging directory free of corrupt output.
func (o *Orchestrator) fail(job registry.Job, kind registry.ErrorKind, err error) {
	logging.Error("pipeline: job %s failed (%s): %v", job.ID, kind, err)

	if rmErr := o.store.Remove(job.TempPath); rmErr != nil {
		logging.Warn("pipeline: job %s: removing temp artifact: %v", job.ID, rmErr)
	}
	if rmErr := o.store.Remove(job.OutputPath); rmErr != nil {
		logging.Warn("pipeline: job %s: removing output artifact: %v", job.ID, rmErr)
	}

	if ferr := o.registry.Fail(job.ID, kind, err.Error()); ferr != nil {
		logging.Error("pipeline: job %s: %v", job.ID, ferr)
	}
	metrics.JobsFinished.WithLabelValues("failed").Inc()
}

// StreamDirect pipes a resolved source stream through the transcoder to
// the writer without an intermediate file. The caller sets headers from
// the resolved metadata before invoking it, so any error after the first
// written byte can only abort the connection.
func (o *Orchestrator) StreamDirect(ctx context.Context, video *catalog.Video, candidate catalog.StreamCandidate, w io.Writer) error {
	stream, _, err := o.provider.OpenStream(ctx, video, candidate)
	if err != nil {
		metrics.DirectStreamsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("opening source stream: %w", err)
	}
	defer stream.Close()

	opts := transcode.DefaultOptions(o.format)
	opts.Title = video.Title
	opts.Artist = video.Author

	err = o.transcoder.TranscodeStream(ctx, "stream-"+video.ID, stream, w, opts)
	switch {
	case err == nil:
		metrics.DirectStreamsTotal.WithLabelValues("completed").Inc()
	case ctx.Err() != nil:
		metrics.DirectStreamsTotal.WithLabelValues("aborted").Inc()
	default:
		metrics.DirectStreamsTotal.WithLabelValues("failed").Inc()
	}
	return err
}

// StreamRaw copies a resolved source stream to the writer byte for
// byte, with no transcoding. Used when the requested target matches the
// source container and the bytes can pass through untouched.
func (o *Orchestrator) StreamRaw(ctx context.Context, video *catalog.Video, candidate catalog.StreamCandidate, w io.Writer) error {
	stream, _, err := o.provider.OpenStream(ctx, video, candidate)
	if err != nil {
		metrics.DirectStreamsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("opening source stream: %w", err)
	}
	defer stream.Close()

	_, err = io.Copy(w, stream)
	switch {
	case err == nil:
		metrics.DirectStreamsTotal.WithLabelValues("completed").Inc()
	case ctx.Err() != nil:
		metrics.DirectStreamsTotal.WithLabelValues("aborted").Inc()
	default:
		metrics.DirectStreamsTotal.WithLabelValues("failed").Inc()
	}
	return err
}

// estimateOutputBytes predicts the published size from the duration at
// the fixed 192kbps output bitrate.
func estimateOutputBytes(durationSeconds int) int64 {
	return int64(durationSeconds) * 192_000 / 8
}

// rejectionReason labels a pre-job failure for the rejection counter.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	case errors.Is(err, catalog.ErrPrivate):
		return "private"
	case errors.Is(err, selector.ErrNoAudioFormat):
		return "no_audio_format"
	default:
		return "provider"
	}
}
