package transcode

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"audio-downloader/internal/logging"
)

// Options configures one conversion. The defaults implement the fixed
// quality policy: 192kbps stereo at 44.1kHz.
type Options struct {
	BitrateKbps  int
	Channels     int
	SampleRateHz int
	Format       string

	// Title and Artist are embedded as container metadata when the
	// target format supports it.
	Title  string
	Artist string

	// DurationSeconds enables percentage progress reporting in file
	// mode. 0 disables it.
	DurationSeconds int
	OnProgress      func(percent int)
}

// DefaultOptions returns the fixed audio policy for a target format.
func DefaultOptions(format string) Options {
	return Options{
		BitrateKbps:  192,
		Channels:     2,
		SampleRateHz: 44100,
		Format:       format,
	}
}

// Transcoder invokes ffmpeg and tracks its live processes.
type Transcoder struct {
	ffmpegPath string

	processMu sync.Mutex
	processes map[string]*exec.Cmd
}

// New creates a transcoder using the given ffmpeg binary path.
func New(ffmpegPath string) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Transcoder{
		ffmpegPath: ffmpegPath,
		processes:  make(map[string]*exec.Cmd),
	}
}

// buildArgs assembles the ffmpeg argument list. Input and output are
// paths or pipe specifiers. Progress reporting goes to stdout, so it is
// only enabled in file mode where stdout is free.
func buildArgs(input, output string, opts Options, progress bool) []string {
	args := []string{
		"-y",
		"-i", input,
		"-vn",
		"-ar", strconv.Itoa(opts.SampleRateHz),
		"-ac", strconv.Itoa(opts.Channels),
		"-b:a", fmt.Sprintf("%dk", opts.BitrateKbps),
	}

	if opts.Format == "mp3" {
		args = append(args,
			"-acodec", "libmp3lame",
			"-id3v2_version", "3",
			"-write_id3v1", "1",
		)
		if opts.Title != "" {
			args = append(args, "-metadata", "title="+opts.Title)
		}
		if opts.Artist != "" {
			args = append(args, "-metadata", "artist="+opts.Artist)
		}
	}

	args = append(args, "-f", opts.Format)
	if progress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return append(args, output)
}

// TranscodeFile converts inputPath into outputPath. The key identifies
// the run for process tracking (the job ID in practice).
func (t *Transcoder) TranscodeFile(ctx context.Context, key, inputPath, outputPath string, opts Options) error {
	reportProgress := opts.OnProgress != nil && opts.DurationSeconds > 0
	args := buildArgs(inputPath, outputPath, opts, reportProgress)

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	var stdout io.ReadCloser
	if reportProgress {
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("creating stdout pipe: %w", err)
		}
		stdout = pipe
	}

	t.track(key, cmd)
	defer t.untrack(key)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	if reportProgress {
		go t.reportProgress(stdout, opts)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg error: %w - %s", err, stderrTail(&stderr))
	}
	return nil
}

// TranscodeStream pipes input through ffmpeg to output without an
// intermediate file. The function returns once ffmpeg exits and the
// output copy finishes; a failed copy (client gone) kills the child.
func (t *Transcoder) TranscodeStream(ctx context.Context, key string, input io.Reader, output io.Writer, opts Options) error {
	args := buildArgs("pipe:0", "pipe:1", opts, false)

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	cmd.Stdin = input

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}

	t.track(key, cmd)
	defer t.untrack(key)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	_, copyErr := io.Copy(output, stdout)
	if copyErr != nil {
		// ffmpeg keeps producing after the consumer fails; kill it
		// before Wait or Wait never returns.
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = cmd.Wait()
		return copyErr
	}
	if cmdErr := cmd.Wait(); cmdErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg error: %w - %s", cmdErr, stderrTail(&stderr))
	}
	return nil
}

// reportProgress reads ffmpeg's key=value progress stream and emits
// percentages.
func (t *Transcoder) reportProgress(r io.Reader, opts Options) {
	totalUs := int64(opts.DurationSeconds) * 1_000_000
	last := -1

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		us, ok := parseProgressLine(scanner.Text())
		if !ok {
			continue
		}
		percent := int(us * 100 / totalUs)
		if percent > 100 {
			percent = 100
		}
		if percent != last {
			last = percent
			opts.OnProgress(percent)
		}
	}
}

// parseProgressLine extracts the elapsed output time from one progress
// line. ffmpeg's out_time_ms key reports microseconds, not
// milliseconds.
func parseProgressLine(line string) (int64, bool) {
	value, ok := strings.CutPrefix(line, "out_time_ms=")
	if !ok {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	return us, true
}

// stderrTail keeps error messages bounded; ffmpeg is chatty.
func stderrTail(buf *bytes.Buffer) string {
	const max = 2048
	s := strings.TrimSpace(buf.String())
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}

func (t *Transcoder) track(key string, cmd *exec.Cmd) {
	t.processMu.Lock()
	t.processes[key] = cmd
	t.processMu.Unlock()
}

func (t *Transcoder) untrack(key string) {
	t.processMu.Lock()
	delete(t.processes, key)
	t.processMu.Unlock()
}

// ActiveProcesses returns the number of live ffmpeg children.
func (t *Transcoder) ActiveProcesses() int {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	return len(t.processes)
}

// Cleanup kills all live ffmpeg processes. Called on shutdown.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for key, cmd := range t.processes {
		if cmd.Process != nil {
			logging.Info("killing transcode process for %s", key)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill transcode process for %s: %v", key, err)
			}
		}
	}
}
