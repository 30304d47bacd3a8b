package transcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("mp3")
	if opts.BitrateKbps != 192 {
		t.Errorf("BitrateKbps = %d, want 192", opts.BitrateKbps)
	}
	if opts.Channels != 2 {
		t.Errorf("Channels = %d, want 2", opts.Channels)
	}
	if opts.SampleRateHz != 44100 {
		t.Errorf("SampleRateHz = %d, want 44100", opts.SampleRateHz)
	}
	if opts.Format != "mp3" {
		t.Errorf("Format = %q, want mp3", opts.Format)
	}
}

func TestBuildArgsMP3(t *testing.T) {
	opts := DefaultOptions("mp3")
	opts.Title = "Test Song"
	opts.Artist = "Test Artist"

	args := buildArgs("/tmp/in.webm", "/tmp/out.mp3", opts, true)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-y",
		"-i /tmp/in.webm",
		"-vn",
		"-ar 44100",
		"-ac 2",
		"-b:a 192k",
		"-acodec libmp3lame",
		"-id3v2_version 3",
		"-write_id3v1 1",
		"-metadata title=Test Song",
		"-metadata artist=Test Artist",
		"-f mp3",
		"-progress pipe:1",
		"-nostats",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}

	if args[len(args)-1] != "/tmp/out.mp3" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}
}

func TestBuildArgsNonMP3SkipsID3(t *testing.T) {
	opts := DefaultOptions("wav")
	opts.Title = "Test"

	args := buildArgs("pipe:0", "pipe:1", opts, false)
	joined := strings.Join(args, " ")

	for _, bad := range []string{"libmp3lame", "id3v2_version", "-metadata", "-progress"} {
		if strings.Contains(joined, bad) {
			t.Errorf("args should not contain %q for wav: %s", bad, joined)
		}
	}
	if !strings.Contains(joined, "-f wav") {
		t.Errorf("args missing -f wav: %s", joined)
	}
}

func TestBuildArgsInputBeforeCodecFlags(t *testing.T) {
	args := buildArgs("in.webm", "out.mp3", DefaultOptions("mp3"), false)

	inputIdx, codecIdx := -1, -1
	for i, a := range args {
		if a == "in.webm" {
			inputIdx = i
		}
		if a == "libmp3lame" {
			codecIdx = i
		}
	}
	if inputIdx < 0 || codecIdx < 0 || inputIdx > codecIdx {
		t.Errorf("input must precede codec flags: %v", args)
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		line   string
		wantUs int64
		wantOK bool
	}{
		{"out_time_ms=5000000", 5000000, true},
		{"out_time_ms=0", 0, true},
		{"out_time_ms=123456789\r", 123456789, true},
		{"out_time_ms=-1", 0, false},
		{"out_time_ms=N/A", 0, false},
		{"frame=100", 0, false},
		{"speed=2.5x", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		us, ok := parseProgressLine(tt.line)
		if ok != tt.wantOK || us != tt.wantUs {
			t.Errorf("parseProgressLine(%q) = %d, %v, want %d, %v",
				tt.line, us, ok, tt.wantUs, tt.wantOK)
		}
	}
}

func TestReportProgress(t *testing.T) {
	var got []int
	opts := Options{
		DurationSeconds: 10,
		OnProgress:      func(p int) { got = append(got, p) },
	}

	input := strings.NewReader(strings.Join([]string{
		"frame=1",
		"out_time_ms=2500000",
		"out_time_ms=5000000",
		"out_time_ms=5000000",
		"out_time_ms=10000000",
		"out_time_ms=12000000",
		"progress=end",
	}, "\n"))

	tr := New("")
	tr.reportProgress(input, opts)

	want := []int{25, 50, 100}
	if len(got) != len(want) {
		t.Fatalf("progress calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("progress[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// failAfterWriter accepts a fixed number of writes, then errors. It
// stands in for a response writer whose client went away mid-stream.
type failAfterWriter struct {
	writes int
	limit  int
}

func (w *failAfterWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.limit {
		return 0, errors.New("consumer gone")
	}
	return len(p), nil
}

func TestTranscodeStreamConsumerFailureKillsChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg requires a POSIX shell")
	}

	// A stand-in encoder that produces output forever. If the child is
	// not killed when the copy fails, Wait blocks on the full pipe and
	// TranscodeStream never returns.
	script := filepath.Join(t.TempDir(), "ffmpeg")
	body := "#!/bin/sh\nwhile :; do echo xxxxxxxxxxxxxxxx; done\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	tr := New(script)
	sink := &failAfterWriter{limit: 1}

	done := make(chan error, 1)
	go func() {
		done <- tr.TranscodeStream(context.Background(), "stream-test",
			strings.NewReader("input"), sink, DefaultOptions("mp3"))
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after consumer failure")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("TranscodeStream did not return after consumer failure")
	}

	if tr.ActiveProcesses() != 0 {
		t.Errorf("ActiveProcesses = %d, want 0", tr.ActiveProcesses())
	}
}

func TestNewDefaultsPath(t *testing.T) {
	tr := New("")
	if tr.ffmpegPath != "ffmpeg" {
		t.Errorf("ffmpegPath = %q, want ffmpeg", tr.ffmpegPath)
	}
	if tr.ActiveProcesses() != 0 {
		t.Errorf("ActiveProcesses = %d, want 0", tr.ActiveProcesses())
	}
}
