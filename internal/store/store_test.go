package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTempFilename(t *testing.T) {
	got := TempFilename("1700000000000", "dQw4w9WgXcQ")
	want := "temp_1700000000000_dQw4w9WgXcQ.webm"
	if got != want {
		t.Errorf("TempFilename = %q, want %q", got, want)
	}
	if !IsTemp(got) {
		t.Error("temp filename not recognized by IsTemp")
	}
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		jobID  string
		format string
		want   string
	}{
		{name: "plain", title: "My Song", jobID: "1700000000000", format: "mp3", want: "My_Song_1700000000000.mp3"},
		{name: "title sanitized", title: `a/b:c?`, jobID: "42", format: "mp3", want: "abc_42.mp3"},
		{name: "empty title", title: "", jobID: "42", format: "mp3", want: "untitled_42.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputFilename(tt.title, tt.jobID, tt.format)
			if got != tt.want {
				t.Errorf("OutputFilename = %q, want %q", got, tt.want)
			}
			if IsTemp(got) {
				t.Errorf("published filename %q classified as temp", got)
			}
		})
	}
}

func TestParseJobID(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{filename: "temp_1700000000000_dQw4w9WgXcQ.webm", want: "1700000000000"},
		{filename: "My_Song_1700000000000.mp3", want: "1700000000000"},
		{filename: "Title_with_many_parts_42.mp3", want: "42"},
		{filename: "untitled_7.mp3", want: "7"},
		{filename: "noconvention.mp3", want: ""},
		{filename: "trailing_letters_abc.mp3", want: ""},
	}

	for _, tt := range tests {
		if got := ParseJobID(tt.filename); got != tt.want {
			t.Errorf("ParseJobID(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestPathStripsDirectoryComponents(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	p := s.Path("../../etc/passwd")
	if filepath.Dir(p) != s.Dir() {
		t.Errorf("Path escaped the staging directory: %s", p)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path := s.Path("artifact_1.mp3")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(path); err != nil {
		t.Fatalf("first remove failed: %v", err)
	}
	if err := s.Remove(path); err != nil {
		t.Fatalf("second remove of missing file should succeed, got %v", err)
	}
}

func TestFindByDownloadID(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	writeArtifact(t, s, "temp_100_vid.webm")
	writeArtifact(t, s, "Song_200.mp3")

	tests := []struct {
		name       string
		downloadID string
		wantFile   string
		wantTemp   bool
		wantOK     bool
	}{
		{name: "published match", downloadID: "200", wantFile: "Song_200.mp3", wantTemp: false, wantOK: true},
		{name: "temp match", downloadID: "100", wantFile: "temp_100_vid.webm", wantTemp: true, wantOK: true},
		{name: "no match", downloadID: "300", wantOK: false},
		{name: "empty", downloadID: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, temp, ok := s.FindByDownloadID(tt.downloadID)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if file != tt.wantFile || temp != tt.wantTemp {
				t.Errorf("got (%q, %v), want (%q, %v)", file, temp, tt.wantFile, tt.wantTemp)
			}
		})
	}
}

func TestFindByDownloadIDPrefersPublished(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// Both a stale temp file and the published output carry the job ID.
	writeArtifact(t, s, "temp_500_vid.webm")
	writeArtifact(t, s, "Song_500.mp3")

	file, temp, ok := s.FindByDownloadID("500")
	if !ok || temp || file != "Song_500.mp3" {
		t.Errorf("expected published file to win, got (%q, %v, %v)", file, temp, ok)
	}
}

func TestStats(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	writeArtifactBytes(t, s, "a_1.mp3", 100)
	writeArtifactBytes(t, s, "b_2.mp3", 50)

	count, bytes := s.Stats()
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if bytes != 150 {
		t.Errorf("bytes = %d, want 150", bytes)
	}
}

func writeArtifact(t *testing.T, s *Store, name string) {
	t.Helper()
	writeArtifactBytes(t, s, name, 4)
}

func writeArtifactBytes(t *testing.T, s *Store, name string, size int) {
	t.Helper()
	if err := os.WriteFile(s.Path(name), make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}
