package youtube

import (
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{name: "standard watch URL", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", valid: true},
		{name: "no scheme", url: "www.youtube.com/watch?v=dQw4w9WgXcQ", valid: true},
		{name: "no www", url: "https://youtube.com/watch?v=dQw4w9WgXcQ", valid: true},
		{name: "http scheme", url: "http://youtube.com/watch?v=dQw4w9WgXcQ", valid: true},
		{name: "short link", url: "https://youtu.be/dQw4w9WgXcQ", valid: true},
		{name: "shorts", url: "https://www.youtube.com/shorts/dQw4w9WgXcQ", valid: true},
		{name: "bare domain", url: "https://www.youtube.com/", valid: false},
		{name: "other site", url: "https://vimeo.com/12345", valid: false},
		{name: "empty", url: "", valid: false},
		{name: "not a url", url: "dQw4w9WgXcQ", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateURL(tt.url); got != tt.valid {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, got, tt.valid)
			}
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		id   string
	}{
		{name: "watch URL", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", id: "dQw4w9WgXcQ"},
		{name: "watch URL with extra params", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", id: "dQw4w9WgXcQ"},
		{name: "v param not first", url: "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", id: "dQw4w9WgXcQ"},
		{name: "short link", url: "https://youtu.be/dQw4w9WgXcQ", id: "dQw4w9WgXcQ"},
		{name: "short link with query", url: "https://youtu.be/dQw4w9WgXcQ?t=10", id: "dQw4w9WgXcQ"},
		{name: "embed", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", id: "dQw4w9WgXcQ"},
		{name: "legacy v path", url: "https://www.youtube.com/v/dQw4w9WgXcQ", id: "dQw4w9WgXcQ"},
		{name: "shorts", url: "https://www.youtube.com/shorts/dQw4w9WgXcQ", id: "dQw4w9WgXcQ"},
		{name: "fragment terminates", url: "https://youtu.be/dQw4w9WgXcQ#start", id: "dQw4w9WgXcQ"},
		{name: "no match", url: "https://www.youtube.com/feed/subscriptions", id: ""},
		{name: "empty", url: "", id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.url); got != tt.id {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.id)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain title", input: "My Song", expected: "My_Song"},
		{name: "illegal characters stripped", input: `A<B>C:D"E/F\G|H?I*J`, expected: "ABCDEFGHIJ"},
		{name: "whitespace collapsed", input: "a  b\tc\nd", expected: "a_b_c_d"},
		{name: "unicode dropped", input: "Café ☕ Mix", expected: "Caf__Mix"},
		{name: "keeps dots and hyphens", input: "track-01.final", expected: "track-01.final"},
		{name: "empty", input: "", expected: "untitled"},
		{name: "path traversal", input: "../../etc/passwd", expected: "....etcpasswd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFilenameIdempotent(t *testing.T) {
	inputs := []string{
		"My Song (Official Video)",
		`weird:"/\|?*chars`,
		strings.Repeat("long title ", 50),
		"Café ☕ Mix",
		"",
	}

	for _, input := range inputs {
		once := SanitizeFilename(input)
		twice := SanitizeFilename(once)
		if once != twice {
			t.Errorf("SanitizeFilename not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestSanitizeFilenameLengthAndCharset(t *testing.T) {
	long := strings.Repeat("abcde ", 100)
	got := SanitizeFilename(long)
	if len(got) > 100 {
		t.Errorf("sanitized name longer than 100 chars: %d", len(got))
	}

	for _, r := range SanitizeFilename(`a/b\c:d*e?f"g<h>i|j k`) {
		if strings.ContainsRune(`<>:"/\|?*`, r) || r == ' ' {
			t.Errorf("reserved character %q survived sanitization", r)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		url string
		id  string
	}{
		{url: "https://www.youtube.com/playlist?list=PLabc123", id: "PLabc123"},
		{url: "https://www.youtube.com/watch?v=x&list=PLabc123&index=2", id: "PLabc123"},
		{url: "https://www.youtube.com/watch?v=x", id: ""},
	}

	for _, tt := range tests {
		if got := ExtractPlaylistID(tt.url); got != tt.id {
			t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tt.url, got, tt.id)
		}
	}
}

func TestIsPlaylistURL(t *testing.T) {
	if !IsPlaylistURL("https://www.youtube.com/playlist?list=PLabc123") {
		t.Error("expected playlist URL to be recognized")
	}
	if IsPlaylistURL("https://www.youtube.com/watch?v=x") {
		t.Error("watch URL misclassified as playlist")
	}
}

func TestThumbnailURL(t *testing.T) {
	tests := []struct {
		videoID  string
		quality  string
		expected string
	}{
		{"abc", "medium", "https://img.youtube.com/vi/abc/mqdefault.jpg"},
		{"abc", "maxres", "https://img.youtube.com/vi/abc/maxresdefault.jpg"},
		{"abc", "bogus", "https://img.youtube.com/vi/abc/mqdefault.jpg"},
		{"", "medium", ""},
	}

	for _, tt := range tests {
		if got := ThumbnailURL(tt.videoID, tt.quality); got != tt.expected {
			t.Errorf("ThumbnailURL(%q, %q) = %q, want %q", tt.videoID, tt.quality, got, tt.expected)
		}
	}
}
