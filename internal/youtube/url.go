package youtube

import (
	"fmt"
	"regexp"
	"strings"
)

// WatchURL is the canonical watch-page URL for a video ID.
const WatchURL = "https://www.youtube.com/watch?v=%s"

var (
	urlPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)

	// Ordered extraction rules. The first capturing match wins; captures
	// stop at &, ?, # or a newline.
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/|youtube\.com/shorts/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
	}

	playlistIDPattern = regexp.MustCompile(`[?&]list=([^&]+)`)

	illegalFileChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	disallowedChars   = regexp.MustCompile(`[^\w\-_.]`)
	maxFilenameLength = 100
)

// ValidateURL reports whether s looks like a YouTube video URL. The
// scheme and www prefix are optional.
func ValidateURL(s string) bool {
	if s == "" {
		return false
	}
	return urlPattern.MatchString(s)
}

// ExtractVideoID pulls the video ID out of a YouTube URL. It recognizes
// watch pages, youtu.be short links, embed, /v/ and shorts paths.
// Returns the empty string when no rule matches.
func ExtractVideoID(s string) string {
	if s == "" {
		return ""
	}
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(s); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// IsPlaylistURL reports whether the URL refers to a playlist.
func IsPlaylistURL(s string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(s, "list=") || strings.Contains(s, "playlist")
}

// ExtractPlaylistID pulls the playlist ID out of a YouTube URL, or
// returns the empty string.
func ExtractPlaylistID(s string) string {
	if m := playlistIDPattern.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}

// SanitizeFilename turns an arbitrary title into a filesystem-safe name:
// characters illegal in filenames are stripped, whitespace collapses to
// underscores, anything left outside [A-Za-z0-9_.-] is dropped, and the
// result is capped at 100 characters. The function is idempotent.
func SanitizeFilename(s string) string {
	if s == "" {
		return "untitled"
	}

	s = illegalFileChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = disallowedChars.ReplaceAllString(s, "")
	if len(s) > maxFilenameLength {
		s = s[:maxFilenameLength]
	}
	return strings.TrimSpace(s)
}

var thumbnailQualities = map[string]string{
	"default":  "default",
	"medium":   "mqdefault",
	"high":     "hqdefault",
	"standard": "sddefault",
	"maxres":   "maxresdefault",
}

// ThumbnailURL returns the img.youtube.com thumbnail URL for a video.
// Unknown quality names fall back to medium.
func ThumbnailURL(videoID, quality string) string {
	if videoID == "" {
		return ""
	}
	name, ok := thumbnailQualities[quality]
	if !ok {
		name = "mqdefault"
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, name)
}
