package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"audio-downloader/internal/logging"
	"audio-downloader/internal/youtube"
)

// tempPrefix discriminates partial artifacts from published ones.
const tempPrefix = "temp_"

// Store owns the staging directory for download artifacts.
type Store struct {
	dir string
}

// New creates the staging directory if needed and returns a store for it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the staging directory path.
func (s *Store) Dir() string {
	return s.dir
}

// TempFilename names the partial artifact for a job. The job ID makes
// the name unique; the video ID keeps it greppable.
func TempFilename(jobID, videoID string) string {
	return fmt.Sprintf("%s%s_%s.webm", tempPrefix, jobID, videoID)
}

// OutputFilename names the published artifact for a job from its
// sanitized title, job ID and target format.
func OutputFilename(title, jobID, format string) string {
	return fmt.Sprintf("%s_%s.%s", youtube.SanitizeFilename(title), jobID, format)
}

// IsTemp reports whether a filename denotes a partial artifact.
func IsTemp(filename string) bool {
	return strings.HasPrefix(filename, tempPrefix)
}

// ParseJobID recovers the job ID embedded in an artifact filename, or
// returns the empty string for names that don't follow the convention.
func ParseJobID(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if rest, ok := strings.CutPrefix(name, tempPrefix); ok {
		// temp_<jobID>_<videoID>
		if idx := strings.Index(rest, "_"); idx != -1 {
			return digitsOnly(rest[:idx])
		}
		return digitsOnly(rest)
	}
	// <title>_<jobID>
	if idx := strings.LastIndex(name, "_"); idx != -1 {
		return digitsOnly(name[idx+1:])
	}
	return ""
}

func digitsOnly(s string) string {
	if s == "" {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}

// Path resolves a filename inside the staging directory. Any directory
// components are stripped so callers cannot escape the staging area.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Remove deletes an artifact. A file that is already gone counts as
// success, which keeps janitor and pipeline cleanup race-free.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err == nil {
		logging.Debug("store: removed %s", filepath.Base(path))
	}
	return nil
}

// Stat returns file info for a named artifact.
func (s *Store) Stat(filename string) (os.FileInfo, error) {
	return os.Stat(s.Path(filename))
}

// FindByDownloadID scans the staging directory for an artifact whose
// name contains the download ID, preferring published files over temp
// ones. This is the post-restart fallback for status queries; live jobs
// resolve through the registry instead.
func (s *Store) FindByDownloadID(downloadID string) (filename string, temp bool, ok bool) {
	if downloadID == "" {
		return "", false, false
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logging.Warn("store: reading staging directory: %v", err)
		return "", false, false
	}

	var tempMatch string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.Contains(name, downloadID) {
			continue
		}
		if IsTemp(name) {
			tempMatch = name
			continue
		}
		return name, false, true
	}
	if tempMatch != "" {
		return tempMatch, true, true
	}
	return "", false, false
}

// Stats reports artifact count and total bytes in the staging area.
func (s *Store) Stats() (count int, bytes int64) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		bytes += info.Size()
	}
	return count, bytes
}
