// Package youtube contains pure helpers for working with YouTube URLs
// and the filenames derived from video titles: URL validation, video and
// playlist ID extraction, filesystem-safe title sanitization, and
// human-readable duration/size formatting.
//
// Nothing in this package performs I/O or holds state; every function is
// deterministic on its inputs.
package youtube
