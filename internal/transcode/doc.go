// Package transcode wraps the external ffmpeg binary behind two entry
// points: TranscodeFile converts a fully fetched temp artifact into the
// published output file, and TranscodeStream pipes source bytes through
// ffmpeg's stdin/stdout without touching disk.
//
// Every spawned process is tracked so a shutdown can kill live children,
// and file-mode conversions report best-effort progress parsed from
// ffmpeg's machine-readable progress output.
package transcode
