// Package streaming provides timeout-protected chunked writing to HTTP
// responses. Transcoded audio is pushed to clients of unknown quality:
// a stalled or vanished client must not pin an ffmpeg child or a
// goroutine forever, so every write is bounded by a write timeout and
// the stream as a whole by an idle timeout.
//
// The writer also tracks bytes written, which the direct-pipe handler
// uses to decide between an in-band JSON error (nothing sent yet) and
// aborting the transfer (payload already started).
package streaming
