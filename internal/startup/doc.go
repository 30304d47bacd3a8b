// Package startup handles application initialization: configuration
// loading from environment variables, the startup banner and system
// information, route-table logging, and structured shutdown logging.
//
// Configuration is environment-variable driven with logged values and
// sensible defaults, so a bare `audio-downloader` invocation serves on
// :3001 with a local downloads directory.
package startup
