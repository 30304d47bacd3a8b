// Package pipeline orchestrates the fetch-transcode-publish lifecycle
// of a download job. Submit validates a URL, resolves the video through
// the catalog, picks a source stream and registers a Pending job; a
// bounded pool of goroutines then runs each job through its stages,
// updating the registry as the single source of truth. The package also
// serves direct-pipe streaming, where the transcoded audio goes to the
// caller without touching disk.
package pipeline
