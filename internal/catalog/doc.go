// Package catalog defines the boundary to the metadata/stream-catalog
// provider: given a video ID it resolves title, author, duration,
// thumbnails and the list of stream candidates, and it opens the byte
// stream for a chosen candidate.
//
// The default implementation talks to YouTube through
// github.com/kkdai/youtube/v2. Everything above this package depends only
// on the Provider interface, so tests substitute fakes.
package catalog
