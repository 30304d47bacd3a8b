// Package registry is the in-memory, lifecycle-scoped job store. It owns
// the authoritative mutable Job records for the lifetime of the process:
// pipeline runs write their own job through validated state transitions,
// and the HTTP facade reads consistent snapshots for status polling.
//
// Job IDs are derived from a millisecond timestamp with a monotonic bump
// for same-millisecond submissions, so IDs are unique, sortable, and
// usable as collision-free artifact name components.
package registry
