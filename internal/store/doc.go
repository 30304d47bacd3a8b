// Package store manages the flat staging directory that holds download
// artifacts. Partial files carry a temp_ prefix; published files are
// named from the sanitized title plus the job ID. The prefix and the job
// ID embedded in every name are the only persisted state and remain
// parseable across process restarts.
//
// The Janitor periodically reaps artifacts older than the retention
// window, temp and published alike, so partial files from crashed runs
// are eventually cleaned up even without a failure transition. All
// removal goes through Store.Remove, which treats an already-missing
// file as success so concurrent cleanup never races into errors.
package store
