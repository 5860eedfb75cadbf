// Package queue implements the pure ordering algorithms behind the playback
// queue: shuffled construction, boundary-aware index stepping, and
// non-mutating sequence edits. Nothing here performs I/O or holds state;
// the playback session owns all mutation.
package queue
