// Package player implements the playback session: a state machine that
// drives a [Transport] through an ordered queue, polling progress and
// advancing tracks as they finish.
//
// The session serializes all mutation behind one mutex and stamps every
// load with a generation id, so a completion arriving from a superseded
// load can never clobber state set by a later one.
package player
