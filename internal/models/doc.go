// Package models defines the domain entities shared across the playback core.
//
// The package contains lightweight structs representing remote catalog data:
//   - [Track] : Song metadata including duration and artwork
//   - [Album] / [Artist] : Catalog groupings
//   - [Playlist] / [PlaylistTracks] : Ordered user collections
//
// plus local-only state shapes:
//   - [RepeatMode] : queue boundary policy (off, one, all)
//   - [Settings] : persisted user preferences
//   - [QueueSnapshot] : the persisted form of a playback queue
//
// Everything here is a plain value type; persistence and mutation live in
// the store, cache, and player packages.
package models
