// Package ui implements an interactive terminal player using bubbletea's
// Elm architecture.
//
// The TUI provides a three-view workflow:
//  1. [LibraryView] : Browse the track library and start playback
//  2. [QueueView] : Inspect and edit the playback queue
//  3. [NowPlayingView] : Monitor the current track with transport controls
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Playback state flows in one direction: key presses call session
// methods, and session snapshots come back asynchronously through a channel
// wired to the session's change callback, so the model never reads mutable
// playback state directly.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
