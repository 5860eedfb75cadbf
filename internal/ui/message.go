package ui

import (
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/player"
)

// tracksFetchedMsg carries the library listing loaded at startup.
type tracksFetchedMsg struct {
	tracks []models.Track
	err    error
}

// snapshotMsg carries a playback state change from the session.
type snapshotMsg player.Snapshot
