package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = queueItem{}
)

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title + " " + i.track.Artist }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.Duration))
}

// queueItem wraps a queue entry with its position so the active track can
// be marked.
type queueItem struct {
	track   models.Track
	index   int
	current bool
}

func (i queueItem) FilterValue() string { return i.track.Title }
func (i queueItem) Title() string {
	if i.current {
		return "▸ " + i.track.Title
	}
	return i.track.Title
}
func (i queueItem) Description() string {
	return fmt.Sprintf("%s • %s", i.track.Artist, shared.FormatDuration(i.track.Duration))
}
