package models

import "fmt"

// Track represents a playable song from the remote catalog.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	AlbumArtist string `json:"album_artist,omitempty"`
	TrackNumber int    `json:"track_number,omitempty"`
	DiscNumber  int    `json:"disc_number,omitempty"`
	Year        int    `json:"year,omitempty"`
	Duration    int    `json:"duration"` // Duration in seconds
	ArtworkURL  string `json:"artwork_url,omitempty"`
	PlayCount   int    `json:"play_count,omitempty"`
}

// Album represents a catalog album grouping.
type Album struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Year       int    `json:"year,omitempty"`
	TrackCount int    `json:"track_count"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}

// Artist represents a catalog artist.
type Artist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// Playlist represents playlist metadata from the remote catalog.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// PlaylistTracks pairs playlist metadata with its full track listing.
type PlaylistTracks struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// RepeatMode governs behaviour at queue boundaries and per-track completion.
type RepeatMode int

const (
	// RepeatOff stops playback once the queue is exhausted.
	RepeatOff RepeatMode = iota
	// RepeatAll wraps around at either end of the queue.
	RepeatAll
	// RepeatOne replays the current track indefinitely.
	RepeatOne
)

// String returns the string representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// ParseRepeatMode converts a persisted string back into a [RepeatMode].
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch s {
	case "off":
		return RepeatOff, nil
	case "all":
		return RepeatAll, nil
	case "one":
		return RepeatOne, nil
	default:
		return RepeatOff, fmt.Errorf("unknown repeat mode %q", s)
	}
}

// Next cycles off → all → one → off.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// MarshalText implements encoding.TextMarshaler so repeat modes persist as
// their string names rather than raw integers.
func (m RepeatMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RepeatMode) UnmarshalText(text []byte) error {
	mode, err := ParseRepeatMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Settings holds persisted user preferences. DeviceID identifies this
// installation to the remote catalog; it is stamped on first restore and
// never regenerated.
type Settings struct {
	DeviceID       string     `json:"device_id,omitempty"`
	RepeatMode     RepeatMode `json:"repeat_mode"`
	ShuffleEnabled bool       `json:"shuffle_enabled"`
	Volume         float64    `json:"volume"`
}

// DefaultSettings returns the settings used before any are persisted.
func DefaultSettings() Settings {
	return Settings{RepeatMode: RepeatOff, ShuffleEnabled: false, Volume: 1.0}
}

// QueueSnapshot is the persisted form of a playback queue: the ordered
// tracks, the active index, and the last known position within that track.
type QueueSnapshot struct {
	Tracks   []Track `json:"tracks"`
	Index    int     `json:"index"`
	Position float64 `json:"position"`
}
