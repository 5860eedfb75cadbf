package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTracks Phase = iota
	FetchAlbums
	FetchArtists
	FetchPlaylists
	FetchPlaylistTracks
	PurgeCache
	EvictCache
)

func (p Phase) String() string {
	switch p {
	case FetchTracks:
		return "fetch_tracks"
	case FetchAlbums:
		return "fetch_albums"
	case FetchArtists:
		return "fetch_artists"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchPlaylistTracks:
		return "fetch_playlist_tracks"
	case PurgeCache:
		return "purge_cache"
	case EvictCache:
		return "evict_cache"
	default:
		return ""
	}
}

func datasetUpdate(phase Phase, step, total int, message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: message,
	}
}

func playlistTracksUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylistTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Warming playlist: %s...", step, total, name),
	}
}

func playlistFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylistTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func purgeUpdate(purged int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PurgeCache,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Purged %d expired entries", purged),
	}
}

func evictUpdate(evicted int, freed int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EvictCache,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Evicted %d entries (%d bytes)", evicted, freed),
	}
}
