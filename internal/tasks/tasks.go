package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
)

// EndpointResult records a dataset that failed to warm.
type EndpointResult struct {
	Dataset string
	Error   error
}

// WarmResult summarises a cache warm-up pass.
type WarmResult struct {
	TrackCount      int              // Library tracks fetched
	AlbumCount      int              // Albums fetched
	ArtistCount     int              // Artists fetched
	PlaylistCount   int              // Playlists fetched
	WarmedPlaylists int              // Playlists whose tracks were prefetched
	Errors          []EndpointResult // Failed dataset fetches
}

// Failed reports whether every dataset failed, meaning the warm-up
// produced nothing usable.
func (r *WarmResult) Failed() bool {
	return r.TrackCount == 0 && r.AlbumCount == 0 && r.ArtistCount == 0 &&
		r.PlaylistCount == 0 && len(r.Errors) > 0
}

// WarmEngine prefetches catalog datasets through a caching catalog so
// later reads hit the local store. Point it at a [services.CachedCatalog];
// warming a raw client fetches without retaining anything.
type WarmEngine struct {
	catalog services.Catalog
}

// NewWarmEngine creates a warm engine over catalog.
func NewWarmEngine(catalog services.Catalog) *WarmEngine {
	return &WarmEngine{catalog: catalog}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// WarmLibrary fetches every catalog dataset, then each playlist's tracks.
// Individual dataset failures are collected rather than aborting the
// pass; the returned error is non-nil only when nothing could be fetched.
func (e *WarmEngine) WarmLibrary(ctx context.Context, progress chan<- ProgressUpdate) (*WarmResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	result := &WarmResult{}

	sendProgress(progress, datasetUpdate(FetchTracks, 1, 4, "Warming track library..."))
	tracks, err := e.catalog.Tracks(ctx)
	if err != nil {
		result.Errors = append(result.Errors, EndpointResult{Dataset: "tracks", Error: err})
	} else {
		result.TrackCount = len(tracks)
	}

	sendProgress(progress, datasetUpdate(FetchAlbums, 2, 4, "Warming albums..."))
	albums, err := e.catalog.Albums(ctx)
	if err != nil {
		result.Errors = append(result.Errors, EndpointResult{Dataset: "albums", Error: err})
	} else {
		result.AlbumCount = len(albums)
	}

	sendProgress(progress, datasetUpdate(FetchArtists, 3, 4, "Warming artists..."))
	artists, err := e.catalog.Artists(ctx)
	if err != nil {
		result.Errors = append(result.Errors, EndpointResult{Dataset: "artists", Error: err})
	} else {
		result.ArtistCount = len(artists)
	}

	sendProgress(progress, datasetUpdate(FetchPlaylists, 4, 4, "Warming playlists..."))
	playlists, err := e.catalog.Playlists(ctx)
	if err != nil {
		result.Errors = append(result.Errors, EndpointResult{Dataset: "playlists", Error: err})
		if result.Failed() {
			return result, fmt.Errorf("%w: all datasets failed", shared.ErrAPIRequest)
		}
		return result, nil
	}
	result.PlaylistCount = len(playlists)

	total := len(playlists)
	for i, playlist := range playlists {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sendProgress(progress, playlistTracksUpdate(i+1, total, playlist.Name))

		if _, err := e.catalog.PlaylistTracks(ctx, playlist.ID); err != nil {
			sendProgress(progress, playlistFailedUpdate(i+1, total, playlist.Name, err))
			result.Errors = append(result.Errors, EndpointResult{
				Dataset: "playlist:" + playlist.ID,
				Error:   err,
			})
			continue
		}
		result.WarmedPlaylists++
	}

	if result.Failed() {
		return result, fmt.Errorf("%w: all datasets failed", shared.ErrAPIRequest)
	}
	return result, nil
}
