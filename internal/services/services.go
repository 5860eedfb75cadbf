package services

import (
	"context"

	"github.com/desertthunder/cadence/internal/models"
)

// Catalog defines the operations the playback core needs from the remote
// music catalog.
type Catalog interface {
	// Tracks retrieves the full library track listing.
	Tracks(ctx context.Context) ([]models.Track, error)

	// Albums retrieves the library's album groupings.
	Albums(ctx context.Context) ([]models.Album, error)

	// Artists retrieves the library's artists.
	Artists(ctx context.Context) ([]models.Artist, error)

	// Playlists retrieves the user's playlists without their tracks.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// PlaylistTracks retrieves a playlist together with its ordered tracks.
	PlaylistTracks(ctx context.Context, playlistID string) (*models.PlaylistTracks, error)

	// Search queries the catalog across tracks, albums, artists, and
	// playlists.
	Search(ctx context.Context, query string) (*SearchResults, error)

	// StreamURL resolves a track id to a playable stream location.
	StreamURL(ctx context.Context, trackID string) (string, error)

	// IncrementPlayCount reports a completed listen for trackID.
	IncrementPlayCount(ctx context.Context, trackID string) error
}

// SearchResults groups catalog search matches by entity kind.
type SearchResults struct {
	Tracks    []models.Track    `json:"tracks"`
	Albums    []models.Album    `json:"albums"`
	Artists   []models.Artist   `json:"artists"`
	Playlists []models.Playlist `json:"playlists"`
}

// Empty reports whether the search matched nothing at all.
func (r *SearchResults) Empty() bool {
	return len(r.Tracks) == 0 && len(r.Albums) == 0 && len(r.Artists) == 0 && len(r.Playlists) == 0
}

// StreamResolver adapts a [Catalog] to the playback session's resolver
// shape.
type StreamResolver struct {
	catalog Catalog
}

// NewStreamResolver wraps catalog for track URI resolution.
func NewStreamResolver(catalog Catalog) *StreamResolver {
	return &StreamResolver{catalog: catalog}
}

// ResolveURI resolves trackID to its stream location.
func (r *StreamResolver) ResolveURI(ctx context.Context, trackID string) (string, error) {
	return r.catalog.StreamURL(ctx, trackID)
}
