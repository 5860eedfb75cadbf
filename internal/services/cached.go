// Read-through caching layer over any [Catalog] implementation.
package services

import (
	"context"

	"github.com/desertthunder/cadence/internal/cache"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
)

// Cache keys for each catalog dataset. Playlist tracks and searches get
// a per-entity suffix.
const (
	libraryKey        = "library"
	albumsKey         = "albums"
	artistsKey        = "artists"
	playlistsKey      = "playlists"
	playlistKeyPrefix = "playlist:"
	searchKeyPrefix   = "search:"
)

// CachedCatalog wraps a [Catalog] with read-through caching. Library
// datasets share one TTL; search results get their own, shorter one.
// Cache writes are best effort, so a failing store degrades to
// pass-through rather than breaking catalog access.
type CachedCatalog struct {
	catalog Catalog
	cache   *cache.Manager
	config  shared.CacheConfig
}

// NewCachedCatalog layers manager over catalog using the TTLs in config.
func NewCachedCatalog(catalog Catalog, manager *cache.Manager, config shared.CacheConfig) *CachedCatalog {
	return &CachedCatalog{
		catalog: catalog,
		cache:   manager,
		config:  config,
	}
}

// Tracks returns the cached library listing, fetching on a miss.
func (c *CachedCatalog) Tracks(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track
	if c.cache.GetInto(ctx, libraryKey, c.config.DefaultTTL(), &tracks) {
		return tracks, nil
	}

	tracks, err := c.catalog.Tracks(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Put(ctx, libraryKey, tracks, cache.KindLibrary)
	return tracks, nil
}

// Albums returns the cached album listing, fetching on a miss.
func (c *CachedCatalog) Albums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	if c.cache.GetInto(ctx, albumsKey, c.config.DefaultTTL(), &albums) {
		return albums, nil
	}

	albums, err := c.catalog.Albums(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Put(ctx, albumsKey, albums, cache.KindLibrary)
	return albums, nil
}

// Artists returns the cached artist listing, fetching on a miss.
func (c *CachedCatalog) Artists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if c.cache.GetInto(ctx, artistsKey, c.config.DefaultTTL(), &artists) {
		return artists, nil
	}

	artists, err := c.catalog.Artists(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Put(ctx, artistsKey, artists, cache.KindLibrary)
	return artists, nil
}

// Playlists returns the cached playlist listing, fetching on a miss.
func (c *CachedCatalog) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if c.cache.GetInto(ctx, playlistsKey, c.config.DefaultTTL(), &playlists) {
		return playlists, nil
	}

	playlists, err := c.catalog.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Put(ctx, playlistsKey, playlists, cache.KindLibrary)
	return playlists, nil
}

// PlaylistTracks returns the cached track listing for one playlist,
// fetching on a miss.
func (c *CachedCatalog) PlaylistTracks(ctx context.Context, playlistID string) (*models.PlaylistTracks, error) {
	key := playlistKeyPrefix + playlistID

	var playlist models.PlaylistTracks
	if c.cache.GetInto(ctx, key, c.config.DefaultTTL(), &playlist) {
		return &playlist, nil
	}

	fetched, err := c.catalog.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	c.cache.Put(ctx, key, fetched, cache.KindPlaylistTracks)
	return fetched, nil
}

// Search returns cached results for query, fetching on a miss. Searches
// use the shorter search TTL since result relevance decays quickly.
func (c *CachedCatalog) Search(ctx context.Context, query string) (*SearchResults, error) {
	key := searchKeyPrefix + query

	var results SearchResults
	if c.cache.GetInto(ctx, key, c.config.SearchTTL(), &results) {
		return &results, nil
	}

	fetched, err := c.catalog.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	c.cache.Put(ctx, key, fetched, cache.KindSearch)
	return fetched, nil
}

// StreamURL always resolves against the live catalog; stream locations
// are typically short-lived signed URLs.
func (c *CachedCatalog) StreamURL(ctx context.Context, trackID string) (string, error) {
	return c.catalog.StreamURL(ctx, trackID)
}

// IncrementPlayCount passes through and invalidates the cached library
// so play counts refresh on the next read.
func (c *CachedCatalog) IncrementPlayCount(ctx context.Context, trackID string) error {
	if err := c.catalog.IncrementPlayCount(ctx, trackID); err != nil {
		return err
	}

	c.cache.Invalidate(ctx, libraryKey)
	return nil
}

// InvalidateLibrary drops every cached library dataset, forcing fresh
// fetches on the next reads.
func (c *CachedCatalog) InvalidateLibrary(ctx context.Context) {
	for _, key := range []string{libraryKey, albumsKey, artistsKey, playlistsKey} {
		c.cache.Invalidate(ctx, key)
	}
}

// InvalidatePlaylist drops the cached track listing for one playlist.
func (c *CachedCatalog) InvalidatePlaylist(ctx context.Context, playlistID string) {
	c.cache.Invalidate(ctx, playlistKeyPrefix+playlistID)
}
