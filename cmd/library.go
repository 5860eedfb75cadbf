package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/cadence/internal/formatter"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryTracks lists every track in the catalog.
func (r *Runner) LibraryTracks(ctx context.Context, cmd *cli.Command) error {
	catalog, closer, err := r.openCatalog(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	tracks, err := catalog.Tracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Tracks (%d)", len(tracks)))
	return r.writePlain("%s", formatter.TracksToText(tracks))
}

// LibraryAlbums lists every album in the catalog.
func (r *Runner) LibraryAlbums(ctx context.Context, cmd *cli.Command) error {
	catalog, closer, err := r.openCatalog(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	albums, err := catalog.Albums(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch albums: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Albums (%d)", len(albums)))
	for _, album := range albums {
		r.writePlain("%s - %s (%d tracks)\n", album.Name, album.Artist, album.TrackCount)
	}
	return nil
}

// LibraryArtists lists every artist in the catalog.
func (r *Runner) LibraryArtists(ctx context.Context, cmd *cli.Command) error {
	catalog, closer, err := r.openCatalog(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	artists, err := catalog.Artists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch artists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Artists (%d)", len(artists)))
	for _, artist := range artists {
		r.writePlain("%s (%d tracks)\n", artist.Name, artist.TrackCount)
	}
	return nil
}

// LibraryPlaylists lists every playlist in the catalog.
func (r *Runner) LibraryPlaylists(ctx context.Context, cmd *cli.Command) error {
	catalog, closer, err := r.openCatalog(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	playlists, err := catalog.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, playlist := range playlists {
		r.writePlain("%s  %s (%d tracks)\n", playlist.ID, playlist.Name, playlist.TrackCount)
	}
	return nil
}

// LibrarySearch searches the catalog across all entity types.
func (r *Runner) LibrarySearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	catalog, closer, err := r.openCatalog(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	r.logger.Infof("searching catalog: %s", query)

	results, err := catalog.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if results.Empty() {
		r.writePlainln("No results for %q", query)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	if len(results.Tracks) > 0 {
		r.writePlain("\nTracks:\n%s", formatter.TracksToText(results.Tracks))
	}
	if len(results.Albums) > 0 {
		r.writePlain("\nAlbums:\n")
		for _, album := range results.Albums {
			r.writePlain("  %s - %s\n", album.Name, album.Artist)
		}
	}
	if len(results.Artists) > 0 {
		r.writePlain("\nArtists:\n")
		for _, artist := range results.Artists {
			r.writePlain("  %s\n", artist.Name)
		}
	}
	if len(results.Playlists) > 0 {
		r.writePlain("\nPlaylists:\n")
		for _, playlist := range results.Playlists {
			r.writePlain("  %s (%d tracks)\n", playlist.Name, playlist.TrackCount)
		}
	}
	return nil
}

// LibraryExport writes a playlist to disk as CSV or markdown.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID", shared.ErrMissingArgument)
	}

	catalog, closer, err := r.openCatalog(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	r.logger.Infof("exporting playlist: %s", playlistID)

	playlist, err := catalog.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist: %w", err)
	}

	switch format := cmd.String("format"); format {
	case "csv":
		result, err := formatter.WriteCSVExport(playlist, cmd.String("output"))
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		r.writePlainln("✓ Exported %s (%d tracks)", playlist.Playlist.Name, len(playlist.Tracks))
		r.writePlainln("  Tracks: %s", result.TracksFile)
		r.writePlainln("  Metadata: %s", result.MetadataFile)
	case "markdown", "md":
		path, err := formatter.WriteMarkdownExport(playlist, cmd.String("output"))
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		r.writePlainln("✓ Exported %s (%d tracks) to %s", playlist.Playlist.Name, len(playlist.Tracks), path)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}

	return nil
}
