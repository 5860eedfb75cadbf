package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cadence/internal/formatter"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/urfave/cli/v3"
)

// QueueShow prints the persisted playback queue and position.
func (r *Runner) QueueShow(ctx context.Context, cmd *cli.Command) error {
	coordinator, closer, err := r.openCoordinator(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	snapshot, err := coordinator.LoadQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshot, cmd.Bool("pretty"))
	}

	if len(snapshot.Tracks) == 0 {
		r.writePlainln("Queue is empty")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Queue (%d tracks, resume at %s)",
		len(snapshot.Tracks), shared.FormatPosition(snapshot.Position)))
	return r.writePlain("%s", formatter.QueueToText(snapshot.Tracks, snapshot.Index))
}

// QueueClear discards the persisted queue, keeping settings and history.
func (r *Runner) QueueClear(ctx context.Context, cmd *cli.Command) error {
	coordinator, closer, err := r.openCoordinator(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	if err := coordinator.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}

	r.writePlainln("✓ Queue cleared")
	return nil
}

// FavoritesList prints favorite track IDs.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	coordinator, closer, err := r.openCoordinator(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	favorites, err := coordinator.Favorites(ctx)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(favorites, false)
	}

	if len(favorites) == 0 {
		r.writePlainln("No favorites yet")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(favorites)))
	for _, id := range favorites {
		r.writePlain("%s\n", id)
	}
	return nil
}

// FavoritesAdd marks a track as favorite.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	if trackID == "" {
		return fmt.Errorf("%w: track ID", shared.ErrMissingArgument)
	}

	coordinator, closer, err := r.openCoordinator(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	if err := coordinator.AddFavorite(ctx, trackID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	r.writePlainln("✓ Added %s to favorites", trackID)
	return nil
}

// FavoritesRemove removes a track from favorites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	if trackID == "" {
		return fmt.Errorf("%w: track ID", shared.ErrMissingArgument)
	}

	coordinator, closer, err := r.openCoordinator(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	if err := coordinator.RemoveFavorite(ctx, trackID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	r.writePlainln("✓ Removed %s from favorites", trackID)
	return nil
}

// RecentList prints the listening history, most recent first.
func (r *Runner) RecentList(ctx context.Context, cmd *cli.Command) error {
	coordinator, closer, err := r.openCoordinator(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	recent, err := coordinator.Recent(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(recent, false)
	}

	if len(recent) == 0 {
		r.writePlainln("Nothing played yet")
		return nil
	}

	return r.writePlain("%s", formatter.RecentToText(recent))
}
