package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cadence/internal/cache"
	"github.com/desertthunder/cadence/internal/persist"
	"github.com/desertthunder/cadence/internal/player"
	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/tasks"
	"github.com/desertthunder/cadence/internal/ui"
	"github.com/urfave/cli/v3"
)

// playTracker fans a finished play out to the remote catalog and the
// local listening history.
type playTracker struct {
	catalog     services.Catalog
	coordinator *persist.Coordinator
	session     *player.Session
}

func (p *playTracker) IncrementPlayCount(ctx context.Context, trackID string) error {
	if snap := p.session.Snapshot(); snap.Track != nil && snap.Track.ID == trackID {
		if err := p.coordinator.RecordPlayed(ctx, *snap.Track); err != nil {
			return err
		}
	}
	return p.catalog.IncrementPlayCount(ctx, trackID)
}

// Play launches the interactive terminal player.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	config := r.loadConfig(cmd.String("config"))

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/cadence-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	s, closer, err := r.openStore(config)
	if err != nil {
		return err
	}
	defer closer()

	manager := cache.NewManager(s, fileLogger)
	catalog := services.NewCachedCatalog(r.catalog, manager, config.Cache)
	coordinator := persist.New(s, config.Playback.SaveDebounce(), config.Playback.RecentLimit, fileLogger)
	defer coordinator.Flush()

	tracker := &playTracker{catalog: catalog, coordinator: coordinator}
	transport := player.NewSimTransport()

	playerConfig := player.DefaultConfig()
	if interval := config.Playback.PollInterval(); interval > 0 {
		playerConfig.PollInterval = interval
	}
	if config.Playback.RestartThreshold > 0 {
		playerConfig.RestartThreshold = config.Playback.RestartThreshold
	}

	session := player.NewSession(transport, services.NewStreamResolver(catalog), tracker, playerConfig, fileLogger)
	tracker.session = session

	// Simulated playback does not decode audio, so track length comes
	// from catalog metadata instead of the stream itself.
	transport.DurationFor = func(string) float64 {
		if snap := session.Snapshot(); snap.Track != nil && snap.Track.Duration > 0 {
			return float64(snap.Track.Duration)
		}
		return 180
	}

	if !cmd.Bool("no-restore") {
		restored := coordinator.Restore(ctx)
		session.SetRepeatMode(restored.Settings.RepeatMode)
		session.SetShuffle(restored.Settings.ShuffleEnabled)
		if len(restored.Queue.Tracks) > 0 {
			session.Restore(restored.Queue.Tracks, restored.Queue.Index, restored.Queue.Position)
		}
	}

	housekeeper := tasks.NewHousekeeper(manager, config.Cache, fileLogger)
	housekeeper.Start(ctx)
	defer housekeeper.Stop()

	model := ui.NewModel(ctx, catalog, session, coordinator)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running player: %w", err)
	}

	session.Clear()
	return nil
}
