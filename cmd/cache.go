package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cadence/internal/formatter"
	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/tasks"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// CacheList prints every cached entry with its size and access times.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	manager, closer, err := r.openCache(r.loadConfig(cmd.String("config")))
	if err != nil {
		return err
	}
	defer closer()

	inventory, err := manager.Inventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache inventory: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(inventory, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.InventoryToText(inventory))
}

// CacheStats prints cache totals grouped by entry kind.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	manager, closer, err := r.openCache(config)
	if err != nil {
		return err
	}
	defer closer()

	stats, err := manager.StatsByKind(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	total, err := manager.TotalSize(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache size: %w", err)
	}

	r.writePlain("%s", formatter.StatsToText(stats))
	r.writePlain("\nTotal: %s of %s budget\n",
		humanize.Bytes(uint64(total)), humanize.Bytes(uint64(config.Cache.MaxTotalBytes)))
	return nil
}

// CachePurge removes expired cache entries.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	manager, closer, err := r.openCache(config)
	if err != nil {
		return err
	}
	defer closer()

	r.logger.Info("purging expired cache entries", "ttl", config.Cache.DefaultTTL())

	purged, err := manager.PurgeExpired(ctx, config.Cache.DefaultTTL())
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	r.writePlainln("✓ Purged %d expired entries", purged)
	return nil
}

// CacheEvict evicts least-recently-used entries until the cache fits its byte budget.
func (r *Runner) CacheEvict(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	manager, closer, err := r.openCache(config)
	if err != nil {
		return err
	}
	defer closer()

	r.logger.Info("evicting cache entries", "budget", config.Cache.MaxTotalBytes)

	result, err := manager.EvictLRU(ctx, config.Cache.MaxTotalBytes, config.Cache.ProtectedKeys)
	if err != nil {
		return fmt.Errorf("eviction failed: %w", err)
	}

	r.writePlainln("✓ Evicted %d entries, freed %s", result.EvictedCount, humanize.Bytes(uint64(result.FreedBytes)))
	return nil
}

// CacheClear removes cached entries, keeping protected ones unless --all is set.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	manager, closer, err := r.openCache(config)
	if err != nil {
		return err
	}
	defer closer()

	protected := config.Cache.ProtectedKeys
	if cmd.Bool("all") {
		protected = nil
	}

	removed, err := manager.ClearAllExcept(ctx, protected)
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	r.writePlainln("✓ Removed %d cached entries", removed)
	return nil
}

// CacheWarm prefetches the full catalog through the read-through cache.
func (r *Runner) CacheWarm(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	catalog, closer, err := r.openCatalog(config)
	if err != nil {
		return err
	}
	defer closer()

	if _, ok := catalog.(*services.CachedCatalog); !ok {
		r.logger.Warn("store unavailable, warm results will not persist")
	}

	r.logger.Info("warming catalog cache")

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	engine := tasks.NewWarmEngine(catalog)
	result, err := engine.WarmLibrary(ctx, progress)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}

	r.writePlainln("✓ Cache warmed")
	r.writePlainln("  Tracks: %d  Albums: %d  Artists: %d  Playlists: %d (%d prefetched)",
		result.TrackCount, result.AlbumCount, result.ArtistCount, result.PlaylistCount, result.WarmedPlaylists)
	for _, failure := range result.Errors {
		r.writePlainln("  ✗ %s: %v", failure.Dataset, failure.Error)
	}
	return nil
}
