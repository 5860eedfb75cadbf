package tasks

import (
	"context"
	"testing"

	"github.com/desertthunder/cadence/internal/cache"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/store"
)

func testHousekeeper(t *testing.T, config shared.CacheConfig) (*Housekeeper, *cache.Manager) {
	t.Helper()

	manager := cache.NewManager(store.NewMemoryStore(), shared.NewLogger(nil))
	return NewHousekeeper(manager, config, shared.NewLogger(nil)), manager
}

func TestHousekeeperRunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("purges everything past the default ttl", func(t *testing.T) {
		// A zero TTL makes every entry expired immediately.
		keeper, manager := testHousekeeper(t, shared.CacheConfig{
			MaxTotalBytes:  1 << 20,
			DefaultTTLMins: 0,
		})
		manager.Put(ctx, "a", "payload", cache.KindGeneric)
		manager.Put(ctx, "b", "payload", cache.KindGeneric)

		result, err := keeper.RunOnce(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Purged != 2 {
			t.Errorf("expected 2 purged, got %d", result.Purged)
		}
	})

	t.Run("evicts down to the byte budget", func(t *testing.T) {
		keeper, manager := testHousekeeper(t, shared.CacheConfig{
			MaxTotalBytes:  24,
			DefaultTTLMins: 60,
			ProtectedKeys:  []string{"keep"},
		})
		manager.Put(ctx, "keep", "0123456789", cache.KindLibrary)
		manager.Put(ctx, "a", "0123456789", cache.KindGeneric)
		manager.Put(ctx, "b", "0123456789", cache.KindGeneric)

		result, err := keeper.RunOnce(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Eviction.EvictedCount == 0 {
			t.Error("expected at least one eviction")
		}

		total, err := manager.TotalSize(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total > 24 {
			t.Errorf("expected the cache at or under budget, got %d bytes", total)
		}

		var kept string
		if !manager.GetInto(ctx, "keep", shared.CacheConfig{DefaultTTLMins: 60}.DefaultTTL(), &kept) {
			t.Error("expected the protected key to survive")
		}
	})

	t.Run("a healthy cache is left alone", func(t *testing.T) {
		keeper, manager := testHousekeeper(t, shared.CacheConfig{
			MaxTotalBytes:  1 << 20,
			DefaultTTLMins: 60,
		})
		manager.Put(ctx, "a", "payload", cache.KindGeneric)

		result, err := keeper.RunOnce(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Purged != 0 || result.Eviction.EvictedCount != 0 {
			t.Errorf("expected a no-op pass, got %+v", result)
		}
	})

	t.Run("reports both phases as progress", func(t *testing.T) {
		keeper, manager := testHousekeeper(t, shared.CacheConfig{
			MaxTotalBytes:  1 << 20,
			DefaultTTLMins: 0,
		})
		manager.Put(ctx, "a", "payload", cache.KindGeneric)

		progress := make(chan ProgressUpdate, 4)
		if _, err := keeper.RunOnce(ctx, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) != 2 || phases[0] != PurgeCache || phases[1] != EvictCache {
			t.Errorf("unexpected phases: %v", phases)
		}
	})
}

func TestHousekeeperLifecycle(t *testing.T) {
	keeper, _ := testHousekeeper(t, shared.CacheConfig{
		MaxTotalBytes:  1 << 20,
		DefaultTTLMins: 60,
		SweepMins:      60,
	})

	ctx := context.Background()
	keeper.Start(ctx)
	keeper.Start(ctx) // second start is a no-op
	keeper.Stop()
	keeper.Stop() // second stop is a no-op
}
