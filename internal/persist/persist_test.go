package persist

import (
	"context"
	"testing"
	"time"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/store"
)

func testCoordinator(t *testing.T, debounce time.Duration) (*Coordinator, *store.MemoryStore) {
	t.Helper()

	mem := store.NewMemoryStore()
	c := New(mem, debounce, 3, nil)
	return c, mem
}

func sampleSnapshot(index int) models.QueueSnapshot {
	return models.QueueSnapshot{
		Tracks: []models.Track{
			{ID: "a", Title: "First"},
			{ID: "b", Title: "Second"},
			{ID: "c", Title: "Third"},
		},
		Index:    index,
		Position: 12.5,
	}
}

func TestQueuePersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a snapshot", func(t *testing.T) {
		c, _ := testCoordinator(t, 0)

		c.QueueChanged(sampleSnapshot(1))

		loaded, err := c.LoadQueue(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(loaded.Tracks) != 3 || loaded.Index != 1 || loaded.Position != 12.5 {
			t.Errorf("unexpected snapshot: %+v", loaded)
		}
	})

	t.Run("nothing saved yields an empty snapshot", func(t *testing.T) {
		c, _ := testCoordinator(t, 0)

		loaded, err := c.LoadQueue(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(loaded.Tracks) != 0 || loaded.Index != 0 {
			t.Errorf("expected empty snapshot, got %+v", loaded)
		}
	})

	t.Run("a burst of edits collapses into the final write", func(t *testing.T) {
		c, mem := testCoordinator(t, 50*time.Millisecond)

		for i := 0; i < 3; i++ {
			c.QueueChanged(sampleSnapshot(i))
		}
		if mem.Len() != 0 {
			t.Errorf("expected no write inside the debounce window, got %d keys", mem.Len())
		}

		time.Sleep(150 * time.Millisecond)

		loaded, err := c.LoadQueue(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded.Index != 2 {
			t.Errorf("expected the last snapshot to win, got index %d", loaded.Index)
		}
	})

	t.Run("flush writes without waiting", func(t *testing.T) {
		c, _ := testCoordinator(t, time.Hour)

		c.QueueChanged(sampleSnapshot(0))
		c.Flush()

		loaded, err := c.LoadQueue(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(loaded.Tracks) != 3 {
			t.Errorf("expected the snapshot to be written, got %+v", loaded)
		}
	})

	t.Run("clear drops the snapshot but not the settings", func(t *testing.T) {
		c, _ := testCoordinator(t, 0)
		c.QueueChanged(sampleSnapshot(0))
		c.SaveSettings(models.Settings{RepeatMode: models.RepeatAll, Volume: 0.5})

		if err := c.ClearSession(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		loaded, err := c.LoadQueue(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(loaded.Tracks) != 0 {
			t.Errorf("expected empty snapshot after clear, got %+v", loaded)
		}

		settings, err := c.LoadSettings(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.RepeatMode != models.RepeatAll {
			t.Errorf("expected settings to survive, got %+v", settings)
		}
	})
}

func TestSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults apply before anything is saved", func(t *testing.T) {
		c, _ := testCoordinator(t, 0)

		settings, err := c.LoadSettings(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings != models.DefaultSettings() {
			t.Errorf("expected defaults, got %+v", settings)
		}
	})

	t.Run("saved settings round trip", func(t *testing.T) {
		c, _ := testCoordinator(t, 0)

		c.SaveSettings(models.Settings{RepeatMode: models.RepeatOne, ShuffleEnabled: true, Volume: 0.8})

		settings, err := c.LoadSettings(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.RepeatMode != models.RepeatOne || !settings.ShuffleEnabled || settings.Volume != 0.8 {
			t.Errorf("unexpected settings: %+v", settings)
		}
	})
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	c, _ := testCoordinator(t, 0)

	t.Run("add and check", func(t *testing.T) {
		if err := c.AddFavorite(ctx, "a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := c.AddFavorite(ctx, "b"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		fav, err := c.IsFavorite(ctx, "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !fav {
			t.Error("expected a to be a favorite")
		}
	})

	t.Run("adding twice keeps one entry", func(t *testing.T) {
		if err := c.AddFavorite(ctx, "a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		favorites, err := c.Favorites(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(favorites) != 2 {
			t.Errorf("expected 2 favorites, got %v", favorites)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := c.RemoveFavorite(ctx, "a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		fav, err := c.IsFavorite(ctx, "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fav {
			t.Error("expected a to no longer be a favorite")
		}
	})

	t.Run("removing an absent id is a no-op", func(t *testing.T) {
		if err := c.RemoveFavorite(ctx, "zzz"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	c, _ := testCoordinator(t, 0)

	play := func(id string) {
		t.Helper()
		if err := c.RecordPlayed(ctx, models.Track{ID: id, Title: id}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	t.Run("most recent comes first", func(t *testing.T) {
		play("a")
		play("b")

		recent, err := c.Recent(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recent) != 2 || recent[0].TrackID != "b" {
			t.Errorf("unexpected history: %+v", recent)
		}
	})

	t.Run("replays move to the front without duplicating", func(t *testing.T) {
		play("a")

		recent, err := c.Recent(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(recent))
		}
		if recent[0].TrackID != "a" || recent[1].TrackID != "b" {
			t.Errorf("unexpected order: %+v", recent)
		}
	})

	t.Run("history is capped", func(t *testing.T) {
		play("c")
		play("d")

		recent, err := c.Recent(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recent) != 3 {
			t.Fatalf("expected the cap of 3, got %d", len(recent))
		}
		if recent[0].TrackID != "d" || recent[2].TrackID != "a" {
			t.Errorf("unexpected order: %+v", recent)
		}
	})
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	c, mem := testCoordinator(t, 0)
	mem.FailWrites = true

	// None of these should panic or surface the store error.
	c.QueueChanged(sampleSnapshot(0))
	c.SaveSettings(models.DefaultSettings())
	c.Flush()

	if mem.Len() != 0 {
		t.Errorf("expected nothing stored, got %d keys", mem.Len())
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	c, _ := testCoordinator(t, 0)

	c.QueueChanged(sampleSnapshot(1))
	c.SaveSettings(models.Settings{RepeatMode: models.RepeatAll, Volume: 0.7})
	if err := c.AddFavorite(ctx, "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.RecordPlayed(ctx, models.Track{ID: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := c.Restore(ctx)

	if state.Queue.Index != 1 || len(state.Queue.Tracks) != 3 {
		t.Errorf("unexpected queue: %+v", state.Queue)
	}
	if state.Settings.RepeatMode != models.RepeatAll {
		t.Errorf("unexpected settings: %+v", state.Settings)
	}
	if len(state.Favorites) != 1 || state.Favorites[0] != "b" {
		t.Errorf("unexpected favorites: %v", state.Favorites)
	}
	if len(state.Recent) != 1 || state.Recent[0].TrackID != "a" {
		t.Errorf("unexpected history: %+v", state.Recent)
	}
}

func TestRestoreDeviceID(t *testing.T) {
	ctx := context.Background()
	c, _ := testCoordinator(t, 0)

	first := c.Restore(ctx)
	if first.Settings.DeviceID == "" {
		t.Fatal("expected a device id to be stamped on first restore")
	}

	second := c.Restore(ctx)
	if second.Settings.DeviceID != first.Settings.DeviceID {
		t.Errorf("expected a stable device id, got %s then %s",
			first.Settings.DeviceID, second.Settings.DeviceID)
	}

	settings, err := c.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.DeviceID != first.Settings.DeviceID {
		t.Errorf("expected the stamped id to persist, got %s", settings.DeviceID)
	}
}
