package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/cadence/internal/models"
	itesting "github.com/desertthunder/cadence/internal/testing"
)

func warmFixtures() *itesting.MockCatalog {
	return &itesting.MockCatalog{
		TrackList:  []models.Track{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}},
		AlbumList:  []models.Album{{ID: "al1"}},
		ArtistList: []models.Artist{{ID: "ar1"}, {ID: "ar2"}},
		PlaylistList: []models.Playlist{
			{ID: "p1", Name: "Mix"},
			{ID: "p2", Name: "Chill"},
		},
		PlaylistByID: map[string]*models.PlaylistTracks{
			"p1": {Playlist: models.Playlist{ID: "p1"}, Tracks: []models.Track{{ID: "t1"}}},
			"p2": {Playlist: models.Playlist{ID: "p2"}, Tracks: []models.Track{{ID: "t2"}}},
		},
	}
}

func TestWarmLibrary(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches every dataset", func(t *testing.T) {
		catalog := warmFixtures()
		engine := NewWarmEngine(catalog)

		result, err := engine.WarmLibrary(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.TrackCount != 3 || result.AlbumCount != 1 || result.ArtistCount != 2 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if result.PlaylistCount != 2 || result.WarmedPlaylists != 2 {
			t.Errorf("unexpected playlist counts: %+v", result)
		}
		if len(result.Errors) != 0 {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
		if catalog.CallCount("PlaylistTracks") != 2 {
			t.Errorf("expected 2 playlist fetches, got %d", catalog.CallCount("PlaylistTracks"))
		}
	})

	t.Run("a failing playlist does not abort the pass", func(t *testing.T) {
		catalog := warmFixtures()
		delete(catalog.PlaylistByID, "p2")
		engine := NewWarmEngine(catalog)

		result, err := engine.WarmLibrary(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.WarmedPlaylists != 1 {
			t.Errorf("expected 1 warmed playlist, got %d", result.WarmedPlaylists)
		}
		if len(result.Errors) != 1 || result.Errors[0].Dataset != "playlist:p2" {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("fails only when nothing could be fetched", func(t *testing.T) {
		catalog := &itesting.MockCatalog{Err: errors.New("catalog down")}
		engine := NewWarmEngine(catalog)

		result, err := engine.WarmLibrary(ctx, nil)
		if err == nil {
			t.Fatal("expected an error")
		}
		if !result.Failed() {
			t.Errorf("expected a failed result, got %+v", result)
		}
	})

	t.Run("reports progress without blocking", func(t *testing.T) {
		engine := NewWarmEngine(warmFixtures())

		// Unbuffered with no reader: updates must be dropped, not block.
		progress := make(chan ProgressUpdate)
		if _, err := engine.WarmLibrary(ctx, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("delivers progress to a listening channel", func(t *testing.T) {
		engine := NewWarmEngine(warmFixtures())

		progress := make(chan ProgressUpdate, 32)
		if _, err := engine.WarmLibrary(ctx, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) < 5 {
			t.Errorf("expected at least 5 updates, got %d", len(phases))
		}
		if phases[0] != FetchTracks {
			t.Errorf("expected the pass to start with tracks, got %s", phases[0])
		}
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		catalog := warmFixtures()
		engine := NewWarmEngine(catalog)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := engine.WarmLibrary(cancelled, nil); err == nil {
			t.Error("expected a context error")
		}
	})
}
