package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/cadence/internal/cache"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/persist"
)

func samplePlaylist() *models.PlaylistTracks {
	return &models.PlaylistTracks{
		Playlist: models.Playlist{
			ID:          "test123",
			Name:        "Test Playlist",
			Description: "A test playlist",
			TrackCount:  2,
			Public:      true,
		},
		Tracks: []models.Track{
			{
				ID:       "track1",
				Title:    "Song One",
				Artist:   "Artist One",
				Album:    "Album One",
				Duration: 180,
			},
			{
				ID:       "track2",
				Title:    "Song Two",
				Artist:   "Artist Two",
				Album:    "Album Two",
				Duration: 240,
			},
		},
	}
}

func TestQueueToText(t *testing.T) {
	t.Run("marks the current track", func(t *testing.T) {
		output := string(QueueToText(samplePlaylist().Tracks, 1))

		if !strings.Contains(output, "Queue: 2 tracks") {
			t.Errorf("missing header, got: %s", output)
		}
		if !strings.Contains(output, "▸ 2. Artist Two - Song Two") {
			t.Errorf("missing current marker, got: %s", output)
		}
		if !strings.Contains(output, "[3:00]") {
			t.Errorf("missing duration, got: %s", output)
		}
	})

	t.Run("renders an empty queue", func(t *testing.T) {
		output := string(QueueToText(nil, 0))
		if !strings.Contains(output, "Queue is empty") {
			t.Errorf("unexpected output: %s", output)
		}
	})
}

func TestNowPlayingText(t *testing.T) {
	t.Run("renders track and progress", func(t *testing.T) {
		track := &models.Track{Title: "Song One", Artist: "Artist One", Album: "Album One"}
		output := string(NowPlayingText(track, 65, 180, "playing"))

		if !strings.Contains(output, "Artist One - Song One") {
			t.Errorf("missing track line, got: %s", output)
		}
		if !strings.Contains(output, "1:05 / 3:00") {
			t.Errorf("missing progress, got: %s", output)
		}
	})

	t.Run("renders a placeholder with no track", func(t *testing.T) {
		output := string(NowPlayingText(nil, 0, 0, "idle"))
		if !strings.Contains(output, "Nothing playing") {
			t.Errorf("unexpected output: %s", output)
		}
	})
}

func TestRecentToText(t *testing.T) {
	entries := []persist.RecentEntry{
		{TrackID: "t1", Title: "Song One", Artist: "Artist One", PlayedAt: time.Now().Add(-time.Hour)},
	}

	output := string(RecentToText(entries))
	if !strings.Contains(output, "Artist One - Song One") {
		t.Errorf("missing entry, got: %s", output)
	}
	if !strings.Contains(output, "ago") {
		t.Errorf("expected a humanized timestamp, got: %s", output)
	}
}

func TestCacheRendering(t *testing.T) {
	t.Run("InventoryToText", func(t *testing.T) {
		inventory := []cache.Info{
			{Key: "library", Kind: cache.KindLibrary, SizeBytes: 2048, LastAccessedAt: time.Now()},
			{Key: "search:beatles", Kind: cache.KindSearch, SizeBytes: 512, LastAccessedAt: time.Now()},
		}

		output := string(InventoryToText(inventory))
		if !strings.Contains(output, "Cache: 2 entries") {
			t.Errorf("missing header, got: %s", output)
		}
		if !strings.Contains(output, "library") || !strings.Contains(output, "search:beatles") {
			t.Errorf("missing entries, got: %s", output)
		}
		if !strings.Contains(output, "kB") {
			t.Errorf("expected humanized sizes, got: %s", output)
		}
	})

	t.Run("StatsToText orders by size", func(t *testing.T) {
		stats := map[string]cache.KindStats{
			cache.KindSearch:  {Count: 3, TotalBytes: 100},
			cache.KindLibrary: {Count: 1, TotalBytes: 5000},
		}

		output := string(StatsToText(stats))
		libraryAt := strings.Index(output, cache.KindLibrary)
		searchAt := strings.Index(output, cache.KindSearch)
		if libraryAt < 0 || searchAt < 0 || libraryAt > searchAt {
			t.Errorf("expected library before search, got: %s", output)
		}
	})

	t.Run("empty cache renders a placeholder", func(t *testing.T) {
		if !strings.Contains(string(InventoryToText(nil)), "Cache is empty") {
			t.Error("expected inventory placeholder")
		}
		if !strings.Contains(string(StatsToText(nil)), "Cache is empty") {
			t.Error("expected stats placeholder")
		}
	})
}

func TestTracksToCSV(t *testing.T) {
	data, err := TracksToCSV(samplePlaylist().Tracks)
	if err != nil {
		t.Fatalf("TracksToCSV failed: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "ID,Title,Artist,Album,Duration,Year,PlayCount") {
		t.Errorf("CSV missing headers, got: %s", output)
	}
	if !strings.Contains(output, "track1") || !strings.Contains(output, "Song Two") {
		t.Errorf("CSV missing rows, got: %s", output)
	}
}

func TestPlaylistToMarkdown(t *testing.T) {
	data, err := PlaylistToMarkdown(samplePlaylist())
	if err != nil {
		t.Fatalf("PlaylistToMarkdown failed: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "# Test Playlist") {
		t.Errorf("missing title, got: %s", output)
	}
	if !strings.Contains(output, "**Description**: A test playlist") {
		t.Errorf("missing description, got: %s", output)
	}
	if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00]") {
		t.Errorf("missing track line, got: %s", output)
	}
}

func TestFileExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "export")

		result, err := WriteCSVExport(samplePlaylist(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		for _, path := range []string{result.TracksFile, result.MetadataFile} {
			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected %s to exist: %v", path, err)
			}
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "playlist.md")

		written, err := WriteMarkdownExport(samplePlaylist(), path)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(content), "# Test Playlist") {
			t.Errorf("unexpected content: %s", content)
		}
	})
}
