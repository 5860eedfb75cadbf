// package formatter renders playback and cache state for terminal output
// and exports library data to CSV and Markdown.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/desertthunder/cadence/internal/cache"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/persist"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/dustin/go-humanize"
)

// QueueToText renders a queue as a numbered listing with the current
// track marked.
func QueueToText(tracks []models.Track, current int) []byte {
	var buf bytes.Buffer

	if len(tracks) == 0 {
		buf.WriteString("Queue is empty\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("Queue: %d tracks\n\n", len(tracks)))
	for i, track := range tracks {
		marker := "  "
		if i == current {
			marker = "▸ "
		}
		buf.WriteString(fmt.Sprintf("%s%d. %s - %s [%s]\n",
			marker, i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration)))
	}

	return buf.Bytes()
}

// NowPlayingText renders the current track with its progress, or a
// placeholder when nothing is loaded.
func NowPlayingText(track *models.Track, position, duration float64, state string) []byte {
	var buf bytes.Buffer

	if track == nil {
		buf.WriteString("Nothing playing\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("%s - %s\n", track.Artist, track.Title))
	if track.Album != "" {
		buf.WriteString(fmt.Sprintf("Album: %s\n", track.Album))
	}
	buf.WriteString(fmt.Sprintf("[%s] %s / %s\n",
		state, shared.FormatPosition(position), shared.FormatPosition(duration)))

	return buf.Bytes()
}

// TracksToText renders a plain numbered track listing.
func TracksToText(tracks []models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))
	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes()
}

// RecentToText renders listening history, most recent first.
func RecentToText(entries []persist.RecentEntry) []byte {
	var buf bytes.Buffer

	if len(entries) == 0 {
		buf.WriteString("No listening history\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("Recently played: %d tracks\n\n", len(entries)))
	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n",
			i+1, entry.Artist, entry.Title, humanize.Time(entry.PlayedAt)))
	}

	return buf.Bytes()
}

// InventoryToText renders the cache inventory with humanized sizes and
// access times.
func InventoryToText(inventory []cache.Info) []byte {
	var buf bytes.Buffer

	if len(inventory) == 0 {
		buf.WriteString("Cache is empty\n")
		return buf.Bytes()
	}

	var total int64
	for _, info := range inventory {
		total += info.SizeBytes
	}

	buf.WriteString(fmt.Sprintf("Cache: %d entries, %s\n\n", len(inventory), humanize.Bytes(uint64(total))))
	for _, info := range inventory {
		buf.WriteString(fmt.Sprintf("%-32s %-18s %10s  accessed %s\n",
			info.Key, info.Kind, humanize.Bytes(uint64(info.SizeBytes)), humanize.Time(info.LastAccessedAt)))
	}

	return buf.Bytes()
}

// StatsToText renders per-kind cache statistics, largest first.
func StatsToText(stats map[string]cache.KindStats) []byte {
	var buf bytes.Buffer

	if len(stats) == 0 {
		buf.WriteString("Cache is empty\n")
		return buf.Bytes()
	}

	kinds := make([]string, 0, len(stats))
	for kind := range stats {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if stats[kinds[i]].TotalBytes != stats[kinds[j]].TotalBytes {
			return stats[kinds[i]].TotalBytes > stats[kinds[j]].TotalBytes
		}
		return kinds[i] < kinds[j]
	})

	for _, kind := range kinds {
		s := stats[kind]
		buf.WriteString(fmt.Sprintf("%-18s %4d entries  %10s\n",
			kind, s.Count, humanize.Bytes(uint64(s.TotalBytes))))
	}

	return buf.Bytes()
}

// TracksToCSV converts a track listing to CSV with columns: ID, Title,
// Artist, Album, Duration, Year, PlayCount
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "Year", "PlayCount"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
			strconv.Itoa(track.Year),
			strconv.Itoa(track.PlayCount),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaylistToMarkdown converts a playlist with its tracks to Markdown.
func PlaylistToMarkdown(playlist *models.PlaylistTracks) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Playlist.Name))

	if playlist.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", playlist.Playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(playlist.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range playlist.Tracks {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without tracks)
func ToMetadataJSON(playlist models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(playlist, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a playlist's tracks to CSV with an accompanying
// metadata JSON file.
//
// Defaults to playlist ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(playlist *models.PlaylistTracks, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = playlist.Playlist.ID
	}

	csvData, err := TracksToCSV(playlist.Tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(playlist.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a playlist to Markdown.
//
// Defaults to {playlist.ID}.md as the filename.
func WriteMarkdownExport(playlist *models.PlaylistTracks, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.md", playlist.Playlist.ID)
	}

	mdData, err := PlaylistToMarkdown(playlist)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}
