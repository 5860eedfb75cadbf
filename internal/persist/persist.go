// package persist coordinates writing playback state to the key-value
// store. Queue snapshots are debounced so rapid edits collapse into one
// write; settings, favorites, and listening history write through
// immediately. All writes are best effort: a failed write is logged and
// playback carries on.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/store"
)

const (
	queueKey     = "session:queue"
	settingsKey  = "session:settings"
	favoritesKey = "session:favorites"
	recentKey    = "session:recent"
)

// RecentEntry records one listen in the play history.
type RecentEntry struct {
	TrackID  string    `json:"track_id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	PlayedAt time.Time `json:"played_at"`
}

// RestoredState is everything the coordinator loads at startup.
type RestoredState struct {
	Queue     models.QueueSnapshot
	Settings  models.Settings
	Favorites []string
	Recent    []RecentEntry
}

// Coordinator owns the persistence of playback state.
type Coordinator struct {
	store    store.Store
	logger   *log.Logger
	debounce time.Duration
	recentN  int

	mu      sync.Mutex
	pending *models.QueueSnapshot
	timer   *time.Timer

	now func() time.Time
}

// New creates a coordinator over s. debounce controls how long queue
// edits coalesce before hitting the store; recentLimit caps the play
// history length.
func New(s store.Store, debounce time.Duration, recentLimit int, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if recentLimit <= 0 {
		recentLimit = 50
	}

	return &Coordinator{
		store:    s,
		logger:   shared.WithLogger(logger, "component", "persist"),
		debounce: debounce,
		recentN:  recentLimit,
		now:      time.Now,
	}
}

// QueueChanged schedules a debounced snapshot write. Each call replaces
// the pending snapshot and restarts the timer, so a burst of queue edits
// produces a single write of the final state.
func (c *Coordinator) QueueChanged(snapshot models.QueueSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = &snapshot
	if c.debounce <= 0 {
		c.writePendingLocked()
		return
	}

	if c.timer == nil {
		c.timer = time.AfterFunc(c.debounce, c.flushPending)
	} else {
		c.timer.Reset(c.debounce)
	}
}

// Flush writes any pending snapshot immediately and cancels the timer.
// Call it on shutdown so the last debounce window is not lost.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.writePendingLocked()
}

func (c *Coordinator) flushPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = nil
	c.writePendingLocked()
}

func (c *Coordinator) writePendingLocked() {
	if c.pending == nil {
		return
	}
	snapshot := *c.pending
	c.pending = nil
	c.write(queueKey, snapshot)
}

// SaveSettings persists the playback settings.
func (c *Coordinator) SaveSettings(settings models.Settings) {
	c.write(settingsKey, settings)
}

// LoadQueue returns the persisted queue snapshot, or an empty one when
// nothing has been saved yet.
func (c *Coordinator) LoadQueue(ctx context.Context) (models.QueueSnapshot, error) {
	var snapshot models.QueueSnapshot
	if err := c.read(ctx, queueKey, &snapshot); err != nil {
		if errors.Is(err, shared.ErrKeyNotFound) {
			return models.QueueSnapshot{}, nil
		}
		return models.QueueSnapshot{}, err
	}
	return snapshot, nil
}

// LoadSettings returns the persisted settings, falling back to defaults
// when nothing has been saved yet.
func (c *Coordinator) LoadSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	if err := c.read(ctx, settingsKey, &settings); err != nil {
		if errors.Is(err, shared.ErrKeyNotFound) {
			return models.DefaultSettings(), nil
		}
		return models.DefaultSettings(), err
	}
	return settings, nil
}

// AddFavorite marks trackID as a favorite. Already-favorited tracks are
// left alone.
func (c *Coordinator) AddFavorite(ctx context.Context, trackID string) error {
	favorites, err := c.Favorites(ctx)
	if err != nil {
		return err
	}

	for _, id := range favorites {
		if id == trackID {
			return nil
		}
	}

	c.write(favoritesKey, append(favorites, trackID))
	return nil
}

// RemoveFavorite unmarks trackID. Removing an absent favorite is a no-op.
func (c *Coordinator) RemoveFavorite(ctx context.Context, trackID string) error {
	favorites, err := c.Favorites(ctx)
	if err != nil {
		return err
	}

	kept := favorites[:0]
	for _, id := range favorites {
		if id != trackID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(favorites) {
		return nil
	}

	c.write(favoritesKey, kept)
	return nil
}

// IsFavorite reports whether trackID is in the favorites set.
func (c *Coordinator) IsFavorite(ctx context.Context, trackID string) (bool, error) {
	favorites, err := c.Favorites(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range favorites {
		if id == trackID {
			return true, nil
		}
	}
	return false, nil
}

// Favorites returns the favorite track ids in insertion order.
func (c *Coordinator) Favorites(ctx context.Context) ([]string, error) {
	var favorites []string
	if err := c.read(ctx, favoritesKey, &favorites); err != nil {
		if errors.Is(err, shared.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return favorites, nil
}

// RecordPlayed prepends track to the listening history. A repeat listen
// moves the track to the front instead of duplicating it, and the list
// is trimmed to the configured limit.
func (c *Coordinator) RecordPlayed(ctx context.Context, track models.Track) error {
	recent, err := c.Recent(ctx)
	if err != nil {
		return err
	}

	kept := make([]RecentEntry, 0, len(recent)+1)
	kept = append(kept, RecentEntry{
		TrackID:  track.ID,
		Title:    track.Title,
		Artist:   track.Artist,
		PlayedAt: c.now(),
	})
	for _, entry := range recent {
		if entry.TrackID != track.ID {
			kept = append(kept, entry)
		}
	}
	if len(kept) > c.recentN {
		kept = kept[:c.recentN]
	}

	c.write(recentKey, kept)
	return nil
}

// Recent returns the listening history, most recent first.
func (c *Coordinator) Recent(ctx context.Context) ([]RecentEntry, error) {
	var recent []RecentEntry
	if err := c.read(ctx, recentKey, &recent); err != nil {
		if errors.Is(err, shared.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return recent, nil
}

// Restore loads everything persisted in one pass for session startup.
// A corrupt or unreadable piece falls back to its zero value rather than
// blocking startup.
func (c *Coordinator) Restore(ctx context.Context) RestoredState {
	state := RestoredState{Settings: models.DefaultSettings()}

	if queue, err := c.LoadQueue(ctx); err == nil {
		state.Queue = queue
	} else {
		c.logger.Warnf("skipping saved queue: %v", err)
	}

	if settings, err := c.LoadSettings(ctx); err == nil {
		state.Settings = settings
	} else {
		c.logger.Warnf("skipping saved settings: %v", err)
	}

	if favorites, err := c.Favorites(ctx); err == nil {
		state.Favorites = favorites
	} else {
		c.logger.Warnf("skipping saved favorites: %v", err)
	}

	if recent, err := c.Recent(ctx); err == nil {
		state.Recent = recent
	} else {
		c.logger.Warnf("skipping play history: %v", err)
	}

	if state.Settings.DeviceID == "" {
		state.Settings.DeviceID = shared.GenerateID()
		c.SaveSettings(state.Settings)
	}

	return state
}

// ClearSession removes the persisted queue snapshot. Settings, favorites,
// and history survive a queue clear.
func (c *Coordinator) ClearSession(ctx context.Context) error {
	c.mu.Lock()
	c.pending = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	if err := c.store.Delete(ctx, queueKey); err != nil {
		return fmt.Errorf("failed to clear saved queue: %w", err)
	}
	return nil
}

// write serializes value under key, logging failures instead of
// returning them.
func (c *Coordinator) write(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Errorf("failed to serialize %s: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warnf("failed to persist %s: %v", key, err)
	}
}

func (c *Coordinator) read(ctx context.Context, key string, out any) error {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
