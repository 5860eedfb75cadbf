package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/cache"
	"github.com/desertthunder/cadence/internal/shared"
)

// HousekeepingResult reports what one maintenance pass did.
type HousekeepingResult struct {
	Purged   int                  // Expired entries removed
	Eviction cache.EvictionResult // LRU eviction outcome
}

// Housekeeper periodically purges expired cache entries and evicts
// least-recently-used ones until the cache fits its byte budget.
type Housekeeper struct {
	cache  *cache.Manager
	config shared.CacheConfig
	logger *log.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewHousekeeper creates a housekeeper over manager using the limits in
// config.
func NewHousekeeper(manager *cache.Manager, config shared.CacheConfig, logger *log.Logger) *Housekeeper {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Housekeeper{
		cache:  manager,
		config: config,
		logger: shared.WithLogger(logger, "component", "housekeeper"),
	}
}

// RunOnce performs a single purge-then-evict pass.
func (h *Housekeeper) RunOnce(ctx context.Context, progress chan<- ProgressUpdate) (*HousekeepingResult, error) {
	result := &HousekeepingResult{}

	purged, err := h.cache.PurgeExpired(ctx, h.config.DefaultTTL())
	if err != nil {
		return nil, err
	}
	result.Purged = purged
	sendProgress(progress, purgeUpdate(purged))

	eviction, err := h.cache.EvictLRU(ctx, h.config.MaxTotalBytes, h.config.ProtectedKeys)
	if err != nil {
		return nil, err
	}
	result.Eviction = eviction
	sendProgress(progress, evictUpdate(eviction.EvictedCount, eviction.FreedBytes))

	return result, nil
}

// Start launches the periodic sweep. Calling Start on a running
// housekeeper is a no-op.
func (h *Housekeeper) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stop != nil {
		return
	}

	interval := h.config.SweepInterval()
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	h.stop = make(chan struct{})
	h.done = make(chan struct{})
	go h.sweep(ctx, interval, h.stop, h.done)
}

// Stop halts the periodic sweep and waits for an in-flight pass to end.
// Stopping a stopped housekeeper is a no-op.
func (h *Housekeeper) Stop() {
	h.mu.Lock()
	stop, done := h.stop, h.done
	h.stop, h.done = nil, nil
	h.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (h *Housekeeper) sweep(ctx context.Context, interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := h.RunOnce(ctx, nil)
			if err != nil {
				h.logger.Warnf("maintenance pass failed: %v", err)
				continue
			}
			if result.Purged > 0 || result.Eviction.EvictedCount > 0 {
				h.logger.Infof("purged %d, evicted %d (%d bytes)",
					result.Purged, result.Eviction.EvictedCount, result.Eviction.FreedBytes)
			}
		}
	}
}
