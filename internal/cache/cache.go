package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/store"
)

// Manager is a read-through cache over a [store.Store].
//
// Writes are best-effort: a failed store write is logged and surfaces as a
// miss on the next read, never as an error to the caller. Reads enforce a
// per-call TTL and delete entries they find expired.
type Manager struct {
	store  store.Store
	logger *log.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates a cache manager backed by s.
func NewManager(s store.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		store:  s,
		logger: shared.WithLogger(logger, "component", "cache"),
		now:    time.Now,
	}
}

// storageKey maps a logical cache key to its namespaced store key.
func storageKey(key string) string {
	return KeyPrefix + key
}

// Put serializes payload, stamps fresh timestamps, and persists the entry
// under key with the caller-supplied kind tag. Store failures are logged
// and swallowed; the entry simply misses on the next read.
func (m *Manager) Put(ctx context.Context, key string, payload any, kind string) {
	raw, err := json.Marshal(payload)
	if err != nil {
		m.logger.Warnf("failed to serialize payload for %s: %v", key, err)
		return
	}

	now := m.now()
	e := entry{
		Payload:        raw,
		CreatedAt:      now,
		LastAccessedAt: now,
		SizeBytes:      int64(len(raw)),
		Kind:           kind,
	}

	data, err := json.Marshal(e)
	if err != nil {
		m.logger.Warnf("failed to serialize entry for %s: %v", key, err)
		return
	}

	if err := m.store.Set(ctx, storageKey(key), data); err != nil {
		m.logger.Warnf("failed to persist cache entry %s: %v", key, err)
	}
}

// Get returns the payload stored under key if it is younger than ttl.
// Expired entries are deleted and reported as a miss; they are never
// returned stale. A hit refreshes the entry's last-access timestamp
// best-effort.
func (m *Manager) Get(ctx context.Context, key string, ttl time.Duration) (json.RawMessage, bool) {
	e, ok := m.read(ctx, key)
	if !ok {
		return nil, false
	}

	now := m.now()
	if now.Sub(e.CreatedAt) >= ttl {
		if err := m.store.Delete(ctx, storageKey(key)); err != nil {
			m.logger.Warnf("failed to delete expired entry %s: %v", key, err)
		}
		return nil, false
	}

	e.LastAccessedAt = now
	if data, err := json.Marshal(e); err == nil {
		if err := m.store.Set(ctx, storageKey(key), data); err != nil {
			m.logger.Debugf("failed to refresh access time for %s: %v", key, err)
		}
	}

	return e.Payload, true
}

// GetInto unmarshals a cache hit for key into target. Returns false on a
// miss or when the cached payload no longer decodes into target's shape.
func (m *Manager) GetInto(ctx context.Context, key string, ttl time.Duration, target any) bool {
	payload, ok := m.Get(ctx, key, ttl)
	if !ok {
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		m.logger.Warnf("failed to decode cached payload for %s: %v", key, err)
		return false
	}

	return true
}

// Invalidate removes key unconditionally. Removing an absent key is a no-op.
func (m *Manager) Invalidate(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, storageKey(key)); err != nil {
		m.logger.Warnf("failed to invalidate %s: %v", key, err)
	}
}

// Inventory enumerates every cache entry currently in the store, in key
// order. Entries that fail to load or decode are skipped with a warning.
func (m *Manager) Inventory(ctx context.Context) ([]Info, error) {
	keys, err := m.store.ListKeys(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate cache keys: %w", err)
	}

	inventory := make([]Info, 0, len(keys))
	for _, sk := range keys {
		key := strings.TrimPrefix(sk, KeyPrefix)
		e, ok := m.read(ctx, key)
		if !ok {
			continue
		}
		inventory = append(inventory, Info{
			Key:            key,
			SizeBytes:      e.SizeBytes,
			CreatedAt:      e.CreatedAt,
			LastAccessedAt: e.LastAccessedAt,
			Kind:           e.Kind,
		})
	}

	return inventory, nil
}

// TotalSize sums the recorded payload sizes of every inventory entry.
func (m *Manager) TotalSize(ctx context.Context) (int64, error) {
	inventory, err := m.Inventory(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, info := range inventory {
		total += info.SizeBytes
	}
	return total, nil
}

// StatsByKind groups the inventory by kind with per-group count and bytes.
func (m *Manager) StatsByKind(ctx context.Context) (map[string]KindStats, error) {
	inventory, err := m.Inventory(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]KindStats)
	for _, info := range inventory {
		kind := info.Kind
		if kind == "" {
			kind = KindGeneric
		}
		s := stats[kind]
		s.Count++
		s.TotalBytes += info.SizeBytes
		stats[kind] = s
	}

	return stats, nil
}

// PurgeExpired sweeps the whole inventory against a single default TTL and
// deletes every entry older than it, returning the count removed. This is
// the coarse proactive counterpart to the precise per-read check in Get;
// it bounds growth for entries written once and never re-read.
func (m *Manager) PurgeExpired(ctx context.Context, defaultTTL time.Duration) (int, error) {
	inventory, err := m.Inventory(ctx)
	if err != nil {
		return 0, err
	}

	now := m.now()
	removed := 0
	for _, info := range inventory {
		if now.Sub(info.CreatedAt) < defaultTTL {
			continue
		}
		if err := m.store.Delete(ctx, storageKey(info.Key)); err != nil {
			m.logger.Warnf("failed to purge expired entry %s: %v", info.Key, err)
			continue
		}
		removed++
	}

	return removed, nil
}

// EvictLRU removes least-recently-accessed entries until the cache fits in
// maxTotalBytes. Keys in protectedKeys are never evicted. Eviction is
// whole-entry, so it may overshoot the budget; if the evictable set runs
// out first the cache stays over budget and the shortfall shows in the
// returned result.
func (m *Manager) EvictLRU(ctx context.Context, maxTotalBytes int64, protectedKeys []string) (EvictionResult, error) {
	inventory, err := m.Inventory(ctx)
	if err != nil {
		return EvictionResult{}, err
	}

	var total int64
	for _, info := range inventory {
		total += info.SizeBytes
	}
	if total <= maxTotalBytes {
		return EvictionResult{}, nil
	}

	protected := make(map[string]bool, len(protectedKeys))
	for _, key := range protectedKeys {
		protected[key] = true
	}

	evictable := make([]Info, 0, len(inventory))
	for _, info := range inventory {
		if !protected[info.Key] {
			evictable = append(evictable, info)
		}
	}

	// Oldest access first; stable sort keeps inventory order for ties.
	sort.SliceStable(evictable, func(i, j int) bool {
		return evictable[i].LastAccessedAt.Before(evictable[j].LastAccessedAt)
	})

	var result EvictionResult
	for _, info := range evictable {
		if total-result.FreedBytes <= maxTotalBytes {
			break
		}
		if err := m.store.Delete(ctx, storageKey(info.Key)); err != nil {
			m.logger.Warnf("failed to evict %s: %v", info.Key, err)
			continue
		}
		result.EvictedCount++
		result.FreedBytes += info.SizeBytes
	}

	if total-result.FreedBytes > maxTotalBytes {
		m.logger.Warnf("cache still over budget after eviction: %d bytes remain against %d", total-result.FreedBytes, maxTotalBytes)
	}

	return result, nil
}

// ClearAllExcept deletes every inventory entry whose key is not protected,
// returning the count removed.
func (m *Manager) ClearAllExcept(ctx context.Context, protectedKeys []string) (int, error) {
	inventory, err := m.Inventory(ctx)
	if err != nil {
		return 0, err
	}

	protected := make(map[string]bool, len(protectedKeys))
	for _, key := range protectedKeys {
		protected[key] = true
	}

	removed := 0
	for _, info := range inventory {
		if protected[info.Key] {
			continue
		}
		if err := m.store.Delete(ctx, storageKey(info.Key)); err != nil {
			m.logger.Warnf("failed to remove %s: %v", info.Key, err)
			continue
		}
		removed++
	}

	return removed, nil
}

// read loads and decodes the envelope for key. Store failures and decode
// failures both surface as a miss.
func (m *Manager) read(ctx context.Context, key string) (entry, bool) {
	data, err := m.store.Get(ctx, storageKey(key))
	if err != nil {
		if !errors.Is(err, shared.ErrKeyNotFound) {
			m.logger.Warnf("failed to read cache entry %s: %v", key, err)
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		m.logger.Warnf("corrupt cache entry %s: %v", key, err)
		return entry{}, false
	}

	return e, true
}
