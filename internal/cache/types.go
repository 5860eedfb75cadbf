package cache

import (
	"encoding/json"
	"time"
)

// KeyPrefix namespaces cache rows within the shared key-value store.
const KeyPrefix = "cache:"

// Well-known entry kinds. Kinds are caller-supplied classification tags
// used only for reporting; any string is accepted.
const (
	KindLibrary        = "library"
	KindPlaylistTracks = "playlist-tracks"
	KindSearch         = "search"
	KindGeneric        = "generic"
)

// entry is the envelope persisted for every cached value.
type entry struct {
	Payload        json.RawMessage `json:"payload"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	SizeBytes      int64           `json:"size_bytes"`
	Kind           string          `json:"kind"`
}

// Info describes one cached entry as reported by [Manager.Inventory].
type Info struct {
	Key            string    `json:"key"`
	SizeBytes      int64     `json:"size_bytes"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	Kind           string    `json:"kind"`
}

// KindStats aggregates inventory entries sharing a kind.
type KindStats struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"total_bytes"`
}

// EvictionResult reports what an [Manager.EvictLRU] pass actually removed.
// FreedBytes may leave the cache over budget when the evictable set was
// exhausted; that is reported, not an error.
type EvictionResult struct {
	EvictedCount int   `json:"evicted_count"`
	FreedBytes   int64 `json:"freed_bytes"`
}
