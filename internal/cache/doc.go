// Package cache implements a read-through, TTL-aware, size-capped cache for
// remote catalog data on top of the persistent key-value store.
//
// Freshness and footprint are independent mechanisms: per-read TTL checks
// (and the coarse [Manager.PurgeExpired] sweep) bound staleness, while
// [Manager.EvictLRU] bounds total size by removing the least recently
// accessed entries first, never touching protected keys.
package cache
