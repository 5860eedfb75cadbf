// package tasks implements long-running maintenance operations.
//
// WarmEngine prefetches the catalog into the local cache so the player
// works offline-ish; Housekeeper periodically purges expired cache
// entries and evicts over-budget ones. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks
