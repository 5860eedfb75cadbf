// Package store provides the persistent key-value substrate shared by the
// cache manager and the persistence coordinator.
//
// The [Store] interface is a narrow capability (get/set/delete/list/clear)
// so components depend only on the contract; [SQLiteStore] backs it with a
// single kv table and [MemoryStore] backs it with a map for tests and
// volatile fallback use.
package store
