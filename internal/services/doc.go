// package services talks to the remote music catalog.
//
// [Catalog] is the consumer-facing interface; [HTTPCatalog] implements it
// against the catalog's REST API and [CachedCatalog] layers read-through
// caching on top of any implementation.
package services
