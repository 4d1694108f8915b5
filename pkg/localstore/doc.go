// Package localstore is the durable cache of the restaurant collection. A
// *Store is an optional handle: Open returns nil when no persistence is
// available, and every method treats a nil *Store as an empty cache, so
// callers never branch on availability. Records are keyed by restaurant id;
// writes are upserts applied atomically per call.
package localstore
