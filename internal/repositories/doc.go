// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [PlayerRepository] : Roster persistence with name-based lookups
//   - [TrackRepository] : Track caching with service-specific queries
//   - [TrackCacheAdapter] : Deduplicating cache front for resolved tracks
//
// Sequence numbers provide stable, human-readable ordering (e.g., batter #3 in the lineup) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
