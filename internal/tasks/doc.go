// Package tasks orchestrates roster operations against the provider with real-time progress reporting.
//
// # Core Operations
//
// The [RosterEngine] interface defines two operations:
//
//  1. [RosterEngine.Resolve] : Batch song request resolution
//     - Searches the provider catalog for each player's requested song
//     - Caches matched tracks to skip the search API on repeat runs
//     - Creates or updates roster entries with the matched track and cue window
//     - Returns detailed results including failed matches
//
//  2. [RosterEngine.WalkUp] : Cue a player's walk-up track
//     - Starts playback of the assigned track at the configured offset
//     - Pauses playback after the cue window elapses, if one is set
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [Engine] implements [RosterEngine] with dependencies on:
//   - [services.Service] : the provider API client
//   - [PlayerStore] : roster persistence (repositories.PlayerRepository)
//   - [TrackCacher] : optional track cache (repositories.TrackCacheAdapter)
package tasks
