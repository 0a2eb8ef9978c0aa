// Package models defines domain entities and persistence interfaces for the walkon walk-up song service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Track] : Song metadata from the streaming provider
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Player] : Roster entries mapping a player to their walk-up track and cue window
//   - [PersistedTrack] : Cached provider tracks so repeated lookups skip the search API
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
