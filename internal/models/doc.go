// Package models defines domain entities and persistence interfaces for the resolver.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Playlist] : Basic playlist metadata from Spotify or YouTube
//   - [PlaylistExport] : Playlist with complete track listing
//   - [Track] : Normalized song metadata ready for resolution
//   - [Candidate] : A video search result under consideration
//   - [ResolutionResult] : Outcome of resolving one track
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedResolution] : Cached track→video mappings so repeat runs skip API calls
//
// Persistent entities implement the Model interface providing ID generation, timestamps,
// validation, and soft delete support. The Repository[T] interface defines standard CRUD
// operations for database access.
package models
