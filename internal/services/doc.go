// Package services defines the [Service] interface for music streaming providers and implements it for Spotify.
//
// # Service Interface
//
// The provider abstraction covers the two things walkon needs from a
// streaming service: catalog search to find a walk-up track, and remote
// playback control to cue it on the active device.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates every request through an [oauth2.TokenSource],
// so expired access tokens are refreshed transparently before a call goes out.
// Requests are also rate limited client-side to stay inside the Web API quota
// when resolving a full roster in one run.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : HTTP request failed with a non-2xx status
//   - [shared.ErrNoActiveDevice] : player endpoint called with no active device
//   - [shared.ErrMissingArgument] : empty search query
//
// # API Mappings
//
// Provider-specific JSON responses are converted to plain [models.Track] values:
// [SpotifyTrack] → [models.Track] with the primary artist flattened onto the Artist field.
package services
