// package services defines interface Service for interacting with streaming provider HTTP APIs
package services

import (
	"context"

	"github.com/desertthunder/walkon/internal/models"
)

// Service defines the interface for streaming providers that can search the
// catalog and drive playback on the user's active device.
type Service interface {
	// SearchTracks searches the catalog by free-text query and returns up to limit matches.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// Play starts playback of the given track URI at the given position.
	// An empty URI resumes whatever is paused on the active device.
	Play(ctx context.Context, uri string, positionMS int) error

	// Pause pauses playback on the active device.
	Pause(ctx context.Context) error

	// Seek moves the playhead of the current track.
	Seek(ctx context.Context, positionMS int) error

	// PlaybackState returns what is currently playing, or nil when nothing is.
	PlaybackState(ctx context.Context) (*PlaybackState, error)

	// Devices lists the devices available for playback.
	Devices(ctx context.Context) ([]Device, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// PlaybackState describes what the active device is doing right now.
type PlaybackState struct {
	IsPlaying  bool
	ProgressMS int
	Track      models.Track
	Device     Device
}

// Device represents a playback target registered with the provider.
type Device struct {
	ID            string
	Name          string
	Type          string
	IsActive      bool
	VolumePercent int
}
