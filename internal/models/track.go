package models

import (
	"fmt"
	"time"
)

// PersistedTrack is a provider track cached in the local database so that
// roster lookups and repeat searches do not hit the search API again.
// The (service, serviceID) pair is unique per cached track.
type PersistedTrack struct {
	id        string
	sequence  int
	service   string
	serviceID string
	track     Track
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedTrack creates a cache entry for a track from the given service.
func NewPersistedTrack(sequence int, service, serviceID string, track Track) *PersistedTrack {
	now := time.Now()
	return &PersistedTrack{
		sequence:  sequence,
		service:   service,
		serviceID: serviceID,
		track:     track,
		createdAt: now,
		updatedAt: now,
	}
}

func (t *PersistedTrack) ID() string { return t.id }

func (t *PersistedTrack) Sequence() int { return t.sequence }

func (t *PersistedTrack) Service() string { return t.service }

func (t *PersistedTrack) ServiceID() string { return t.serviceID }

func (t *PersistedTrack) Track() Track { return t.track }

func (t *PersistedTrack) CreatedAt() time.Time { return t.createdAt }

func (t *PersistedTrack) UpdatedAt() time.Time { return t.updatedAt }

func (t *PersistedTrack) DeletedAt() *time.Time { return t.deletedAt }

func (t *PersistedTrack) SetID(id string) { t.id = id }

func (t *PersistedTrack) SetUpdatedAt(u time.Time) { t.updatedAt = u }

func (t *PersistedTrack) SetDeletedAt(d *time.Time) { t.deletedAt = d }

// Validate checks that the cache entry identifies a real provider track.
func (t *PersistedTrack) Validate() error {
	if t.service == "" {
		return fmt.Errorf("track service is required")
	}
	if t.serviceID == "" {
		return fmt.Errorf("track service ID is required")
	}
	if t.track.Title == "" {
		return fmt.Errorf("track title is required")
	}
	return nil
}
