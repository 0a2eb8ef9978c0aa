package models

import (
	"fmt"
	"time"
)

// Player is a roster entry: one player, their walk-up track, and the cue
// window to play when they are announced. A player without an assigned
// track is valid; the cue fields are ignored until a track is set.
type Player struct {
	id        string
	sequence  int
	name      string
	track     Track
	startMS   int
	cueMS     int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPlayer creates a new roster entry with the given sequence and display name.
func NewPlayer(sequence int, name string) *Player {
	now := time.Now()
	return &Player{
		sequence:  sequence,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *Player) ID() string { return p.id }

func (p *Player) Sequence() int { return p.sequence }

func (p *Player) Name() string { return p.name }

func (p *Player) Track() Track { return p.track }

func (p *Player) StartMS() int { return p.startMS }

func (p *Player) CueMS() int { return p.cueMS }

func (p *Player) CreatedAt() time.Time { return p.createdAt }

func (p *Player) UpdatedAt() time.Time { return p.updatedAt }

func (p *Player) DeletedAt() *time.Time { return p.deletedAt }

func (p *Player) SetID(id string) { p.id = id }

func (p *Player) SetName(name string) { p.name = name }

func (p *Player) SetUpdatedAt(t time.Time) { p.updatedAt = t }

func (p *Player) SetDeletedAt(t *time.Time) { p.deletedAt = t }

// SetCue sets the playback window: where in the track to start and how
// long to play before fading out. Zero cueMS means play to the end.
func (p *Player) SetCue(startMS, cueMS int) {
	p.startMS = startMS
	p.cueMS = cueMS
}

func (p *Player) SetTrack(track Track) { p.track = track }

// HasTrack reports whether a walk-up track has been assigned.
func (p *Player) HasTrack() bool { return p.track.ID != "" }

// Validate checks that the roster entry has a name and a sensible cue window.
func (p *Player) Validate() error {
	if p.name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.startMS < 0 {
		return fmt.Errorf("cue start must not be negative, got %d", p.startMS)
	}
	if p.cueMS < 0 {
		return fmt.Errorf("cue duration must not be negative, got %d", p.cueMS)
	}
	return nil
}
