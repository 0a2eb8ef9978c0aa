// package tasks implements roster-level operations on top of the provider services.
//
// The core abstraction is RosterEngine, which resolves player song requests
// against the provider catalog and cues walk-up playback.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/walkon/internal/models"
	"github.com/desertthunder/walkon/internal/services"
	"github.com/desertthunder/walkon/internal/shared"
)

// ResolveRequest describes one player's song request to resolve.
type ResolveRequest struct {
	PlayerName string // Roster entry to create or update
	Query      string // Free-text catalog search, e.g. "thunderstruck ac/dc"
	StartMS    int    // Cue start within the track
	CueMS      int    // Cue length; zero plays to the end
}

// ResolveResult represents the outcome of resolving a single request.
type ResolveResult struct {
	Request ResolveRequest
	Player  *models.Player // Updated roster entry (nil if resolution failed)
	Track   *models.Track  // Matched track (nil if not found)
	Error   error          // Error if resolution failed
}

// ResolveRunResult contains all data from a full roster resolution run.
type ResolveRunResult struct {
	Results         []ResolveResult // Individual resolution results
	SuccessCount    int             // Number of successfully resolved requests
	FailedCount     int             // Number of failed resolutions
	TotalRequests   int             // Total requests processed
	MatchPercentage float64         // Success rate as percentage
}

// PlayerStore is the subset of the player repository the engine needs.
type PlayerStore interface {
	GetByName(name string) (*models.Player, error)
	Create(player *models.Player) error
	Update(player *models.Player) error
}

// TrackCacher caches resolved tracks so repeat resolutions skip the search API.
type TrackCacher interface {
	CacheTrack(service, serviceID string, track models.Track) error
}

// RosterEngine defines roster-level operations built on a provider service.
type RosterEngine interface {
	// Resolve matches each request against the provider catalog and upserts roster entries.
	Resolve(ctx context.Context, requests []ResolveRequest, progress chan<- ProgressUpdate) (*ResolveRunResult, error)

	// WalkUp cues the named player's track on the active device.
	WalkUp(ctx context.Context, playerName string, progress chan<- ProgressUpdate) (*models.Player, error)
}

// Engine implements RosterEngine for a single provider.
type Engine struct {
	svc     services.Service
	players PlayerStore
	cache   TrackCacher
}

// NewEngine creates a new Engine with the provided service, store, and cache.
func NewEngine(svc services.Service, players PlayerStore, cache TrackCacher) *Engine {
	return &Engine{
		svc:     svc,
		players: players,
		cache:   cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Resolve matches each song request against the provider catalog, caches the
// matched tracks, and upserts the roster entries. Individual failures are
// recorded per request; the run itself only errors when the engine is not
// wired or the context is cancelled.
func (e *Engine) Resolve(ctx context.Context, requests []ResolveRequest, progress chan<- ProgressUpdate) (*ResolveRunResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: provider service not initialized", shared.ErrServiceUnavailable)
	}
	if e.players == nil {
		return nil, fmt.Errorf("%w: player store not initialized", shared.ErrServiceUnavailable)
	}

	total := len(requests)
	result := &ResolveRunResult{
		Results:       make([]ResolveResult, 0, total),
		TotalRequests: total,
	}

	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, resolvingUpdate(i+1, total, req))

		res := e.resolveOne(ctx, req)
		result.Results = append(result.Results, res)

		if res.Error == nil {
			result.SuccessCount++
			e.sendProgress(progress, resolvedUpdate(i+1, total, req, res.Track))
		} else {
			result.FailedCount++
			e.sendProgress(progress, resolveFailedUpdate(i+1, total, req, res.Error))
		}
	}

	if result.TotalRequests > 0 {
		result.MatchPercentage = float64(result.SuccessCount) / float64(result.TotalRequests) * 100
	}

	return result, nil
}

func (e *Engine) resolveOne(ctx context.Context, req ResolveRequest) ResolveResult {
	res := ResolveResult{Request: req}

	if req.PlayerName == "" {
		res.Error = fmt.Errorf("%w: player name", shared.ErrMissingArgument)
		return res
	}
	if req.Query == "" {
		res.Error = fmt.Errorf("%w: song query", shared.ErrMissingArgument)
		return res
	}

	tracks, err := e.svc.SearchTracks(ctx, req.Query, 5)
	if err != nil {
		res.Error = fmt.Errorf("search failed: %w", err)
		return res
	}
	if len(tracks) == 0 {
		res.Error = fmt.Errorf("%w: no match for %q", shared.ErrTrackNotFound, req.Query)
		return res
	}

	track := tracks[0]
	res.Track = &track

	if e.cache != nil {
		if err := e.cache.CacheTrack(e.svc.Name(), track.ID, track); err != nil {
			res.Error = fmt.Errorf("failed to cache track: %w", err)
			return res
		}
	}

	player, err := e.players.GetByName(req.PlayerName)
	if err != nil {
		player = models.NewPlayer(0, req.PlayerName)
		player.SetTrack(track)
		player.SetCue(req.StartMS, req.CueMS)
		if err := e.players.Create(player); err != nil {
			res.Error = fmt.Errorf("failed to create roster entry: %w", err)
			return res
		}
	} else {
		player.SetTrack(track)
		player.SetCue(req.StartMS, req.CueMS)
		if err := e.players.Update(player); err != nil {
			res.Error = fmt.Errorf("failed to update roster entry: %w", err)
			return res
		}
	}

	res.Player = player
	return res
}

// WalkUp cues the named player's assigned track on the active device.
// When the entry has a cue length, playback is paused once it elapses.
func (e *Engine) WalkUp(ctx context.Context, playerName string, progress chan<- ProgressUpdate) (*models.Player, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: provider service not initialized", shared.ErrServiceUnavailable)
	}
	if e.players == nil {
		return nil, fmt.Errorf("%w: player store not initialized", shared.ErrServiceUnavailable)
	}

	player, err := e.players.GetByName(playerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlayerNotFound, playerName)
	}

	if !player.HasTrack() {
		return nil, fmt.Errorf("%w: %s has no walk-up track assigned", shared.ErrTrackNotFound, playerName)
	}

	track := player.Track()
	e.sendProgress(progress, cueUpdate(player.Name(), track))

	if err := e.svc.Play(ctx, track.URI, player.StartMS()); err != nil {
		return nil, fmt.Errorf("failed to start playback: %w", err)
	}

	if player.CueMS() > 0 {
		select {
		case <-ctx.Done():
			return player, ctx.Err()
		case <-time.After(time.Duration(player.CueMS()) * time.Millisecond):
		}

		e.sendProgress(progress, cueDoneUpdate(player.Name()))

		if err := e.svc.Pause(ctx); err != nil {
			return player, fmt.Errorf("failed to stop playback after cue: %w", err)
		}
	}

	return player, nil
}
