package tasks

import (
	"fmt"

	"github.com/desertthunder/walkon/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveTracks Phase = iota
	CuePlayback
)

func (p Phase) String() string {
	switch p {
	case ResolveTracks:
		return "resolve_tracks"
	case CuePlayback:
		return "cue_playback"
	default:
		return ""
	}
}

func resolvingUpdate(step, total int, req ResolveRequest) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving %q for %s...", step, total, req.Query, req.PlayerName),
	}
}

func resolvedUpdate(step, total int, req ResolveRequest, track *models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s: %s - %s", step, total, req.PlayerName, track.Artist, track.Title),
		Data:    track,
	}
}

func resolveFailedUpdate(step, total int, req ResolveRequest, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, req.PlayerName, err),
	}
}

func cueUpdate(name string, track models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CuePlayback,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Cueing %s - %s for %s", track.Artist, track.Title, name),
		Data:    track,
	}
}

func cueDoneUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CuePlayback,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Cue finished for %s", name),
	}
}
