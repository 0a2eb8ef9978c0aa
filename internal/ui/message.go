package ui

import (
	"github.com/desertthunder/walkon/internal/models"
	"github.com/desertthunder/walkon/internal/tasks"
)

// rosterLoadedMsg carries the roster after the initial load.
type rosterLoadedMsg struct {
	players []*models.Player
	err     error
}

// progressUpdateMsg wraps engine progress updates for the Update loop.
type progressUpdateMsg tasks.ProgressUpdate

// cueCompleteMsg signals that a walk-up cue finished or failed.
type cueCompleteMsg struct {
	player *models.Player
	err    error
}
