package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/walkon/internal/models"
	"github.com/desertthunder/walkon/internal/shared"
)

var _ list.Item = playerItem{}

// playerItem wraps [models.Player] to implement [list.Item].
type playerItem struct {
	player *models.Player
}

func (i playerItem) FilterValue() string { return i.player.Name() }
func (i playerItem) Title() string       { return i.player.Name() }
func (i playerItem) Description() string {
	if !i.player.HasTrack() {
		return "no walk-up track assigned"
	}

	track := i.player.Track()
	desc := fmt.Sprintf("%s - %s", track.Artist, track.Title)
	if i.player.CueMS() > 0 {
		desc = fmt.Sprintf("%s • cue %s", desc, shared.FormatDuration(i.player.CueMS()))
	}
	return desc
}
