package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/walkon/internal/formatter"
	"github.com/desertthunder/walkon/internal/shared"
	"github.com/desertthunder/walkon/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RosterSet resolves a song request and assigns it to a roster entry.
func (r *Runner) RosterSet(ctx context.Context, cmd *cli.Command) error {
	playerName := cmd.StringArg("player")
	query := cmd.StringArg("query")
	start := cmd.Int("start")
	length := cmd.Int("length")

	if playerName == "" || query == "" {
		return fmt.Errorf("%w: usage: walkon roster set <player> <query>", shared.ErrMissingArgument)
	}

	if err := r.requireSession(); err != nil {
		return err
	}
	if r.engine == nil {
		return fmt.Errorf("%w: roster engine not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("resolving %q for %v", query, playerName)

	result, err := r.engine.Resolve(ctx, []tasks.ResolveRequest{
		{PlayerName: playerName, Query: query, StartMS: int(start), CueMS: int(length)},
	}, nil)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	res := result.Results[0]
	if res.Error != nil {
		return fmt.Errorf("could not assign a track: %w", res.Error)
	}

	r.writePlain("✓ %s walks up to %s - %s\n", playerName, res.Track.Artist, res.Track.Title)
	if start > 0 || length > 0 {
		r.writePlain("  Cue: starts at %s", shared.FormatDuration(int(start)))
		if length > 0 {
			r.writePlain(", plays for %s", shared.FormatDuration(int(length)))
		}
		r.writePlain("\n")
	}

	return nil
}

// RosterList prints the roster with assigned tracks and cue windows.
func (r *Runner) RosterList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.players == nil {
		return fmt.Errorf("%w: roster storage not initialized", shared.ErrServiceUnavailable)
	}

	players, err := r.players.List(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to list roster: %w", err)
	}

	if useJSON {
		entries := make([]map[string]any, 0, len(players))
		for _, p := range players {
			entry := map[string]any{
				"id":   p.ID(),
				"name": p.Name(),
			}
			if p.HasTrack() {
				entry["track"] = p.Track()
				entry["start_ms"] = p.StartMS()
				entry["cue_ms"] = p.CueMS()
			}
			entries = append(entries, entry)
		}
		return r.writeJSON(entries, pretty)
	}

	if len(players) == 0 {
		return r.writePlain("Roster is empty. Add players with 'walkon roster set'.\n")
	}

	r.writePlain("Roster (%d players):\n\n", len(players))
	for i, p := range players {
		r.writePlain("%d. %s\n", i+1, p.Name())
		if p.HasTrack() {
			track := p.Track()
			r.writePlain("   Walk-up: %s - %s\n", track.Artist, track.Title)
			if p.StartMS() > 0 || p.CueMS() > 0 {
				r.writePlain("   Cue: %s", shared.FormatDuration(p.StartMS()))
				if p.CueMS() > 0 {
					r.writePlain(" for %s", shared.FormatDuration(p.CueMS()))
				}
				r.writePlain("\n")
			}
		} else {
			r.writePlain("   No walk-up track assigned\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// RosterRemove soft-deletes a roster entry by player name.
func (r *Runner) RosterRemove(ctx context.Context, cmd *cli.Command) error {
	playerName := cmd.StringArg("player")

	if playerName == "" {
		return fmt.Errorf("%w: usage: walkon roster remove <player>", shared.ErrMissingArgument)
	}

	if r.players == nil {
		return fmt.Errorf("%w: roster storage not initialized", shared.ErrServiceUnavailable)
	}

	player, err := r.players.GetByName(playerName)
	if err != nil {
		return fmt.Errorf("%w: %s", shared.ErrPlayerNotFound, playerName)
	}

	if err := r.players.Delete(player.ID()); err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}

	return r.writePlain("✓ Removed %s from the roster\n", playerName)
}

// RosterExport writes the roster to disk as a lineup card.
func (r *Runner) RosterExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")
	team := cmd.String("team")

	if r.players == nil {
		return fmt.Errorf("%w: roster storage not initialized", shared.ErrServiceUnavailable)
	}

	players, err := r.players.List(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to list roster: %w", err)
	}
	if len(players) == 0 {
		return fmt.Errorf("%w: roster is empty", shared.ErrInvalidInput)
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(players, output)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		r.writePlain("✓ Exported roster to %s\n", result.RosterFile)
		return r.writePlain("  Metadata: %s\n", result.MetadataFile)
	case "markdown", "md":
		written, err := formatter.WriteMarkdownExport(players, team, output)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return r.writePlain("✓ Exported lineup card to %s\n", written)
	case "text", "txt":
		written, err := formatter.WriteTextExport(players, team, output)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return r.writePlain("✓ Exported roster to %s\n", written)
	default:
		return fmt.Errorf("%w: unknown format %q (use csv, markdown, or text)", shared.ErrInvalidArgument, format)
	}
}

// RosterWalkUp cues a player's walk-up track on the active device.
func (r *Runner) RosterWalkUp(ctx context.Context, cmd *cli.Command) error {
	playerName := cmd.StringArg("player")

	if playerName == "" {
		return fmt.Errorf("%w: usage: walkon roster walkup <player>", shared.ErrMissingArgument)
	}

	if err := r.requireSession(); err != nil {
		return err
	}
	if r.engine == nil {
		return fmt.Errorf("%w: roster engine not initialized", shared.ErrServiceUnavailable)
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	player, err := r.engine.WalkUp(ctx, playerName, progress)
	close(progress)
	<-done

	if err != nil {
		if errors.Is(err, shared.ErrNoActiveDevice) {
			return r.playbackError(err)
		}
		return err
	}

	track := player.Track()
	return r.writePlain("✓ %s walked up to %s - %s\n", player.Name(), track.Artist, track.Title)
}
