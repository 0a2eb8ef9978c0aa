package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/walkon/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the provider catalog and prints matching tracks.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	if err := r.requireSession(); err != nil {
		return err
	}

	r.logger.Infof("searching catalog for %q", query)

	tracks, err := r.service.SearchTracks(ctx, query, int(limit))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	if len(tracks) == 0 {
		return r.writePlain("No tracks found for %q\n", query)
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Artist, track.Title)
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
		r.writePlain("   Duration: %s\n", shared.FormatDuration(track.DurationMS))
		r.writePlain("   URI: %s\n", track.URI)
		r.writePlain("\n")
	}

	return nil
}
