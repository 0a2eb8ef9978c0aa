package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/walkon/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlayerPlay starts or resumes playback on the active device.
func (r *Runner) PlayerPlay(ctx context.Context, cmd *cli.Command) error {
	uri := cmd.String("uri")
	position := cmd.Int("position")

	if err := r.requireSession(); err != nil {
		return err
	}

	if err := r.service.Play(ctx, uri, int(position)); err != nil {
		return r.playbackError(err)
	}

	if uri != "" {
		return r.writePlain("▶ Playing %s\n", uri)
	}
	return r.writePlain("▶ Resumed\n")
}

// PlayerPause pauses playback on the active device.
func (r *Runner) PlayerPause(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	if err := r.service.Pause(ctx); err != nil {
		return r.playbackError(err)
	}

	return r.writePlain("⏸ Paused\n")
}

// PlayerSeek moves the playhead of the current track.
func (r *Runner) PlayerSeek(ctx context.Context, cmd *cli.Command) error {
	position := cmd.Int("position")

	if err := r.requireSession(); err != nil {
		return err
	}

	if err := r.service.Seek(ctx, int(position)); err != nil {
		return r.playbackError(err)
	}

	return r.writePlain("⏩ Seeked to %s\n", shared.FormatDuration(int(position)))
}

// PlayerStatus shows the current playback state.
func (r *Runner) PlayerStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	state, err := r.service.PlaybackState(ctx)
	if err != nil {
		return r.playbackError(err)
	}

	if state == nil {
		return r.writePlain("Nothing is playing\n")
	}

	if state.IsPlaying {
		r.writePlain("▶ Playing: %s - %s\n", state.Track.Artist, state.Track.Title)
	} else {
		r.writePlain("⏸ Paused: %s - %s\n", state.Track.Artist, state.Track.Title)
	}

	r.writePlain("Position: %s / %s\n", shared.FormatDuration(state.ProgressMS), shared.FormatDuration(state.Track.DurationMS))
	r.writePlain("Device: %s\n", state.Device.Name)

	return nil
}

// PlayerDevices lists playback devices registered with the account.
func (r *Runner) PlayerDevices(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	devices, err := r.service.Devices(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if len(devices) == 0 {
		return r.writePlain("No devices found. Open the provider app on a device first.\n")
	}

	r.writePlain("Found %d devices:\n\n", len(devices))
	for i, d := range devices {
		marker := " "
		if d.IsActive {
			marker = "●"
		}
		r.writePlain("%s %d. %s (%s) volume %d%%\n", marker, i+1, d.Name, d.Type, d.VolumePercent)
	}

	return nil
}

// playbackError translates playback failures to user-facing messages.
func (r *Runner) playbackError(err error) error {
	if errors.Is(err, shared.ErrNoActiveDevice) {
		r.writePlain("✗ No active playback device. Open the provider app somewhere first.\n")
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}
