package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/cine/internal/playback"
	"github.com/desertthunder/cine/internal/shared"
	"github.com/urfave/cli/v3"
)

// Watch plays a video in the configured external player and records the
// watch event for signed-in users.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	r.restore(ctx)

	playerConfig := r.config.Player
	if cmd.Bool("browser") {
		playerConfig.Command = "browser"
	}
	engine := playback.NewEngine(playerConfig, r.logger)

	player := playback.NewSession(playback.SessionOpts{
		Catalog:  r.videos,
		Recorder: r.account,
		Engine:   engine,
		Token:    r.token(),
		Logger:   r.logger,
	})
	defer player.Release()

	if err := player.Load(ctx, id); err != nil {
		if errors.Is(err, shared.ErrVideoNotFound) {
			return fmt.Errorf("video not found: %s", id)
		}
		return fmt.Errorf("failed to start playback: %w", err)
	}

	if _, err := player.Toggle(ctx); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	video := player.Video()
	r.writePlain("▶ Playing %s [%s]\n", video.Title, video.Duration)

	// Block until the external player exits so Release doesn't kill it.
	if waiter, ok := engine.(interface{ Wait() error }); ok {
		if err := waiter.Wait(); err != nil {
			r.logger.Debugf("player exited: %v", err)
		}
	}

	return nil
}
