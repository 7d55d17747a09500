package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cine/internal/catalog"
	"github.com/desertthunder/cine/internal/formatter"
	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/shared"
	"github.com/urfave/cli/v3"
)

// Feed loads the sectioned home feed and renders it.
func (r *Runner) Feed(ctx context.Context, cmd *cli.Command) error {
	r.restore(ctx)

	var snapshot *catalog.Snapshot
	var err error

	if cmd.Bool("cached") {
		snapshot, err = r.aggregator.LoadCached()
	} else {
		snapshot, err = r.aggregator.Load(ctx, r.token(), nil)
	}
	if err != nil {
		return fmt.Errorf("failed to load feed: %w", err)
	}

	if dir := cmd.String("export"); dir != "" {
		result, err := formatter.WriteMarkdownExport(snapshot, dir)
		if err != nil {
			return fmt.Errorf("failed to export feed: %w", err)
		}
		return r.writePlain("✓ Feed exported to %s\n", result.Directory)
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshot.Sections, cmd.Bool("pretty"))
	}

	if hero := snapshot.Hero(); hero != nil {
		r.writePlainHeader(fmt.Sprintf("Featured: %s", hero.Title))
	}

	for _, key := range snapshot.Keys() {
		section := snapshot.Sections[key]
		r.writePlainln("%s (%d)", key, len(section))
		for i, video := range section {
			r.writePlain("  %d. %s [%s] — %s views\n", i+1, video.Title, video.Duration, shared.FormatViews(video.Views))
		}
	}

	if len(snapshot.History) > 0 {
		r.writePlainln("Recently watched")
		for i, video := range snapshot.History {
			r.writePlain("  %d. %s\n", i+1, video.Title)
		}
	}

	return nil
}

// Trending lists currently-trending videos.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	videos, err := r.videos.FetchTrending(ctx, int(limit))
	if err != nil {
		return fmt.Errorf("failed to fetch trending videos: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, true)
	}

	return r.printVideoList("Trending", videos)
}

// Search runs a one-shot catalog search for the query argument.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	r.logger.Infof("searching for %q", query)

	videos, err := r.videos.SearchVideos(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if base := cmd.String("csv"); base != "" {
		result, err := formatter.WriteCSVExport(videos, base)
		if err != nil {
			return fmt.Errorf("failed to export results: %w", err)
		}
		return r.writePlain("✓ Results exported to %s\n", result.VideosFile)
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, true)
	}

	if len(videos) == 0 {
		return r.writePlain("No results for %q\n", query)
	}
	return r.printVideoList(fmt.Sprintf("Results for %q", query), videos)
}

// Video shows a single video's details.
func (r *Runner) Video(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	video, err := r.videos.FetchVideoByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch video: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(video, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.VideoToText(video))
}

// History lists the signed-in user's recently watched videos.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	r.restore(ctx)

	token := r.token()
	if token == "" {
		return fmt.Errorf("%w: run 'cine auth login'", shared.ErrNotAuthenticated)
	}

	videos, err := r.account.WatchHistory(ctx, token, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to fetch watch history: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, true)
	}

	if len(videos) == 0 {
		return r.writePlain("No watch history yet\n")
	}
	return r.printVideoList("Recently watched", videos)
}

func (r *Runner) printVideoList(title string, videos []models.Video) error {
	r.writePlainHeader(title)
	for i, video := range videos {
		if err := r.writePlain("%d. %s [%s] — %s views\n", i+1, video.Title, video.Duration, shared.FormatViews(video.Views)); err != nil {
			return err
		}
	}
	return nil
}
