package main

import (
	"context"
	"fmt"

	"github.com/marimeireles/spotify-to-youtube/internal/match"
	"github.com/urfave/cli/v3"
)

// CacheList prints cached track→video resolutions.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureRepo(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}

	resolutions, err := r.repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cached resolutions: %w", err)
	}

	if cmd.Bool("json") {
		rows := make([]map[string]any, len(resolutions))
		for i, res := range resolutions {
			rows[i] = map[string]any{
				"track_id": res.TrackID(),
				"video_id": res.VideoID(),
				"artist":   res.Artist(),
				"title":    res.Title(),
				"duration": res.Duration(),
				"url":      match.WatchURL(res.VideoID()),
			}
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	r.writePlain("Cached resolutions: %d\n\n", len(resolutions))
	for i, res := range resolutions {
		r.writePlain("%d. %s - %s\n", i+1, res.Artist(), res.Title())
		r.writePlain("   %s\n", match.WatchURL(res.VideoID()))
	}

	return nil
}

// CacheShow prints the cached resolution for one track.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("track-id")
	if trackID == "" {
		return fmt.Errorf("track ID is required")
	}

	if err := r.ensureRepo(); err != nil {
		return err
	}

	res, err := r.repo.GetByTrackID(trackID)
	if err != nil {
		return fmt.Errorf("no cached resolution for track %s: %w", trackID, err)
	}

	r.writePlain("Track:    %s - %s\n", res.Artist(), res.Title())
	r.writePlain("Video:    %s\n", res.VideoID())
	r.writePlain("URL:      %s\n", match.WatchURL(res.VideoID()))
	r.writePlain("Resolved: %s\n", res.CreatedAt().Format("2006-01-02 15:04:05"))

	return nil
}

// CacheClear soft-deletes every cached resolution.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureRepo(); err != nil {
		return err
	}

	count, err := r.repo.DeleteAll()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cache cleared", "count", count)
	r.writePlain("✓ Cleared %d cached resolutions\n", count)

	return nil
}

// cacheCommand handles the persisted resolution cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage cached track resolutions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached resolutions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Filter by exact artist name",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CacheList,
			},
			{
				Name:  "show",
				Usage: "Show the cached resolution for one track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track-id"},
				},
				Action: r.CacheShow,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached resolutions",
				Action: r.CacheClear,
			},
		},
	}
}
