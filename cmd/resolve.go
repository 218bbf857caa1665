package main

import (
	"context"
	"fmt"

	"github.com/marimeireles/spotify-to-youtube/internal/formatter"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
	"github.com/marimeireles/spotify-to-youtube/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ResolveRun resolves one Spotify playlist against YouTube.
func (r *Runner) ResolveRun(ctx context.Context, cmd *cli.Command) error {
	playlistRef := cmd.StringArg("playlist")
	if playlistRef == "" {
		return fmt.Errorf("%w: playlist URL, URI, or ID is required", shared.ErrMissingArgument)
	}

	opts := r.resolveOpts(cmd)

	if !cmd.Bool("no-cache") {
		if err := r.ensureRepo(); err != nil {
			r.logger.Warn("resolution cache unavailable", "error", err)
		}
	}
	if err := r.ensureEngine(); err != nil {
		return err
	}

	r.logger.Info("starting resolve", "playlist", playlistRef, "dry_run", opts.DryRun)
	r.writePlain("Resolving playlist %s...\n\n", playlistRef)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.printProgress(update)
		}
	}()

	result, err := r.engine.Run(ctx, progressCh, playlistRef, opts)
	close(progressCh)
	<-done

	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err); reauthed {
			if authErr != nil {
				return authErr
			}
			if result, err = r.engine.Run(ctx, nil, playlistRef, opts); err != nil {
				return err
			}
		} else {
			return err
		}
	}

	r.printSummary(result)

	if reportPath := cmd.String("report"); reportPath != "" {
		format := cmd.String("report-format")
		if err := formatter.WriteReport(format, reportPath, result.Playlist, result.Entries()); err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", reportPath)
	}

	return nil
}

// ResolveBulk resolves several playlists concurrently.
func (r *Runner) ResolveBulk(ctx context.Context, cmd *cli.Command) error {
	refs := cmd.Args().Slice()
	if len(refs) == 0 {
		return fmt.Errorf("%w: at least one playlist URL, URI, or ID is required", shared.ErrMissingArgument)
	}

	if !cmd.Bool("no-cache") {
		if err := r.ensureRepo(); err != nil {
			r.logger.Warn("resolution cache unavailable", "error", err)
		}
	}
	if err := r.ensureEngine(); err != nil {
		return err
	}

	opts := tasks.BulkResolveOpts{
		Resolve:    r.resolveOpts(cmd),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	r.logger.Info("starting bulk resolve", "playlists", len(refs), "workers", opts.NumWorkers)
	r.writePlain("Resolving %d playlists...\n\n", len(refs))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.printProgress(update)
		}
	}()

	result, err := r.engine.BulkResolve(ctx, progressCh, refs, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader("Bulk Resolve Complete!")
	r.writePlain("Playlists: %d (%d succeeded, %d failed)\n\n", result.TotalPlaylists, result.Succeeded, result.Failed)

	for _, pr := range result.Results {
		if pr.Error != nil {
			r.writePlain("✗ %s: %v\n", pr.PlaylistRef, pr.Error)
			continue
		}
		r.writePlain("✓ %s: %d/%d matched (%.1f%%)\n",
			pr.Result.Playlist.Name, pr.Result.MatchedCount, pr.Result.TotalTracks, pr.Result.MatchPercentage)
	}

	return nil
}

// resolveOpts converts the shared resolve flags into engine options.
func (r *Runner) resolveOpts(cmd *cli.Command) tasks.ResolveOpts {
	urlsOut := cmd.String("urls-out")
	if urlsOut == "" {
		urlsOut = r.config.Resolver.URLsOut
	}

	return tasks.ResolveOpts{
		PlaylistName: cmd.String("name"),
		DryRun:       cmd.Bool("dry-run"),
		NoPlaylist:   cmd.Bool("no-playlist"),
		SkipCache:    cmd.Bool("no-cache"),
		URLsOut:      urlsOut,
	}
}

// printProgress renders one engine progress update.
func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.FetchSource:
		r.writePlain("📥 %s\n", update.Message)
	case tasks.EnsureDestination:
		r.writePlain("\n📝 %s\n", update.Message)
	case tasks.ResolveTracks:
		if update.Step == 0 {
			r.writePlain("\n🔍 %s\n", update.Message)
		} else {
			r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	case tasks.WriteOutput:
		r.writePlain("\n💾 %s\n", update.Message)
	}
}

// printSummary renders the final run summary.
func (r *Runner) printSummary(result *tasks.ResolveRunResult) {
	r.writePlain("\n")
	r.writePlainHeader("Resolve Complete!")
	r.writePlain("Source: %s (%d tracks)\n", result.Playlist.Name, result.TotalTracks)
	if result.DestinationID != "" {
		r.writePlain("Destination playlist: %s\n", result.DestinationID)
	}
	r.writePlain("Success rate: %d/%d (%.1f%%)\n", result.MatchedCount, result.TotalTracks, result.MatchPercentage)
	if result.URLsPath != "" {
		r.writePlain("URL list: %s (%d unique)\n", result.URLsPath, len(result.URLs))
	}

	if result.AddErrorCount > 0 {
		r.writePlain("\nFailed to add %d matched tracks to the playlist:\n", result.AddErrorCount)
		for _, res := range result.Resolutions {
			if res.AddError != nil {
				r.writePlain("  - %s - %s: %v\n", res.Track.Artist, res.Track.Title, res.AddError)
			}
		}
	}

	if result.FailedCount > 0 {
		r.writePlain("\nFailed to match %d tracks:\n", result.FailedCount)
		for _, res := range result.Resolutions {
			if !res.Result.Matched {
				r.writePlain("  - %s - %s\n", res.Track.Artist, res.Track.Title)
			}
		}
	}
}

func resolveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Destination playlist title (default: source playlist name)",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Resolve tracks without creating playlists or writing files",
		},
		&cli.BoolFlag{
			Name:  "no-playlist",
			Usage: "Skip playlist creation, still write the URL list",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Ignore previously cached resolutions",
		},
		&cli.StringFlag{
			Name:  "urls-out",
			Usage: "Path for the deduplicated URL list",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a resolution report to this path",
		},
		&cli.StringFlag{
			Name:  "report-format",
			Usage: "Report format: csv, markdown, or txt",
			Value: "markdown",
		},
	}
}

// resolveCommand handles playlist resolution operations.
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve a Spotify playlist to YouTube videos",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "playlist"},
		},
		Flags:  resolveFlags(),
		Action: r.ResolveRun,
		Commands: []*cli.Command{
			{
				Name:  "bulk",
				Usage: "Resolve several playlists concurrently",
				Flags: append(resolveFlags(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers (max 10)",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Playlists started per second",
						Value: 1,
					},
				),
				Action: r.ResolveBulk,
			},
		},
	}
}
