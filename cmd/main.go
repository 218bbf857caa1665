package main

import (
	"context"
	"errors"
	"os"

	"github.com/marimeireles/spotify-to-youtube/internal/services"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService *services.SpotifyService
	if svc, err := services.NewSpotifyService(config.Credentials.Spotify, logger); err == nil {
		spotifyService = svc
	}

	youtubeService := services.NewYouTubeService(config.Credentials.YouTube, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Spotify:    spotifyService,
		YouTube:    youtubeService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "sp2yt",
		Usage:    "Resolve Spotify playlists against YouTube",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
