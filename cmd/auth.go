package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/marimeireles/spotify-to-youtube/internal/server"
	"github.com/marimeireles/spotify-to-youtube/internal/services"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// SpotifyAuth performs the OAuth2 authentication flow for Spotify.
//
// Starts a local HTTP server, opens browser for user authorization, and exchanges the auth code for tokens.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	if r.config.Credentials.Spotify.ClientID == "" || r.config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	if r.spotify == nil {
		svc, err := services.NewSpotifyService(r.config.Credentials.Spotify, r.logger)
		if err != nil {
			return fmt.Errorf("failed to create Spotify service: %w", err)
		}
		r.spotify = svc
	}

	token, err := r.doOAuth(r.spotify, "authorization")
	if err != nil {
		return err
	}
	r.spotify.SetToken(token)

	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	if r.configPath != "" {
		r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	}
	r.writePlain("You can now use: sp2yt spotify playlists\n")

	return nil
}

// YouTubeAuth performs the OAuth2 consent flow for YouTube.
//
// The API key covers search and video details; playlist writes need
// this flow.
func (r *Runner) YouTubeAuth(ctx context.Context, cmd *cli.Command) error {
	if r.config.Credentials.YouTube.ClientID == "" || r.config.Credentials.YouTube.ClientSecret == "" {
		return fmt.Errorf("%w: YouTube client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	if r.youtube == nil || r.youtube.OAuthConfig() == nil {
		r.youtube = services.NewYouTubeService(r.config.Credentials.YouTube, r.logger)
	}

	token, err := r.doOAuth(r.youtube, "consent")
	if err != nil {
		return err
	}
	r.youtube.SetToken(token)

	if err := r.config.Credentials.YouTube.Update(token); err != nil {
		return fmt.Errorf("failed to update youtube configuration: %w", err)
	}
	if r.configPath != "" {
		if err := shared.SaveConfig(r.configPath, r.config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	r.writePlainln("✓ Authorization successful")
	if r.configPath != "" {
		r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	}
	r.writePlain("You can now use: sp2yt resolve <playlist>\n")

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(oauthSrv services.OAuthService, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthSrv.AuthURL(state)
	if authURL == "" {
		return nil, fmt.Errorf("%w: OAuth client not configured", shared.ErrMissingCredentials)
	}

	oauthHandler := server.NewOAuthHandler(oauthSrv.OAuthConfig(), oauthSrv.Name(), state)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for %s %s...\n", oauthSrv.Name(), prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// handleSpotifyAuthError checks if an error is a token expiration error and triggers reauthorization if needed.
func (r *Runner) handleSpotifyAuthError(ctx context.Context, err error) (bool, error) {
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, shared.ErrTokenExpired) {
		return false, err
	}

	r.writePlainln("⚠ Authentication token expired. Starting reauthorization...\n")

	token, reauthErr := r.doOAuth(r.spotify, "reauthorization")
	if reauthErr != nil {
		return true, fmt.Errorf("reauthorization failed: %w", reauthErr)
	}
	r.spotify.SetToken(token)

	if saveErr := r.saveTokens(token); saveErr != nil {
		return true, saveErr
	}

	r.writePlainln("✓ Successfully reauthenticated. Retrying operation...\n")

	return true, nil
}

// authCommand handles OAuth authorization for both providers.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize with Spotify and YouTube",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authenticate with Spotify using OAuth2",
				Action: r.SpotifyAuth,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Authorize playlist writes on YouTube using OAuth2",
				Action:  r.YouTubeAuth,
			},
		},
	}
}
