package services

import (
	"context"

	"github.com/marimeireles/spotify-to-youtube/internal/match"
	"github.com/marimeireles/spotify-to-youtube/internal/models"
	"golang.org/x/oauth2"
)

// OAuthService is implemented by providers that authenticate through
// the browser-based OAuth2 code flow.
type OAuthService interface {
	// Name returns the provider name for display.
	Name() string

	// AuthURL returns the authorization URL for user login.
	AuthURL(state string) string

	// OAuthConfig exposes the underlying client configuration for the
	// local callback server's code exchange.
	OAuthConfig() *oauth2.Config

	// SetToken applies an exchanged token to the client.
	SetToken(token *oauth2.Token)
}

// Source provides playlists and their tracks from a catalog provider.
type Source interface {
	// Playlist retrieves playlist metadata by ID.
	Playlist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// PlaylistTracks retrieves every track in the playlist, following
	// pagination. Tracks come back normalized and ready for resolution.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the provider name (e.g. "Spotify").
	Name() string
}

// Sink receives resolved videos: it searches for candidates and writes
// matches into a destination playlist.
type Sink interface {
	match.SearchClient

	// EnsurePlaylist returns the ID of the playlist with the given title,
	// creating it when none exists.
	EnsurePlaylist(ctx context.Context, title string) (string, error)

	// AddPlaylistItem appends a video to the playlist.
	AddPlaylistItem(ctx context.Context, playlistID, videoID string) error

	// Name returns the provider name (e.g. "YouTube").
	Name() string
}
