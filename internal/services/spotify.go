// Spotify Web API implementation of [Source]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/marimeireles/spotify-to-youtube/internal/match"
	"github.com/marimeireles/spotify-to-youtube/internal/models"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify caps the tracks page size at 100 and the playlists page
	// size at 50.
	trackPageSize    = 100
	playlistPageSize = 50
)

// Spotify IDs are 22 base62 characters.
var spotifyIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type spotifyPlaylistItem struct {
	IsLocal bool         `json:"is_local"`
	Track   SpotifyTrack `json:"track"`
}

type spotifyTrackPage struct {
	Items []spotifyPlaylistItem `json:"items"`
	Total int                   `json:"total"`
	Next  *string               `json:"next"`
}

type spotifyPlaylistPage struct {
	Items []SpotifyPlaylist `json:"items"`
	Total int               `json:"total"`
	Next  *string           `json:"next"`
}

// SpotifyService implements [Source] against the Spotify Web API.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	logger     *log.Logger
}

// NewSpotifyService creates a Spotify client from stored credentials.
// A cached token, when present, is applied immediately so repeat runs
// skip the browser flow.
func NewSpotifyService(creds shared.SpotifyConfig, logger *log.Logger) (*SpotifyService, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	if logger == nil {
		logger = log.Default()
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes: []string{
			"playlist-read-private",
			"playlist-read-collaborative",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	s := &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		logger:     logger,
	}

	if token := creds.Token(); token != nil {
		s.SetToken(token)
	}

	return s, nil
}

func (s *SpotifyService) Name() string { return "Spotify" }

// AuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the client configuration for the callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// Authenticate exchanges an authorization code for a token.
func (s *SpotifyService) Authenticate(ctx context.Context, code string) error {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}
	s.SetToken(token)
	return nil
}

// SetToken applies a token and wires up the refreshing client transport.
func (s *SpotifyService) SetToken(token *oauth2.Token) {
	s.token = token
	s.httpClient = s.config.Client(context.Background(), token)
}

// Token returns the current token so callers can persist refreshed
// credentials. Nil until authenticated.
func (s *SpotifyService) Token() *oauth2.Token {
	return s.token
}

// ExtractPlaylistID pulls the playlist ID out of a share URL, a
// spotify: URI, or a bare ID.
//
// Accepted forms:
//   - https://open.spotify.com/playlist/<id>?si=...
//   - spotify:playlist:<id>
//   - <id> (22 base62 characters)
func ExtractPlaylistID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty input", shared.ErrInvalidPlaylist)
	}

	if strings.HasPrefix(raw, "spotify:") {
		parts := strings.Split(raw, ":")
		if len(parts) == 3 && parts[1] == "playlist" && spotifyIDPattern.MatchString(parts[2]) {
			return parts[2], nil
		}
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidPlaylist, raw)
	}

	if strings.Contains(raw, "/") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %q", shared.ErrInvalidPlaylist, raw)
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, seg := range segments {
			if seg == "playlist" && i+1 < len(segments) && spotifyIDPattern.MatchString(segments[i+1]) {
				return segments[i+1], nil
			}
		}
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidPlaylist, raw)
	}

	if spotifyIDPattern.MatchString(raw) {
		return raw, nil
	}

	return "", fmt.Errorf("%w: %q", shared.ErrInvalidPlaylist, raw)
}

// doRequest performs an authenticated GET against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spotifyBaseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify returned 401", shared.ErrTokenExpired)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: spotify returned 404", shared.ErrPlaylistNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: spotify returned 429", shared.ErrQuotaExceeded)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Playlist retrieves playlist metadata by ID.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	endpoint := fmt.Sprintf("/playlists/%s?fields=id,name,description,public,tracks(total)", playlistID)

	var sp SpotifyPlaylist
	if err := s.doRequest(ctx, endpoint, &sp); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		TrackCount:  sp.Tracks.Total,
		Public:      sp.Public,
	}, nil
}

// Playlists lists the authenticated user's playlists, following
// pagination at 50 items per page.
func (s *SpotifyService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", playlistPageSize, offset)

		var page spotifyPlaylistPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, sp := range page.Items {
			playlists = append(playlists, models.Playlist{
				ID:          sp.ID,
				Name:        sp.Name,
				Description: sp.Description,
				TrackCount:  sp.Tracks.Total,
				Public:      sp.Public,
			})
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += playlistPageSize
	}

	s.logger.Debug("fetched playlists", "count", len(playlists))
	return playlists, nil
}

// ExportPlaylist fetches a playlist's metadata and full track list.
func (s *SpotifyService) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	playlist, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	tracks, err := s.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &models.PlaylistExport{Playlist: *playlist, Tracks: tracks}, nil
}

// PlaylistTracks retrieves every track in the playlist, following
// pagination at 100 items per page. Local files and items with no track
// body (removed or region-blocked) are skipped.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	var tracks []models.Track
	offset := 0

	for {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", playlistID, trackPageSize, offset)

		var page spotifyTrackPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if track, ok := trackFromItem(item); ok {
				tracks = append(tracks, track)
			}
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += trackPageSize
	}

	s.logger.Debug("fetched playlist tracks", "playlist", playlistID, "count", len(tracks))
	return tracks, nil
}

// trackFromItem converts a raw playlist item to a normalized track.
// Returns false for items resolution cannot use.
func trackFromItem(item spotifyPlaylistItem) (models.Track, bool) {
	if item.IsLocal || item.Track.ID == "" || item.Track.Name == "" {
		return models.Track{}, false
	}

	names := make([]string, 0, len(item.Track.Artists))
	for _, a := range item.Track.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}

	return models.Track{
		ID:       item.Track.ID,
		Title:    match.CleanTag(item.Track.Name),
		Artist:   match.CleanTag(strings.Join(names, ", ")),
		Album:    item.Track.Album.Name,
		Duration: item.Track.DurationMS / 1000,
	}, true
}
