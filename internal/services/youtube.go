// YouTube Data API v3 implementation of [Sink]
//
// Response types based on https://developers.google.com/youtube/v3/docs
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/marimeireles/spotify-to-youtube/internal/match"
	"github.com/marimeireles/spotify-to-youtube/internal/models"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
	"golang.org/x/oauth2"
)

const (
	youtubeAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	youtubeTokenURL = "https://oauth2.googleapis.com/token"
	youtubeBaseURL  = "https://www.googleapis.com/youtube/v3"
	youtubeScope    = "https://www.googleapis.com/auth/youtube"

	// videos.list and search.list accept at most 50 IDs/results per call.
	maxBatchSize = 50
)

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type youtubeVideoResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type youtubePlaylistResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// YouTubeService implements [Sink] against the YouTube Data API v3.
//
// Search and video detail lookups run with the API key when one is
// configured; playlist writes always need an OAuth token.
type YouTubeService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger
}

// NewYouTubeService creates a YouTube client from stored credentials.
func NewYouTubeService(creds shared.YouTubeConfig, logger *log.Logger) *YouTubeService {
	if logger == nil {
		logger = log.Default()
	}

	y := &YouTubeService{
		apiKey:     creds.APIKey,
		httpClient: http.DefaultClient,
		logger:     logger,
	}

	if creds.ClientID != "" && creds.ClientSecret != "" {
		y.config = &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       []string{youtubeScope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  youtubeAuthURL,
				TokenURL: youtubeTokenURL,
			},
		}

		if token := creds.Token(); token != nil {
			y.SetToken(token)
		}
	}

	return y
}

func (y *YouTubeService) Name() string { return "YouTube" }

// AuthURL returns the OAuth2 authorization URL for user consent.
func (y *YouTubeService) AuthURL(state string) string {
	if y.config == nil {
		return ""
	}
	return y.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the client configuration for the callback server.
// Nil when only an API key is configured.
func (y *YouTubeService) OAuthConfig() *oauth2.Config {
	return y.config
}

// Authenticate exchanges an authorization code for a token.
func (y *YouTubeService) Authenticate(ctx context.Context, code string) error {
	if y.config == nil {
		return fmt.Errorf("%w: youtube client_id and client_secret are required for OAuth", shared.ErrMissingCredentials)
	}

	token, err := y.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}
	y.SetToken(token)
	return nil
}

// SetToken applies a token and wires up the refreshing client transport.
func (y *YouTubeService) SetToken(token *oauth2.Token) {
	y.token = token
	if y.config != nil {
		y.httpClient = y.config.Client(context.Background(), token)
	}
}

// Token returns the current token so callers can persist refreshed
// credentials. Nil until authenticated.
func (y *YouTubeService) Token() *oauth2.Token {
	return y.token
}

// doRequest performs a request against the Data API, attaching the API
// key and bearer token as available.
func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, params url.Values, body, result any) error {
	if y.token == nil && y.apiKey == "" {
		return fmt.Errorf("%w: no API key or token configured", shared.ErrNotAuthenticated)
	}

	if params == nil {
		params = url.Values{}
	}
	if y.apiKey != "" {
		params.Set("key", y.apiKey)
	}

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	apiURL := youtubeBaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: youtube returned 401", shared.ErrTokenExpired)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: youtube returned 403", shared.ErrQuotaExceeded)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: youtube returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search runs search.list and returns the video IDs in API order.
func (y *YouTubeService) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > maxBatchSize {
		maxResults = maxBatchSize
	}

	params := url.Values{}
	params.Set("part", "id")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))

	var resp youtubeSearchResponse
	if err := y.doRequest(ctx, http.MethodGet, "/search", params, nil, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	return ids, nil
}

// VideoDetails runs videos.list for the given IDs, batching at 50, and
// returns a map keyed by video ID. IDs the API omits (deleted or private
// videos) are simply absent from the result.
func (y *YouTubeService) VideoDetails(ctx context.Context, ids []string) (map[string]models.Candidate, error) {
	details := make(map[string]models.Candidate, len(ids))

	for start := 0; start < len(ids); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("id", strings.Join(ids[start:end], ","))

		var resp youtubeVideoResponse
		if err := y.doRequest(ctx, http.MethodGet, "/videos", params, nil, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			details[item.ID] = models.Candidate{
				ID:       item.ID,
				Title:    item.Snippet.Title,
				Channel:  item.Snippet.ChannelTitle,
				Duration: match.ParseISODuration(item.ContentDetails.Duration),
			}
		}
	}

	return details, nil
}

// EnsurePlaylist returns the ID of the caller's playlist with the exact
// title, creating a private one when no page contains it.
func (y *YouTubeService) EnsurePlaylist(ctx context.Context, title string) (string, error) {
	if y.token == nil {
		return "", fmt.Errorf("%w: playlist writes require OAuth", shared.ErrNotAuthenticated)
	}

	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("mine", "true")
		params.Set("maxResults", "50")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp youtubePlaylistResponse
		if err := y.doRequest(ctx, http.MethodGet, "/playlists", params, nil, &resp); err != nil {
			return "", err
		}

		for _, item := range resp.Items {
			if item.Snippet.Title == title {
				return item.ID, nil
			}
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return y.createPlaylist(ctx, title)
}

func (y *YouTubeService) createPlaylist(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet,status")

	body := map[string]any{
		"snippet": map[string]any{"title": title},
		"status":  map[string]any{"privacyStatus": "private"},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := y.doRequest(ctx, http.MethodPost, "/playlists", params, body, &created); err != nil {
		return "", err
	}

	y.logger.Info("created playlist", "title", title, "id", created.ID)
	return created.ID, nil
}

// AddPlaylistItem appends a video to the end of the playlist.
func (y *YouTubeService) AddPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	if y.token == nil {
		return fmt.Errorf("%w: playlist writes require OAuth", shared.ErrNotAuthenticated)
	}

	params := url.Values{}
	params.Set("part", "snippet")

	body := map[string]any{
		"snippet": map[string]any{
			"playlistId": playlistID,
			"resourceId": map[string]any{
				"kind":    "youtube#video",
				"videoId": videoID,
			},
		},
	}

	return y.doRequest(ctx, http.MethodPost, "/playlistItems", params, body, nil)
}
