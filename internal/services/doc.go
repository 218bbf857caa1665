// Package services implements the HTTP clients for the two providers the
// resolver bridges: Spotify (catalog source) and the YouTube Data API
// (search and playlist sink).
//
// # Source and Sink
//
// [Source] abstracts playlist and track retrieval; [Sink] abstracts video
// search, detail lookup, and playlist writes. The resolve engine only sees
// these interfaces, so tests can substitute doubles.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 (authorization code flow) for
// authentication. The [oauth2] client transport refreshes expired tokens
// automatically when a refresh token is cached.
//
// # YouTube Implementation
//
// [YouTubeService] talks directly to the YouTube Data API v3. Read
// operations (search.list, videos.list) work with an API key alone;
// playlist writes (playlists.insert, playlistItems.insert) require an
// OAuth token with the youtube scope.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token for an operation that needs one
//   - [shared.ErrTokenExpired] : OAuth token rejected, reauthorization needed
//   - [shared.ErrQuotaExceeded] : provider quota exhausted
//   - [shared.ErrInvalidPlaylist] : playlist reference could not be parsed
//   - [shared.ErrAPIRequest] : any other HTTP failure
package services
