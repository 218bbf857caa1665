// package tasks implements the playlist resolution workflow.
//
// The core abstraction is ResolveEngine, which takes a Spotify playlist
// reference and drives every track through search, scoring, and playlist
// insertion. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/marimeireles/spotify-to-youtube/internal/formatter"
	"github.com/marimeireles/spotify-to-youtube/internal/match"
	"github.com/marimeireles/spotify-to-youtube/internal/models"
	"github.com/marimeireles/spotify-to-youtube/internal/services"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
)

// TrackResolver resolves a single track to a video. Implemented by
// [match.Resolver].
type TrackResolver interface {
	Resolve(ctx context.Context, track models.Track) models.ResolutionResult
}

// ResolutionCache is the subset of the repository the engine needs to
// skip already-resolved tracks.
type ResolutionCache interface {
	GetByTrackID(trackID string) (*models.PersistedResolution, error)
	Create(res *models.PersistedResolution) error
}

// TrackResolution represents the outcome for a single track.
type TrackResolution struct {
	Track     models.Track            // Catalog track
	Result    models.ResolutionResult // Resolution outcome
	FromCache bool                    // Whether the mapping came from the cache
	AddError  error                   // Error adding the video to the playlist, if any
}

// ResolveOpts contains configuration for a resolve run.
type ResolveOpts struct {
	PlaylistName string // Destination playlist title (default: source playlist name)
	DryRun       bool   // Resolve only, no playlist writes
	NoPlaylist   bool   // Skip playlist creation but still write the URL list
	SkipCache    bool   // Ignore cached resolutions
	URLsOut      string // Path for the URL list; empty skips the file
}

// ResolveRunResult contains all data from a full resolve run.
type ResolveRunResult struct {
	Playlist        *models.Playlist  // Source playlist metadata
	DestinationID   string            // Destination playlist ID ("" when skipped)
	Resolutions     []TrackResolution // Individual track outcomes
	MatchedCount    int               // Tracks that resolved to a video
	FailedCount     int               // Tracks with no acceptable match
	AddErrorCount   int               // Matched tracks that could not be added to the playlist
	TotalTracks     int               // Total tracks processed
	MatchPercentage float64           // Success rate as percentage
	URLs            []string          // Deduplicated watch URLs in first-seen order
	URLsPath        string            // Path of the written URL list ("" when skipped)
}

// Entries converts the run's outcomes into report entries for the formatter.
func (r *ResolveRunResult) Entries() []formatter.ReportEntry {
	entries := make([]formatter.ReportEntry, len(r.Resolutions))
	for i, res := range r.Resolutions {
		entries[i] = formatter.ReportEntry{Track: res.Track, Result: res.Result}
	}
	return entries
}

// ResolveEngine orchestrates a full playlist resolution: fetch tracks
// from the source, resolve each against the sink's search index, and
// write matches into a destination playlist and URL list.
type ResolveEngine struct {
	source   services.Source
	sink     services.Sink
	resolver TrackResolver
	cache    ResolutionCache
	logger   *log.Logger
}

// NewResolveEngine creates a ResolveEngine. cache may be nil to disable
// persistence entirely.
func NewResolveEngine(source services.Source, sink services.Sink, resolver TrackResolver, cache ResolutionCache, logger *log.Logger) *ResolveEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &ResolveEngine{
		source:   source,
		sink:     sink,
		resolver: resolver,
		cache:    cache,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ResolveEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full resolve of one playlist.
//
// Per-track failures never abort the run: a track that cannot be
// resolved is counted as failed, and a video that cannot be added to
// the destination playlist keeps its match but records the error.
func (e *ResolveEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, playlistRef string, opts ResolveOpts) (*ResolveRunResult, error) {
	if e.source == nil || e.sink == nil {
		return nil, fmt.Errorf("%w: engine services not initialized", shared.ErrServiceUnavailable)
	}

	playlistID, err := services.ExtractPlaylistID(playlistRef)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchSourceUpdate(1, 2, e.source.Name()))

	playlist, err := e.source.Playlist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	e.sendProgress(progress, fetchSourceUpdate(2, 2, e.source.Name()))

	tracks, err := e.source.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}

	result := &ResolveRunResult{
		Playlist:    playlist,
		TotalTracks: len(tracks),
	}

	e.sendProgress(progress, foundPlaylistUpdate(playlist, len(tracks)))

	destID := ""
	if !opts.DryRun && !opts.NoPlaylist {
		title := opts.PlaylistName
		if title == "" {
			title = playlist.Name
		}

		e.sendProgress(progress, ensurePlaylistUpdate(title))

		destID, err = e.sink.EnsurePlaylist(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure destination playlist: %w", err)
		}
		result.DestinationID = destID
	}

	urls := match.NewURLSet()
	result.Resolutions = make([]TrackResolution, 0, len(tracks))

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, resolveTrackUpdate(i+1, len(tracks), track))

		resolution := e.resolveOne(ctx, track, opts)

		if resolution.Result.Matched {
			result.MatchedCount++
			urls.Add(resolution.Result.URL)

			if destID != "" {
				if addErr := e.sink.AddPlaylistItem(ctx, destID, resolution.Result.VideoID); addErr != nil {
					resolution.AddError = addErr
					result.AddErrorCount++
					e.logger.Warn("failed to add video to playlist",
						"video", resolution.Result.VideoID, "error", addErr)
				}
			}

			e.sendProgress(progress, trackResolvedUpdate(i+1, len(tracks), track, resolution))
		} else {
			result.FailedCount++
			e.sendProgress(progress, trackMissedUpdate(i+1, len(tracks), track))
		}

		result.Resolutions = append(result.Resolutions, resolution)
	}

	if result.TotalTracks > 0 {
		result.MatchPercentage = float64(result.MatchedCount) / float64(result.TotalTracks) * 100
	}
	result.URLs = urls.URLs()

	if opts.URLsOut != "" && !opts.DryRun {
		e.sendProgress(progress, writeURLsUpdate(opts.URLsOut, urls.Len()))
		if err := formatter.WriteURLList(result.URLs, opts.URLsOut); err != nil {
			return result, err
		}
		result.URLsPath = opts.URLsOut
	}

	e.logger.Info("resolve run complete",
		"playlist", playlist.Name,
		"matched", result.MatchedCount,
		"failed", result.FailedCount,
		"addErrors", result.AddErrorCount)

	return result, nil
}

// resolveOne resolves one track, consulting the cache first and
// persisting fresh matches.
func (e *ResolveEngine) resolveOne(ctx context.Context, track models.Track, opts ResolveOpts) TrackResolution {
	if e.cache != nil && !opts.SkipCache {
		if cached, err := e.cache.GetByTrackID(track.ID); err == nil {
			return TrackResolution{
				Track: track,
				Result: models.ResolutionResult{
					Matched: true,
					VideoID: cached.VideoID(),
					URL:     match.WatchURL(cached.VideoID()),
				},
				FromCache: true,
			}
		}
	}

	result := e.resolver.Resolve(ctx, track)

	if result.Matched && e.cache != nil && !opts.SkipCache {
		res := models.NewPersistedResolution(track.ID, result.VideoID, track)
		if err := e.cache.Create(res); err != nil {
			e.logger.Warn("failed to cache resolution", "track", track.ID, "error", err)
		}
	}

	return TrackResolution{Track: track, Result: result}
}
