package match

import (
	"context"
	"fmt"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/marimeireles/spotify-to-youtube/internal/models"
)

// watchURLFormat is the shape of every produced URL.
const watchURLFormat = "https://www.youtube.com/watch?v=%s"

// defaultMaxCandidates bounds how many search results one resolution
// attempt considers when the caller does not say.
const defaultMaxCandidates = 8

var (
	featClause     = regexp.MustCompile(`(?i)\b(feat\.?|featuring)\b.*`)
	bracketedChunk = regexp.MustCompile(`[(\[{].*?[)\]}]`)
)

// SearchClient is the external search capability the resolver drives.
// Both calls may fail transiently; the resolver absorbs failures into
// a miss for the current attempt.
type SearchClient interface {
	// Search returns up to maxResults video ids for the query.
	Search(ctx context.Context, query string, maxResults int) ([]string, error)

	// VideoDetails fetches detail data for the given ids in one batch.
	// The returned map may be missing entries for individual ids.
	VideoDetails(ctx context.Context, ids []string) (map[string]models.Candidate, error)
}

// Resolver turns one track into at most one video id using a strict
// two-stage policy: a primary query, then a single simplified fallback
// query when the primary stage selects nothing. There is deliberately
// no retry loop beyond that; the fallback is a semantically different
// request, not a repeat, and two stages bound external call volume per
// track.
type Resolver struct {
	client        SearchClient
	logger        *log.Logger
	maxCandidates int
}

// NewResolver creates a Resolver around the given search capability.
// maxCandidates is clamped to [1, 50]; 0 selects the default.
func NewResolver(client SearchClient, logger *log.Logger, maxCandidates int) *Resolver {
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	if maxCandidates > 50 {
		maxCandidates = 50
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{client: client, logger: logger, maxCandidates: maxCandidates}
}

// BuildQuery renders the primary search query for a track.
func BuildQuery(track models.Track) string {
	return fmt.Sprintf("%s - %s", track.Artist, track.Title)
}

// SimplifyQuery derives the fallback query: bracketed and braced
// segments are removed first, then everything from a feat/featuring
// clause onward, and whitespace is collapsed. Bracket stripping runs
// first so a feat clause inside brackets does not leave a dangling
// opener behind.
func SimplifyQuery(query string) string {
	simplified := bracketedChunk.ReplaceAllString(query, "")
	simplified = featClause.ReplaceAllString(simplified, "")
	return SquashSpaces(simplified)
}

// WatchURL renders the playable URL for a video id.
func WatchURL(videoID string) string {
	return fmt.Sprintf(watchURLFormat, videoID)
}

// Resolve maps one track to a ResolutionResult. It never returns an
// error: search or detail failures are logged and degrade to a miss so
// one track can never abort a run.
func (r *Resolver) Resolve(ctx context.Context, track models.Track) models.ResolutionResult {
	primary := BuildQuery(track)

	if id, ok := r.attempt(ctx, primary, track.Duration); ok {
		return models.ResolutionResult{Matched: true, VideoID: id, URL: WatchURL(id)}
	}

	fallback := SimplifyQuery(primary)
	if fallback == "" || fallback == primary {
		return models.ResolutionResult{}
	}

	r.logger.Debug("retrying with simplified query", "primary", primary, "fallback", fallback)
	if id, ok := r.attempt(ctx, fallback, track.Duration); ok {
		return models.ResolutionResult{Matched: true, VideoID: id, URL: WatchURL(id), Fallback: true}
	}

	return models.ResolutionResult{}
}

// attempt runs one search→detail→score round and reports the selected
// video id, if any.
func (r *Resolver) attempt(ctx context.Context, query string, targetSeconds int) (string, bool) {
	ids, err := r.client.Search(ctx, query, r.maxCandidates)
	if err != nil {
		r.logger.Warn("search failed", "query", query, "error", err)
		return "", false
	}
	if len(ids) == 0 {
		return "", false
	}

	details, err := r.client.VideoDetails(ctx, ids)
	if err != nil {
		r.logger.Warn("detail fetch failed", "query", query, "error", err)
		return "", false
	}

	return SelectBest(ids, details, targetSeconds)
}
