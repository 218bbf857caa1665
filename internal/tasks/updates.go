package tasks

import (
	"fmt"

	"github.com/marimeireles/spotify-to-youtube/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	EnsureDestination
	ResolveTracks
	WriteOutput
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case EnsureDestination:
		return "ensure_destination"
	case ResolveTracks:
		return "resolve_tracks"
	case WriteOutput:
		return "write_output"
	default:
		return ""
	}
}

func fetchSourceUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching playlist from %s...", name),
	}
}

func foundPlaylistUpdate(pl *models.Playlist, trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", pl.Name, trackCount),
		Data:    pl,
	}
}

func ensurePlaylistUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnsureDestination,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Ensuring destination playlist: %s", title),
	}
}

func resolveTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.Title),
	}
}

func trackResolvedUpdate(step, total int, tr models.Track, res TrackResolution) ProgressUpdate {
	suffix := ""
	if res.FromCache {
		suffix = " (cached)"
	} else if res.Result.Fallback {
		suffix = " (fallback)"
	}
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s%s", step, total, tr.Artist, tr.Title, suffix),
		Data:    res,
	}
}

func trackMissedUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s - %s", step, total, tr.Artist, tr.Title),
	}
}

func writeURLsUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteOutput,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d URLs to %s", count, path),
	}
}
