package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/marimeireles/spotify-to-youtube/internal/shared"
	"golang.org/x/time/rate"
)

// BulkResolveOpts contains configuration for resolving multiple playlists.
type BulkResolveOpts struct {
	Resolve    ResolveOpts // Per-playlist options; URLsOut is treated as a suffix per playlist
	NumWorkers int         // Concurrent workers (default: 3, max: 10)
	RateLimit  float64     // Playlist starts per second (default: 1)
}

// PlaylistResolveResult pairs a playlist reference with its run outcome.
type PlaylistResolveResult struct {
	PlaylistRef string
	Result      *ResolveRunResult
	Error       error
}

// BulkResolveResult aggregates the outcomes of a multi-playlist run.
type BulkResolveResult struct {
	TotalPlaylists int
	Succeeded      int
	Failed         int
	Results        []PlaylistResolveResult
}

type resolveJob struct {
	index int
	ref   string
}

// BulkResolve resolves several playlists concurrently with rate limiting.
//
// A worker pool keeps NumWorkers runs in flight while the limiter spaces
// out playlist starts. Per-playlist failures are collected, not fatal.
// When opts.Resolve.URLsOut is set, each playlist writes its own list as
// {ref-index}_{URLsOut} to avoid clobbering.
func (e *ResolveEngine) BulkResolve(ctx context.Context, prog chan<- ProgressUpdate, refs []string, opts BulkResolveOpts) (*BulkResolveResult, error) {
	if e.source == nil || e.sink == nil {
		return nil, fmt.Errorf("%w: engine services not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1.0
	}

	result := &BulkResolveResult{
		TotalPlaylists: len(refs),
		Results:        make([]PlaylistResolveResult, len(refs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan resolveJob, len(refs))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					mu.Lock()
					result.Results[job.index] = PlaylistResolveResult{PlaylistRef: job.ref, Error: err}
					mu.Unlock()
					continue
				}

				runOpts := opts.Resolve
				if runOpts.URLsOut != "" {
					runOpts.URLsOut = fmt.Sprintf("%d_%s", job.index+1, opts.Resolve.URLsOut)
				}

				runResult, err := e.Run(ctx, prog, job.ref, runOpts)

				mu.Lock()
				result.Results[job.index] = PlaylistResolveResult{
					PlaylistRef: job.ref,
					Result:      runResult,
					Error:       err,
				}
				mu.Unlock()
			}
		}()
	}

	for i, ref := range refs {
		jobs <- resolveJob{index: i, ref: ref}
	}
	close(jobs)

	wg.Wait()

	for _, res := range result.Results {
		if res.Error != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	return result, nil
}
