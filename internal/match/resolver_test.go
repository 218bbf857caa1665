package match

import (
	"context"
	"errors"
	"testing"

	"github.com/marimeireles/spotify-to-youtube/internal/models"
)

// scriptedClient maps queries to canned search results and records the
// queries it saw.
type scriptedClient struct {
	results map[string][]string
	details map[string]models.Candidate
	queries []string

	searchErr error
	detailErr error
}

func (c *scriptedClient) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	c.queries = append(c.queries, query)
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.results[query], nil
}

func (c *scriptedClient) VideoDetails(ctx context.Context, ids []string) (map[string]models.Candidate, error) {
	if c.detailErr != nil {
		return nil, c.detailErr
	}
	out := make(map[string]models.Candidate, len(ids))
	for _, id := range ids {
		if d, ok := c.details[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func TestResolverPrimaryMatch(t *testing.T) {
	client := &scriptedClient{
		results: map[string][]string{"The Beatles - Hey Jude": {"v1"}},
		details: map[string]models.Candidate{
			"v1": {ID: "v1", Title: "Hey Jude", Channel: "The Beatles - Topic", Duration: 425},
		},
	}

	r := NewResolver(client, nil, 8)
	got := r.Resolve(context.Background(), models.Track{Artist: "The Beatles", Title: "Hey Jude", Duration: 431})

	if !got.Matched || got.VideoID != "v1" {
		t.Fatalf("Resolve() = %+v, want match on v1", got)
	}
	if got.URL != "https://www.youtube.com/watch?v=v1" {
		t.Errorf("unexpected URL %q", got.URL)
	}
	if got.Fallback {
		t.Error("primary match should not be flagged as fallback")
	}
	if len(client.queries) != 1 {
		t.Errorf("expected 1 search, got %d", len(client.queries))
	}
}

func TestResolverFallbackQuery(t *testing.T) {
	client := &scriptedClient{
		results: map[string][]string{"A - B": {"v9"}},
		details: map[string]models.Candidate{
			"v9": {ID: "v9", Title: "B", Channel: "A", Duration: 180},
		},
	}

	r := NewResolver(client, nil, 8)
	got := r.Resolve(context.Background(), models.Track{Artist: "A", Title: "B (feat. C)", Duration: 180})

	if !got.Matched || got.VideoID != "v9" || !got.Fallback {
		t.Fatalf("Resolve() = %+v, want fallback match on v9", got)
	}

	wantQueries := []string{"A - B (feat. C)", "A - B"}
	if len(client.queries) != len(wantQueries) {
		t.Fatalf("queries = %v, want %v", client.queries, wantQueries)
	}
	for i, q := range wantQueries {
		if client.queries[i] != q {
			t.Errorf("query[%d] = %q, want %q", i, client.queries[i], q)
		}
	}
}

func TestResolverNoFallbackWhenQueryUnchanged(t *testing.T) {
	client := &scriptedClient{}

	r := NewResolver(client, nil, 8)
	got := r.Resolve(context.Background(), models.Track{Artist: "A", Title: "B", Duration: 100})

	if got.Matched {
		t.Fatalf("Resolve() = %+v, want miss", got)
	}
	if len(client.queries) != 1 {
		t.Errorf("expected a single search when simplified query equals primary, got %d", len(client.queries))
	}
}

func TestResolverNoFallbackAfterPrimaryMatch(t *testing.T) {
	client := &scriptedClient{
		results: map[string][]string{"A - B (feat. C)": {"v1"}},
		details: map[string]models.Candidate{
			"v1": {ID: "v1", Title: "B", Channel: "A", Duration: 100},
		},
	}

	r := NewResolver(client, nil, 8)
	got := r.Resolve(context.Background(), models.Track{Artist: "A", Title: "B (feat. C)", Duration: 100})

	if !got.Matched || got.Fallback {
		t.Fatalf("Resolve() = %+v, want primary match", got)
	}
	if len(client.queries) != 1 {
		t.Errorf("fallback search fired despite a primary match (%d searches)", len(client.queries))
	}
}

func TestResolverSearchErrorDegradesToFallback(t *testing.T) {
	client := &scriptedClient{searchErr: errors.New("quota exceeded")}

	r := NewResolver(client, nil, 8)
	got := r.Resolve(context.Background(), models.Track{Artist: "A", Title: "B [Live]", Duration: 100})

	if got.Matched {
		t.Fatalf("Resolve() = %+v, want miss", got)
	}
	if len(client.queries) != 2 {
		t.Errorf("expected both stages to run, got %d searches", len(client.queries))
	}
}

func TestResolverDetailErrorIsMiss(t *testing.T) {
	client := &scriptedClient{
		results:   map[string][]string{"A - B": {"v1"}},
		detailErr: errors.New("backend error"),
	}

	r := NewResolver(client, nil, 8)
	got := r.Resolve(context.Background(), models.Track{Artist: "A", Title: "B", Duration: 100})

	if got.Matched {
		t.Fatalf("Resolve() = %+v, want miss", got)
	}
}

func TestSimplifyQuery(t *testing.T) {
	tc := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "feat clause dropped",
			query: "A - B feat. C",
			want:  "A - B",
		},
		{
			name:  "featuring clause dropped",
			query: "A - B featuring C and D",
			want:  "A - B",
		},
		{
			name:  "brackets dropped",
			query: "A - B (Acoustic) [2019] {x}",
			want:  "A - B",
		},
		{
			name:  "feat clause inside brackets",
			query: "A - B (feat. C)",
			want:  "A - B",
		},
		{
			name:  "feat clause after brackets",
			query: "A - B (Remastered) feat. C",
			want:  "A - B",
		},
		{
			name:  "already simple",
			query: "A - B",
			want:  "A - B",
		},
		{
			name:  "collapses to empty",
			query: "(x)",
			want:  "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimplifyQuery(tt.query); got != tt.want {
				t.Errorf("SimplifyQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
