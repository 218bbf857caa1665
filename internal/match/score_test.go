package match

import (
	"testing"

	"github.com/marimeireles/spotify-to-youtube/internal/models"
)

func TestScore(t *testing.T) {
	tc := []struct {
		name      string
		candidate *models.Candidate
		target    int
		want      ScoreKey
	}{
		{
			name:      "missing detail gets sentinel",
			candidate: nil,
			target:    200,
			want:      ScoreKey{DurationPenalty: missingDetailPenalty},
		},
		{
			name:      "plain channel",
			candidate: &models.Candidate{ID: "a", Title: "Song", Channel: "randomuser", Duration: 210},
			target:    200,
			want:      ScoreKey{DurationPenalty: 10, TitleLength: 4, NegDuration: -210},
		},
		{
			name:      "official channel bonus",
			candidate: &models.Candidate{ID: "a", Title: "Song", Channel: "Artist Official", Duration: 210},
			target:    200,
			want:      ScoreKey{DurationPenalty: 5, TitleLength: 4, NegDuration: -210},
		},
		{
			name:      "topic channel bonus",
			candidate: &models.Candidate{ID: "a", Title: "Song", Channel: "Artist - Topic", Duration: 210},
			target:    200,
			want:      ScoreKey{DurationPenalty: 5, TitleLength: 4, NegDuration: -210},
		},
		{
			name:      "unknown target ignores duration",
			candidate: &models.Candidate{ID: "a", Title: "Song", Channel: "randomuser", Duration: 900},
			target:    0,
			want:      ScoreKey{DurationPenalty: 0, TitleLength: 4, NegDuration: -900},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.candidate, tt.target); got != tt.want {
				t.Errorf("Score() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSelectBest(t *testing.T) {
	tc := []struct {
		name    string
		ids     []string
		details map[string]models.Candidate
		target  int
		wantID  string
		wantOK  bool
	}{
		{
			name:   "empty candidate list",
			ids:    nil,
			target: 200,
			wantOK: false,
		},
		{
			name: "topic channel beats closer duration",
			ids:  []string{"v1", "v2"},
			details: map[string]models.Candidate{
				"v1": {ID: "v1", Title: "Song", Channel: "ArtistVEVO", Duration: 200},
				"v2": {ID: "v2", Title: "Song (Live)", Channel: "SomeChannel - Topic", Duration: 205},
			},
			target: 204,
			wantID: "v2",
			wantOK: true,
		},
		{
			name: "official beats otherwise identical",
			ids:  []string{"v1", "v2"},
			details: map[string]models.Candidate{
				"v1": {ID: "v1", Title: "Song", Channel: "SomeChannel", Duration: 200},
				"v2": {ID: "v2", Title: "SongX", Channel: "Artist Official", Duration: 200},
			},
			target: 200,
			wantID: "v2",
			wantOK: true,
		},
		{
			name: "shorter title breaks duration tie",
			ids:  []string{"v1", "v2"},
			details: map[string]models.Candidate{
				"v1": {ID: "v1", Title: "Song (Official Video) [HD]", Channel: "a", Duration: 200},
				"v2": {ID: "v2", Title: "Song", Channel: "b", Duration: 200},
			},
			target: 200,
			wantID: "v2",
			wantOK: true,
		},
		{
			name: "longer duration breaks full tie",
			ids:  []string{"v1", "v2"},
			details: map[string]models.Candidate{
				"v1": {ID: "v1", Title: "Song", Channel: "a", Duration: 198},
				"v2": {ID: "v2", Title: "Song", Channel: "b", Duration: 202},
			},
			target: 200,
			wantID: "v2",
			wantOK: true,
		},
		{
			name: "missing detail ranks last not excluded",
			ids:  []string{"v1", "v2"},
			details: map[string]models.Candidate{
				"v2": {ID: "v2", Title: "Song", Channel: "a", Duration: 500},
			},
			target: 200,
			wantID: "v2",
			wantOK: true,
		},
		{
			name:    "all details missing still selects",
			ids:     []string{"v1", "v2"},
			details: map[string]models.Candidate{},
			target:  200,
			wantID:  "v1",
			wantOK:  true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectBest(tt.ids, tt.details, tt.target)
			if ok != tt.wantOK || got != tt.wantID {
				t.Errorf("SelectBest() = (%q, %v), want (%q, %v)", got, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestSelectBestDeterministic(t *testing.T) {
	ids := []string{"v1", "v2", "v3"}
	details := map[string]models.Candidate{
		"v1": {ID: "v1", Title: "Song", Channel: "a", Duration: 205},
		"v2": {ID: "v2", Title: "Song", Channel: "b", Duration: 195},
		"v3": {ID: "v3", Title: "Song", Channel: "c", Duration: 205},
	}

	first, _ := SelectBest(ids, details, 200)
	for range 20 {
		got, _ := SelectBest(ids, details, 200)
		if got != first {
			t.Fatalf("SelectBest not deterministic: got %q then %q", first, got)
		}
	}
}
