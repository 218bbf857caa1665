package match

import "testing"

func TestCleanTag(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "remaster bracket",
			input: "Hey Jude (2015 Remaster)",
			want:  "Hey Jude",
		},
		{
			name:  "remaster suffix",
			input: "Imagine - Remastered 2010",
			want:  "Imagine",
		},
		{
			name:  "adjacent noise brackets need a second pass",
			input: "Song (Live) (Remastered)",
			want:  "Song",
		},
		{
			name:  "square brackets",
			input: "Time [Deluxe Edition]",
			want:  "Time",
		},
		{
			name:  "clean input unchanged",
			input: "Bohemian Rhapsody",
			want:  "Bohemian Rhapsody",
		},
		{
			name:  "non-noise bracket kept",
			input: "Layla (Acoustic)",
			want:  "Layla (Acoustic)",
		},
		{
			name:  "feat bracket removed",
			input: "Lady Marmalade (feat. Missy Elliott)",
			want:  "Lady Marmalade",
		},
		{
			name:  "slash suffix",
			input: "Song / Instrumental",
			want:  "Song",
		},
		{
			name:  "stacked suffixes",
			input: "Help! - Remastered - Mono",
			want:  "Help!",
		},
		{
			name:  "all noise collapses to empty",
			input: "(2009 Remaster)",
			want:  "",
		},
		{
			name:  "whitespace squashed",
			input: "  The   Long	 And Winding Road ",
			want:  "The Long And Winding Road",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanTag(tt.input)
			if got != tt.want {
				t.Errorf("CleanTag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanTagIdempotent(t *testing.T) {
	inputs := []string{
		"Hey Jude (2015 Remaster)",
		"Imagine - Remastered 2010",
		"Song (Live) (Remastered)",
		"Layla (Acoustic)",
		"Bohemian Rhapsody",
		"(2009 Remaster)",
		"AC/DC - Back In Black",
		"",
	}

	for _, input := range inputs {
		once := CleanTag(input)
		twice := CleanTag(once)
		if once != twice {
			t.Errorf("CleanTag not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestSquashSpaces(t *testing.T) {
	if got := SquashSpaces("  a \t b\n c  "); got != "a b c" {
		t.Errorf("SquashSpaces() = %q, want %q", got, "a b c")
	}
}

func TestTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Song Title",
			artist: "Artist Name",
			want:   "song title|artist name",
		},
		{
			name:   "extra whitespace",
			title:  "  Song   Title  ",
			artist: "  Artist   Name  ",
			want:   "song title|artist name",
		},
		{
			name:   "mixed case",
			title:  "SoNg TiTlE",
			artist: "ArTiSt NaMe",
			want:   "song title|artist name",
		},
		{
			name:   "accents folded",
			title:  "Déjà Vu",
			artist: "Beyoncé",
			want:   "deja vu|beyonce",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := TrackKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("TrackKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
