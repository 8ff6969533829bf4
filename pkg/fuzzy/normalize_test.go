package fuzzy

import "testing"

func TestSearchQuery(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name   string
		artist string
		title  string
		want   string
	}{
		{"plain", "Daft Punk", "One More Time", "Daft Punk - One More Time"},
		{"feature stripped", "Calvin Harris", "Feels (feat. Pharrell Williams)", "Calvin Harris - Feels"},
		{"remaster suffix stripped", "Queen", "Bohemian Rhapsody - 2011 Remaster", "Queen - Bohemian Rhapsody"},
		{"accents folded", "Beyoncé", "Déjà Vu", "Beyonce - Deja Vu"},
		{"empty artist", "", "Intro", "Intro"},
		{"internal whitespace collapsed", "The  xx", "On   Hold", "The xx - On Hold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.SearchQuery(tt.artist, tt.title); got != tt.want {
				t.Errorf("SearchQuery(%q, %q) = %q, want %q", tt.artist, tt.title, got, tt.want)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		in   string
		want string
	}{
		{"Song (ft. Someone)", "Song"},
		{"Song [featuring A & B]", "Song"},
		{"Song (Deluxe Edition)", "Song"},
		{"Plain Song", "Plain Song"},
	}

	for _, tt := range tests {
		if got := n.CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
