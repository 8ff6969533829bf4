package spotify

import (
	"testing"

	"github.com/zmb3/spotify/v2"
)

func TestConvertFullTrack(t *testing.T) {
	track := &spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			Name: "Bohemian Rhapsody",
			Artists: []spotify.SimpleArtist{
				{Name: "Queen"},
				{Name: "Someone Else"},
			},
		},
		Album: spotify.SimpleAlbum{
			Images: []spotify.Image{
				{URL: "https://i.scdn.co/image/large", Width: 640, Height: 640},
				{URL: "https://i.scdn.co/image/medium", Width: 300, Height: 300},
			},
		},
	}

	record := convertFullTrack(track)

	if record.Title != "Bohemian Rhapsody" {
		t.Errorf("Title = %q", record.Title)
	}
	if record.Artist != "Queen" {
		t.Errorf("Artist = %q, want primary artist only", record.Artist)
	}
	if record.CoverURL != "https://i.scdn.co/image/large" {
		t.Errorf("CoverURL = %q, want highest resolution image", record.CoverURL)
	}
}

func TestConvertFullTrack_NoImages(t *testing.T) {
	track := &spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			Name:    "Obscure B-Side",
			Artists: []spotify.SimpleArtist{{Name: "Nobody"}},
		},
	}

	record := convertFullTrack(track)
	if record.CoverURL != "" {
		t.Errorf("CoverURL = %q, want empty for missing artwork", record.CoverURL)
	}
}

func TestConvertSimpleTrack_UsesAlbumCover(t *testing.T) {
	track := &spotify.SimpleTrack{
		Name:    "Track Two",
		Artists: []spotify.SimpleArtist{{Name: "Queen"}},
	}

	record := convertSimpleTrack(track, "https://i.scdn.co/image/album-cover")
	if record.CoverURL != "https://i.scdn.co/image/album-cover" {
		t.Errorf("CoverURL = %q, want album cover", record.CoverURL)
	}
	if record.Title != "Track Two" || record.Artist != "Queen" {
		t.Errorf("record = %+v", record)
	}
}

func TestPrimaryArtist_Empty(t *testing.T) {
	if got := primaryArtist(nil); got != "" {
		t.Errorf("primaryArtist(nil) = %q, want empty", got)
	}
}
