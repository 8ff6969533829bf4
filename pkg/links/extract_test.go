package links

import "testing"

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		kind    Kind
		want    string
		wantErr bool
	}{
		{
			name:   "track URL",
			rawURL: "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			kind:   KindTrack,
			want:   "4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			name:   "track URL with query parameters",
			rawURL: "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc123",
			kind:   KindTrack,
			want:   "4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			name:   "localized track URL",
			rawURL: "https://open.spotify.com/intl-uk/track/4uLU6hMCjMI75M1A2tKUQC",
			kind:   KindTrack,
			want:   "4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			name:   "track URI",
			rawURL: "spotify:track:4uLU6hMCjMI75M1A2tKUQC",
			kind:   KindTrack,
			want:   "4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			name:   "album URL",
			rawURL: "https://open.spotify.com/album/2noRn2Aes5aoNVsU6iWThc",
			kind:   KindAlbum,
			want:   "2noRn2Aes5aoNVsU6iWThc",
		},
		{
			name:   "playlist URL",
			rawURL: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			kind:   KindPlaylist,
			want:   "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:   "artist URL",
			rawURL: "https://open.spotify.com/artist/0TnOYISbd1XYRBk9myaseg",
			kind:   KindArtist,
			want:   "0TnOYISbd1XYRBk9myaseg",
		},
		{
			name:    "kind mismatch",
			rawURL:  "https://open.spotify.com/album/2noRn2Aes5aoNVsU6iWThc",
			kind:    KindTrack,
			wantErr: true,
		},
		{
			name:    "no ID after segment",
			rawURL:  "https://open.spotify.com/track/",
			kind:    KindTrack,
			wantErr: true,
		},
		{
			name:    "unknown kind",
			rawURL:  "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			kind:    KindUnknown,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractID(tt.rawURL, tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractID() = %q, want %q", got, tt.want)
			}
		})
	}
}
