package core

import (
	"context"
	"strings"
	"unicode"
)

// TrackRecord describes one playable catalog item. It is built by the
// metadata fetcher, immutable afterwards, and consumed by the delivery
// pipeline within a single request.
type TrackRecord struct {
	Title    string
	Artist   string
	CoverURL string // empty when the catalog publishes no artwork
}

// DisplayName is the "{artist} - {title}" form used in user-facing
// captions and status updates. Always recomputed, never stored, so it
// cannot diverge from the fields.
func (t *TrackRecord) DisplayName() string {
	return t.Artist + " - " + t.Title
}

// ArtifactKind distinguishes the two locally stored file types.
type ArtifactKind int

const (
	// ArtifactCover is a downloaded cover image.
	ArtifactCover ArtifactKind = iota
	// ArtifactAudio is a downloaded audio file.
	ArtifactAudio
)

// Artifact is a locally persisted file produced by a fetch step. Producers
// must only return artifacts whose path exists on disk.
type Artifact struct {
	Path string
	Kind ArtifactKind
}

// AudioResult is the outcome of a successful audio search/download.
// Degraded marks a file that arrived in a non-standard container; delivery
// and tagging must tolerate it.
type AudioResult struct {
	Path     string
	Degraded bool
}

// BatchResult tallies an album run. 0 <= Succeeded <= Total.
type BatchResult struct {
	Total     int
	Succeeded int
}

// DeliveryState tracks one track's progress through the pipeline.
type DeliveryState int

const (
	// StatePending is the initial state before any fetch.
	StatePending DeliveryState = iota
	// StateFetchingCover downloads the cover image.
	StateFetchingCover
	// StateFetchingAudio searches and downloads the audio rendition.
	StateFetchingAudio
	// StateEmbedding writes cover art and titles into the audio container.
	StateEmbedding
	// StateUploading sends the files to the chat.
	StateUploading
	// StateCleaningUp removes local artifacts.
	StateCleaningUp
	// StateDelivered is the successful terminal state.
	StateDelivered
	// StateFailed is the failed terminal state.
	StateFailed
)

// String returns the state name for logging.
func (s DeliveryState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFetchingCover:
		return "fetching_cover"
	case StateFetchingAudio:
		return "fetching_audio"
	case StateEmbedding:
		return "embedding"
	case StateUploading:
		return "uploading"
	case StateCleaningUp:
		return "cleaning_up"
	case StateDelivered:
		return "delivered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CatalogClient fetches canonical item metadata from the streaming catalog.
// Failures surface as errors; the caller owns user messaging.
type CatalogClient interface {
	FetchTrack(ctx context.Context, trackID string) (*TrackRecord, error)
	FetchAlbumTracks(ctx context.Context, albumID string) ([]TrackRecord, error)
}

// CoverFetcher retrieves an image URL into a local file and returns the
// written path.
type CoverFetcher interface {
	Fetch(ctx context.Context, url, dest string) (string, error)
}

// AudioLocator finds and downloads the best-matching audio rendition for a
// search query into outputDir.
type AudioLocator interface {
	Download(ctx context.Context, query, outputDir string) (*AudioResult, error)
}

// TagEmbedder writes cover art and title metadata into an audio file in
// place. coverPath may point at any raster image the container accepts.
type TagEmbedder interface {
	Embed(audioPath, coverPath string, track *TrackRecord) error
}

// SeenStore remembers processed chat update IDs so replayed updates are
// handled once.
type SeenStore interface {
	Seen(id string) bool
	Mark(id string)
}

// Recorder receives pipeline metrics. The HTTP server's prometheus
// registry implements it; a no-op implementation serves tests.
type Recorder interface {
	Request(kind string)
	DeliveryStarted()
	DeliveryFinished(status string, seconds float64)
	BatchItem(status string)
	ComponentError(component string)
}

// SanitizeTitle reduces a track title to a filesystem-safe base name:
// letters, digits, spaces, dots and underscores survive, everything else is
// dropped, whitespace is collapsed. An empty result falls back to "track"
// so artifact paths are never empty.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '.' || r == '_':
			b.WriteRune(r)
		}
	}

	name := strings.Join(strings.Fields(b.String()), " ")
	name = strings.Trim(name, ". ")
	if name == "" {
		return "track"
	}
	return name
}
