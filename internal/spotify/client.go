// Package spotify provides Spotify Web API integration for track and album
// metadata lookup.
package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Wortexhf/spotify-downloader/internal/core"
)

// PageLimit is the page size used for paginated album and playlist fetches.
const PageLimit = 50

// Config holds Spotify API credentials and lookup options.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string
}

// Client wraps the Spotify Web API using the client credentials flow.
// Metadata lookup needs no user consent, so there is no OAuth redirect
// dance and no token persistence.
type Client struct {
	config *Config
	logger *zap.Logger
	client *spotify.Client
}

func NewClient(config *Config, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

// Authenticate obtains an app token via the client credentials flow.
func (c *Client) Authenticate(ctx context.Context) error {
	creds := &clientcredentials.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain spotify token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	c.client = spotify.New(httpClient, spotify.WithRetry(true))

	c.logger.Info("Authenticated with Spotify",
		zap.Time("tokenExpiry", token.Expiry))
	return nil
}

// FetchTrack retrieves metadata for a single track.
func (c *Client) FetchTrack(ctx context.Context, trackID string) (*core.TrackRecord, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	track, err := c.client.GetTrack(ctx, spotify.ID(trackID), spotify.Market(c.config.Market))
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}

	record := convertFullTrack(track)
	return &record, nil
}

// FetchAlbumTracks retrieves all tracks of an album in album order.
// The album cover is resolved once and shared across the returned records.
func (c *Client) FetchAlbumTracks(ctx context.Context, albumID string) ([]core.TrackRecord, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	album, err := c.client.GetAlbum(ctx, spotify.ID(albumID), spotify.Market(c.config.Market))
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	coverURL := largestImageURL(album.Images)

	var records []core.TrackRecord
	page := album.Tracks
	for {
		for i := range page.Tracks {
			records = append(records, convertSimpleTrack(&page.Tracks[i], coverURL))
		}

		err = c.client.NextPage(ctx, &page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to page album tracks: %w", err)
		}
	}

	c.logger.Info("Retrieved album tracks",
		zap.String("albumID", albumID),
		zap.String("album", album.Name),
		zap.Int("count", len(records)))

	return records, nil
}

// FetchPlaylistTracks retrieves all playable tracks of a playlist in order.
// Episode items and removed tracks come back as null entries and are skipped.
func (c *Client) FetchPlaylistTracks(ctx context.Context, playlistID string) ([]core.TrackRecord, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	var records []core.TrackRecord
	offset := 0

	for {
		items, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
			spotify.Limit(PageLimit), spotify.Offset(offset), spotify.Market(c.config.Market))
		if err != nil {
			return nil, fmt.Errorf("failed to get playlist items: %w", err)
		}

		for i := range items.Items {
			track := items.Items[i].Track.Track
			if track == nil {
				continue
			}
			records = append(records, convertFullTrack(track))
		}

		if len(items.Items) < PageLimit {
			break
		}
		offset += PageLimit
	}

	c.logger.Info("Retrieved playlist tracks",
		zap.String("playlistID", playlistID),
		zap.Int("count", len(records)))

	return records, nil
}

// FetchArtistTopTracks retrieves an artist's top tracks for the configured market.
func (c *Client) FetchArtistTopTracks(ctx context.Context, artistID string) ([]core.TrackRecord, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	tracks, err := c.client.GetArtistsTopTracks(ctx, spotify.ID(artistID), c.config.Market)
	if err != nil {
		return nil, fmt.Errorf("failed to get artist top tracks: %w", err)
	}

	records := make([]core.TrackRecord, 0, len(tracks))
	for i := range tracks {
		records = append(records, convertFullTrack(&tracks[i]))
	}

	return records, nil
}

// convertFullTrack maps an API track to the internal record. The first image
// of the album art set is the highest resolution one.
func convertFullTrack(track *spotify.FullTrack) core.TrackRecord {
	return core.TrackRecord{
		Title:    track.Name,
		Artist:   primaryArtist(track.Artists),
		CoverURL: largestImageURL(track.Album.Images),
	}
}

// convertSimpleTrack maps an album track, which carries no album art of its
// own, using the album-level cover URL.
func convertSimpleTrack(track *spotify.SimpleTrack, coverURL string) core.TrackRecord {
	return core.TrackRecord{
		Title:    track.Name,
		Artist:   primaryArtist(track.Artists),
		CoverURL: coverURL,
	}
}

func primaryArtist(artists []spotify.SimpleArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

func largestImageURL(images []spotify.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
