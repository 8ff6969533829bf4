// Package downloader retrieves the per-track artifacts: cover art over HTTP
// and audio through the yt-dlp media backend.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	coverTimeout   = 30 * time.Second
	coverUserAgent = "spotify-downloader/1.0"
)

// CoverClient downloads cover art images to local files.
type CoverClient struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewCoverClient(logger *zap.Logger) *CoverClient {
	return &CoverClient{
		httpClient: &http.Client{
			Timeout: coverTimeout,
		},
		logger: logger,
	}
}

// Fetch downloads the image at url into dest and returns the written path.
// An empty url means the catalog had no artwork; that is reported as an
// error so the caller can decide to continue without a cover.
func (c *CoverClient) Fetch(ctx context.Context, url, dest string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no cover URL available")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", coverUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status fetching cover: %s", resp.Status)
	}

	file, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create cover file: %w", err)
	}

	written, err := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}
	if closeErr != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to close cover file: %w", closeErr)
	}

	c.logger.Debug("Cover art downloaded",
		zap.String("url", url),
		zap.String("path", dest),
		zap.Int64("bytes", written))

	return dest, nil
}
