package audio

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// ThumbnailMaxDim is the Telegram limit for audio message thumbnails.
const ThumbnailMaxDim = 320

const thumbnailQuality = 85

// MakeThumbnail scales the cover image at coverPath down to fit within
// ThumbnailMaxDim on both axes and writes it next to the source as a
// `_thumb.jpg` file. Aspect ratio is preserved.
func MakeThumbnail(coverPath string) (string, error) {
	src, err := os.Open(coverPath)
	if err != nil {
		return "", fmt.Errorf("failed to open cover: %w", err)
	}

	img, _, err := image.Decode(src)
	_ = src.Close()
	if err != nil {
		return "", fmt.Errorf("failed to decode cover: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > ThumbnailMaxDim || height > ThumbnailMaxDim {
		ratio := float64(width) / float64(height)
		if ratio >= 1 {
			width = ThumbnailMaxDim
			height = int(float64(ThumbnailMaxDim) / ratio)
		} else {
			height = ThumbnailMaxDim
			width = int(float64(ThumbnailMaxDim) * ratio)
		}
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	thumbPath := thumbnailPath(coverPath)
	out, err := os.Create(thumbPath)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail: %w", err)
	}

	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		_ = out.Close()
		_ = os.Remove(thumbPath)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(thumbPath)
		return "", fmt.Errorf("failed to close thumbnail: %w", err)
	}

	return thumbPath, nil
}

func thumbnailPath(coverPath string) string {
	ext := filepath.Ext(coverPath)
	base := strings.TrimSuffix(coverPath, ext)
	return base + "_thumb.jpg"
}
