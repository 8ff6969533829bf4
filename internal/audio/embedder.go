// Package audio handles local audio post-processing: ID3 tag embedding and
// upload thumbnail generation.
package audio

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"
	"go.uber.org/zap"

	"github.com/Wortexhf/spotify-downloader/internal/core"
)

// Embedder writes track metadata and cover art into mp3 files.
type Embedder struct {
	logger *zap.Logger
}

func NewEmbedder(logger *zap.Logger) *Embedder {
	return &Embedder{logger: logger}
}

// Embed writes title, artist and the front cover picture into the ID3v2 tag
// of audioPath. A missing or empty coverPath skips the picture frame but
// still writes the text frames. Failures here leave the audio file playable,
// so callers treat them as non-fatal.
func (e *Embedder) Embed(audioPath, coverPath string, track *core.TrackRecord) error {
	tag, err := id3v2.Open(audioPath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open audio file for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetTitle(track.Title)
	tag.SetArtist(track.Artist)

	if coverPath != "" {
		artwork, readErr := os.ReadFile(coverPath)
		if readErr != nil {
			e.logger.Warn("Failed to read cover art, tagging without picture",
				zap.String("coverPath", coverPath),
				zap.Error(readErr))
		} else {
			tag.DeleteFrames(tag.CommonID("Attached picture"))
			tag.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    "image/jpeg",
				PictureType: id3v2.PTFrontCover,
				Description: "Front cover",
				Picture:     artwork,
			})
		}
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}

	e.logger.Debug("Tags embedded",
		zap.String("path", audioPath),
		zap.String("title", track.Title),
		zap.String("artist", track.Artist),
		zap.Bool("withCover", coverPath != ""))

	return nil
}
