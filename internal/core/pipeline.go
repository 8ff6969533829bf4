package core

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Wortexhf/spotify-downloader/internal/chat"
	"github.com/Wortexhf/spotify-downloader/internal/i18n"
	"github.com/Wortexhf/spotify-downloader/pkg/fuzzy"
)

// DeliveryRequest carries everything the pipeline needs to deliver one
// track into a chat. ItemIndex/ItemTotal are set (1-based) when the track
// is part of an album batch; the batch controller then owns the status
// message lifecycle and the cover photo is suppressed.
type DeliveryRequest struct {
	ChatID      string
	StatusMsgID string
	Track       *TrackRecord
	WorkDir     string
	ShowCover   bool
	ItemIndex   int
	ItemTotal   int
}

func (r *DeliveryRequest) batchItem() bool {
	return r.ItemTotal > 0
}

// Pipeline moves a single track through cover fetch, audio fetch, tag
// embedding, upload and cleanup. Deliver never returns an error: every
// failure is resolved into user messaging and a false return.
type Pipeline struct {
	frontend    chat.Frontend
	cover       CoverFetcher
	audio       AudioLocator
	embedder    TagEmbedder
	thumbnailer func(coverPath string) (string, error)
	normalizer  *fuzzy.Normalizer
	localizer   *i18n.Localizer
	recorder    Recorder
	config      *DownloadConfig
	logger      *zap.Logger
}

func NewPipeline(
	frontend chat.Frontend,
	cover CoverFetcher,
	audio AudioLocator,
	embedder TagEmbedder,
	thumbnailer func(coverPath string) (string, error),
	localizer *i18n.Localizer,
	recorder Recorder,
	config *DownloadConfig,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		frontend:    frontend,
		cover:       cover,
		audio:       audio,
		embedder:    embedder,
		thumbnailer: thumbnailer,
		normalizer:  fuzzy.NewNormalizer(),
		localizer:   localizer,
		recorder:    recorder,
		config:      config,
		logger:      logger,
	}
}

// Deliver runs the full delivery sequence for one track and reports
// whether the audio reached the chat. Cover problems degrade the delivery
// but never fail it; only a missing audio rendition or a failed upload is
// terminal. The work dir is removed on every exit path.
func (p *Pipeline) Deliver(ctx context.Context, req *DeliveryRequest) (ok bool) {
	start := time.Now()
	state := StatePending
	track := req.Track

	p.recorder.DeliveryStarted()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Panic during delivery",
				zap.Any("panic", r),
				zap.String("state", state.String()),
				zap.String("track", track.DisplayName()))
			p.resolveFailure(ctx, req, "error.generic")
			p.cleanup(req.WorkDir, p.logger)
			ok = false
		}
		status := "failed"
		if ok {
			status = "delivered"
		}
		p.recorder.DeliveryFinished(status, time.Since(start).Seconds())
	}()

	logger := p.logger.With(
		zap.String("chatID", req.ChatID),
		zap.String("track", track.DisplayName()))

	// Cover art. Absence is tolerated all the way through.
	state = StateFetchingCover
	coverPath := p.fetchCover(ctx, track, req.WorkDir, logger)

	p.editStatus(ctx, req, p.downloadingText(req))

	// Audio is the one artifact the delivery cannot do without.
	state = StateFetchingAudio
	audioCtx, cancel := context.WithTimeout(ctx, time.Duration(p.config.ItemTimeoutSecs)*time.Second)
	audio, err := p.audio.Download(audioCtx, p.normalizer.SearchQuery(track.Artist, track.Title), req.WorkDir)
	cancel()
	if err != nil {
		logger.Warn("Audio download failed", zap.Error(err))
		p.recorder.ComponentError("downloader")
		p.resolveFailure(ctx, req, "error.audio")
		p.cleanup(req.WorkDir, logger)
		return false
	}

	state = StateEmbedding
	if coverPath != "" && !audio.Degraded {
		if err := p.embedder.Embed(audio.Path, coverPath, track); err != nil {
			// The file stays playable without embedded art.
			logger.Warn("Tag embedding failed, delivering untagged", zap.Error(err))
			p.recorder.ComponentError("embedder")
		}
	}

	state = StateUploading
	p.editStatus(ctx, req, p.localizer.T("status.uploading"))

	if req.ShowCover && coverPath != "" {
		caption := p.localizer.T("caption.cover", track.DisplayName())
		if err := p.frontend.SendPhoto(ctx, req.ChatID, coverPath, caption); err != nil {
			logger.Warn("Cover photo upload failed", zap.Error(err))
			p.recorder.ComponentError("frontend")
		}
	}

	if err := p.uploadAudio(ctx, req, audio.Path, coverPath, logger); err != nil {
		logger.Error("Audio upload failed", zap.Error(err))
		p.recorder.ComponentError("frontend")
		p.resolveFailure(ctx, req, "error.generic")
		p.cleanup(req.WorkDir, logger)
		return false
	}

	if !req.batchItem() {
		if err := p.frontend.DeleteMessage(ctx, req.ChatID, req.StatusMsgID); err != nil {
			logger.Debug("Failed to delete status message", zap.Error(err))
		}
	}

	state = StateCleaningUp
	p.waitGrace(ctx)
	p.cleanup(req.WorkDir, logger)

	state = StateDelivered
	logger.Info("Track delivered",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("degraded", audio.Degraded))

	return true
}

// fetchCover downloads the track artwork into the work dir. Returns the
// local path, or "" when there is no artwork or the download failed.
func (p *Pipeline) fetchCover(ctx context.Context, track *TrackRecord, workDir string, logger *zap.Logger) string {
	if track.CoverURL == "" {
		logger.Debug("Track has no cover art")
		return ""
	}

	dest := filepath.Join(workDir, SanitizeTitle(track.Title)+"_cover.jpg")
	path, err := p.cover.Fetch(ctx, track.CoverURL, dest)
	if err != nil {
		logger.Warn("Cover download failed, continuing without artwork", zap.Error(err))
		p.recorder.ComponentError("cover")
		return ""
	}
	return path
}

func (p *Pipeline) uploadAudio(ctx context.Context, req *DeliveryRequest, audioPath, coverPath string, logger *zap.Logger) error {
	track := req.Track

	thumbPath := ""
	if coverPath != "" {
		thumb, err := p.thumbnailer(coverPath)
		if err != nil {
			// Telegram accepts oversized thumbnails, it just rescales them.
			logger.Debug("Thumbnail generation failed, using full cover", zap.Error(err))
			thumb = coverPath
		}
		thumbPath = thumb
	}

	return p.frontend.SendAudio(ctx, req.ChatID, &chat.AudioFile{
		Path:          audioPath,
		Caption:       p.localizer.T("caption.audio", track.DisplayName()),
		Performer:     track.Artist,
		Title:         track.Title,
		ThumbnailPath: thumbPath,
	})
}

func (p *Pipeline) downloadingText(req *DeliveryRequest) string {
	if req.batchItem() {
		return p.localizer.T("status.downloading_item", req.ItemIndex, req.ItemTotal, req.Track.DisplayName())
	}
	return p.localizer.T("status.downloading", req.Track.DisplayName())
}

func (p *Pipeline) editStatus(ctx context.Context, req *DeliveryRequest, text string) {
	if req.StatusMsgID == "" {
		return
	}
	if err := p.frontend.EditMessage(ctx, req.ChatID, req.StatusMsgID, text); err != nil {
		p.logger.Debug("Failed to edit status message", zap.Error(err))
	}
}

// resolveFailure turns the status message into an error report. Batch items
// leave the shared status message alone; the controller moves it forward.
func (p *Pipeline) resolveFailure(ctx context.Context, req *DeliveryRequest, key string) {
	if req.batchItem() {
		return
	}
	p.editStatus(ctx, req, p.localizer.T(key))
}

// waitGrace delays artifact deletion so the upload is fully settled.
func (p *Pipeline) waitGrace(ctx context.Context) {
	delay := time.Duration(p.config.CleanupDelaySecs) * time.Second
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

// cleanup removes every artifact of this request. Best effort and
// idempotent: a dir someone else already removed is success.
func (p *Pipeline) cleanup(workDir string, logger *zap.Logger) {
	if workDir == "" {
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		logger.Warn("Artifact cleanup failed", zap.String("dir", workDir), zap.Error(err))
		return
	}
	logger.Debug("Artifacts cleaned up", zap.String("dir", workDir))
}
