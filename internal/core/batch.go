package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// BatchController delivers an album track-by-track. Items run strictly
// sequentially with a pacing delay in between; one failed item never aborts
// the rest of the run.
type BatchController struct {
	pipeline *Pipeline
	recorder Recorder
	config   *DownloadConfig
	logger   *zap.Logger
}

func NewBatchController(pipeline *Pipeline, recorder Recorder, config *DownloadConfig, logger *zap.Logger) *BatchController {
	return &BatchController{
		pipeline: pipeline,
		recorder: recorder,
		config:   config,
		logger:   logger,
	}
}

// Run delivers tracks in album order into the chat, reusing statusMsgID as
// the shared progress message. Each item gets its own subdirectory of
// workDir so per-item cleanup cannot disturb a neighbour's artifacts.
// Run returns early only when ctx is canceled.
func (b *BatchController) Run(ctx context.Context, chatID, statusMsgID string, tracks []TrackRecord, workDir string) BatchResult {
	result := BatchResult{Total: len(tracks)}

	for i := range tracks {
		if ctx.Err() != nil {
			b.logger.Info("Batch canceled",
				zap.Int("completed", i),
				zap.Int("total", result.Total))
			return result
		}

		track := &tracks[i]
		itemDir := filepath.Join(workDir, fmt.Sprintf("item-%02d", i+1))
		if err := os.MkdirAll(itemDir, 0o755); err != nil {
			b.logger.Error("Failed to create item dir, skipping track",
				zap.String("dir", itemDir),
				zap.Error(err))
			b.recorder.BatchItem("failed")
			continue
		}

		ok := b.pipeline.Deliver(ctx, &DeliveryRequest{
			ChatID:      chatID,
			StatusMsgID: statusMsgID,
			Track:       track,
			WorkDir:     itemDir,
			ShowCover:   false,
			ItemIndex:   i + 1,
			ItemTotal:   result.Total,
		})
		if ok {
			result.Succeeded++
			b.recorder.BatchItem("delivered")
		} else {
			b.logger.Warn("Batch item failed, continuing",
				zap.Int("item", i+1),
				zap.String("track", track.DisplayName()))
			b.recorder.BatchItem("failed")
		}

		if i < len(tracks)-1 {
			b.pause(ctx)
		}
	}

	b.logger.Info("Batch finished",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("total", result.Total))

	return result
}

// pause applies the pacing delay between consecutive items.
func (b *BatchController) pause(ctx context.Context) {
	delay := time.Duration(b.config.BatchDelaySecs) * time.Second
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
