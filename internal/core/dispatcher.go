package core

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Wortexhf/spotify-downloader/internal/chat"
	"github.com/Wortexhf/spotify-downloader/internal/i18n"
	"github.com/Wortexhf/spotify-downloader/pkg/links"
)

// Floodgate limits how many requests a user may start per minute.
type Floodgate interface {
	AllowRequest(chatID, userID string) bool
}

// Dispatcher routes incoming chat messages: greetings, track links, album
// links and everything else. Link deliveries run in their own goroutine so
// the frontend poll loop is never blocked.
type Dispatcher struct {
	config    *Config
	frontend  chat.Frontend
	parser    *links.Parser
	catalog   CatalogClient
	pipeline  *Pipeline
	batch     *BatchController
	floodgate Floodgate
	seen      SeenStore
	recorder  Recorder
	localizer *i18n.Localizer
	logger    *zap.Logger
}

func NewDispatcher(
	config *Config,
	frontend chat.Frontend,
	parser *links.Parser,
	catalog CatalogClient,
	pipeline *Pipeline,
	batch *BatchController,
	floodgate Floodgate,
	seen SeenStore,
	recorder Recorder,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		config:    config,
		frontend:  frontend,
		parser:    parser,
		catalog:   catalog,
		pipeline:  pipeline,
		batch:     batch,
		floodgate: floodgate,
		seen:      seen,
		recorder:  recorder,
		localizer: i18n.NewLocalizer(config.App.Language),
		logger:    logger,
	}
}

// Start begins processing messages and blocks until ctx is canceled.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("Starting message dispatcher")

	if err := d.frontend.Start(ctx); err != nil {
		return fmt.Errorf("failed to start chat frontend: %w", err)
	}

	return d.frontend.Listen(ctx, func(msg *chat.Message) {
		d.handleMessage(ctx, msg)
	})
}

// handleMessage screens an update and hands real work to a goroutine.
func (d *Dispatcher) handleMessage(ctx context.Context, msg *chat.Message) {
	d.logger.Debug("Received message",
		zap.String("messageID", msg.ID),
		zap.String("sender", msg.SenderName))

	// Replayed updates after a reconnect are processed once.
	key := msg.ChatID + ":" + msg.ID
	if d.seen.Seen(key) {
		d.logger.Debug("Skipping already processed message", zap.String("key", key))
		return
	}
	d.seen.Mark(key)

	if strings.HasPrefix(msg.Text, "/start") {
		go d.greet(ctx, msg)
		return
	}

	link := d.parser.Resolve(ctx, msg.Text)
	if link.Kind == links.KindUnknown {
		// "spoti" also covers the spoti.fi and spotify.link shorteners,
		// so a short link whose expansion failed still gets a reply.
		if strings.Contains(strings.ToLower(msg.Text), "spoti") {
			go d.reply(ctx, msg, d.localizer.T("error.invalid_link"))
		}
		// Plain chatter is none of our business.
		return
	}

	if !d.floodgate.AllowRequest(msg.ChatID, msg.SenderID) {
		d.logger.Info("Flood limit hit",
			zap.String("chatID", msg.ChatID),
			zap.String("userID", msg.SenderID))
		go d.reply(ctx, msg, d.localizer.T("error.flood"))
		return
	}

	d.recorder.Request(link.Kind.String())

	go d.processLink(ctx, msg, link)
}

// processLink routes a resolved link by kind.
func (d *Dispatcher) processLink(ctx context.Context, msg *chat.Message, link links.Link) {
	switch link.Kind {
	case links.KindTrack:
		d.processTrack(ctx, msg, link)
	case links.KindAlbum:
		d.processAlbum(ctx, msg, link)
	default:
		// Playlist and artist pages are fetched by the catalog client but
		// not yet wired into delivery.
		d.reply(ctx, msg, d.localizer.T("error.unsupported"))
	}
}

func (d *Dispatcher) processTrack(ctx context.Context, msg *chat.Message, link links.Link) {
	statusMsgID, err := d.frontend.SendText(ctx, msg.ChatID, msg.ID, d.localizer.T("status.searching_track"))
	if err != nil {
		d.logger.Error("Failed to send status message", zap.Error(err))
		return
	}

	trackID, err := links.ExtractID(link.URL, links.KindTrack)
	if err != nil {
		d.logger.Warn("Failed to extract track ID", zap.String("url", link.URL), zap.Error(err))
		d.editStatus(ctx, msg.ChatID, statusMsgID, d.localizer.T("error.invalid_link"))
		return
	}

	track, err := d.catalog.FetchTrack(ctx, trackID)
	if err != nil {
		d.logger.Warn("Metadata fetch failed", zap.String("trackID", trackID), zap.Error(err))
		d.recorder.ComponentError("catalog")
		d.editStatus(ctx, msg.ChatID, statusMsgID, d.localizer.T("error.metadata"))
		return
	}

	workDir, err := d.makeWorkDir()
	if err != nil {
		d.logger.Error("Failed to create work dir", zap.Error(err))
		d.editStatus(ctx, msg.ChatID, statusMsgID, d.localizer.T("error.generic"))
		return
	}
	defer func() {
		// The pipeline removes the dir itself; this sweep is a backstop.
		if err := os.RemoveAll(workDir); err != nil {
			d.logger.Warn("Failed to remove request dir", zap.String("dir", workDir), zap.Error(err))
		}
	}()

	d.pipeline.Deliver(ctx, &DeliveryRequest{
		ChatID:      msg.ChatID,
		StatusMsgID: statusMsgID,
		Track:       track,
		WorkDir:     workDir,
		ShowCover:   true,
	})
}

func (d *Dispatcher) processAlbum(ctx context.Context, msg *chat.Message, link links.Link) {
	statusMsgID, err := d.frontend.SendText(ctx, msg.ChatID, msg.ID, d.localizer.T("status.searching_album"))
	if err != nil {
		d.logger.Error("Failed to send status message", zap.Error(err))
		return
	}

	albumID, err := links.ExtractID(link.URL, links.KindAlbum)
	if err != nil {
		d.logger.Warn("Failed to extract album ID", zap.String("url", link.URL), zap.Error(err))
		d.editStatus(ctx, msg.ChatID, statusMsgID, d.localizer.T("error.invalid_link"))
		return
	}

	tracks, err := d.catalog.FetchAlbumTracks(ctx, albumID)
	if err != nil || len(tracks) == 0 {
		d.logger.Warn("Album fetch failed", zap.String("albumID", albumID), zap.Error(err))
		d.recorder.ComponentError("catalog")
		d.editStatus(ctx, msg.ChatID, statusMsgID, d.localizer.T("error.metadata"))
		return
	}

	workDir, err := d.makeWorkDir()
	if err != nil {
		d.logger.Error("Failed to create work dir", zap.Error(err))
		d.editStatus(ctx, msg.ChatID, statusMsgID, d.localizer.T("error.generic"))
		return
	}
	defer func() {
		// Item dirs clean themselves up; this sweeps the request root.
		if err := os.RemoveAll(workDir); err != nil {
			d.logger.Warn("Failed to remove request dir", zap.String("dir", workDir), zap.Error(err))
		}
	}()

	result := d.batch.Run(ctx, msg.ChatID, statusMsgID, tracks, workDir)

	d.editStatus(ctx, msg.ChatID, statusMsgID,
		d.localizer.T("batch.summary", result.Succeeded, result.Total))
}

func (d *Dispatcher) greet(ctx context.Context, msg *chat.Message) {
	name := msg.FirstName
	if name == "" {
		name = msg.SenderName
	}
	d.reply(ctx, msg, d.localizer.T("greeting", name))
}

func (d *Dispatcher) reply(ctx context.Context, msg *chat.Message, text string) {
	if _, err := d.frontend.SendText(ctx, msg.ChatID, msg.ID, text); err != nil {
		d.logger.Warn("Failed to send reply", zap.Error(err))
	}
}

func (d *Dispatcher) editStatus(ctx context.Context, chatID, messageID, text string) {
	if err := d.frontend.EditMessage(ctx, chatID, messageID, text); err != nil {
		d.logger.Debug("Failed to edit status message", zap.Error(err))
	}
}

// makeWorkDir creates the per-request artifact directory under the
// configured download root. The random token keeps concurrent requests for
// the same track from writing over each other.
func (d *Dispatcher) makeWorkDir() (string, error) {
	token := requestToken()
	dir := filepath.Join(d.config.Download.Dir, token)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// The shared rand source is locked, so tokens are safe to mint from
// concurrent request goroutines.
func requestToken() string {
	return fmt.Sprintf("%d-%08x", time.Now().UnixMilli(), rand.Uint32()) //nolint:gosec // uniqueness, not secrecy
}
