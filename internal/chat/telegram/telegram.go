// Package telegram provides Telegram Bot API integration using the
// go-telegram/bot library.
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Wortexhf/spotify-downloader/internal/chat"
)

// Config holds Telegram-specific configuration.
type Config struct {
	BotToken string
}

// Frontend implements the chat.Frontend interface for Telegram.
type Frontend struct {
	config *Config
	logger *zap.Logger
	bot    *bot.Bot

	messageHandler func(*chat.Message)
}

// NewFrontend creates a new Telegram frontend.
func NewFrontend(config *Config, logger *zap.Logger) *Frontend {
	return &Frontend{
		config: config,
		logger: logger,
	}
}

// Start initializes the Telegram bot.
func (f *Frontend) Start(_ context.Context) error {
	opts := []bot.Option{
		bot.WithDefaultHandler(f.handleUpdate),
	}

	b, err := bot.New(f.config.BotToken, opts...)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}

	f.bot = b
	f.logger.Info("Telegram frontend started successfully")
	return nil
}

// Listen begins long polling and calls the handler for each message.
func (f *Frontend) Listen(ctx context.Context, handler func(*chat.Message)) error {
	f.messageHandler = handler
	f.bot.Start(ctx)
	return nil
}

// SendText sends a text message, optionally as a reply.
func (f *Frontend) SendText(ctx context.Context, chatID, replyToID, text string) (string, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid chat ID: %w", err)
	}

	params := &bot.SendMessageParams{
		ChatID: chatIDInt,
		Text:   text,
	}

	if replyToID != "" {
		messageID, parseErr := strconv.Atoi(replyToID)
		if parseErr != nil {
			return "", fmt.Errorf("invalid reply message ID: %w", parseErr)
		}
		params.ReplyParameters = &models.ReplyParameters{
			MessageID: messageID,
		}
	}

	msg, err := f.bot.SendMessage(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	return strconv.Itoa(msg.ID), nil
}

// EditMessage replaces the text of a previously sent message.
func (f *Frontend) EditMessage(ctx context.Context, chatID, messageID, newText string) error {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	msgID, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("invalid message ID: %w", err)
	}

	_, err = f.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatIDInt,
		MessageID: msgID,
		Text:      newText,
	})
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}

	return nil
}

// DeleteMessage deletes a message by its ID.
func (f *Frontend) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	msgID, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("invalid message ID: %w", err)
	}

	_, err = f.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatIDInt,
		MessageID: msgID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

// SendPhoto uploads a local image file with a caption.
func (f *Frontend) SendPhoto(ctx context.Context, chatID, photoPath, caption string) error {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	file, err := os.Open(photoPath)
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	_, err = f.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatIDInt,
		Photo: &models.InputFileUpload{
			Filename: filepath.Base(photoPath),
			Data:     file,
		},
		Caption: caption,
	})
	if err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}

	return nil
}

// SendAudio uploads a local audio file with caption, performer, title and
// an optional thumbnail.
func (f *Frontend) SendAudio(ctx context.Context, chatID string, audio *chat.AudioFile) error {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	file, err := os.Open(audio.Path)
	if err != nil {
		return fmt.Errorf("failed to open audio: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	params := &bot.SendAudioParams{
		ChatID: chatIDInt,
		Audio: &models.InputFileUpload{
			Filename: filepath.Base(audio.Path),
			Data:     file,
		},
		Caption:   audio.Caption,
		Performer: audio.Performer,
		Title:     audio.Title,
	}

	if audio.ThumbnailPath != "" {
		thumb, thumbErr := os.Open(audio.ThumbnailPath)
		if thumbErr != nil {
			f.logger.Debug("Failed to open thumbnail, sending without it",
				zap.String("path", audio.ThumbnailPath),
				zap.Error(thumbErr))
		} else {
			defer func() {
				_ = thumb.Close()
			}()
			params.Thumbnail = &models.InputFileUpload{
				Filename: filepath.Base(audio.ThumbnailPath),
				Data:     thumb,
			}
		}
	}

	_, err = f.bot.SendAudio(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send audio: %w", err)
	}

	return nil
}

// handleUpdate processes incoming Telegram updates.
func (f *Frontend) handleUpdate(_ context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	f.handleMessage(update.Message)
}

// handleMessage converts a Telegram message to the unified format.
func (f *Frontend) handleMessage(msg *models.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}

	message := chat.Message{
		ID:         strconv.Itoa(msg.ID),
		ChatID:     strconv.FormatInt(msg.Chat.ID, 10),
		SenderID:   strconv.FormatInt(msg.From.ID, 10),
		SenderName: getUserDisplayName(msg.From),
		FirstName:  msg.From.FirstName,
		Text:       msg.Text,
		Raw:        msg,
	}

	if f.messageHandler != nil {
		f.messageHandler(&message)
	}
}

// getUserDisplayName creates a display name for the user.
func getUserDisplayName(user *models.User) string {
	if user.Username != "" {
		return "@" + user.Username
	}

	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}

	return name
}
