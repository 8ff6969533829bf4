// Package chat provides a unified interface for chat frontends.
package chat

import (
	"context"
)

// Message represents a normalized inbound chat message.
type Message struct {
	ID         string
	ChatID     string
	SenderID   string
	SenderName string
	FirstName  string
	Text       string
	Raw        any // underlying library message struct
}

// AudioFile describes an audio delivery: the local file plus the metadata
// the transport attaches to it.
type AudioFile struct {
	Path          string
	Caption       string
	Performer     string
	Title         string
	ThumbnailPath string // empty to send without a thumbnail
}

// Frontend defines the send/edit primitives the delivery pipeline depends
// on, plus lifecycle and inbound message delivery.
type Frontend interface {
	// Start initializes the chat frontend.
	Start(ctx context.Context) error

	// Listen blocks, delivering each inbound message to the handler.
	Listen(ctx context.Context, handler func(*Message)) error

	// SendText sends a text message, optionally as a reply, and returns
	// the new message's ID.
	SendText(ctx context.Context, chatID, replyToID, text string) (string, error)

	// EditMessage replaces the text of a previously sent message.
	EditMessage(ctx context.Context, chatID, messageID, newText string) error

	// DeleteMessage deletes a message by its ID.
	DeleteMessage(ctx context.Context, chatID, messageID string) error

	// SendPhoto uploads a local image file with a caption.
	SendPhoto(ctx context.Context, chatID, photoPath, caption string) error

	// SendAudio uploads a local audio file with caption, performer, title
	// and an optional thumbnail.
	SendAudio(ctx context.Context, chatID string, audio *AudioFile) error
}
