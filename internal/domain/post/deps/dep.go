// Package deps contains interface definitions for the post domain dependencies
package deps

import (
	"context"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
)

// MediaGateway defines the messaging-transport operations the usecase needs.
// This interface is used to break the cyclic dependency between UseCase and
// the Telegram handlers, which implement it.
type MediaGateway interface {
	// SendText sends a text message, optionally with an inline keyboard,
	// and returns the new message id
	SendText(ctx context.Context, chatID int64, text string, kb *entities.Keyboard) (int, error)

	// SendStatus sends a plain reply to the given message and returns its id
	SendStatus(ctx context.Context, chatID int64, replyToID int, text string) (int, error)

	// EditText replaces the text (and keyboard) of a sent message
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb *entities.Keyboard) error

	// EditCaption replaces the caption (and keyboard) of a sent media message
	EditCaption(ctx context.Context, chatID int64, messageID int, caption string, kb *entities.Keyboard) error

	// EditKeyboard replaces only the inline keyboard of a sent message
	EditKeyboard(ctx context.Context, chatID int64, messageID int, kb *entities.Keyboard) error

	// DeleteMessage removes a sent message
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// SendPhoto uploads a photo with an HTML caption and returns the message id
	SendPhoto(ctx context.Context, chatID int64, asset *entities.MediaAsset, caption string, kb *entities.Keyboard) (int, error)

	// SendVideo uploads a video with an HTML caption; returns the message id
	// and the Telegram file id issued for the upload
	SendVideo(ctx context.Context, chatID int64, asset *entities.MediaAsset, caption string, kb *entities.Keyboard) (messageID int, fileID string, err error)

	// SendVideoByFileID re-sends an already uploaded video by file reference
	SendVideoByFileID(ctx context.Context, chatID int64, fileID string) error

	// SendAudio uploads an audio file
	SendAudio(ctx context.Context, chatID int64, asset *entities.MediaAsset) error

	// SendAlbum uploads one grouped-media message (at most 10 items);
	// the caption, when non-empty, is attached to the first item only
	SendAlbum(ctx context.Context, chatID int64, assets []entities.MediaAsset, caption string) error
}

// PostResolver turns a platform post URL into a normalized ResolvedPost
type PostResolver interface {
	Resolve(ctx context.Context, url string) (*entities.ResolvedPost, error)
}

// CaptionService produces both language renderings of a raw caption
type CaptionService interface {
	Render(ctx context.Context, raw string, forceTranslate bool) entities.CaptionRendering
}

// AudioExtractor extracts the audio track from a video container
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, video []byte) ([]byte, error)
}

// SessionStore keeps interactive post-session entries with bounded lifetime
type SessionStore interface {
	Put(entry *entities.SessionEntry)
	Get(id string) (*entities.SessionEntry, bool)
	Remove(id string)
	Len() int
}
