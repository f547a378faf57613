// Package telegram contains Telegram delivery handlers
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/dto"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/usecase/business"
)

// Constants for Telegram API
const (
	RequestTimeout    = 30 * time.Second
	UploadTimeout     = 120 * time.Second
	MaxMediaGroupSize = 10
)

// Handlers contains Telegram update handlers.
// Implements deps.MediaGateway interface.
type Handlers struct {
	uc     *business.UseCase
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		logger: logger,
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	req := &dto.StartRequest{
		ChatID:   update.Message.Chat.ID,
		Username: update.Message.From.Username,
	}

	if err := h.uc.HandleStart(ctx, req); err != nil {
		h.logger.Error().Int64("chat_id", req.ChatID).Err(err).Msg("Failed to handle /start")
	}
}

// HandleMessage handles plain text messages, new and edited alike
func (h *Handlers) HandleMessage(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	if msg == nil || msg.Text == "" {
		return
	}

	req := &dto.LinkRequest{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      msg.Text,
	}

	if err := h.uc.ProcessLink(ctx, req); err != nil {
		h.logger.Error().Int64("chat_id", req.ChatID).Err(err).Msg("Failed to process message")
	}
}

// HandleCallback handles inline keyboard button presses
func (h *Handlers) HandleCallback(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}

	req := &dto.CallbackRequest{
		CallbackID: cb.ID,
		ChatID:     cb.Message.Message.Chat.ID,
		MessageID:  cb.Message.Message.ID,
		Data:       cb.Data,
	}

	reply, err := h.uc.HandleCallback(ctx, req)
	if err != nil {
		h.logger.Error().Int64("chat_id", req.ChatID).Str("data", req.Data).Err(err).Msg("Callback handling failed")
	}

	h.answerCallback(ctx, cb.ID, reply)
}

// answerCallback acknowledges the press so the button stops spinning
func (h *Handlers) answerCallback(ctx context.Context, callbackID string, reply *dto.CallbackReply) {
	params := &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	}
	if reply != nil {
		params.Text = reply.Text
		params.ShowAlert = reply.ShowAlert
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	if _, err := h.bot.AnswerCallbackQuery(msgCtx, params); err != nil {
		h.logger.Warn().Str("callback_id", callbackID).Err(err).Msg("Failed to answer callback query")
	}
}

// SendText implements deps.MediaGateway interface
func (h *Handlers) SendText(ctx context.Context, chatID int64, text string, kb *entities.Keyboard) (int, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: toReplyMarkup(kb),
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send message")
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	return msg.ID, nil
}

// SendStatus implements deps.MediaGateway interface
func (h *Handlers) SendStatus(ctx context.Context, chatID int64, replyToID int, text string) (int, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: replyToID},
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Failed to send status message")
		return 0, fmt.Errorf("failed to send status message: %w", err)
	}

	return msg.ID, nil
}

// EditText implements deps.MediaGateway interface
func (h *Handlers) EditText(ctx context.Context, chatID int64, messageID int, text string, kb *entities.Keyboard) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: toReplyMarkup(kb),
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to edit message text")
		return fmt.Errorf("failed to edit message: %w", err)
	}

	return nil
}

// EditCaption implements deps.MediaGateway interface
func (h *Handlers) EditCaption(ctx context.Context, chatID int64, messageID int, caption string, kb *entities.Keyboard) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageCaption(msgCtx, &tgbot.EditMessageCaptionParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Caption:     caption,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: toReplyMarkup(kb),
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to edit message caption")
		return fmt.Errorf("failed to edit caption: %w", err)
	}

	return nil
}

// EditKeyboard implements deps.MediaGateway interface
func (h *Handlers) EditKeyboard(ctx context.Context, chatID int64, messageID int, kb *entities.Keyboard) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageReplyMarkup(msgCtx, &tgbot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: toReplyMarkup(kb),
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to edit reply markup")
		return fmt.Errorf("failed to edit reply markup: %w", err)
	}

	return nil
}

// DeleteMessage implements deps.MediaGateway interface
func (h *Handlers) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.DeleteMessage(msgCtx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to delete message")
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

// SendPhoto implements deps.MediaGateway interface
func (h *Handlers) SendPhoto(ctx context.Context, chatID int64, asset *entities.MediaAsset, caption string, kb *entities.Keyboard) (int, error) {
	msgCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	msg, err := h.bot.SendPhoto(msgCtx, &tgbot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: assetFilename(asset, "photo.jpg"), Data: bytes.NewReader(asset.Data)},
		Caption:     caption,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: toReplyMarkup(kb),
	})
	if err != nil {
		h.logMediaSend(chatID, "photo", err)
		return 0, fmt.Errorf("failed to send photo: %w", err)
	}

	h.logMediaSend(chatID, "photo", nil)
	return msg.ID, nil
}

// SendVideo implements deps.MediaGateway interface. The returned file id
// allows re-sending the same video without another upload.
func (h *Handlers) SendVideo(ctx context.Context, chatID int64, asset *entities.MediaAsset, caption string, kb *entities.Keyboard) (int, string, error) {
	msgCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	msg, err := h.bot.SendVideo(msgCtx, &tgbot.SendVideoParams{
		ChatID:      chatID,
		Video:       &models.InputFileUpload{Filename: assetFilename(asset, "video.mp4"), Data: bytes.NewReader(asset.Data)},
		Caption:     caption,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: toReplyMarkup(kb),
	})
	if err != nil {
		h.logMediaSend(chatID, "video", err)
		return 0, "", fmt.Errorf("failed to send video: %w", err)
	}

	fileID := ""
	if msg.Video != nil {
		fileID = msg.Video.FileID
	}

	h.logMediaSend(chatID, "video", nil)
	return msg.ID, fileID, nil
}

// SendVideoByFileID implements deps.MediaGateway interface
func (h *Handlers) SendVideoByFileID(ctx context.Context, chatID int64, fileID string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendVideo(msgCtx, &tgbot.SendVideoParams{
		ChatID: chatID,
		Video:  &models.InputFileString{Data: fileID},
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Str("file_id", fileID).Err(err).Msg("Failed to re-send video by file_id")
		return fmt.Errorf("failed to send video by file_id: %w", err)
	}

	return nil
}

// SendAudio implements deps.MediaGateway interface
func (h *Handlers) SendAudio(ctx context.Context, chatID int64, asset *entities.MediaAsset) error {
	msgCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err := h.bot.SendAudio(msgCtx, &tgbot.SendAudioParams{
		ChatID: chatID,
		Audio:  &models.InputFileUpload{Filename: assetFilename(asset, "audio.mp3"), Data: bytes.NewReader(asset.Data)},
	})
	if err != nil {
		h.logMediaSend(chatID, "audio", err)
		return fmt.Errorf("failed to send audio: %w", err)
	}

	h.logMediaSend(chatID, "audio", nil)
	return nil
}

// SendAlbum implements deps.MediaGateway interface. Telegram puts an album
// caption on the group when exactly one item carries it, so only the first
// input media gets the caption.
func (h *Handlers) SendAlbum(ctx context.Context, chatID int64, assets []entities.MediaAsset, caption string) error {
	if len(assets) == 0 {
		return fmt.Errorf("album cannot be empty")
	}
	if len(assets) > MaxMediaGroupSize {
		return fmt.Errorf("album size %d exceeds limit %d", len(assets), MaxMediaGroupSize)
	}

	media := make([]models.InputMedia, 0, len(assets))
	for i, asset := range assets {
		attachName := fmt.Sprintf("file%d", i)
		itemCaption := ""
		if i == 0 {
			itemCaption = caption
		}

		if asset.Kind == entities.MediaKindVideo {
			media = append(media, &models.InputMediaVideo{
				Media:           "attach://" + attachName,
				MediaAttachment: bytes.NewReader(asset.Data),
				Caption:         itemCaption,
				ParseMode:       models.ParseModeHTML,
			})
			continue
		}

		media = append(media, &models.InputMediaPhoto{
			Media:           "attach://" + attachName,
			MediaAttachment: bytes.NewReader(asset.Data),
			Caption:         itemCaption,
			ParseMode:       models.ParseModeHTML,
		})
	}

	msgCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err := h.bot.SendMediaGroup(msgCtx, &tgbot.SendMediaGroupParams{
		ChatID: chatID,
		Media:  media,
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Int("media_count", len(assets)).Err(err).Msg("Failed to send media group")
		return fmt.Errorf("failed to send media group: %w", err)
	}

	h.logger.Info().Int64("chat_id", chatID).Int("media_count", len(assets)).Msg("Media group sent")
	return nil
}

// logMediaSend logs media send result
func (h *Handlers) logMediaSend(chatID int64, mediaType string, err error) {
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Str("media_type", mediaType).Err(err).Msg("Media send failed")
		return
	}
	h.logger.Info().Int64("chat_id", chatID).Str("media_type", mediaType).Msg("Media sent")
}

// assetFilename picks the upload filename for an asset
func assetFilename(asset *entities.MediaAsset, fallback string) string {
	if asset.FileName != "" {
		return asset.FileName
	}
	return fallback
}

// toReplyMarkup converts a transport-agnostic keyboard into the Telegram
// inline markup. A nil keyboard yields a nil markup, not an empty one.
func toReplyMarkup(kb *entities.Keyboard) models.ReplyMarkup {
	if kb == nil || len(kb.Rows) == 0 {
		return nil
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         btn.Text,
				CallbackData: btn.Data,
			})
		}
		rows = append(rows, buttons)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
