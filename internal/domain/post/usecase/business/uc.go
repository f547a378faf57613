// Package business contains the post pipeline orchestration: resolve,
// caption, dispatch and the interactive follow-up actions
package business

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/deps"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/dto"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	posterrors "github.com/clipfetch/clipfetch-bot/internal/domain/post/errors"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/parser"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/session"
)

// User-facing strings
const (
	msgGreeting    = "Привіт! Кидай посилання на TikTok / Instagram / X (Twitter)."
	msgProcessing  = "⏳ Обробляю..."
	msgLoadFailed  = "❌ Помилка завантаження."
	msgNoAudio     = "Не вдалося отримати аудіо 😔"
	msgOptions     = "Опції:"
	msgExpired     = "Застаріло"
	msgFileLost    = "Файл втрачено"
	msgExtracting  = "Витягую аудіо..."
	msgUnsupported = "Непідтримуване посилання 🤷"
)

// UseCase contains business logic for post resolution and delivery
type UseCase struct {
	resolver  deps.PostResolver
	captions  deps.CaptionService
	sessions  deps.SessionStore
	extractor deps.AudioExtractor
	gateway   deps.MediaGateway
	logger    zerolog.Logger
}

// NewUseCase creates a new UseCase instance
// Note: the gateway is not passed here to break the cyclic dependency with
// the Telegram handlers; call SetGateway after creating them.
func NewUseCase(
	resolver deps.PostResolver,
	captions deps.CaptionService,
	sessions deps.SessionStore,
	extractor deps.AudioExtractor,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		resolver:  resolver,
		captions:  captions,
		sessions:  sessions,
		extractor: extractor,
		logger:    logger,
	}
}

// SetGateway sets the MediaGateway after construction. Called by fx.Invoke
// to resolve the cyclic dependency.
func (uc *UseCase) SetGateway(gateway deps.MediaGateway) {
	uc.gateway = gateway
}

// HandleStart handles the /start command
func (uc *UseCase) HandleStart(ctx context.Context, req *dto.StartRequest) error {
	uc.logger.Info().Int64("chat_id", req.ChatID).Str("username", req.Username).Msg("User started bot")

	_, err := uc.gateway.SendText(ctx, req.ChatID, msgGreeting, nil)
	return err
}

// ProcessLink runs the main pipeline for one inbound message. Messages
// without a URL are a silent no-op.
func (uc *UseCase) ProcessLink(ctx context.Context, req *dto.LinkRequest) error {
	intent := parser.Parse(req.Text)
	if intent.URL == "" {
		return nil
	}

	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Str("url", intent.URL).
		Bool("clean", intent.Clean).
		Bool("audio", intent.Audio).
		Msg("Processing link")

	return uc.process(ctx, req.ChatID, req.MessageID, intent, entities.LanguageOriginal)
}

// process resolves and dispatches one request. replyToID is the message the
// status indicator replies to; zero suppresses it (button-press re-runs).
func (uc *UseCase) process(ctx context.Context, chatID int64, replyToID int, intent parser.Intent, mode entities.LanguageMode) error {
	standard := !intent.Clean && !intent.Audio

	var statusID int
	if standard && replyToID != 0 {
		if id, err := uc.gateway.SendStatus(ctx, chatID, replyToID, msgProcessing); err == nil {
			statusID = id
		}
	}

	post, err := uc.resolver.Resolve(ctx, intent.URL)
	if err != nil {
		uc.logger.Error().Str("url", intent.URL).Err(err).Msg("Post resolution failed")
		uc.failStatus(ctx, chatID, statusID, err)
		return err
	}

	switch {
	case intent.Audio:
		err = uc.deliverAudio(ctx, chatID, post)
	case intent.Clean:
		err = uc.deliverClean(ctx, chatID, post)
	default:
		rendering := uc.captions.Render(ctx, post.RawCaption, intent.ForceTranslate)
		err = uc.deliverStandard(ctx, chatID, post, rendering, mode)
	}

	if err != nil {
		uc.logger.Error().Str("url", intent.URL).Err(err).Msg("Delivery failed")
		uc.failStatus(ctx, chatID, statusID, err)
		return err
	}

	if statusID != 0 {
		_ = uc.gateway.DeleteMessage(ctx, chatID, statusID)
	}
	return nil
}

// failStatus replaces the in-flight indicator with a terse failure notice
func (uc *UseCase) failStatus(ctx context.Context, chatID int64, statusID int, cause error) {
	if statusID == 0 {
		return
	}
	text := msgLoadFailed
	if errors.Is(cause, posterrors.ErrUnsupportedURL) {
		text = msgUnsupported
	}
	_ = uc.gateway.EditText(ctx, chatID, statusID, text, nil)
}

// deliverAudio handles audio-only requests: detached soundtrack first,
// then extraction from the primary video, then a failure notice
func (uc *UseCase) deliverAudio(ctx context.Context, chatID int64, post *entities.ResolvedPost) error {
	if post.Audio != nil {
		return uc.gateway.SendAudio(ctx, chatID, post.Audio)
	}

	if post.Video != nil {
		audio, err := uc.extractor.ExtractAudio(ctx, post.Video.Data)
		if err == nil {
			return uc.gateway.SendAudio(ctx, chatID, &entities.MediaAsset{
				Data:     audio,
				Kind:     entities.MediaKindAudio,
				FileName: post.AudioFileName,
			})
		}
		uc.logger.Warn().Err(err).Msg("Audio extraction failed")
	}

	_, err := uc.gateway.SendText(ctx, chatID, msgNoAudio, nil)
	return err
}

// deliverClean sends the bare media with no caption and no keyboard
func (uc *UseCase) deliverClean(ctx context.Context, chatID int64, post *entities.ResolvedPost) error {
	switch {
	case post.Video != nil:
		_, _, err := uc.gateway.SendVideo(ctx, chatID, post.Video, "", nil)
		return err
	case post.Photo != nil:
		_, err := uc.gateway.SendPhoto(ctx, chatID, post.Photo, "", nil)
		return err
	default:
		for _, chunk := range chunkAssets(post.Gallery, maxAlbumSize) {
			if err := uc.gateway.SendAlbum(ctx, chatID, chunk, ""); err != nil {
				return err
			}
		}
		return nil
	}
}

// deliverStandard sends the full rendering (caption + keyboard) and
// registers the session entry that backs follow-up actions
func (uc *UseCase) deliverStandard(ctx context.Context, chatID int64, post *entities.ResolvedPost, rendering entities.CaptionRendering, mode entities.LanguageMode) error {
	sessionID := session.NewID()
	captionText := FormatCaption(post.AuthorName, post.AuthorURL, rendering.Text(mode), post.SourceURL)

	entry := &entities.SessionEntry{
		ID:            sessionID,
		ChatID:        chatID,
		SourceURL:     post.SourceURL,
		AuthorName:    post.AuthorName,
		AuthorURL:     post.AuthorURL,
		Caption:       rendering,
		LanguageMode:  mode,
		Audio:         post.Audio,
		AudioFileName: post.AudioFileName,
		CreatedAt:     time.Now(),
	}

	if post.Video != nil {
		entry.Kind = entities.SessionKindVideo

		messageID, fileID, err := uc.gateway.SendVideo(ctx, chatID, post.Video, captionText, videoKeyboard(sessionID, mode, rendering.Differs))
		if err != nil {
			return err
		}
		entry.MediaMessageID = messageID
		entry.VideoFileID = fileID

		uc.sessions.Put(entry)
		return nil
	}

	entry.Kind = entities.SessionKindPhoto
	entry.Photo = post.Photo
	entry.Gallery = post.Gallery

	if post.Photo != nil {
		messageID, err := uc.gateway.SendPhoto(ctx, chatID, post.Photo, captionText, nil)
		if err != nil {
			return err
		}
		entry.MediaMessageID = messageID
	} else {
		for i, chunk := range chunkAssets(post.Gallery, maxAlbumSize) {
			chunkCaption := ""
			if i == 0 {
				chunkCaption = captionText
			}
			if err := uc.gateway.SendAlbum(ctx, chatID, chunk, chunkCaption); err != nil {
				return err
			}
		}
	}

	// Albums cannot carry an editable caption together with a keyboard,
	// so follow-up actions live on a trailing options message.
	optionsID, err := uc.gateway.SendText(ctx, chatID, msgOptions, photoKeyboard(sessionID, mode, rendering.Differs))
	if err != nil {
		return err
	}
	entry.OptionsMessageID = optionsID

	// A detached soundtrack is part of the post for photo-type posts.
	if post.Audio != nil {
		if err := uc.gateway.SendAudio(ctx, chatID, post.Audio); err != nil {
			uc.logger.Warn().Err(err).Msg("Failed to send soundtrack after photo post")
		}
	}

	uc.sessions.Put(entry)
	return nil
}

// HandleCallback routes one button press. The returned reply is shown to
// the pressing user as a toast or alert; errors never crash the process.
func (uc *UseCase) HandleCallback(ctx context.Context, req *dto.CallbackRequest) (*dto.CallbackReply, error) {
	parts := strings.Split(req.Data, ":")
	action := parts[0]

	sessionID := parts[len(parts)-1]
	entry, ok := uc.sessions.Get(sessionID)
	if !ok {
		uc.logger.Info().Str("data", req.Data).Msg("Callback against expired session")
		return &dto.CallbackReply{Text: msgExpired, ShowAlert: true}, nil
	}

	switch action {
	case "vid_clean":
		return uc.resendCleanVideo(ctx, entry)

	case "vid_audio":
		return uc.resendAudio(ctx, entry)

	case "vid_lang":
		if len(parts) != 3 {
			return nil, nil
		}
		return uc.toggleVideoLanguage(ctx, entry, entities.LanguageMode(parts[1]))

	case "pho_clean":
		return uc.resendCleanPhoto(ctx, entry)

	case "pho_lang":
		if len(parts) != 3 {
			return nil, nil
		}
		return uc.togglePhotoLanguage(ctx, entry, entities.LanguageMode(parts[1]))

	default:
		uc.logger.Warn().Str("data", req.Data).Msg("Unknown callback action")
		return nil, nil
	}
}

// resendCleanVideo re-sends the video without caption, preferring the
// Telegram file reference retained at first upload
func (uc *UseCase) resendCleanVideo(ctx context.Context, entry *entities.SessionEntry) (*dto.CallbackReply, error) {
	if entry.VideoFileID != "" {
		if err := uc.gateway.SendVideoByFileID(ctx, entry.ChatID, entry.VideoFileID); err != nil {
			return &dto.CallbackReply{Text: msgFileLost, ShowAlert: true}, err
		}
		return nil, nil
	}

	// No durable reference retained: abbreviated clean-mode re-resolve.
	err := uc.process(ctx, entry.ChatID, 0, parser.Intent{URL: entry.SourceURL, Clean: true}, entry.LanguageMode)
	return nil, err
}

// resendAudio delivers retained audio or falls back to a scoped audio-mode
// re-resolve
func (uc *UseCase) resendAudio(ctx context.Context, entry *entities.SessionEntry) (*dto.CallbackReply, error) {
	if entry.Audio != nil {
		if err := uc.gateway.SendAudio(ctx, entry.ChatID, entry.Audio); err != nil {
			return nil, err
		}
		return nil, nil
	}

	err := uc.process(ctx, entry.ChatID, 0, parser.Intent{URL: entry.SourceURL, Audio: true}, entry.LanguageMode)
	return &dto.CallbackReply{Text: msgExtracting}, err
}

// resendCleanPhoto re-sends retained photo/gallery bytes without caption
func (uc *UseCase) resendCleanPhoto(ctx context.Context, entry *entities.SessionEntry) (*dto.CallbackReply, error) {
	switch {
	case entry.Photo != nil:
		_, err := uc.gateway.SendPhoto(ctx, entry.ChatID, entry.Photo, "", nil)
		return nil, err

	case len(entry.Gallery) > 0:
		for _, chunk := range chunkAssets(entry.Gallery, maxAlbumSize) {
			if err := uc.gateway.SendAlbum(ctx, entry.ChatID, chunk, ""); err != nil {
				return nil, err
			}
		}
		return nil, nil

	default:
		err := uc.process(ctx, entry.ChatID, 0, parser.Intent{URL: entry.SourceURL, Clean: true}, entry.LanguageMode)
		return nil, err
	}
}

// toggleVideoLanguage flips the caption language of a single-video post by
// editing the delivered message in place
func (uc *UseCase) toggleVideoLanguage(ctx context.Context, entry *entities.SessionEntry, mode entities.LanguageMode) (*dto.CallbackReply, error) {
	entry.Lock()
	defer entry.Unlock()

	captionText := FormatCaption(entry.AuthorName, entry.AuthorURL, entry.Caption.Text(mode), entry.SourceURL)
	err := uc.gateway.EditCaption(ctx, entry.ChatID, entry.MediaMessageID, captionText, videoKeyboard(entry.ID, mode, entry.Caption.Differs))
	if err != nil {
		uc.logger.Warn().Str("session_id", entry.ID).Err(err).Msg("Caption edit failed")
		return nil, err
	}
	entry.LanguageMode = mode
	return nil, nil
}

// togglePhotoLanguage flips the caption language of a photo or gallery
// post. Single photos edit the caption in place; galleries cannot, so the
// options message is replaced and the entry re-keyed to the new message.
func (uc *UseCase) togglePhotoLanguage(ctx context.Context, entry *entities.SessionEntry, mode entities.LanguageMode) (*dto.CallbackReply, error) {
	entry.Lock()
	defer entry.Unlock()

	captionText := FormatCaption(entry.AuthorName, entry.AuthorURL, entry.Caption.Text(mode), entry.SourceURL)
	kb := photoKeyboard(entry.ID, mode, entry.Caption.Differs)

	if entry.Photo != nil && entry.MediaMessageID != 0 {
		if err := uc.gateway.EditCaption(ctx, entry.ChatID, entry.MediaMessageID, captionText, nil); err != nil {
			uc.logger.Warn().Str("session_id", entry.ID).Err(err).Msg("Photo caption edit failed")
			return nil, err
		}
		if err := uc.gateway.EditKeyboard(ctx, entry.ChatID, entry.OptionsMessageID, kb); err != nil {
			uc.logger.Warn().Str("session_id", entry.ID).Err(err).Msg("Options keyboard update failed")
		}
		entry.LanguageMode = mode
		return nil, nil
	}

	// Gallery: the caption rode on the first album item and Telegram will
	// not edit album captions, so swap the options message instead.
	_ = uc.gateway.DeleteMessage(ctx, entry.ChatID, entry.OptionsMessageID)

	newID, err := uc.gateway.SendText(ctx, entry.ChatID, captionText, kb)
	if err != nil {
		return nil, err
	}
	entry.OptionsMessageID = newID
	entry.LanguageMode = mode
	return nil, nil
}
