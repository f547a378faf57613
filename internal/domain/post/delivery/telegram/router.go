// Package telegram contains Telegram delivery layer
package telegram

import (
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all update handlers on the bot. Every non-command
// text message goes through the link handler; messages without a URL are
// ignored there.
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, r.handlers.HandleStart)

	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "vid_", tgbot.MatchTypePrefix, r.handlers.HandleCallback)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "pho_", tgbot.MatchTypePrefix, r.handlers.HandleCallback)

	bot.RegisterHandlerMatchFunc(matchTextMessage, r.handlers.HandleMessage)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

// matchTextMessage matches plain and edited text messages that are not
// commands. Editing a message re-runs the pipeline with the new modifiers.
func matchTextMessage(update *models.Update) bool {
	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	if msg == nil || msg.Text == "" {
		return false
	}
	return !strings.HasPrefix(msg.Text, "/")
}
