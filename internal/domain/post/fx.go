// Package post contains the post domain module
package post

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/clipfetch/clipfetch-bot/config"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/caption"
	telegramDelivery "github.com/clipfetch/clipfetch-bot/internal/domain/post/delivery/telegram"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/deps"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/resolver"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/session"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/usecase/business"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/ffmpeg"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/telegram"
)

// Module provides post domain components for fx dependency injection
var Module = fx.Module("post",
	// Resolver
	fx.Provide(provideResolver),

	// Caption service
	fx.Provide(provideCaptionService),

	// Session store
	fx.Provide(provideSessionStore),

	// UseCase
	fx.Provide(provideUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

// provideResolver creates the platform resolver registry
func provideResolver(client *fetch.Client, logger zerolog.Logger) deps.PostResolver {
	return resolver.NewRegistry(client, logger)
}

// provideCaptionService creates the caption service with the language
// detector and the translation backend
func provideCaptionService(cfg *config.TranslateConfig, client *fetch.Client, logger zerolog.Logger) deps.CaptionService {
	detector := caption.NewLinguaDetector()
	translator := caption.NewGoogleTranslator(client, cfg.TargetLang)
	return caption.NewService(detector, translator, cfg.TargetLang, logger)
}

// provideSessionStore creates the bounded in-memory session store
func provideSessionStore(cfg *config.SessionConfig, logger zerolog.Logger) *session.MemoryStore {
	return session.NewMemoryStore(cfg.TTL, cfg.MaxEntries, logger)
}

// provideUseCase creates the post usecase without the gateway; the gateway
// is wired in wireAndRegister
func provideUseCase(
	res deps.PostResolver,
	captions deps.CaptionService,
	sessions *session.MemoryStore,
	extractor *ffmpeg.Extractor,
	logger zerolog.Logger,
) *business.UseCase {
	return business.NewUseCase(res, captions, sessions, extractor, logger)
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *business.UseCase, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), logger)
}

// wireAndRegister resolves the cyclic dependency, registers routes and
// starts the session sweeper
func wireAndRegister(
	lc fx.Lifecycle,
	uc *business.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
	sessions *session.MemoryStore,
) {
	// Handlers implements deps.MediaGateway interface.
	// This resolves the cyclic dependency: UseCase -> MediaGateway <- Handlers -> UseCase
	uc.SetGateway(handlers)

	router.RegisterRoutes(bot.Raw())

	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			go sessions.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
