// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/clipfetch/clipfetch-bot/config"
	"github.com/clipfetch/clipfetch-bot/internal/domain"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, fetch, ffmpeg, telegram bot, liveness server)
		infrastructure.Module,

		// Domain (post pipeline)
		domain.Module,
	)
}
