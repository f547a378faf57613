// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/ffmpeg"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/httpserv"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/logger"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	fetch.Module,
	ffmpeg.Module,
	telegram.Module,
	httpserv.Module,
)
