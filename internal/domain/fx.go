// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	post.Module,
)
