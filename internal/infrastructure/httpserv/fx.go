// Package httpserv contains liveness HTTP infrastructure
package httpserv

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/clipfetch/clipfetch-bot/config"
)

// Module provides the liveness server and keep-alive pinger for fx
var Module = fx.Module("httpserv",
	fx.Provide(provideServer, providePinger),
	fx.Invoke(registerLifecycle),
)

// provideServer creates the liveness server from config
func provideServer(cfg *config.ServerConfig, logger zerolog.Logger) *Server {
	return NewServer(cfg.Port, logger)
}

// providePinger creates the keep-alive pinger from config
func providePinger(cfg *config.ServerConfig, logger zerolog.Logger) *Pinger {
	return NewPinger(cfg.PingURL, cfg.PingInterval, logger)
}

// registerLifecycle registers server and pinger lifecycle hooks
func registerLifecycle(lc fx.Lifecycle, srv *Server, pinger *Pinger, logger zerolog.Logger) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error().Err(err).Msg("Liveness HTTP server failed")
				}
			}()
			go pinger.Run(ctx)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			return srv.Stop(ctx)
		},
	})
}
