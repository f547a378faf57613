// Package fetch contains outbound HTTP infrastructure
package fetch

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module provides the fetch client for fx dependency injection
var Module = fx.Module("fetch",
	fx.Provide(provideClient),
)

// provideClient creates the fetch client with the default timeout
func provideClient(logger zerolog.Logger) *Client {
	return NewClient(0, logger)
}
