// Package resolver turns platform post URLs into normalized ResolvedPosts.
// Each platform runs an ordered fallback chain of strategies; every strategy
// failure is treated as recoverable and only exhaustion of the whole chain
// surfaces as a ResolutionError.
package resolver

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/deps"
	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	posterrors "github.com/clipfetch/clipfetch-bot/internal/domain/post/errors"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

// Strategy is one way to resolve a post URL on a given platform
type Strategy struct {
	Name string
	Run  func(ctx context.Context, url string) (*entities.ResolvedPost, error)
}

// resolveWithFallback tries strategies in order with the same input URL.
// A strategy that returns an invalid post is treated the same as one that
// failed. The returned error is always exactly one ResolutionError.
func resolveWithFallback(ctx context.Context, platform, url string, strategies []Strategy, logger zerolog.Logger) (*entities.ResolvedPost, error) {
	var lastErr error

	for _, strategy := range strategies {
		post, err := strategy.Run(ctx, url)
		if err == nil {
			if verr := post.Validate(); verr != nil {
				logger.Warn().Str("platform", platform).Str("strategy", strategy.Name).Err(verr).Msg("Strategy returned invalid post")
				lastErr = verr
				continue
			}
			logger.Info().Str("platform", platform).Str("strategy", strategy.Name).Str("url", url).Msg("Post resolved")
			return post, nil
		}

		logger.Warn().Str("platform", platform).Str("strategy", strategy.Name).Str("url", url).Err(err).Msg("Strategy failed, trying next")
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return nil, pkgerrors.NewResolutionError(platform, lastErr)
}

// Registry routes a post URL to the platform resolver that owns its host.
// Implements deps.PostResolver.
type Registry struct {
	tiktok    *TikTokResolver
	twitter   *TwitterResolver
	instagram *InstagramResolver
}

// NewRegistry creates the platform registry with default strategy chains
func NewRegistry(client *fetch.Client, logger zerolog.Logger) *Registry {
	generic := NewGenericStrategy(client, logger)
	return &Registry{
		tiktok:    NewTikTokResolver(client, generic, logger),
		twitter:   NewTwitterResolver(client, generic, logger),
		instagram: NewInstagramResolver(client, generic, logger),
	}
}

// Resolve picks a platform resolver by host and runs its fallback chain
func (r *Registry) Resolve(ctx context.Context, url string) (*entities.ResolvedPost, error) {
	switch {
	case strings.Contains(url, "tiktok.com"):
		return r.tiktok.Resolve(ctx, url)
	case strings.Contains(url, "twitter.com"), strings.Contains(url, "x.com"):
		return r.twitter.Resolve(ctx, url)
	case strings.Contains(url, "instagram.com"):
		return r.instagram.Resolve(ctx, url)
	default:
		return nil, posterrors.ErrUnsupportedURL
	}
}

var _ deps.PostResolver = (*Registry)(nil)
