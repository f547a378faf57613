package resolver

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
)

// remoteAsset is a media URL a strategy discovered but has not fetched yet
type remoteAsset struct {
	URL      string
	Kind     entities.MediaKind
	FileName string
}

// downloadAll fetches assets concurrently and reassembles the successful
// ones in their declared order. A failed download drops that asset only;
// callers decide whether an empty result is fatal.
func downloadAll(ctx context.Context, client *fetch.Client, items []remoteAsset, logger zerolog.Logger) []entities.MediaAsset {
	results := make([]*entities.MediaAsset, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item remoteAsset) {
			defer wg.Done()

			data, err := client.Fetch(ctx, item.URL)
			if err != nil {
				logger.Warn().Int("index", i).Str("url", item.URL).Err(err).Msg("Asset download failed, dropping it")
				return
			}
			results[i] = &entities.MediaAsset{Data: data, Kind: item.Kind, FileName: item.FileName}
		}(i, item)
	}
	wg.Wait()

	assets := make([]entities.MediaAsset, 0, len(items))
	for _, res := range results {
		if res != nil {
			assets = append(assets, *res)
		}
	}
	return assets
}

// downloadOne fetches a single asset, returning nil on failure
func downloadOne(ctx context.Context, client *fetch.Client, url string, kind entities.MediaKind, fileName string, logger zerolog.Logger) *entities.MediaAsset {
	if url == "" {
		return nil
	}
	data, err := client.Fetch(ctx, url)
	if err != nil {
		logger.Warn().Str("url", url).Err(err).Msg("Asset download failed")
		return nil
	}
	return &entities.MediaAsset{Data: data, Kind: kind, FileName: fileName}
}
