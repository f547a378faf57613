package resolver

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

const defaultGenericAPI = "https://api.cobalt.tools/api/json"

// GenericStrategy is the last-resort proxy resolver shared by every
// platform chain. It trades metadata for reach: the proxy returns either a
// single direct media URL (one merged video) or a picker list, and the
// author identity degrades to a platform placeholder.
type GenericStrategy struct {
	client *fetch.Client
	logger zerolog.Logger

	// APIURL is overridable for tests
	APIURL string
}

// NewGenericStrategy creates the shared proxy strategy
func NewGenericStrategy(client *fetch.Client, logger zerolog.Logger) *GenericStrategy {
	return &GenericStrategy{
		client: client,
		logger: logger.With().Str("component", "generic_resolver").Logger(),
		APIURL: defaultGenericAPI,
	}
}

// Strategy adapts the proxy into a platform chain entry; placeholder names
// the platform in the degraded author field
func (g *GenericStrategy) Strategy(placeholder string) Strategy {
	return Strategy{
		Name: "generic_proxy",
		Run: func(ctx context.Context, url string) (*entities.ResolvedPost, error) {
			return g.resolve(ctx, url, placeholder)
		},
	}
}

type proxyRequest struct {
	URL string `json:"url"`
}

type proxyResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
	URL    string `json:"url"`
	Picker []struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"picker"`
}

func (g *GenericStrategy) resolve(ctx context.Context, url, placeholder string) (*entities.ResolvedPost, error) {
	var resp proxyResponse
	if err := g.client.PostJSON(ctx, g.APIURL, proxyRequest{URL: url}, &resp); err != nil {
		return nil, err
	}

	post := &entities.ResolvedPost{
		SourceURL:     url,
		AuthorName:    placeholder,
		AuthorURL:     url,
		AudioFileName: "audio.mp3",
	}

	switch resp.Status {
	case "stream", "redirect", "tunnel":
		video := downloadOne(ctx, g.client, resp.URL, entities.MediaKindVideo, "video.mp4", g.logger)
		if video == nil {
			return nil, pkgerrors.NewFetchError("generic proxy: media download failed", nil)
		}
		post.Video = video
		return post, nil

	case "picker":
		items := make([]remoteAsset, 0, len(resp.Picker))
		for _, p := range resp.Picker {
			kind := entities.MediaKindPhoto
			name := "photo.jpg"
			if p.Type == "video" || p.Type == "gif" {
				kind = entities.MediaKindVideo
				name = "media.mp4"
			}
			items = append(items, remoteAsset{URL: p.URL, Kind: kind, FileName: name})
		}
		if len(items) == 0 {
			return nil, pkgerrors.NewFetchError("generic proxy: empty picker", nil)
		}

		assets := downloadAll(ctx, g.client, items, g.logger)
		switch len(assets) {
		case 0:
			return nil, pkgerrors.NewFetchError("generic proxy: all picker downloads failed", nil)
		case 1:
			if assets[0].Kind == entities.MediaKindVideo {
				post.Video = &assets[0]
			} else {
				post.Photo = &assets[0]
			}
		default:
			post.Gallery = assets
		}
		return post, nil

	default:
		return nil, pkgerrors.NewFetchError(fmt.Sprintf("generic proxy: status %q: %s", resp.Status, resp.Text), nil)
	}
}
