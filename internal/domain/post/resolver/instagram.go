package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

const (
	defaultInstagramAPI = "https://www.instagram.com"

	// Instagram's web API answers JSON to its own Android app agent where
	// a browser agent gets a login wall.
	instagramUserAgent = "Instagram 269.0.0.18.75 Android"
)

var shortcodePattern = regexp.MustCompile(`/(p|reel|reels)/([A-Za-z0-9_\-]+)`)

// InstagramResolver resolves Instagram posts: the web-API scrape gives the
// richest metadata (real caption, sidecar nodes, per-node video flag); the
// generic proxy fallback degrades the author to a placeholder.
type InstagramResolver struct {
	client *fetch.Client
	logger zerolog.Logger

	// APIURL is overridable for tests
	APIURL string

	strategies []Strategy
}

// NewInstagramResolver creates the Instagram fallback chain
func NewInstagramResolver(client *fetch.Client, generic *GenericStrategy, logger zerolog.Logger) *InstagramResolver {
	r := &InstagramResolver{
		client: client,
		logger: logger.With().Str("component", "instagram_resolver").Logger(),
		APIURL: defaultInstagramAPI,
	}
	r.strategies = []Strategy{
		{Name: "web_api", Run: r.resolveWebAPI},
		generic.Strategy("Instagram"),
	}
	return r
}

// Resolve runs the Instagram fallback chain
func (r *InstagramResolver) Resolve(ctx context.Context, rawURL string) (*entities.ResolvedPost, error) {
	return resolveWithFallback(ctx, "instagram", rawURL, r.strategies, r.logger)
}

// Media type codes of the Instagram web API
const (
	igMediaPhoto    = 1
	igMediaVideo    = 2
	igMediaCarousel = 8
)

type igItemsResponse struct {
	Items []igItem `json:"items"`
}

type igItem struct {
	MediaType int `json:"media_type"`
	Caption   *struct {
		Text string `json:"text"`
	} `json:"caption"`
	User struct {
		Username string `json:"username"`
	} `json:"user"`
	CarouselMedia []igItem `json:"carousel_media"`
	VideoVersions []struct {
		URL string `json:"url"`
	} `json:"video_versions"`
	ImageVersions2 struct {
		Candidates []struct {
			URL string `json:"url"`
		} `json:"candidates"`
	} `json:"image_versions2"`
}

func (item *igItem) videoURL() string {
	if len(item.VideoVersions) > 0 {
		return item.VideoVersions[0].URL
	}
	return ""
}

func (item *igItem) photoURL() string {
	if len(item.ImageVersions2.Candidates) > 0 {
		return item.ImageVersions2.Candidates[0].URL
	}
	return ""
}

func (r *InstagramResolver) resolveWebAPI(ctx context.Context, rawURL string) (*entities.ResolvedPost, error) {
	m := shortcodePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, pkgerrors.NewFetchError("no shortcode in URL", nil)
	}
	shortcode := m[2]

	// A login wall or block answers HTML here, which fails JSON decoding
	// and falls through to the next strategy.
	var resp igItemsResponse
	endpoint := fmt.Sprintf("%s/p/%s/?__a=1&__d=dis", r.APIURL, shortcode)
	if err := r.client.GetJSONAs(ctx, endpoint, instagramUserAgent, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, pkgerrors.NewFetchError("instagram: empty items payload", nil)
	}
	item := resp.Items[0]

	username := item.User.Username
	if username == "" {
		username = "Instagram"
	}

	caption := ""
	if item.Caption != nil {
		// Instagram captions trail off into hashtag walls; the first
		// line is the human-written part.
		caption = strings.SplitN(item.Caption.Text, "\n", 2)[0]
	}

	post := &entities.ResolvedPost{
		SourceURL:     rawURL,
		AuthorName:    username,
		AuthorURL:     fmt.Sprintf("https://instagram.com/%s", username),
		RawCaption:    caption,
		AudioFileName: entities.SanitizeFileName(username) + ".mp3",
	}

	switch item.MediaType {
	case igMediaCarousel:
		items := make([]remoteAsset, 0, len(item.CarouselMedia))
		for _, node := range item.CarouselMedia {
			if node.MediaType == igMediaVideo {
				items = append(items, remoteAsset{URL: node.videoURL(), Kind: entities.MediaKindVideo, FileName: "media.mp4"})
			} else {
				items = append(items, remoteAsset{URL: node.photoURL(), Kind: entities.MediaKindPhoto, FileName: "photo.jpg"})
			}
		}
		post.Gallery = downloadAll(ctx, r.client, items, r.logger)
		if len(post.Gallery) == 0 {
			return nil, pkgerrors.NewFetchError("instagram: all sidecar downloads failed", nil)
		}

	case igMediaVideo:
		video := downloadOne(ctx, r.client, item.videoURL(), entities.MediaKindVideo, "video.mp4", r.logger)
		if video == nil {
			return nil, pkgerrors.NewFetchError("instagram: video download failed", nil)
		}
		post.Video = video

	default:
		photo := downloadOne(ctx, r.client, item.photoURL(), entities.MediaKindPhoto, "photo.jpg", r.logger)
		if photo == nil {
			return nil, pkgerrors.NewFetchError("instagram: photo download failed", nil)
		}
		post.Photo = photo
	}

	return post, nil
}
