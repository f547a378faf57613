package resolver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

const (
	defaultVxTwitterAPI = "https://api.vxtwitter.com"
	defaultFxTwitterAPI = "https://api.fxtwitter.com"
)

var tweetIDPattern = regexp.MustCompile(`/status/(\d+)`)

// TwitterResolver resolves X/Twitter posts through mirror APIs tried in
// order (vxtwitter, then fxtwitter), with the generic proxy as last resort.
type TwitterResolver struct {
	client *fetch.Client
	logger zerolog.Logger

	// Base URLs are overridable for tests
	VxAPIURL string
	FxAPIURL string

	strategies []Strategy
}

// NewTwitterResolver creates the X/Twitter fallback chain
func NewTwitterResolver(client *fetch.Client, generic *GenericStrategy, logger zerolog.Logger) *TwitterResolver {
	r := &TwitterResolver{
		client:   client,
		logger:   logger.With().Str("component", "twitter_resolver").Logger(),
		VxAPIURL: defaultVxTwitterAPI,
		FxAPIURL: defaultFxTwitterAPI,
	}
	r.strategies = []Strategy{
		{Name: "vxtwitter", Run: r.resolveVx},
		{Name: "fxtwitter", Run: r.resolveFx},
		generic.Strategy("Twitter"),
	}
	return r
}

// Resolve runs the X/Twitter fallback chain
func (r *TwitterResolver) Resolve(ctx context.Context, rawURL string) (*entities.ResolvedPost, error) {
	return resolveWithFallback(ctx, "twitter", rawURL, r.strategies, r.logger)
}

func tweetID(rawURL string) (string, error) {
	m := tweetIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", pkgerrors.NewFetchError("no tweet id in URL", nil)
	}
	return m[1], nil
}

type vxTweet struct {
	UserName      string    `json:"user_name"`
	ScreenName    string    `json:"user_screen_name"`
	Text          string    `json:"text"`
	MediaURL      string    `json:"media_url"`
	MediaExtended []vxMedia `json:"media_extended"`
}

type vxMedia struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func (r *TwitterResolver) resolveVx(ctx context.Context, rawURL string) (*entities.ResolvedPost, error) {
	id, err := tweetID(rawURL)
	if err != nil {
		return nil, err
	}

	var tweet vxTweet
	if err := r.client.GetJSON(ctx, fmt.Sprintf("%s/Twitter/status/%s", r.VxAPIURL, id), &tweet); err != nil {
		return nil, err
	}

	media := tweet.MediaExtended
	if len(media) == 0 && tweet.MediaURL != "" {
		media = []vxMedia{{Type: "image", URL: tweet.MediaURL}}
	}

	return r.buildPost(ctx, rawURL, tweet.UserName, tweet.ScreenName, tweet.Text, media)
}

type fxResponse struct {
	Code  int `json:"code"`
	Tweet struct {
		Text   string `json:"text"`
		Author struct {
			Name       string `json:"name"`
			ScreenName string `json:"screen_name"`
		} `json:"author"`
		Media struct {
			All []vxMedia `json:"all"`
		} `json:"media"`
	} `json:"tweet"`
}

func (r *TwitterResolver) resolveFx(ctx context.Context, rawURL string) (*entities.ResolvedPost, error) {
	id, err := tweetID(rawURL)
	if err != nil {
		return nil, err
	}

	var resp fxResponse
	if err := r.client.GetJSON(ctx, fmt.Sprintf("%s/status/%s", r.FxAPIURL, id), &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 && resp.Code != 200 {
		return nil, pkgerrors.NewFetchError(fmt.Sprintf("fxtwitter: code %d", resp.Code), nil)
	}

	return r.buildPost(ctx, rawURL, resp.Tweet.Author.Name, resp.Tweet.Author.ScreenName, resp.Tweet.Text, resp.Tweet.Media.All)
}

// buildPost normalizes a mirror's media list into the common model: the
// first video/gif wins as a single video, otherwise all photos form a
// gallery (or a single photo).
func (r *TwitterResolver) buildPost(ctx context.Context, rawURL, userName, screenName, text string, media []vxMedia) (*entities.ResolvedPost, error) {
	if userName == "" && screenName == "" {
		return nil, pkgerrors.NewFetchError("twitter mirror: empty payload", nil)
	}

	post := &entities.ResolvedPost{
		SourceURL:     rawURL,
		AuthorName:    userName,
		AuthorURL:     fmt.Sprintf("https://x.com/%s", screenName),
		RawCaption:    text,
		AudioFileName: fmt.Sprintf("%s - twitter.mp3", entities.SanitizeFileName(userName)),
	}

	for _, m := range media {
		if m.Type == "video" || m.Type == "gif" {
			video := downloadOne(ctx, r.client, m.URL, entities.MediaKindVideo, "video.mp4", r.logger)
			if video == nil {
				return nil, pkgerrors.NewFetchError("twitter: video download failed", nil)
			}
			post.Video = video
			return post, nil
		}
	}

	items := make([]remoteAsset, 0, len(media))
	for _, m := range media {
		items = append(items, remoteAsset{URL: m.URL, Kind: entities.MediaKindPhoto, FileName: "photo.jpg"})
	}
	if len(items) == 0 {
		return nil, pkgerrors.NewFetchError("twitter: tweet has no media", nil)
	}

	photos := downloadAll(ctx, r.client, items, r.logger)
	switch len(photos) {
	case 0:
		return nil, pkgerrors.NewFetchError("twitter: all photo downloads failed", nil)
	case 1:
		post.Photo = &photos[0]
	default:
		post.Gallery = photos
	}
	return post, nil
}
