package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

const (
	defaultTikwmAPI = "https://www.tikwm.com/api/"

	// tikwm free tier rejects bursts; one short pause and a single retry
	// recovers most of them before falling back.
	tikwmRetryDelay = 1100 * time.Millisecond
)

// TikTokResolver resolves TikTok posts: tikwm structured API first (author,
// caption, direct media URLs and the separately hosted soundtrack), generic
// proxy extraction second.
type TikTokResolver struct {
	client *fetch.Client
	logger zerolog.Logger

	// APIURL is overridable for tests
	APIURL string

	strategies []Strategy
}

// NewTikTokResolver creates the TikTok fallback chain
func NewTikTokResolver(client *fetch.Client, generic *GenericStrategy, logger zerolog.Logger) *TikTokResolver {
	r := &TikTokResolver{
		client: client,
		logger: logger.With().Str("component", "tiktok_resolver").Logger(),
		APIURL: defaultTikwmAPI,
	}
	r.strategies = []Strategy{
		{Name: "tikwm", Run: r.resolveTikwm},
		generic.Strategy("TikTok"),
	}
	return r
}

// Resolve runs the TikTok fallback chain
func (r *TikTokResolver) Resolve(ctx context.Context, rawURL string) (*entities.ResolvedPost, error) {
	return resolveWithFallback(ctx, "tiktok", rawURL, r.strategies, r.logger)
}

type tikwmResponse struct {
	Msg  string     `json:"msg"`
	Data *tikwmData `json:"data"`
}

type tikwmData struct {
	Title  string   `json:"title"`
	Play   string   `json:"play"`
	HDPlay string   `json:"hdplay"`
	Music  string   `json:"music"`
	Images []string `json:"images"`
	Author struct {
		Nickname string `json:"nickname"`
		UniqueID string `json:"unique_id"`
	} `json:"author"`
	MusicInfo struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	} `json:"music_info"`
}

func (r *TikTokResolver) resolveTikwm(ctx context.Context, rawURL string) (*entities.ResolvedPost, error) {
	fullURL := r.expandShortLink(ctx, rawURL)

	data, err := r.callTikwm(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	authorURL := fmt.Sprintf("https://www.tiktok.com/@%s", data.Author.UniqueID)

	musicAuthor := data.MusicInfo.Author
	if musicAuthor == "" {
		musicAuthor = data.Author.Nickname
	}
	musicTitle := data.MusicInfo.Title
	if musicTitle == "" {
		musicTitle = "Audio"
	}
	audioName := fmt.Sprintf("%s - %s.mp3", entities.SanitizeFileName(musicAuthor), entities.SanitizeFileName(musicTitle))

	post := &entities.ResolvedPost{
		SourceURL:     fullURL,
		AuthorName:    data.Author.Nickname,
		AuthorURL:     authorURL,
		RawCaption:    data.Title,
		AudioFileName: audioName,
	}

	// Detached soundtrack is best-effort; a post without it still delivers.
	if audio := downloadOne(ctx, r.client, data.Music, entities.MediaKindAudio, audioName, r.logger); audio != nil {
		post.Audio = audio
	}

	if len(data.Images) > 0 {
		items := make([]remoteAsset, len(data.Images))
		for i, img := range data.Images {
			items[i] = remoteAsset{URL: img, Kind: entities.MediaKindPhoto, FileName: "photo.jpg"}
		}
		post.Gallery = downloadAll(ctx, r.client, items, r.logger)
		if len(post.Gallery) == 0 {
			return nil, pkgerrors.NewFetchError("tikwm: all gallery downloads failed", nil)
		}
		return post, nil
	}

	videoURL := data.HDPlay
	if videoURL == "" {
		videoURL = data.Play
	}
	video := downloadOne(ctx, r.client, videoURL, entities.MediaKindVideo, "video.mp4", r.logger)
	if video == nil {
		return nil, pkgerrors.NewFetchError("tikwm: video download failed", nil)
	}
	post.Video = video

	return post, nil
}

// callTikwm posts the URL to tikwm, retrying once after a short pause on the
// rate-limit and parse-failure answers the free tier produces under load
func (r *TikTokResolver) callTikwm(ctx context.Context, fullURL string) (*tikwmData, error) {
	form := url.Values{"url": {fullURL}, "hd": {"1"}}

	var resp tikwmResponse
	if err := r.client.PostForm(ctx, r.APIURL, form, &resp); err != nil {
		return nil, err
	}
	if resp.Data != nil {
		return resp.Data, nil
	}

	if !strings.Contains(resp.Msg, "Url parsing is failed") && !strings.Contains(resp.Msg, "Free Api Limit") {
		return nil, pkgerrors.NewFetchError("tikwm: "+resp.Msg, nil)
	}

	r.logger.Warn().Str("msg", resp.Msg).Msg("tikwm throttled, retrying once")
	select {
	case <-ctx.Done():
		return nil, pkgerrors.NewFetchError("tikwm retry", ctx.Err())
	case <-time.After(tikwmRetryDelay):
	}

	resp = tikwmResponse{}
	if err := r.client.PostForm(ctx, r.APIURL, form, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, pkgerrors.NewFetchError("tikwm: "+resp.Msg, nil)
	}
	return resp.Data, nil
}

// expandShortLink resolves vm./vt. share links to the canonical post URL and
// strips tracking query parameters
func (r *TikTokResolver) expandShortLink(ctx context.Context, rawURL string) string {
	if strings.Contains(rawURL, "vm.tiktok.com") || strings.Contains(rawURL, "vt.tiktok.com") {
		rawURL = r.client.ResolveRedirect(ctx, rawURL)
	}
	if idx := strings.Index(rawURL, "?"); idx >= 0 {
		rawURL = rawURL[:idx]
	}
	return rawURL
}
