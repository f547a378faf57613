package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
	posterrors "github.com/clipfetch/clipfetch-bot/internal/domain/post/errors"
	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

func testClient(t *testing.T) *fetch.Client {
	t.Helper()
	return fetch.NewClient(5*time.Second, zerolog.Nop())
}

func failingStrategy(name string) Strategy {
	return Strategy{
		Name: name,
		Run: func(context.Context, string) (*entities.ResolvedPost, error) {
			return nil, pkgerrors.NewFetchError(name+" failed", nil)
		},
	}
}

func TestResolveWithFallback_FirstSuccessWins(t *testing.T) {
	want := &entities.ResolvedPost{
		SourceURL:  "https://example.com/p",
		AuthorName: "author",
		AuthorURL:  "https://example.com/u",
		Video:      &entities.MediaAsset{Data: []byte("v"), Kind: entities.MediaKindVideo},
	}

	called := false
	strategies := []Strategy{
		failingStrategy("first"),
		{Name: "second", Run: func(context.Context, string) (*entities.ResolvedPost, error) {
			return want, nil
		}},
		{Name: "third", Run: func(context.Context, string) (*entities.ResolvedPost, error) {
			called = true
			return nil, nil
		}},
	}

	post, err := resolveWithFallback(context.Background(), "test", "https://example.com/p", strategies, zerolog.Nop())

	require.NoError(t, err)
	require.Equal(t, want, post)
	require.False(t, called, "later strategies must not run after a success")
}

func TestResolveWithFallback_InvalidPostFallsThrough(t *testing.T) {
	strategies := []Strategy{
		{Name: "empty", Run: func(context.Context, string) (*entities.ResolvedPost, error) {
			// No primary media: invalid, the chain must continue.
			return &entities.ResolvedPost{SourceURL: "https://example.com/p"}, nil
		}},
		failingStrategy("last"),
	}

	_, err := resolveWithFallback(context.Background(), "test", "https://example.com/p", strategies, zerolog.Nop())

	require.Error(t, err)
	require.True(t, pkgerrors.IsResolutionError(err))
}

func TestResolveWithFallback_ExhaustionYieldsSingleResolutionError(t *testing.T) {
	strategies := []Strategy{failingStrategy("a"), failingStrategy("b")}

	_, err := resolveWithFallback(context.Background(), "test", "https://example.com/p", strategies, zerolog.Nop())

	var resErr *pkgerrors.ResolutionError
	require.True(t, errors.As(err, &resErr))
	require.Equal(t, "test", resErr.Platform)
	// The cause is the last strategy's failure, not a nested ResolutionError.
	require.True(t, pkgerrors.IsFetchError(errors.Unwrap(err)))
}

func TestRegistry_UnsupportedHost(t *testing.T) {
	registry := NewRegistry(testClient(t), zerolog.Nop())

	_, err := registry.Resolve(context.Background(), "https://youtube.com/watch?v=123")

	require.ErrorIs(t, err, posterrors.ErrUnsupportedURL)
}

func TestTikTok_TikwmVideo(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/":
			atomic.AddInt32(&calls, 1)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "1", r.FormValue("hd"))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"msg": "success",
				"data": map[string]any{
					"title":  "funny video",
					"hdplay": baseURL(r) + "/video.mp4",
					"music":  baseURL(r) + "/music.mp3",
					"author": map[string]any{"nickname": "Dancer", "unique_id": "dancer42"},
					"music_info": map[string]any{
						"title":  "Banger",
						"author": "DJ",
					},
				},
			})
		case "/video.mp4":
			_, _ = w.Write([]byte("video-bytes"))
		case "/music.mp3":
			_, _ = w.Write([]byte("music-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	resolver := NewTikTokResolver(testClient(t), NewGenericStrategy(testClient(t), zerolog.Nop()), zerolog.Nop())
	resolver.APIURL = srv.URL + "/api/"

	post, err := resolver.Resolve(context.Background(), "https://www.tiktok.com/@dancer42/video/1")

	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Equal(t, "Dancer", post.AuthorName)
	require.Equal(t, "https://www.tiktok.com/@dancer42", post.AuthorURL)
	require.Equal(t, "funny video", post.RawCaption)
	require.NotNil(t, post.Video)
	require.Equal(t, []byte("video-bytes"), post.Video.Data)
	require.NotNil(t, post.Audio)
	require.Equal(t, "DJ - Banger.mp3", post.AudioFileName)
}

func TestTikTok_TikwmRetriesOnRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/":
			if atomic.AddInt32(&calls, 1) == 1 {
				_ = json.NewEncoder(w).Encode(map[string]any{"msg": "Free Api Limit: 1 request/second"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"msg": "success",
				"data": map[string]any{
					"play":   baseURL(r) + "/video.mp4",
					"author": map[string]any{"nickname": "Dancer", "unique_id": "dancer42"},
				},
			})
		case "/video.mp4":
			_, _ = w.Write([]byte("video-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	resolver := NewTikTokResolver(testClient(t), NewGenericStrategy(testClient(t), zerolog.Nop()), zerolog.Nop())
	resolver.APIURL = srv.URL + "/api/"

	post, err := resolver.Resolve(context.Background(), "https://www.tiktok.com/@dancer42/video/1")

	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.NotNil(t, post.Video)
}

func TestTikTok_GalleryDropsFailedDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"msg": "success",
				"data": map[string]any{
					"images": []string{
						baseURL(r) + "/img1.jpg",
						baseURL(r) + "/broken.jpg",
						baseURL(r) + "/img3.jpg",
					},
					"author": map[string]any{"nickname": "Dancer", "unique_id": "dancer42"},
				},
			})
		case "/img1.jpg":
			_, _ = w.Write([]byte("one"))
		case "/img3.jpg":
			_, _ = w.Write([]byte("three"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	resolver := NewTikTokResolver(testClient(t), NewGenericStrategy(testClient(t), zerolog.Nop()), zerolog.Nop())
	resolver.APIURL = srv.URL + "/api/"

	post, err := resolver.Resolve(context.Background(), "https://www.tiktok.com/@dancer42/photo/1")

	require.NoError(t, err)
	require.Len(t, post.Gallery, 2)
	// Declared order survives the concurrent downloads.
	require.Equal(t, []byte("one"), post.Gallery[0].Data)
	require.Equal(t, []byte("three"), post.Gallery[1].Data)
}

func TestTwitter_VxMirror(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Twitter/status/123":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"user_name":        "Writer",
				"user_screen_name": "writer",
				"text":             "tweet text",
				"media_extended": []map[string]any{
					{"type": "image", "url": baseURL(r) + "/photo.jpg"},
				},
			})
		case "/photo.jpg":
			_, _ = w.Write([]byte("photo-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	resolver := NewTwitterResolver(testClient(t), NewGenericStrategy(testClient(t), zerolog.Nop()), zerolog.Nop())
	resolver.VxAPIURL = srv.URL

	post, err := resolver.Resolve(context.Background(), "https://x.com/writer/status/123")

	require.NoError(t, err)
	require.Equal(t, "Writer", post.AuthorName)
	require.Equal(t, "https://x.com/writer", post.AuthorURL)
	require.Equal(t, "tweet text", post.RawCaption)
	require.NotNil(t, post.Photo)
	require.Equal(t, []byte("photo-bytes"), post.Photo.Data)
}

func TestTwitter_FallsBackToFxMirror(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vx/Twitter/status/123":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/fx/status/123":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 200,
				"tweet": map[string]any{
					"text": "tweet text",
					"author": map[string]any{
						"name":        "Writer",
						"screen_name": "writer",
					},
					"media": map[string]any{
						"all": []map[string]any{
							{"type": "video", "url": baseURL(r) + "/clip.mp4"},
						},
					},
				},
			})
		case "/clip.mp4":
			_, _ = w.Write([]byte("clip-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	resolver := NewTwitterResolver(testClient(t), NewGenericStrategy(testClient(t), zerolog.Nop()), zerolog.Nop())
	resolver.VxAPIURL = srv.URL + "/vx"
	resolver.FxAPIURL = srv.URL + "/fx"

	post, err := resolver.Resolve(context.Background(), "https://twitter.com/writer/status/123")

	require.NoError(t, err)
	require.NotNil(t, post.Video)
	require.Equal(t, []byte("clip-bytes"), post.Video.Data)
}

func TestTwitter_VideoWinsOverPhotos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Twitter/status/9":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"user_name":        "Writer",
				"user_screen_name": "writer",
				"media_extended": []map[string]any{
					{"type": "image", "url": baseURL(r) + "/a.jpg"},
					{"type": "video", "url": baseURL(r) + "/v.mp4"},
				},
			})
		case "/v.mp4":
			_, _ = w.Write([]byte("v"))
		default:
			_, _ = w.Write([]byte("x"))
		}
	}))
	defer srv.Close()

	resolver := NewTwitterResolver(testClient(t), NewGenericStrategy(testClient(t), zerolog.Nop()), zerolog.Nop())
	resolver.VxAPIURL = srv.URL

	post, err := resolver.Resolve(context.Background(), "https://x.com/writer/status/9")

	require.NoError(t, err)
	require.NotNil(t, post.Video)
	require.Nil(t, post.Photo)
	require.Empty(t, post.Gallery)
}

func TestInstagram_WebAPICarousel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/p/AbCd123/":
			require.Equal(t, "Instagram 269.0.0.18.75 Android", r.Header.Get("User-Agent"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{
					"media_type": 8,
					"caption":    map[string]any{"text": "first line\n#tag #wall"},
					"user":       map[string]any{"username": "painter"},
					"carousel_media": []map[string]any{
						{
							"media_type":      1,
							"image_versions2": map[string]any{"candidates": []map[string]any{{"url": baseURL(r) + "/1.jpg"}}},
						},
						{
							"media_type":     2,
							"video_versions": []map[string]any{{"url": baseURL(r) + "/2.mp4"}},
						},
					},
				}},
			})
		case "/1.jpg":
			_, _ = w.Write([]byte("img"))
		case "/2.mp4":
			_, _ = w.Write([]byte("vid"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	resolver := NewInstagramResolver(testClient(t), NewGenericStrategy(testClient(t), zerolog.Nop()), zerolog.Nop())
	resolver.APIURL = srv.URL

	post, err := resolver.Resolve(context.Background(), "https://www.instagram.com/p/AbCd123/")

	require.NoError(t, err)
	require.Equal(t, "painter", post.AuthorName)
	require.Equal(t, "first line", post.RawCaption, "hashtag wall is dropped")
	require.Len(t, post.Gallery, 2)
	require.Equal(t, entities.MediaKindPhoto, post.Gallery[0].Kind)
	require.Equal(t, entities.MediaKindVideo, post.Gallery[1].Kind)
}

func TestGenericStrategy_Picker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "picker",
				"picker": []map[string]any{
					{"type": "photo", "url": baseURL(r) + "/1.jpg"},
					{"type": "photo", "url": baseURL(r) + "/2.jpg"},
				},
			})
		default:
			_, _ = w.Write([]byte(r.URL.Path))
		}
	}))
	defer srv.Close()

	generic := NewGenericStrategy(testClient(t), zerolog.Nop())
	generic.APIURL = srv.URL + "/json"

	post, err := generic.Strategy("TikTok").Run(context.Background(), "https://www.tiktok.com/@u/photo/1")

	require.NoError(t, err)
	require.Equal(t, "TikTok", post.AuthorName)
	require.Len(t, post.Gallery, 2)
}

func TestGenericStrategy_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "text": "unsupported"})
	}))
	defer srv.Close()

	generic := NewGenericStrategy(testClient(t), zerolog.Nop())
	generic.APIURL = srv.URL

	_, err := generic.Strategy("Twitter").Run(context.Background(), "https://x.com/u/status/1")

	require.True(t, pkgerrors.IsFetchError(err))
}

// baseURL returns the address of the server handling r, so handlers can
// mint absolute URLs pointing back at themselves.
func baseURL(r *http.Request) string {
	return "http://" + r.Host
}
