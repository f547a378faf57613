// Package fetch contains the outbound HTTP collaborator used for media
// downloads and third-party resolver APIs
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0 Safari/537.36"

	// Facebook's crawler UA gets a direct redirect out of short-link
	// services where a browser UA gets an interstitial page.
	crawlerUserAgent = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"

	defaultTimeout = 20 * time.Second
)

// Client issues outbound HTTP requests with bounded timeouts. Every failure
// is reported as a FetchError so fallback chains treat it as recoverable.
type Client struct {
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a fetch client; a non-positive timeout uses the default
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "fetch").Logger(),
	}
}

// Fetch downloads raw bytes from a media URL. Callers treat an error as
// "this particular asset silently failed", not as a pipeline abort.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pkgerrors.NewFetchError("create request", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.NewFetchError("download", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.NewFetchError(fmt.Sprintf("download: unexpected status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.NewFetchError("read body", err)
	}
	return data, nil
}

// GetJSON performs a GET request and decodes the JSON response into out
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return pkgerrors.NewFetchError("create request", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, out)
}

// GetJSONAs performs a GET request under a caller-chosen User-Agent and
// decodes the JSON response into out. Some platform endpoints only answer
// structured JSON to their own mobile-app agent.
func (c *Client) GetJSONAs(ctx context.Context, rawURL, userAgent string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return pkgerrors.NewFetchError("create request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, out)
}

// PostForm performs a form-encoded POST request and decodes the JSON response
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.NewFetchError("create request", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, out)
}

// PostJSON performs a JSON POST request and decodes the JSON response
func (c *Client) PostJSON(ctx context.Context, rawURL string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.NewFetchError("encode body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(string(payload)))
	if err != nil {
		return pkgerrors.NewFetchError("create request", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.NewFetchError("send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.NewFetchError(fmt.Sprintf("api call: unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.NewFetchError("decode response", err)
	}
	return nil
}

// ResolveRedirect expands a short link into its final URL by following
// redirects. On any failure the original URL is returned unchanged.
func (c *Client) ResolveRedirect(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return rawURL
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("redirect expansion failed")
		return rawURL
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.Request.URL.String()
}
