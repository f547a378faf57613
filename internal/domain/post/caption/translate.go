package caption

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/clipfetch/clipfetch-bot/internal/infrastructure/fetch"
	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

const defaultTranslateAPI = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator translates text through Google's public web endpoint.
// Best-effort and unauthenticated; callers degrade on failure.
type GoogleTranslator struct {
	client     *fetch.Client
	targetLang string

	// APIURL is overridable for tests
	APIURL string
}

// NewGoogleTranslator creates a translator targeting the given language
func NewGoogleTranslator(client *fetch.Client, targetLang string) *GoogleTranslator {
	return &GoogleTranslator{
		client:     client,
		targetLang: targetLang,
		APIURL:     defaultTranslateAPI,
	}
}

// Translate translates text into the target language, auto-detecting the
// source. The endpoint answers a nested array; the first element holds the
// translated segments.
func (t *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	query := url.Values{
		"client": {"gtx"},
		"sl":     {"auto"},
		"tl":     {t.targetLang},
		"dt":     {"t"},
		"q":      {text},
	}

	var raw []json.RawMessage
	if err := t.client.GetJSON(ctx, t.APIURL+"?"+query.Encode(), &raw); err != nil {
		return "", pkgerrors.NewTranslationError("translate call failed", err)
	}
	if len(raw) == 0 {
		return "", pkgerrors.NewTranslationError("translate: empty response", nil)
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", pkgerrors.NewTranslationError("translate: unexpected response shape", err)
	}

	var b strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err == nil {
			b.WriteString(part)
		}
	}

	if b.Len() == 0 {
		return "", pkgerrors.NewTranslationError("translate: no segments in response", nil)
	}
	return b.String(), nil
}
