// Package caption renders post captions in both the original and the
// target UI language, deciding when translation is actually needed
package caption

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
)

// Detector identifies the language of a text as a lower-case ISO 639-1 code
type Detector interface {
	Detect(text string) (code string, ok bool)
}

// Translator translates text into the service's target language
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Service implements deps.CaptionService
type Service struct {
	detector   Detector
	translator Translator
	targetLang string
	logger     zerolog.Logger
}

// NewService creates a caption service; targetLang is the pass-through
// language (lower-case ISO 639-1)
func NewService(detector Detector, translator Translator, targetLang string, logger zerolog.Logger) *Service {
	return &Service{
		detector:   detector,
		translator: translator,
		targetLang: strings.ToLower(targetLang),
		logger:     logger.With().Str("component", "caption").Logger(),
	}
}

// Render produces both language renderings of a raw caption. Default policy
// translates everything that is not already in the target language;
// forceTranslate inverts it. Translation failures degrade to pass-through
// text and never surface to the caller.
func (s *Service) Render(ctx context.Context, raw string, forceTranslate bool) entities.CaptionRendering {
	if strings.TrimSpace(raw) == "" {
		return entities.CaptionRendering{}
	}

	code, detected := s.detector.Detect(raw)
	passThrough := detected && code == s.targetLang

	shouldTranslate := !passThrough
	if forceTranslate {
		shouldTranslate = !shouldTranslate
	}

	if !shouldTranslate {
		return entities.CaptionRendering{Original: raw, Translated: raw, Differs: false}
	}

	translated, err := s.translator.Translate(ctx, raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("detected", code).Msg("Translation failed, keeping original text")
		return entities.CaptionRendering{Original: raw, Translated: raw, Differs: false}
	}

	return entities.CaptionRendering{
		Original:   raw,
		Translated: translated,
		Differs:    translated != raw,
	}
}
