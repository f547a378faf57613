package caption

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LinguaDetector detects caption languages in-process. Detection is
// CPU-bound, so it runs inside the per-update goroutine rather than
// calling out to a network service.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over all supported languages. The
// model load is paid once at startup.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build(),
	}
}

// Detect returns the lower-case ISO 639-1 code of the most likely language
func (d *LinguaDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
