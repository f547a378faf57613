// Package parser extracts the post URL and caller intent from free text
package parser

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Intent is the parsed form of one inbound chat message
type Intent struct {
	URL            string
	Clean          bool
	Audio          bool
	ForceTranslate bool
}

var (
	cleanTokens     = []string{"-", "!", "clear", "чисто"}
	audioTokens     = []string{"!a", "audio", "аудіо"}
	translateTokens = []string{"translate", "переклад"}
)

// Parse inspects free text, extracts the first URL and derives intent flags
// from the surrounding tokens. Pure; unparseable input yields a zero Intent.
func Parse(text string) Intent {
	if text == "" {
		return Intent{}
	}

	url := urlPattern.FindString(text)
	if url == "" {
		return Intent{}
	}

	// Intent tokens live outside the URL; the URL itself may contain
	// dashes and bangs.
	rest := strings.ToLower(strings.Replace(text, url, "", 1))

	return Intent{
		URL:            url,
		Clean:          containsAny(rest, cleanTokens),
		Audio:          containsAny(rest, audioTokens),
		ForceTranslate: containsAny(rest, translateTokens),
	}
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
