// Package entities contains domain entities
package entities

import (
	"regexp"
	"strings"
)

// MediaKind tags one retrievable media unit
type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// MediaAsset is one retrievable unit: raw bytes plus a kind tag and a
// suggested filename. Owned by the resolution call that produced it.
type MediaAsset struct {
	Data     []byte
	Kind     MediaKind
	FileName string
}

var unsafeFileChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SanitizeFileName strips characters Telegram and filesystems reject and
// caps the length at 50 runes
func SanitizeFileName(name string) string {
	if name == "" {
		return "audio"
	}
	name = unsafeFileChars.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.TrimSpace(name)

	runes := []rune(name)
	if len(runes) > 50 {
		name = string(runes[:50])
	}
	if name == "" {
		return "audio"
	}
	return name
}
