// Package entities contains domain entities for resolved social posts
package entities

import (
	"fmt"
	"sync"
	"time"
)

// LanguageMode selects which caption rendering is shown
type LanguageMode string

const (
	LanguageOriginal   LanguageMode = "orig"
	LanguageTranslated LanguageMode = "trans"
)

// Toggle returns the opposite language mode
func (m LanguageMode) Toggle() LanguageMode {
	if m == LanguageTranslated {
		return LanguageOriginal
	}
	return LanguageTranslated
}

// ResolvedPost is the normalized output of a platform resolver. Exactly one
// of Video, Photo or Gallery is populated as the primary media.
type ResolvedPost struct {
	SourceURL  string
	AuthorName string
	AuthorURL  string
	RawCaption string

	Video   *MediaAsset
	Photo   *MediaAsset
	Gallery []MediaAsset

	// Audio is a separately hosted soundtrack (e.g. TikTok music),
	// independent of any audio embedded in the video file.
	Audio         *MediaAsset
	AudioFileName string
}

// Validate checks the primary-media invariant
func (p *ResolvedPost) Validate() error {
	populated := 0
	if p.Video != nil {
		populated++
	}
	if p.Photo != nil {
		populated++
	}
	if len(p.Gallery) > 0 {
		populated++
	}
	if populated != 1 {
		return fmt.Errorf("resolved post must carry exactly one primary media, got %d", populated)
	}
	return nil
}

// HasVideo reports whether the primary media is a single video
func (p *ResolvedPost) HasVideo() bool {
	return p.Video != nil
}

// CaptionRendering holds both language renderings of a post caption.
// Differs is true only when translation actually produced different text;
// it gates whether a language-toggle button is offered at all.
type CaptionRendering struct {
	Original   string
	Translated string
	Differs    bool
}

// Text returns the rendering for the given language mode
func (c CaptionRendering) Text(mode LanguageMode) string {
	if mode == LanguageTranslated {
		return c.Translated
	}
	return c.Original
}

// SessionKind distinguishes the two interactive delivery shapes
type SessionKind string

const (
	SessionKindVideo SessionKind = "video"
	SessionKindPhoto SessionKind = "photo"
)

// SessionEntry backs follow-up interactive actions on a delivered post.
// Keyed by a short opaque id embedded in button callback data.
type SessionEntry struct {
	ID         string
	ChatID     int64
	SourceURL  string
	AuthorName string
	AuthorURL  string

	Caption      CaptionRendering
	LanguageMode LanguageMode
	Kind         SessionKind

	// VideoFileID is the Telegram file reference issued on first upload,
	// reused for clean re-sends without touching the source platform.
	VideoFileID string

	// Retained media for photo/gallery posts; re-sends and language
	// toggles reuse these bytes instead of re-resolving.
	Photo   *MediaAsset
	Gallery []MediaAsset

	Audio         *MediaAsset
	AudioFileName string

	// MediaMessageID is the message whose caption is edited on toggle
	// (single video/photo). OptionsMessageID is the standalone keyboard
	// message used for photo and gallery deliveries.
	MediaMessageID   int
	OptionsMessageID int

	CreatedAt time.Time

	mu sync.Mutex
}

// Lock serializes interactive transitions on this entry. Two rapid
// presses on the same entry interleave across network suspension points
// otherwise and lose one of the updates.
func (e *SessionEntry) Lock() {
	e.mu.Lock()
}

// Unlock releases the transition lock
func (e *SessionEntry) Unlock() {
	e.mu.Unlock()
}

// Keyboard is a transport-agnostic inline keyboard description
type Keyboard struct {
	Rows [][]Button
}

// Button is one inline keyboard button
type Button struct {
	Text string
	Data string
}
