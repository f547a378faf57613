package business

import (
	"html"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
)

const (
	// Telegram caps media captions at 1024 characters
	maxCaptionLength = 1024

	// Telegram caps grouped-media messages at 10 items
	maxAlbumSize = 10
)

// FormatCaption builds the outgoing HTML caption: author link, optional
// body paragraph, trailing source link. Author-supplied text is escaped and
// the body is truncated with an ellipsis to honor the length ceiling
// without ever cutting inside a tag or losing the author/source frame.
func FormatCaption(authorName, authorURL, body, sourceURL string) string {
	header := "👤 <a href=\"" + html.EscapeString(authorURL) + "\"><b>" + html.EscapeString(authorName) + "</b></a>\n\n"
	footer := "🔗 <a href=\"" + html.EscapeString(sourceURL) + "\">Оригінал</a>"

	caption := header + footer
	if body != "" {
		caption = header + "📝 " + html.EscapeString(body) + "\n\n" + footer
	}
	if runeLen(caption) <= maxCaptionLength {
		return caption
	}

	// Trim the body a rune at a time; escaping can expand a single rune
	// into several characters, so re-measure after each cut.
	bodyRunes := []rune(body)
	for len(bodyRunes) > 0 {
		over := runeLen(caption) - maxCaptionLength
		if over < 1 {
			return caption
		}
		if over > len(bodyRunes) {
			over = len(bodyRunes)
		}
		bodyRunes = bodyRunes[:len(bodyRunes)-over]
		caption = header + "📝 " + html.EscapeString(string(bodyRunes)) + "…\n\n" + footer
	}
	return header + footer
}

func runeLen(s string) int {
	return len([]rune(s))
}

// chunkAssets splits a gallery into grouped-media batches of at most size
// items, preserving the declared order
func chunkAssets(assets []entities.MediaAsset, size int) [][]entities.MediaAsset {
	var chunks [][]entities.MediaAsset
	for start := 0; start < len(assets); start += size {
		end := start + size
		if end > len(assets) {
			end = len(assets)
		}
		chunks = append(chunks, assets[start:end])
	}
	return chunks
}

// videoKeyboard is attached to single-video deliveries: audio and clean
// buttons, plus a language toggle when the caption renderings differ
func videoKeyboard(sessionID string, mode entities.LanguageMode, differs bool) *entities.Keyboard {
	kb := &entities.Keyboard{
		Rows: [][]entities.Button{{
			{Text: "🎵 Аудіо", Data: "vid_audio:" + sessionID},
			{Text: "🎬 Відео", Data: "vid_clean:" + sessionID},
		}},
	}
	if differs {
		kb.Rows = append(kb.Rows, []entities.Button{languageButton("vid_lang", sessionID, mode)})
	}
	return kb
}

// photoKeyboard is attached to the options message of photo and gallery
// deliveries
func photoKeyboard(sessionID string, mode entities.LanguageMode, differs bool) *entities.Keyboard {
	kb := &entities.Keyboard{
		Rows: [][]entities.Button{{
			{Text: "🖼️ Тільки медіа", Data: "pho_clean:" + sessionID},
		}},
	}
	if differs {
		kb.Rows = append(kb.Rows, []entities.Button{languageButton("pho_lang", sessionID, mode)})
	}
	return kb
}

func languageButton(action, sessionID string, mode entities.LanguageMode) entities.Button {
	if mode == entities.LanguageOriginal {
		return entities.Button{Text: "🇺🇦 Переклад", Data: action + ":trans:" + sessionID}
	}
	return entities.Button{Text: "🌐 Оригінал", Data: action + ":orig:" + sessionID}
}
