package business

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
)

func TestFormatCaption_FullFrame(t *testing.T) {
	caption := FormatCaption("someuser", "https://example.com/@someuser", "a short caption", "https://example.com/post/1")

	require.Contains(t, caption, `👤 <a href="https://example.com/@someuser"><b>someuser</b></a>`)
	require.Contains(t, caption, "📝 a short caption")
	require.Contains(t, caption, `🔗 <a href="https://example.com/post/1">Оригінал</a>`)
}

func TestFormatCaption_EmptyBodySkipsParagraph(t *testing.T) {
	caption := FormatCaption("someuser", "https://example.com/u", "", "https://example.com/p")

	require.NotContains(t, caption, "📝")
	require.Contains(t, caption, "👤")
	require.Contains(t, caption, "🔗")
}

func TestFormatCaption_EscapesAuthorSuppliedText(t *testing.T) {
	caption := FormatCaption("<script>", "https://example.com/u", `a & b <i>`, "https://example.com/p")

	require.Contains(t, caption, "&lt;script&gt;")
	require.Contains(t, caption, "a &amp; b &lt;i&gt;")
	require.NotContains(t, caption, "<script>")
}

func TestFormatCaption_TruncatesLongBody(t *testing.T) {
	body := strings.Repeat("й", 5000)
	caption := FormatCaption("author", "https://example.com/u", body, "https://example.com/p")

	require.LessOrEqual(t, len([]rune(caption)), 1024)
	require.Contains(t, caption, "…")
	// The frame survives truncation.
	require.Contains(t, caption, `<b>author</b></a>`)
	require.True(t, strings.HasSuffix(caption, `🔗 <a href="https://example.com/p">Оригінал</a>`))
}

func TestFormatCaption_TruncationAccountsForEscaping(t *testing.T) {
	// Each ampersand escapes to five characters; the trim loop must
	// re-measure after escaping.
	body := strings.Repeat("&", 2000)
	caption := FormatCaption("author", "https://example.com/u", body, "https://example.com/p")

	require.LessOrEqual(t, len([]rune(caption)), 1024)
	require.NotContains(t, caption, "&a;") // no entity cut in half
}

func TestChunkAssets(t *testing.T) {
	assets := make([]entities.MediaAsset, 12)
	for i := range assets {
		assets[i] = entities.MediaAsset{Data: []byte{byte(i)}, Kind: entities.MediaKindPhoto}
	}

	chunks := chunkAssets(assets, 10)

	require.Len(t, chunks, 2)
	require.Len(t, chunks[0], 10)
	require.Len(t, chunks[1], 2)
	// Order is preserved across the split.
	require.Equal(t, byte(9), chunks[0][9].Data[0])
	require.Equal(t, byte(10), chunks[1][0].Data[0])

	require.Nil(t, chunkAssets(nil, 10))
	require.Len(t, chunkAssets(assets[:10], 10), 1)
}

func TestVideoKeyboard(t *testing.T) {
	kb := videoKeyboard("abcd1234", entities.LanguageOriginal, true)

	require.Len(t, kb.Rows, 2)
	require.Equal(t, "vid_audio:abcd1234", kb.Rows[0][0].Data)
	require.Equal(t, "vid_clean:abcd1234", kb.Rows[0][1].Data)
	require.Equal(t, "vid_lang:trans:abcd1234", kb.Rows[1][0].Data)
	require.Equal(t, "🇺🇦 Переклад", kb.Rows[1][0].Text)
}

func TestVideoKeyboard_NoLanguageRowWhenIdentical(t *testing.T) {
	kb := videoKeyboard("abcd1234", entities.LanguageOriginal, false)

	require.Len(t, kb.Rows, 1)
}

func TestPhotoKeyboard(t *testing.T) {
	kb := photoKeyboard("abcd1234", entities.LanguageTranslated, true)

	require.Len(t, kb.Rows, 2)
	require.Equal(t, "pho_clean:abcd1234", kb.Rows[0][0].Data)
	require.Equal(t, "pho_lang:orig:abcd1234", kb.Rows[1][0].Data)
	require.Equal(t, "🌐 Оригінал", kb.Rows[1][0].Text)
}
