package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvedPost_Validate(t *testing.T) {
	video := &MediaAsset{Data: []byte("v"), Kind: MediaKindVideo}
	photo := &MediaAsset{Data: []byte("p"), Kind: MediaKindPhoto}

	tests := []struct {
		name    string
		post    ResolvedPost
		wantErr bool
	}{
		{"single video", ResolvedPost{Video: video}, false},
		{"single photo", ResolvedPost{Photo: photo}, false},
		{"gallery", ResolvedPost{Gallery: []MediaAsset{*photo, *photo}}, false},
		{"no media", ResolvedPost{}, true},
		{"video and photo", ResolvedPost{Video: video, Photo: photo}, true},
		{"photo and gallery", ResolvedPost{Photo: photo, Gallery: []MediaAsset{*photo}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCaptionRendering_Text(t *testing.T) {
	r := CaptionRendering{Original: "hello", Translated: "привіт", Differs: true}

	require.Equal(t, "hello", r.Text(LanguageOriginal))
	require.Equal(t, "привіт", r.Text(LanguageTranslated))
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "audio"},
		{`a/b\c:d*e?f"g<h>i|j`, "abcdefghij"},
		{"line one\nline two", "line one line two"},
		{"  padded  ", "padded"},
		{`///`, "audio"},
		{strings.Repeat("ю", 80), strings.Repeat("ю", 50)},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, SanitizeFileName(tt.in), "input %q", tt.in)
	}
}
