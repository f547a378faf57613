package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{
			name: "bare url",
			text: "https://www.tiktok.com/@alice/video/123",
			want: Intent{URL: "https://www.tiktok.com/@alice/video/123"},
		},
		{
			name: "clean mode via trailing dash",
			text: "check this https://example-shortvideo.com/@alice/video/123 -",
			want: Intent{URL: "https://example-shortvideo.com/@alice/video/123", Clean: true},
		},
		{
			name: "dash inside url does not trigger clean",
			text: "https://example-shortvideo.com/@alice/video/123",
			want: Intent{URL: "https://example-shortvideo.com/@alice/video/123"},
		},
		{
			name: "audio token",
			text: "https://x.com/u/status/1 audio",
			want: Intent{URL: "https://x.com/u/status/1", Audio: true},
		},
		{
			name: "audio shortcut also sets clean via bang",
			text: "!a https://x.com/u/status/1",
			want: Intent{URL: "https://x.com/u/status/1", Clean: true, Audio: true},
		},
		{
			name: "ukrainian clean token",
			text: "чисто https://instagram.com/p/abc/",
			want: Intent{URL: "https://instagram.com/p/abc/", Clean: true},
		},
		{
			name: "translate toggle",
			text: "переклад https://x.com/u/status/1",
			want: Intent{URL: "https://x.com/u/status/1", ForceTranslate: true},
		},
		{
			name: "uppercase tokens",
			text: "AUDIO https://x.com/u/status/1",
			want: Intent{URL: "https://x.com/u/status/1", Audio: true},
		},
		{
			name: "no url",
			text: "hello there",
			want: Intent{},
		},
		{
			name: "empty text",
			text: "",
			want: Intent{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.text))
		})
	}
}
