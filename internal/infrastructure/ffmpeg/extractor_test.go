package ffmpeg

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

func TestExtractAudio_MissingBinary(t *testing.T) {
	extractor := NewExtractor(zerolog.Nop())
	extractor.binary = "ffmpeg-binary-that-does-not-exist"

	_, err := extractor.ExtractAudio(context.Background(), []byte("not a real video"))

	require.Error(t, err)
	require.True(t, pkgerrors.IsTranscodeError(err))
}

func TestTail(t *testing.T) {
	require.Equal(t, "short", tail([]byte("short")))

	long := strings.Repeat("a", 500) + "the error"
	got := tail([]byte(long))
	require.Len(t, got, 400)
	require.True(t, strings.HasSuffix(got, "the error"))
}
