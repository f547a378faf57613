// Package ffmpeg invokes the external transcoder to extract audio tracks
package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	pkgerrors "github.com/clipfetch/clipfetch-bot/pkg/errors"
)

// Extractor implements deps.AudioExtractor by shelling out to ffmpeg
type Extractor struct {
	binary string
	logger zerolog.Logger
}

// NewExtractor creates an extractor using the ffmpeg binary on PATH
func NewExtractor(logger zerolog.Logger) *Extractor {
	return &Extractor{
		binary: "ffmpeg",
		logger: logger.With().Str("component", "ffmpeg").Logger(),
	}
}

// ExtractAudio writes the video to a uniquely named temp file, extracts an
// mp3 track and returns its bytes. Temp files are removed on every exit
// path, including cancellation.
func (e *Extractor) ExtractAudio(ctx context.Context, video []byte) ([]byte, error) {
	id := uuid.NewString()
	videoPath := filepath.Join(os.TempDir(), "clipfetch_vid_"+id+".mp4")
	audioPath := filepath.Join(os.TempDir(), "clipfetch_aud_"+id+".mp3")
	defer func() {
		_ = os.Remove(videoPath)
		_ = os.Remove(audioPath)
	}()

	if err := os.WriteFile(videoPath, video, 0o600); err != nil {
		return nil, pkgerrors.NewTranscodeError("write temp video", err)
	}

	cmd := exec.CommandContext(ctx, e.binary,
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		audioPath,
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		e.logger.Warn().Err(err).Str("output", tail(output)).Msg("ffmpeg invocation failed")
		return nil, pkgerrors.NewTranscodeError("ffmpeg failed", err)
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, pkgerrors.NewTranscodeError("read extracted audio", err)
	}
	if len(audio) == 0 {
		return nil, pkgerrors.NewTranscodeError("ffmpeg produced empty audio", nil)
	}

	e.logger.Debug().Int("video_bytes", len(video)).Int("audio_bytes", len(audio)).Msg("audio extracted")
	return audio, nil
}

// tail keeps the last part of ffmpeg's output, where the actual error lives
func tail(output []byte) string {
	const keep = 400
	if len(output) <= keep {
		return string(output)
	}
	return string(output[len(output)-keep:])
}
