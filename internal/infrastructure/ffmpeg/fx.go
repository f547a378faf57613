// Package ffmpeg contains audio extraction infrastructure
package ffmpeg

import (
	"go.uber.org/fx"
)

// Module provides the audio extractor for fx dependency injection
var Module = fx.Module("ffmpeg",
	fx.Provide(NewExtractor),
)
