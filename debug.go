package flipbook

import (
	"fmt"
	"os"
	"time"
)

// encodeStats holds per-encode timing and frame metrics. Only populated when
// the session's debug mode is on.
type encodeStats struct {
	buildTime     time.Duration
	runTime       time.Duration
	finalizeTime  time.Duration
	framesBuilt   int
	framesEmitted int
	codec         string
}

// debugLogEncode prints encode timing and frame stats to stderr.
func (s *Session) debugLogEncode(stats encodeStats, blobSize int) {
	total := stats.buildTime + stats.runTime + stats.finalizeTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[flipbook] session %s: build: %v | run: %v | finalize: %v | total: %v\n",
		s.id, stats.buildTime, stats.runTime, stats.finalizeTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[flipbook] logical frames: %d | output frames: %d | codec: %q | blob: %d bytes\n",
		stats.framesBuilt, stats.framesEmitted, stats.codec, blobSize)
}
