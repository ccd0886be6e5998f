package lumen

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame stage timings. Only populated when the engine's
// debug mode is on.
type frameStats struct {
	rasterizeTime   time.Duration
	sweepTime       time.Duration
	reconstructTime time.Duration
	compositeTime   time.Duration
	levelCount      int
}

// debugLog prints the stage timings for the frame just computed to stderr.
func (e *Engine) debugLog() {
	if !e.debug {
		return
	}
	s := e.stats
	total := s.rasterizeTime + s.sweepTime + s.reconstructTime + s.compositeTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[lumen] rasterize: %v | sweep: %v | reconstruct: %v | composite: %v | total: %v\n",
		s.rasterizeTime, s.sweepTime, s.reconstructTime, s.compositeTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[lumen] field: %dx%d | levels: %d | store samples: %d\n",
		e.fieldW, e.fieldH, s.levelCount, len(e.store.data))
}
