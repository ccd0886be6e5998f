package lumen

// Level describes the geometry of one cascade tier. Levels are derived from
// the canvas size and Config every time either changes; they are never
// persisted and carry no state of their own.
type Level struct {
	// Index is the cascade level, 0 = finest.
	Index int
	// Diameter is the probe spacing in field pixels: 2^(p+Index).
	Diameter int
	// ProbesX and ProbesY are the probe grid dimensions, at least 1 each.
	ProbesX, ProbesY int
	// Dirs is the number of direction groups stored per probe after
	// pre-averaging: 2^q · 2^(b·Index) / 2^b.
	Dirs int
	// RaysPerGroup is the number of raw rays folded into each stored group: 2^b.
	RaysPerGroup int
	// TotalRays is the raw ray count at this level: Dirs · RaysPerGroup.
	TotalRays int
	// RStart and REnd bound the raymarch interval [RStart, REnd) in pixels.
	RStart, REnd float64
}

// planLevels maps a field size and config to the ordered cascade level list,
// finest first. It is a pure function: identical inputs always produce
// identical geometry.
//
// The pre-averaging divisor 2^b in Dirs is deliberate: the probe count
// shrinks by 4 per level exactly as the direction count grows by 4, so the
// stored sample count (ProbesX·ProbesY·Dirs) stays constant across levels
// and the whole cascade fits in one level-0-sized slot.
func planLevels(w, h int, cfg Config) []Level {
	if w <= 0 || h <= 0 {
		return nil
	}

	// Level count = min(MaxLevels, floor(log2(min(w,h)/2^p))), clamped so
	// even a 1x1 field gets a single level-0 probe.
	count := 0
	for size := min(w, h) >> cfg.ProbeSpacingPower; size > 1; size >>= 1 {
		count++
	}
	if count > cfg.MaxLevels {
		count = cfg.MaxLevels
	}
	if count < 1 {
		count = 1
	}

	b := cfg.BranchingFactor
	levels := make([]Level, count)
	for i := range levels {
		diameter := 1 << (cfg.ProbeSpacingPower + i)
		lv := Level{
			Index:        i,
			Diameter:     diameter,
			ProbesX:      max(1, w/diameter),
			ProbesY:      max(1, h/diameter),
			RaysPerGroup: 1 << b,
			TotalRays:    1 << (cfg.RayCountPower + b*i),
			REnd:         cfg.BaseIntervalRadius * float64(int(1)<<(b*i)),
		}
		lv.Dirs = lv.TotalRays / lv.RaysPerGroup
		if i > 0 {
			lv.RStart = levels[i-1].REnd
		}
		levels[i] = lv
	}
	return levels
}
