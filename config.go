package lumen

import "fmt"

// Config holds the cascade tuning constants. All level geometry derives from
// these values and the canvas size; see [DefaultConfig] for a balanced
// starting point.
type Config struct {
	// ProbeSpacingPower p sets the level-0 probe diameter to 2^p pixels.
	// Higher values mean fewer, wider-spaced probes and a softer result.
	ProbeSpacingPower int

	// RayCountPower q sets the level-0 total ray count to 2^q.
	// Must be at least BranchingFactor so every level stores at least one
	// direction group.
	RayCountPower int

	// BranchingFactor b is the power-of-two ratio by which the direction
	// count grows (and the probe count shrinks) between adjacent levels.
	// 2^b raw rays are folded into each stored direction group.
	BranchingFactor int

	// BaseIntervalRadius is the raymarch interval end of level 0 in pixels.
	// Level L covers [BaseIntervalRadius·2^(b(L-1)), BaseIntervalRadius·2^(bL)).
	BaseIntervalRadius float64

	// MaxLevels caps the cascade depth. The effective level count is
	// min(MaxLevels, floor(log2(min(W,H)/2^p))), never below 1.
	MaxLevels int

	// ResolutionScale renders the light field at a fraction of the canvas
	// resolution, trading sharpness for speed. (0, 1]; 1 is full resolution.
	ResolutionScale float64

	// IterationsPerFrame repeats the cascade sweep and reconstruction within
	// a single Step. 1 is normal; higher values are only useful when probing
	// quality/performance trade-offs.
	IterationsPerFrame int

	// Ambient is the boundary radiance merged at the topmost level, i.e. the
	// light arriving from beyond the outermost raymarch interval. The zero
	// value (no ambient light) is the documented default.
	Ambient Color
}

// DefaultConfig returns the tuning used by the interactive demos: level-0
// probes every 4 pixels casting 8 rays, quadrupling directions per level.
func DefaultConfig() Config {
	return Config{
		ProbeSpacingPower:  2,
		RayCountPower:      3,
		BranchingFactor:    2,
		BaseIntervalRadius: 4,
		MaxLevels:          6,
		ResolutionScale:    1,
		IterationsPerFrame: 1,
	}
}

// validate reports the first invalid field, if any. Called once by NewEngine;
// a Config that validates never fails later.
func (c Config) validate() error {
	if c.ProbeSpacingPower < 0 {
		return fmt.Errorf("lumen: ProbeSpacingPower must be >= 0, got %d", c.ProbeSpacingPower)
	}
	if c.BranchingFactor < 1 {
		return fmt.Errorf("lumen: BranchingFactor must be >= 1, got %d", c.BranchingFactor)
	}
	if c.RayCountPower < c.BranchingFactor {
		return fmt.Errorf("lumen: RayCountPower (%d) must be >= BranchingFactor (%d)",
			c.RayCountPower, c.BranchingFactor)
	}
	if c.BaseIntervalRadius <= 0 {
		return fmt.Errorf("lumen: BaseIntervalRadius must be > 0, got %v", c.BaseIntervalRadius)
	}
	if c.MaxLevels < 1 {
		return fmt.Errorf("lumen: MaxLevels must be >= 1, got %d", c.MaxLevels)
	}
	if c.ResolutionScale <= 0 || c.ResolutionScale > 1 {
		return fmt.Errorf("lumen: ResolutionScale must be in (0, 1], got %v", c.ResolutionScale)
	}
	if c.IterationsPerFrame < 1 {
		return fmt.Errorf("lumen: IterationsPerFrame must be >= 1, got %d", c.IterationsPerFrame)
	}
	if c.Ambient.R < 0 || c.Ambient.G < 0 || c.Ambient.B < 0 {
		return fmt.Errorf("lumen: Ambient components must be >= 0, got %+v", c.Ambient)
	}
	return nil
}
