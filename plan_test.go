package lumen

import (
	"math"
	"reflect"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- planLevels ---

func TestPlanIntervalContinuity(t *testing.T) {
	cfg := DefaultConfig()
	for _, size := range []int{64, 128, 256, 300, 777} {
		levels := planLevels(size, size, cfg)
		if len(levels) == 0 {
			t.Fatalf("no levels for size %d", size)
		}
		assertNear(t, "RStart(0)", levels[0].RStart, 0)
		for i, lv := range levels {
			wantEnd := cfg.BaseIntervalRadius * math.Pow(2, float64(cfg.BranchingFactor*i))
			assertNear(t, "REnd", lv.REnd, wantEnd)
			if i > 0 && lv.RStart != levels[i-1].REnd {
				t.Errorf("size %d level %d: RStart = %v, want REnd(%d) = %v",
					size, i, lv.RStart, i-1, levels[i-1].REnd)
			}
		}
	}
}

func TestPlanConstantStorage(t *testing.T) {
	cfg := DefaultConfig()
	levels := planLevels(256, 256, cfg)
	want := levels[0].ProbesX * levels[0].ProbesY * levels[0].Dirs
	for _, lv := range levels {
		got := lv.ProbesX * lv.ProbesY * lv.Dirs
		if got != want {
			t.Errorf("level %d storage = %d, want %d", lv.Index, got, want)
		}
	}

	// Non-power-of-two sizes may round probe counts down but never exceed
	// the level-0 product (the cascade store invariant).
	for _, size := range []int{100, 300, 777} {
		levels := planLevels(size, size, cfg)
		limit := levels[0].ProbesX * levels[0].ProbesY * levels[0].Dirs
		for _, lv := range levels {
			if got := lv.ProbesX * lv.ProbesY * lv.Dirs; got > limit {
				t.Errorf("size %d level %d storage = %d exceeds level-0 product %d",
					size, lv.Index, got, limit)
			}
		}
	}
}

func TestPlanIdempotence(t *testing.T) {
	cfg := DefaultConfig()
	a := planLevels(640, 480, cfg)
	b := planLevels(640, 480, cfg)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different plans:\n%+v\n%+v", a, b)
	}
}

func TestPlanEndToEnd256(t *testing.T) {
	cfg := Config{
		ProbeSpacingPower:  2,
		RayCountPower:      3,
		BranchingFactor:    2,
		BaseIntervalRadius: 4,
		MaxLevels:          6,
		ResolutionScale:    1,
		IterationsPerFrame: 1,
	}
	levels := planLevels(256, 256, cfg)
	// min(6, floor(log2(256/4))) = 6
	if len(levels) != 6 {
		t.Fatalf("level count = %d, want 6", len(levels))
	}
	l0 := levels[0]
	if l0.ProbesX != 64 || l0.ProbesY != 64 {
		t.Errorf("level 0 probes = %dx%d, want 64x64", l0.ProbesX, l0.ProbesY)
	}
	if l0.Dirs != 2 {
		t.Errorf("level 0 dirs = %d, want 2", l0.Dirs)
	}
	if l0.RaysPerGroup != 4 {
		t.Errorf("level 0 rays per group = %d, want 4", l0.RaysPerGroup)
	}
	if l0.Diameter != 4 {
		t.Errorf("level 0 diameter = %d, want 4", l0.Diameter)
	}
	// Each level quadruples the direction count.
	for i := 1; i < len(levels); i++ {
		if levels[i].Dirs != levels[i-1].Dirs*4 {
			t.Errorf("level %d dirs = %d, want %d", i, levels[i].Dirs, levels[i-1].Dirs*4)
		}
	}
}

func TestPlanMaxLevelsCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLevels = 3
	levels := planLevels(1024, 1024, cfg)
	if len(levels) != 3 {
		t.Errorf("level count = %d, want 3", len(levels))
	}
}

func TestPlanOneByOne(t *testing.T) {
	levels := planLevels(1, 1, DefaultConfig())
	if len(levels) != 1 {
		t.Fatalf("level count = %d, want 1", len(levels))
	}
	l0 := levels[0]
	if l0.ProbesX != 1 || l0.ProbesY != 1 {
		t.Errorf("probes = %dx%d, want 1x1", l0.ProbesX, l0.ProbesY)
	}
}

func TestPlanZeroArea(t *testing.T) {
	if levels := planLevels(0, 100, DefaultConfig()); levels != nil {
		t.Errorf("zero-width plan = %+v, want nil", levels)
	}
}

// --- upper/lower level correspondence ---

// The merge step indexes the coarser level's direction groups by this level's
// raw ray index; the planner must keep those counts equal.
func TestPlanUpperGroupCorrespondence(t *testing.T) {
	levels := planLevels(512, 512, DefaultConfig())
	for i := 0; i+1 < len(levels); i++ {
		if levels[i].TotalRays != levels[i+1].Dirs {
			t.Errorf("level %d total rays = %d, level %d dirs = %d; must match",
				i, levels[i].TotalRays, i+1, levels[i+1].Dirs)
		}
	}
}
