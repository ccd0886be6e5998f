package lumen

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// probeSample is one direction group's accumulated radiance and transmittance
// for one probe at one level. Transmittance is in [0, 1]; radiance is HDR and
// unbounded above.
type probeSample struct {
	r, g, b, t float32
}

// cascadeStore is the double-buffered arena holding every level's probe
// samples. Two parity slots, each sized for the densest level (level 0),
// replace what would otherwise be one buffer per level: level L lives in slot
// L mod 2, so level L can be written while level L+1's frame-fresh samples
// are read from the other slot. The invariant making this work is the
// planner's constant-storage property: probes x dirs at every level is at
// most the level-0 product.
//
// The store is regenerated fully every frame; nothing survives across frames.
type cascadeStore struct {
	data     []probeSample
	slotSize int
}

// newCascadeStore allocates the two-slot arena for the given level plan.
func newCascadeStore(levels []Level) *cascadeStore {
	if len(levels) == 0 {
		return &cascadeStore{}
	}
	l0 := levels[0]
	size := l0.ProbesX * l0.ProbesY * l0.Dirs
	return &cascadeStore{
		data:     make([]probeSample, 2*size),
		slotSize: size,
	}
}

// offset returns the arena index for (level, probe, direction group).
func (s *cascadeStore) offset(lv *Level, probe, group int) int {
	return s.slotSize*(lv.Index&1) + probe*lv.Dirs + group
}

// at reads the sample for (level, probe, direction group).
func (s *cascadeStore) at(lv *Level, probe, group int) probeSample {
	return s.data[s.offset(lv, probe, group)]
}

// set writes the sample for (level, probe, direction group). Exactly one
// writer touches each cell per frame; the high-to-low level order guarantees
// no level reads an unwritten slot.
func (s *cascadeStore) set(lv *Level, probe, group int, v probeSample) {
	s.data[s.offset(lv, probe, group)] = v
}

// marchLevel raymarches every (probe, direction group) pair of one level and
// merges the results with the already-computed next-coarser level. Probe rows
// run in parallel; they share no mutable state because each row writes a
// disjoint range of the level's slot.
//
// Levels must be marched strictly from the highest index down to 0 within a
// frame: level L's merge reads level L+1's just-written slot.
func marchLevel(world *WorldField, levels []Level, li int, store *cascadeStore, cfg Config, workers int) {
	lv := &levels[li]
	var upper *Level
	if li+1 < len(levels) {
		upper = &levels[li+1]
	}

	// Sample mip rises with the level index so per-level sample cost stays
	// roughly constant as intervals widen. Step length is one texel at that mip.
	mip := clampInt(li, 0, world.MipCount()-1)
	step := float64(int(1) << mip)

	var eg errgroup.Group
	eg.SetLimit(workers)
	for row := 0; row < lv.ProbesY; row++ {
		eg.Go(func() error {
			marchProbeRow(world, lv, upper, row, store, cfg, mip, step)
			return nil
		})
	}
	// Workers never fail; Wait only fences the level.
	_ = eg.Wait()
}

// marchProbeRow processes all probes in one row of a level.
func marchProbeRow(world *WorldField, lv, upper *Level, row int, store *cascadeStore, cfg Config, mip int, step float64) {
	d := float64(lv.Diameter)
	cy := (float64(row) + 0.5) * d
	invFold := 1 / float32(lv.RaysPerGroup)
	angleStep := 2 * math.Pi / float64(lv.TotalRays)

	for col := 0; col < lv.ProbesX; col++ {
		cx := (float64(col) + 0.5) * d
		probe := row*lv.ProbesX + col

		for g := 0; g < lv.Dirs; g++ {
			var mine, up probeSample

			for k := 0; k < lv.RaysPerGroup; k++ {
				raw := g*lv.RaysPerGroup + k
				// Half-step offset avoids directional bias toward axis-aligned rays.
				angle := (float64(raw) + 0.5) * angleStep
				s := marchRay(world, cx, cy, angle, lv.RStart, lv.REnd, mip, step)
				mine.r += s.r
				mine.g += s.g
				mine.b += s.b
				mine.t += s.t

				if upper != nil {
					// The coarser level stores one group per raw ray of this
					// level (its group count equals our total ray count), so
					// raw indexes the matching coarse bundle directly.
					u := sampleUpperProbes(store, upper, cx, cy, raw%upper.Dirs)
					up.r += u.r
					up.g += u.g
					up.b += u.b
					up.t += u.t
				}
			}

			mine.r *= invFold
			mine.g *= invFold
			mine.b *= invFold
			mine.t *= invFold

			if upper != nil {
				up.r *= invFold
				up.g *= invFold
				up.b *= invFold
				up.t *= invFold
			} else {
				// Topmost level: the environment beyond the outermost interval.
				up = probeSample{
					r: float32(cfg.Ambient.R),
					g: float32(cfg.Ambient.G),
					b: float32(cfg.Ambient.B),
					t: 1,
				}
			}

			merged := probeSample{
				r: mine.r + mine.t*up.r,
				g: mine.g + mine.t*up.g,
				b: mine.b + mine.t*up.b,
				t: clamp01f(mine.t * up.t),
			}
			store.set(lv, probe, g, merged)
		}
	}
}

// marchRay walks the world field from rStart to rEnd along one direction,
// compositing front to back. Transmittance is clamped every step to bound
// floating-point drift, and the walk stops early once the ray is blocked.
func marchRay(world *WorldField, x, y, angle, rStart, rEnd float64, mip int, step float64) probeSample {
	dx := math.Cos(angle)
	dy := math.Sin(angle)
	acc := probeSample{t: 1}

	for t := rStart; t < rEnd; t += step {
		sr, sg, sb, so := world.Sample(mip, x+dx*t, y+dy*t)
		acc.r += acc.t * sr
		acc.g += acc.t * sg
		acc.b += acc.t * sb
		acc.t = clamp01f(acc.t * (1 - so))
		if acc.t <= 1e-3 {
			acc.t = 0
			break
		}
	}
	return acc
}

// sampleUpperProbes bilinearly blends one direction group across the four
// coarser-level probes nearest the given field position. Probe lookups at the
// grid edges clamp rather than wrap.
func sampleUpperProbes(store *cascadeStore, upper *Level, x, y float64, group int) probeSample {
	d := float64(upper.Diameter)
	gx := x/d - 0.5
	gy := y/d - 0.5

	x0 := int(math.Floor(gx))
	y0 := int(math.Floor(gy))
	fx := float32(gx - float64(x0))
	fy := float32(gy - float64(y0))

	cx0 := clampInt(x0, 0, upper.ProbesX-1)
	cx1 := clampInt(x0+1, 0, upper.ProbesX-1)
	cy0 := clampInt(y0, 0, upper.ProbesY-1)
	cy1 := clampInt(y0+1, 0, upper.ProbesY-1)

	s00 := store.at(upper, cy0*upper.ProbesX+cx0, group)
	s10 := store.at(upper, cy0*upper.ProbesX+cx1, group)
	s01 := store.at(upper, cy1*upper.ProbesX+cx0, group)
	s11 := store.at(upper, cy1*upper.ProbesX+cx1, group)

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	return probeSample{
		r: s00.r*w00 + s10.r*w10 + s01.r*w01 + s11.r*w11,
		g: s00.g*w00 + s10.g*w10 + s01.g*w01 + s11.g*w11,
		b: s00.b*w00 + s10.b*w10 + s01.b*w01 + s11.b*w11,
		t: s00.t*w00 + s10.t*w10 + s01.t*w01 + s11.t*w11,
	}
}
