package picking

import (
	"github.com/mosslight/walkabout/internal/engine/terrain"
	"github.com/mosslight/walkabout/pkg/math"
)

// heightfieldStep is the march step as a fraction of the terrain cell
// size. Smaller steps catch narrower ridges at higher cost.
const heightfieldStep = 0.5

// bisectionRounds refines the crossing interval to sub-millimeter
// precision on prototype-sized terrains.
const bisectionRounds = 24

// IntersectHeightfield finds the first point where the ray crosses the
// terrain surface. The ray is clipped to the terrain bounds, marched in
// fixed steps until it passes below the surface, then the crossing is
// refined by bisection.
func (r Ray) IntersectHeightfield(hf *terrain.Heightfield) (math.Vec3, bool) {
	box := AABB{
		Min: hf.Bounds.Min,
		Max: hf.Bounds.Max,
	}

	tmin, tmax, hit := r.IntersectAABB(box)
	if !hit {
		return math.Vec3{}, false
	}
	if tmin < 0 {
		tmin = 0
	}

	step := hf.CellSize * heightfieldStep
	prevT := tmin
	prevAbove := r.aboveSurface(hf, prevT)

	for t := tmin + step; t <= tmax+step; t += step {
		if t > tmax {
			t = tmax
		}
		above := r.aboveSurface(hf, t)
		if prevAbove && !above {
			return r.bisect(hf, prevT, t), true
		}
		prevT = t
		prevAbove = above
		if t == tmax {
			break
		}
	}

	return math.Vec3{}, false
}

// aboveSurface reports whether the ray point at t is above the terrain.
func (r Ray) aboveSurface(hf *terrain.Heightfield, t float32) bool {
	p := r.At(t)
	return p.Y >= hf.HeightAt(p.X, p.Z)
}

// bisect narrows an above/below interval to the surface crossing.
func (r Ray) bisect(hf *terrain.Heightfield, lo, hi float32) math.Vec3 {
	for i := 0; i < bisectionRounds; i++ {
		mid := (lo + hi) / 2
		if r.aboveSurface(hf, mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	p := r.At((lo + hi) / 2)
	p.Y = hf.HeightAt(p.X, p.Z)
	return p
}
