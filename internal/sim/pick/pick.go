package pick

import (
	"math"

	"handsculpt.ai/internal/sim/geom"
	"handsculpt.ai/internal/sim/world"
)

// Target is the grid cell a spatial gesture should act on. Pos is the
// placement cell (bare ground, or the struck voxel's neighbor along the
// hit face). HitVoxel is the voxel the ray struck, nil for ground hits;
// deletion reads HitVoxel, placement reads Pos.
type Target struct {
	Pos      world.Vec3i
	HitVoxel *world.Vec3i
	Distance float64
}

const epsilon = 1e-9

// Pick traverses the world once and returns the nearest actionable cell
// along the ray, or nil when nothing valid is hit. One traversal serves
// both placement and deletion callers.
func Pick(r Ray, w *world.World) *Target {
	var best *Target

	consider := func(t *Target) {
		if best == nil || t.Distance < best.Distance {
			best = t
		}
	}

	// Ground plane y = 0: the cell under the hit point is a placement
	// candidate when in bounds.
	if math.Abs(r.Dir.Y) > epsilon {
		t := -r.Origin.Y / r.Dir.Y
		if t > epsilon {
			hit := r.Origin.Add(r.Dir.Scale(t))
			cell := world.Vec3i{
				X: int(math.Round(hit.X)),
				Y: 0,
				Z: int(math.Round(hit.Z)),
			}
			if w.IsValidPosition(cell) {
				consider(&Target{Pos: cell, Distance: t})
			}
		}
	}

	// Existing voxels: unit boxes centered on integer coordinates.
	for _, v := range w.All() {
		center := geom.Vec3{X: float64(v.Pos.X), Y: float64(v.Pos.Y), Z: float64(v.Pos.Z)}
		t, ok := rayBox(r, center)
		if !ok {
			continue
		}
		hit := r.Origin.Add(r.Dir.Scale(t))
		normal := faceNormal(hit.Sub(center))
		place := world.Vec3i{X: v.Pos.X + normal.X, Y: v.Pos.Y + normal.Y, Z: v.Pos.Z + normal.Z}
		if !w.IsValidPosition(place) {
			continue
		}
		struck := v.Pos
		consider(&Target{Pos: place, HitVoxel: &struck, Distance: t})
	}

	return best
}

// rayBox intersects the ray with the unit box around center using the
// slab method and returns the entry distance.
func rayBox(r Ray, center geom.Vec3) (float64, bool) {
	const half = 0.5
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{center.X - half, center.Y - half, center.Z - half}
	hi := [3]float64{center.X + half, center.Y + half, center.Z + half}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < epsilon {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	if tMin <= epsilon {
		// Entry behind or at the origin (camera inside the box).
		return 0, false
	}
	return tMin, true
}

// faceNormal resolves which of the six faces a hit point on the box
// belongs to. The axis with the largest absolute offset from the center
// wins; exact ties resolve X, then Y, then Z by sequential >= checks.
func faceNormal(off geom.Vec3) world.Vec3i {
	ax, ay, az := math.Abs(off.X), math.Abs(off.Y), math.Abs(off.Z)
	switch {
	case ax >= ay && ax >= az:
		return world.Vec3i{X: sign(off.X)}
	case ay >= ax && ay >= az:
		return world.Vec3i{Y: sign(off.Y)}
	default:
		return world.Vec3i{Z: sign(off.Z)}
	}
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
