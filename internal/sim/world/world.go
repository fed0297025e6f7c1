package world

import "sort"

// Vec3i is an integer grid coordinate.
type Vec3i struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Voxel is one colored unit cube. Voxels are value types; the world owns
// them exclusively.
type Voxel struct {
	Pos        Vec3i
	ColorIndex int
}

// World is the sparse voxel store and the single source of truth for
// world content. All state must be accessed only from the frame loop;
// callers that parallelize tracking and reads must serialize around it.
type World struct {
	size   int
	voxels map[Vec3i]int // pos -> palette color index

	observers  map[int]func(Change)
	nextHandle int
}

// New creates an empty world with a cubic grid of edge length size.
// A non-positive size falls back to 16.
func New(size int) *World {
	if size <= 0 {
		size = 16
	}
	return &World{
		size:      size,
		voxels:    map[Vec3i]int{},
		observers: map[int]func(Change){},
	}
}

// Size returns the grid edge length N; valid coordinates are [0, N) on
// all three axes.
func (w *World) Size() int { return w.size }

// IsValidPosition is the single bounds authority. Every component must
// consult it before trusting a coordinate.
func (w *World) IsValidPosition(p Vec3i) bool {
	return p.X >= 0 && p.X < w.size &&
		p.Y >= 0 && p.Y < w.size &&
		p.Z >= 0 && p.Z < w.size
}

// Add inserts or overwrites the voxel at p and reports whether the cell
// was previously empty. Out-of-bounds coordinates are a silent no-op and
// fire no notification.
func (w *World) Add(p Vec3i, colorIndex int) bool {
	if !w.IsValidPosition(p) {
		return false
	}
	_, existed := w.voxels[p]
	w.voxels[p] = colorIndex
	w.notify(Change{Kind: ChangeAdd, Pos: p, ColorIndex: colorIndex})
	return !existed
}

// Remove reports whether a voxel existed at p; it notifies only when
// something was actually removed.
func (w *World) Remove(p Vec3i) bool {
	if _, ok := w.voxels[p]; !ok {
		return false
	}
	delete(w.voxels, p)
	w.notify(Change{Kind: ChangeRemove, Pos: p})
	return true
}

// Has reports whether a voxel occupies p.
func (w *World) Has(p Vec3i) bool {
	_, ok := w.voxels[p]
	return ok
}

// Get returns the color index at p and whether a voxel is there.
func (w *World) Get(p Vec3i) (int, bool) {
	c, ok := w.voxels[p]
	return c, ok
}

// Count returns the number of voxels in the store.
func (w *World) Count() int { return len(w.voxels) }

// All returns every voxel sorted by (x, y, z). The slice is freshly
// built on each call and reflects the exact current state.
func (w *World) All() []Voxel {
	out := make([]Voxel, 0, len(w.voxels))
	for p, c := range w.voxels {
		out = append(out, Voxel{Pos: p, ColorIndex: c})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

// Clear empties the store with a single notification.
func (w *World) Clear() {
	w.voxels = map[Vec3i]int{}
	w.notify(Change{Kind: ChangeClear})
}
