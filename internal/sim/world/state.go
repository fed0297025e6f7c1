package world

import (
	"encoding/json"
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
)

// VoxelRecord is the serialized form of one voxel, matching the wire and
// snapshot encoding.
type VoxelRecord struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Z          int `json:"z"`
	ColorIndex int `json:"colorIndex"`
}

// State serializes the full world content as a JSON array of voxel
// records sorted by (x, y, z). The ordering is part of the contract:
// equal content always yields byte-identical state.
func (w *World) State() []byte {
	all := w.All()
	recs := make([]VoxelRecord, len(all))
	for i, v := range all {
		recs[i] = VoxelRecord{X: v.Pos.X, Y: v.Pos.Y, Z: v.Pos.Z, ColorIndex: v.ColorIndex}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		// Plain ints cannot fail to marshal.
		panic(err)
	}
	return b
}

// SetState replaces the world content with a previously captured state.
// The swap is atomic from an observer's perspective: a single
// ChangeRestore notification fires after the new content is fully in
// place. Malformed or out-of-bounds data fails the call and leaves the
// world untouched.
func (w *World) SetState(blob []byte) error {
	var recs []VoxelRecord
	if err := json.Unmarshal(blob, &recs); err != nil {
		return fmt.Errorf("world state: %w", err)
	}
	next := make(map[Vec3i]int, len(recs))
	for _, r := range recs {
		p := Vec3i{X: r.X, Y: r.Y, Z: r.Z}
		if !w.IsValidPosition(p) {
			return fmt.Errorf("world state: voxel (%d,%d,%d) outside grid %d", r.X, r.Y, r.Z, w.size)
		}
		next[p] = r.ColorIndex
	}
	w.voxels = next
	w.notify(Change{Kind: ChangeRestore})
	return nil
}

// Digest is a stable hash of the canonical state, used for replay
// verification and wire-level change detection.
func (w *World) Digest() string {
	return fmt.Sprintf("%016x", xxhash.Sum64(w.State()))
}
