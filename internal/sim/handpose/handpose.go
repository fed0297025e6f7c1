// Package handpose builds synthetic hand observations for tests and
// the scripted client. Poses are upright mirrored hands with fingers
// pointing toward decreasing y.
package handpose

import (
	"handsculpt.ai/internal/sim/geom"
	"handsculpt.ai/internal/sim/gesture"
)

// Pose builds a hand with the wrist at (wx, wy) and each finger either
// extended or curled, calibrated against the default extension ratio.
func Pose(wx, wy float64, thumb, index, middle, ring, pinky bool) gesture.Landmarks {
	lm := make(gesture.Landmarks, gesture.LandmarkCount)
	for i := range lm {
		lm[i] = geom.Vec3{X: wx, Y: wy}
	}

	finger := func(mcp, pip, tip int, x float64, extended bool) {
		lm[mcp] = geom.Vec3{X: x, Y: wy - 0.2}
		lm[pip] = geom.Vec3{X: x, Y: wy - 0.25}
		if extended {
			lm[tip] = geom.Vec3{X: x, Y: wy - 0.35}
		} else {
			lm[tip] = geom.Vec3{X: x, Y: wy - 0.24}
		}
	}
	finger(gesture.IndexMCP, gesture.IndexPIP, gesture.IndexTip, wx-0.06, index)
	finger(gesture.MiddleMCP, gesture.MiddlePIP, gesture.MiddleTip, wx-0.02, middle)
	finger(gesture.RingMCP, gesture.RingPIP, gesture.RingTip, wx+0.02, ring)
	finger(gesture.PinkyMCP, gesture.PinkyPIP, gesture.PinkyTip, wx+0.06, pinky)

	lm[gesture.ThumbIP] = geom.Vec3{X: wx - 0.12, Y: wy - 0.15}
	if thumb {
		lm[gesture.ThumbTip] = geom.Vec3{X: wx - 0.2, Y: wy - 0.18}
	} else {
		lm[gesture.ThumbTip] = geom.Vec3{X: wx - 0.1, Y: wy - 0.14}
	}
	return lm
}

// PointAt builds a pointing hand whose index fingertip (the POINT
// anchor) lands on the screen position (ax, ay).
func PointAt(ax, ay float64) gesture.Landmarks {
	return Pose(ax+0.06, ay+0.35, false, true, false, false, false)
}

// PinchAt builds a pinching hand whose index fingertip lands on
// (ax, ay).
func PinchAt(ax, ay float64) gesture.Landmarks {
	lm := Pose(ax+0.06, ay+0.24, false, false, false, false, false)
	lm[gesture.ThumbTip] = lm[gesture.IndexTip].Add(geom.Vec3{X: 0.01, Y: 0.01})
	return lm
}

// FistAt builds a fist with the wrist (the FIST anchor) at (ax, ay).
func FistAt(ax, ay float64) gesture.Landmarks {
	return Pose(ax, ay, false, false, false, false, false)
}

// PalmAt builds an open palm with the wrist at (ax, ay).
func PalmAt(ax, ay float64) gesture.Landmarks {
	return Pose(ax, ay, true, true, true, true, true)
}

// PeaceAt builds a two-finger pose whose index fingertip lands on
// (ax, ay).
func PeaceAt(ax, ay float64) gesture.Landmarks {
	return Pose(ax+0.06, ay+0.35, false, true, true, false, false)
}

// Wire converts landmarks to the [x,y,z] triples used on the wire.
func Wire(lm gesture.Landmarks) [][3]float64 {
	out := make([][3]float64, len(lm))
	for i, p := range lm {
		out[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return out
}
