package gesture

import "handsculpt.ai/internal/sim/geom"

// LandmarkCount is the number of points the tracking provider delivers
// per hand, in MediaPipe hand-landmark order.
const LandmarkCount = 21

// Landmark indices used by the classifier.
const (
	Wrist     = 0
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleTip = 12
	RingMCP   = 13
	RingPIP   = 14
	RingTip   = 16
	PinkyMCP  = 17
	PinkyPIP  = 18
	PinkyTip  = 20
)

// Landmarks is one hand observation: x,y in camera-normalized [0,1],
// z relative depth. It is ephemeral; the classifier keeps only the
// rolling swipe/motion state across calls.
type Landmarks []geom.Vec3

// Complete reports whether the observation carries all 21 points.
func (lm Landmarks) Complete() bool { return len(lm) == LandmarkCount }
