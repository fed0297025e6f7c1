package gesture

import (
	"time"

	"handsculpt.ai/internal/sim/geom"
	"handsculpt.ai/internal/sim/tuning"
)

// Gesture is one discrete symbol from the fixed gesture vocabulary.
type Gesture int

const (
	None Gesture = iota
	Point
	Pinch
	Fist
	Palm
	Peace
	SwipeLeft
	SwipeRight
)

func (g Gesture) String() string {
	switch g {
	case None:
		return "NONE"
	case Point:
		return "POINT"
	case Pinch:
		return "PINCH"
	case Fist:
		return "FIST"
	case Palm:
		return "PALM"
	case Peace:
		return "PEACE"
	case SwipeLeft:
		return "SWIPE_LEFT"
	case SwipeRight:
		return "SWIPE_RIGHT"
	}
	return "NONE"
}

// Result is one frame's classification: a symbol, a confidence in
// [0,1], and the anchor landmark fed to the placement pipeline.
type Result struct {
	Gesture    Gesture
	Confidence float64
	Anchor     geom.Vec3
}

// Per-gesture confidences of the rule-based classifier. An alternative
// classifier may report anything in [0,1]; the session gates on the
// configured minimum either way.
const (
	confSwipe = 0.95
	confPinch = 0.9
	confPalm  = 0.9
	confFist  = 0.85
	confPoint = 0.85
	confPeace = 0.8
)

// Classifier turns one hand's landmarks into a gesture symbol. It is
// stateless per call except for the swipe window and the previous hand
// center used by HandMovement.
type Classifier struct {
	cfg tuning.Gesture

	swipe      swipeState
	prevCenter *geom.Vec3
}

func NewClassifier(cfg tuning.Gesture) *Classifier {
	return &Classifier{cfg: cfg}
}

// Reset drops all rolling state. Call it when tracking is lost so the
// next observation starts a fresh swipe window and a zero motion delta.
func (c *Classifier) Reset() {
	c.swipe = swipeState{}
	c.prevCenter = nil
}

// Classify evaluates the fixed priority order: swipe, pinch, fist,
// peace, palm, point, none. now is the frame timestamp, not wall-clock,
// so recordings replay deterministically.
func (c *Classifier) Classify(lm Landmarks, now time.Time) Result {
	if !lm.Complete() {
		c.Reset()
		return Result{Gesture: None}
	}

	wrist := lm[Wrist]
	if g, ok := c.detectSwipe(wrist, now); ok {
		return Result{Gesture: g, Confidence: confSwipe, Anchor: wrist}
	}

	if geom.Dist(lm[ThumbTip], lm[IndexTip]) < c.cfg.PinchDistance {
		return Result{Gesture: Pinch, Confidence: confPinch, Anchor: lm[IndexTip]}
	}

	ext := c.extendedFingers(lm)
	count := 0
	for _, e := range ext {
		if e {
			count++
		}
	}
	thumb, index, middle, ring, pinky := ext[0], ext[1], ext[2], ext[3], ext[4]

	// A closed hand with at most one stray finger is a fist, unless the
	// stray finger is the index, which reads as a point below.
	if count <= 1 && !index {
		return Result{Gesture: Fist, Confidence: confFist, Anchor: wrist}
	}
	if index && middle && !ring && !pinky {
		return Result{Gesture: Peace, Confidence: confPeace, Anchor: lm[IndexTip]}
	}
	if count >= 4 {
		return Result{Gesture: Palm, Confidence: confPalm, Anchor: wrist}
	}
	if index && !middle && !ring && !pinky && !thumb {
		return Result{Gesture: Point, Confidence: confPoint, Anchor: lm[IndexTip]}
	}
	return Result{Gesture: None, Anchor: wrist}
}

// extendedFingers applies the scale-invariant extension test: a finger
// is extended when its tip sits further from the knuckle than 1.2x the
// inner joint's distance to the same knuckle. The thumb is compared
// laterally against the index knuckle instead.
func (c *Classifier) extendedFingers(lm Landmarks) [5]bool {
	ratio := c.cfg.ExtensionRatio
	longitudinal := func(tip, pip, mcp int) bool {
		return geom.Dist(lm[tip], lm[mcp]) > ratio*geom.Dist(lm[pip], lm[mcp])
	}
	return [5]bool{
		geom.Dist(lm[ThumbTip], lm[IndexMCP]) > ratio*geom.Dist(lm[ThumbIP], lm[IndexMCP]),
		longitudinal(IndexTip, IndexPIP, IndexMCP),
		longitudinal(MiddleTip, MiddlePIP, MiddleMCP),
		longitudinal(RingTip, RingPIP, RingMCP),
		longitudinal(PinkyTip, PinkyPIP, PinkyMCP),
	}
}

// HandMovement returns the frame-to-frame delta of a three-point hand
// center (wrist + index knuckle + pinky knuckle). The first call after
// a reset returns a zero delta so camera orbit never jumps.
func (c *Classifier) HandMovement(lm Landmarks) geom.Vec3 {
	if !lm.Complete() {
		c.prevCenter = nil
		return geom.Vec3{}
	}
	center := lm[Wrist].Add(lm[IndexMCP]).Add(lm[PinkyMCP]).Scale(1.0 / 3.0)
	if c.prevCenter == nil {
		c.prevCenter = &center
		return geom.Vec3{}
	}
	delta := center.Sub(*c.prevCenter)
	c.prevCenter = &center
	return delta
}
