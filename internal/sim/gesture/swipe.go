package gesture

import (
	"math"
	"time"

	"handsculpt.ai/internal/sim/geom"
)

// swipeState is the rolling swipe window: a latched wrist position and
// start time. It resets on idle, on window expiry, and on a completed
// swipe.
type swipeState struct {
	latched bool
	start   geom.Vec3
	startAt time.Time
}

// detectSwipe feeds one wrist sample into the window. A swipe fires
// when, inside the window, displacement exceeds the minimum distance,
// speed exceeds the minimum velocity, and the horizontal component
// dominates. The camera image is mirrored, so dx > 0 reads as a swipe
// to the user's left.
func (c *Classifier) detectSwipe(wrist geom.Vec3, now time.Time) (Gesture, bool) {
	if !c.swipe.latched {
		c.swipe = swipeState{latched: true, start: wrist, startAt: now}
		return None, false
	}

	elapsed := now.Sub(c.swipe.startAt)
	window := time.Duration(c.cfg.SwipeWindowMs) * time.Millisecond
	if elapsed > window {
		// Too slow: treat the current sample as a new potential swipe.
		c.swipe = swipeState{latched: true, start: wrist, startAt: now}
		return None, false
	}

	dx := wrist.X - c.swipe.start.X
	dy := wrist.Y - c.swipe.start.Y
	dist := geom.Dist2D(wrist, c.swipe.start)
	if dist < c.cfg.SwipeMinDist {
		return None, false
	}
	secs := elapsed.Seconds()
	if secs <= 0 || dist/secs < c.cfg.SwipeMinSpeed {
		return None, false
	}
	if math.Abs(dx) <= math.Abs(dy) {
		// Vertical motion is deliberately not a gesture.
		return None, false
	}

	c.swipe = swipeState{}
	if dx > 0 {
		return SwipeLeft, true
	}
	return SwipeRight, true
}
