package gesture

import (
	"testing"
	"time"

	"handsculpt.ai/internal/sim/geom"
	"handsculpt.ai/internal/sim/tuning"
)

var t0 = time.Unix(1000, 0)

func newTestClassifier() *Classifier {
	return NewClassifier(tuning.Defaults().Gesture)
}

// hand builds a synthetic observation with the wrist at (wx, wy) and
// each finger either extended (tip far from the knuckle) or curled.
// Fingers point toward decreasing y, matching an upright mirrored hand.
func hand(wx, wy float64, thumb, index, middle, ring, pinky bool) Landmarks {
	lm := make(Landmarks, LandmarkCount)
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
	finger(IndexMCP, IndexPIP, IndexTip, wx-0.06, index)
	finger(MiddleMCP, MiddlePIP, MiddleTip, wx-0.02, middle)
	finger(RingMCP, RingPIP, RingTip, wx+0.02, ring)
	finger(PinkyMCP, PinkyPIP, PinkyTip, wx+0.06, pinky)

	lm[ThumbIP] = geom.Vec3{X: wx - 0.12, Y: wy - 0.15}
	if thumb {
		lm[ThumbTip] = geom.Vec3{X: wx - 0.2, Y: wy - 0.18}
	} else {
		lm[ThumbTip] = geom.Vec3{X: wx - 0.1, Y: wy - 0.14}
	}
	return lm
}

func pinchHand(wx, wy float64) Landmarks {
	lm := hand(wx, wy, false, false, false, false, false)
	lm[ThumbTip] = lm[IndexTip].Add(geom.Vec3{X: 0.01, Y: 0.01})
	return lm
}

func TestClassify_StaticPoses(t *testing.T) {
	cases := []struct {
		name string
		lm   Landmarks
		want Gesture
	}{
		{"fist", hand(0.5, 0.8, false, false, false, false, false), Fist},
		{"point", hand(0.5, 0.8, false, true, false, false, false), Point},
		{"peace", hand(0.5, 0.8, false, true, true, false, false), Peace},
		{"palm", hand(0.5, 0.8, true, true, true, true, true), Palm},
		{"pinch", pinchHand(0.5, 0.8), Pinch},
		{"ambiguous two fingers", hand(0.5, 0.8, true, false, false, false, true), None},
	}
	for _, c := range cases {
		got := newTestClassifier().Classify(c.lm, t0)
		if got.Gesture != c.want {
			t.Fatalf("%s: got %v want %v", c.name, got.Gesture, c.want)
		}
		if c.want != None && got.Confidence < 0.6 {
			t.Fatalf("%s: confidence %v below gate", c.name, got.Confidence)
		}
	}
}

func TestClassify_PinchBeatsFist(t *testing.T) {
	// All fingers curled satisfies the fist count, but the thumb-index
	// distance is inside the pinch threshold; pinch is checked first.
	got := newTestClassifier().Classify(pinchHand(0.5, 0.8), t0)
	if got.Gesture != Pinch {
		t.Fatalf("got %v, want PINCH over FIST", got.Gesture)
	}
}

func TestClassify_Anchors(t *testing.T) {
	c := newTestClassifier()

	point := hand(0.5, 0.8, false, true, false, false, false)
	if got := c.Classify(point, t0); got.Anchor != point[IndexTip] {
		t.Fatalf("point anchor=%v want index tip", got.Anchor)
	}

	fist := hand(0.5, 0.8, false, false, false, false, false)
	if got := newTestClassifier().Classify(fist, t0); got.Anchor != fist[Wrist] {
		t.Fatalf("fist anchor=%v want wrist", got.Anchor)
	}

	palm := hand(0.5, 0.8, true, true, true, true, true)
	if got := newTestClassifier().Classify(palm, t0); got.Anchor != palm[Wrist] {
		t.Fatalf("palm anchor=%v want wrist", got.Anchor)
	}
}

func TestClassify_IncompleteHandResetsToNone(t *testing.T) {
	c := newTestClassifier()
	got := c.Classify(make(Landmarks, 5), t0)
	if got.Gesture != None || got.Confidence != 0 {
		t.Fatalf("got %v conf=%v", got.Gesture, got.Confidence)
	}
}

func TestHandMovement_FirstCallAfterGapIsZero(t *testing.T) {
	c := newTestClassifier()
	h1 := hand(0.5, 0.8, true, true, true, true, true)

	if d := c.HandMovement(h1); d != (geom.Vec3{}) {
		t.Fatalf("first delta=%v want zero", d)
	}
	h2 := hand(0.55, 0.78, true, true, true, true, true)
	d := c.HandMovement(h2)
	if d.X < 0.04 || d.X > 0.06 {
		t.Fatalf("delta.X=%v", d.X)
	}

	c.Reset()
	if d := c.HandMovement(h2); d != (geom.Vec3{}) {
		t.Fatalf("post-reset delta=%v want zero", d)
	}
}
