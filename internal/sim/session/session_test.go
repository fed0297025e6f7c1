package session

import (
	"encoding/json"
	"testing"

	"handsculpt.ai/internal/protocol"
	"handsculpt.ai/internal/sim/gesture"
	"handsculpt.ai/internal/sim/handpose"
	"handsculpt.ai/internal/sim/tuning"
	"handsculpt.ai/internal/sim/world"
)

// Camera looking straight down at the grid, so the center of the
// screen picks the cell under (8, _, 8).
var testCamera = protocol.CameraMsg{
	Position: [3]float64{8, 20, 8},
	Forward:  [3]float64{0, -1, 0},
	Up:       [3]float64{0, 0, -1},
	FOVDeg:   60,
	Aspect:   1,
}

func frame(timeMs int64, hands ...protocol.HandMsg) protocol.FrameMsg {
	return protocol.FrameMsg{
		Type:            protocol.TypeFrame,
		ProtocolVersion: protocol.Version,
		TimeMs:          timeMs,
		Hands:           hands,
		Camera:          testCamera,
	}
}

func drain(out chan []byte) map[string]int {
	kinds := map[string]int{}
	for {
		select {
		case b := <-out:
			base, err := protocol.DecodeBase(b)
			if err != nil {
				continue
			}
			key := base.Type
			if base.Type == protocol.TypeEvent {
				var ev protocol.EventMsg
				if json.Unmarshal(b, &ev) == nil {
					key = "EVENT:" + ev.Event
				}
			}
			kinds[key]++
		default:
			return kinds
		}
	}
}

func TestStep_PointThenPinch(t *testing.T) {
	out := make(chan []byte, 64)
	w := world.New(16)
	s := New(w, tuning.Defaults(), out)

	point := protocol.HandMsg{Landmarks: handpose.Wire(handpose.PointAt(0.5, 0.5))}
	if err := s.Step(frame(1000, point)); err != nil {
		t.Fatalf("point step: %v", err)
	}
	kinds := drain(out)
	if kinds["EVENT:cursor"] != 1 {
		t.Fatalf("cursor events=%d, messages=%v", kinds["EVENT:cursor"], kinds)
	}
	if kinds[protocol.TypeWorld] != 0 || w.Count() != 0 {
		t.Fatalf("point must not mutate the world: %v", kinds)
	}

	pinch := protocol.HandMsg{Landmarks: handpose.Wire(handpose.PinchAt(0.5, 0.5))}
	if err := s.Step(frame(2000, pinch)); err != nil {
		t.Fatalf("pinch step: %v", err)
	}
	if !w.Has(world.Vec3i{X: 8, Y: 0, Z: 8}) {
		t.Fatalf("expected voxel at (8,0,8); world=%v", w.All())
	}
	kinds = drain(out)
	if kinds[protocol.TypeWorld] != 1 {
		t.Fatalf("expected one WORLD message after the mutation: %v", kinds)
	}
}

func TestStep_FirstHandOnly(t *testing.T) {
	out := make(chan []byte, 64)
	w := world.New(16)
	s := New(w, tuning.Defaults(), out)

	pinch := protocol.HandMsg{Landmarks: handpose.Wire(handpose.PinchAt(0.5, 0.5))}
	palm := protocol.HandMsg{Landmarks: handpose.Wire(handpose.PalmAt(0.9, 0.9))}
	if err := s.Step(frame(1000, pinch, palm)); err != nil {
		t.Fatalf("step: %v", err)
	}
	if w.Count() != 1 {
		t.Fatalf("only the first hand should act; world=%v", w.All())
	}
}

func TestStep_NoHandsIsQuiet(t *testing.T) {
	out := make(chan []byte, 64)
	s := New(world.New(16), tuning.Defaults(), out)

	if err := s.Step(frame(1000)); err != nil {
		t.Fatalf("empty frame: %v", err)
	}
	if kinds := drain(out); len(kinds) != 0 {
		t.Fatalf("empty frame emitted %v", kinds)
	}
}

func TestStep_ShortHandFails(t *testing.T) {
	out := make(chan []byte, 64)
	w := world.New(16)
	s := New(w, tuning.Defaults(), out)

	bad := protocol.HandMsg{Landmarks: [][3]float64{{0.5, 0.5, 0}}}
	if err := s.Step(frame(1000, bad)); err == nil {
		t.Fatalf("expected error for 1-landmark hand")
	}
	if w.Count() != 0 {
		t.Fatalf("failed step mutated the world")
	}
}

func TestStep_DropsWhenQueueFull(t *testing.T) {
	out := make(chan []byte, 1)
	w := world.New(16)
	s := New(w, tuning.Defaults(), out)

	pinch := protocol.HandMsg{Landmarks: handpose.Wire(handpose.PinchAt(0.5, 0.5))}
	if err := s.Step(frame(1000, pinch)); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s.Dropped() == 0 {
		t.Fatalf("expected drops with a full queue")
	}
	if w.Count() != 1 {
		t.Fatalf("drops must not affect the world")
	}
}

// Replaying the same frames over a fresh world must land on the same
// digest; the pipeline reads no wall clock and no map iteration order.
func TestStep_ReplayIsDeterministic(t *testing.T) {
	hand := func(lm gesture.Landmarks) protocol.HandMsg {
		return protocol.HandMsg{Handedness: "right", Landmarks: handpose.Wire(lm)}
	}
	frames := []protocol.FrameMsg{
		frame(1000, hand(handpose.PinchAt(0.5, 0.5))),
		frame(1033),
		frame(1400, hand(handpose.PinchAt(0.45, 0.5))),
		frame(1433),
		frame(1950, hand(handpose.PeaceAt(0.5, 0.5))),
		frame(1983),
		frame(2300, hand(handpose.PinchAt(0.55, 0.5))),
	}

	run := func() (string, int) {
		w := world.New(16)
		out := make(chan []byte, 256)
		s := New(w, tuning.Defaults(), out)
		defer s.Close()
		for _, f := range frames {
			if err := s.Step(f); err != nil {
				t.Fatalf("Step: %v", err)
			}
		}
		return w.Digest(), w.Count()
	}

	d1, n1 := run()
	d2, n2 := run()
	if n1 == 0 {
		t.Fatal("script placed no voxels")
	}
	if d1 != d2 || n1 != n2 {
		t.Fatalf("replay diverged: %s/%d vs %s/%d", d1, n1, d2, n2)
	}
}
