package session

import (
	"encoding/json"
	"fmt"
	"time"

	"handsculpt.ai/internal/protocol"
	"handsculpt.ai/internal/sim/editor"
	"handsculpt.ai/internal/sim/geom"
	"handsculpt.ai/internal/sim/gesture"
	"handsculpt.ai/internal/sim/pick"
	"handsculpt.ai/internal/sim/tuning"
	"handsculpt.ai/internal/sim/world"
)

// Classifier is the gesture source contract. The rule-based classifier
// satisfies it; a learned model may substitute as long as it reports a
// confidence in [0,1].
type Classifier interface {
	Classify(lm gesture.Landmarks, now time.Time) gesture.Result
	HandMovement(lm gesture.Landmarks) geom.Vec3
	Reset()
}

// Session runs the per-frame decision pipeline for one connection:
// first-hand selection, confidence gating, classification, dispatch,
// and outbound event/world fan-out. Step must be called from a single
// goroutine; callers that read the world concurrently must serialize
// around it.
type Session struct {
	cfg        tuning.Tuning
	world      *world.World
	classifier Classifier
	dispatcher *editor.Dispatcher

	out        chan []byte
	observer   world.Handle
	worldDirty bool
	dropped    int
}

// New wires a session over w. out receives marshaled EVENT and WORLD
// messages; when it is full, messages are dropped rather than blocking
// the frame loop.
func New(w *world.World, t tuning.Tuning, out chan []byte) *Session {
	s := &Session{
		cfg:   t,
		world: w,
		out:   out,
	}
	s.classifier = gesture.NewClassifier(t.Gesture)
	s.dispatcher = editor.New(w, (*eventSink)(s), t)
	s.observer = w.Subscribe(func(world.Change) { s.worldDirty = true })
	return s
}

// Close detaches the session from the world. The world itself lives
// on; a later session resumes over the same content.
func (s *Session) Close() { s.world.Unsubscribe(s.observer) }

// SetClassifier swaps in an alternative gesture source.
func (s *Session) SetClassifier(c Classifier) { s.classifier = c }

func (s *Session) Dispatcher() *editor.Dispatcher { return s.dispatcher }

// Step processes one tracking frame to completion. Only the first hand
// is consumed when several are present. A malformed hand fails the call
// and leaves all state untouched.
func (s *Session) Step(f protocol.FrameMsg) error {
	now := time.UnixMilli(f.TimeMs)

	if len(f.Hands) == 0 {
		// Tracking lost: drop rolling state and let the state machine
		// clear its transient flags.
		s.classifier.Reset()
		s.dispatcher.Dispatch(gesture.None, pick.Ray{}, geom.Vec3{}, now)
		s.flushWorld()
		return nil
	}

	lm, err := decodeHand(f.Hands[0])
	if err != nil {
		return err
	}

	res := s.classifier.Classify(lm, now)
	move := s.classifier.HandMovement(lm)

	g := res.Gesture
	if res.Confidence < s.cfg.MinConfidence {
		g = gesture.None
	}

	// The camera image is mirrored, so the anchor's x flips before it
	// becomes a screen pick coordinate.
	ray := pick.PickRay(1-res.Anchor.X, res.Anchor.Y, decodeCamera(f.Camera))
	s.dispatcher.Dispatch(g, ray, move, now)
	s.flushWorld()
	return nil
}

// WorldMessage builds the full-content WORLD message; the transport
// sends it right after WELCOME and the session after each mutation.
func (s *Session) WorldMessage() protocol.WorldMsg {
	all := s.world.All()
	voxels := make([]protocol.Voxel, len(all))
	for i, v := range all {
		voxels[i] = protocol.Voxel{X: v.Pos.X, Y: v.Pos.Y, Z: v.Pos.Z, ColorIndex: v.ColorIndex}
	}
	return protocol.WorldMsg{
		Type:            protocol.TypeWorld,
		ProtocolVersion: protocol.Version,
		GridSize:        s.world.Size(),
		Voxels:          voxels,
		Digest:          s.world.Digest(),
	}
}

// Dropped reports how many outbound messages were discarded because the
// client queue was full.
func (s *Session) Dropped() int { return s.dropped }

func (s *Session) flushWorld() {
	if !s.worldDirty {
		return
	}
	s.worldDirty = false
	s.send(s.WorldMessage())
}

func (s *Session) send(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case s.out <- b:
	default:
		s.dropped++
	}
}

func decodeHand(h protocol.HandMsg) (gesture.Landmarks, error) {
	if len(h.Landmarks) != gesture.LandmarkCount {
		return nil, fmt.Errorf("hand: %d landmarks, want %d", len(h.Landmarks), gesture.LandmarkCount)
	}
	lm := make(gesture.Landmarks, gesture.LandmarkCount)
	for i, p := range h.Landmarks {
		lm[i] = geom.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	return lm, nil
}

func decodeCamera(c protocol.CameraMsg) pick.Camera {
	return pick.Camera{
		Position: geom.Vec3{X: c.Position[0], Y: c.Position[1], Z: c.Position[2]},
		Forward:  geom.Vec3{X: c.Forward[0], Y: c.Forward[1], Z: c.Forward[2]},
		Up:       geom.Vec3{X: c.Up[0], Y: c.Up[1], Z: c.Up[2]},
		FOVDeg:   c.FOVDeg,
		Aspect:   c.Aspect,
	}
}

// eventSink adapts dispatcher events onto the outbound queue.
type eventSink Session

func (e *eventSink) ModeChanged(m editor.Mode) {
	(*Session)(e).send(protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Event:           protocol.EventMode,
		Mode:            m.String(),
	})
}

func (e *eventSink) ColorChanged(c int) {
	(*Session)(e).send(protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Event:           protocol.EventColor,
		ColorIndex:      &c,
	})
}

func (e *eventSink) CursorMoved(p world.Vec3i, c int) {
	cur := [3]int{p.X, p.Y, p.Z}
	(*Session)(e).send(protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Event:           protocol.EventCursor,
		Cursor:          &cur,
		ColorIndex:      &c,
	})
}

func (e *eventSink) CursorHidden() {
	(*Session)(e).send(protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Event:           protocol.EventCursorHidden,
	})
}

func (e *eventSink) Orbit(dx, dy float64) {
	orb := [2]float64{dx, dy}
	(*Session)(e).send(protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Event:           protocol.EventOrbit,
		Orbit:           &orb,
	})
}
