package editor

import (
	"bytes"
	"time"

	"handsculpt.ai/internal/sim/geom"
	"handsculpt.ai/internal/sim/gesture"
	"handsculpt.ai/internal/sim/pick"
	"handsculpt.ai/internal/sim/tuning"
	"handsculpt.ai/internal/sim/world"
)

// Mode is the current editing mode, derived deterministically from the
// gesture stream.
type Mode int

const (
	ModePlace Mode = iota
	ModeDelete
	ModeOrbit
	ModeColor
)

func (m Mode) String() string {
	switch m {
	case ModePlace:
		return "PLACE"
	case ModeDelete:
		return "DELETE"
	case ModeOrbit:
		return "ORBIT"
	case ModeColor:
		return "COLOR"
	}
	return "PLACE"
}

// Sink receives the dispatcher's observable events. Mode and color
// events fire exactly once per actual change; cursor and orbit events
// fire per frame as the gesture stream drives them.
type Sink interface {
	ModeChanged(Mode)
	ColorChanged(colorIndex int)
	CursorMoved(pos world.Vec3i, colorIndex int)
	CursorHidden()
	Orbit(dx, dy float64)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) ModeChanged(Mode)            {}
func (NopSink) ColorChanged(int)            {}
func (NopSink) CursorMoved(world.Vec3i, int) {}
func (NopSink) CursorHidden()               {}
func (NopSink) Orbit(float64, float64)      {}

// Dispatcher is the central state machine: it maps gestures to modes,
// debounces per action class, issues world mutations, and requests
// history snapshots. Time arrives as an explicit frame timestamp so the
// same gesture stream always produces the same edits.
type Dispatcher struct {
	world *world.World
	hist  *History
	sink  Sink

	paletteSize    int
	actionCooldown time.Duration
	colorCooldown  time.Duration
	undoCooldown   time.Duration

	mode  Mode
	color int

	lastAction time.Time
	lastColor  time.Time
	lastUndo   time.Time

	orbitActive bool
	cursor      world.Vec3i
	cursorShown bool
}

// New creates a dispatcher over w. The sink may be nil.
func New(w *world.World, sink Sink, t tuning.Tuning) *Dispatcher {
	if sink == nil {
		sink = NopSink{}
	}
	paletteSize := len(t.Palette)
	if paletteSize == 0 {
		paletteSize = 1
	}
	return &Dispatcher{
		world:          w,
		hist:           NewHistory(t.HistoryCap),
		sink:           sink,
		paletteSize:    paletteSize,
		actionCooldown: time.Duration(t.Cooldown.ActionMs) * time.Millisecond,
		colorCooldown:  time.Duration(t.Cooldown.ColorMs) * time.Millisecond,
		undoCooldown:   time.Duration(t.Cooldown.UndoMs) * time.Millisecond,
		mode:           ModePlace,
	}
}

func (d *Dispatcher) Mode() Mode { return d.mode }

func (d *Dispatcher) Color() int { return d.color }

// History exposes the undo/redo stack for canUndo/canRedo queries.
func (d *Dispatcher) History() *History { return d.hist }

// Cursor returns the current cursor cell and whether it is shown.
func (d *Dispatcher) Cursor() (world.Vec3i, bool) { return d.cursor, d.cursorShown }

// Dispatch runs one frame of the state machine. ray is the pick ray for
// the gesture's anchor; move is the frame's hand-movement delta (used
// only while orbiting); now is the frame timestamp.
func (d *Dispatcher) Dispatch(g gesture.Gesture, ray pick.Ray, move geom.Vec3, now time.Time) {
	if g != gesture.Palm {
		d.orbitActive = false
	}

	switch g {
	case gesture.Point:
		d.setMode(ModePlace)
		d.moveCursor(pick.Pick(ray, d.world))

	case gesture.Pinch:
		d.setMode(ModePlace)
		target := pick.Pick(ray, d.world)
		d.moveCursor(target)
		if target == nil || d.world.Has(target.Pos) {
			return
		}
		if now.Sub(d.lastAction) < d.actionCooldown {
			return
		}
		d.hist.Save(d.world.State())
		d.world.Add(target.Pos, d.color)
		d.lastAction = now

	case gesture.Fist:
		d.setMode(ModeDelete)
		target := pick.Pick(ray, d.world)
		if target == nil || target.HitVoxel == nil {
			d.hideCursor()
			return
		}
		hit := *target.HitVoxel
		d.cursor = hit
		d.cursorShown = true
		d.sink.CursorMoved(hit, d.color)
		if now.Sub(d.lastAction) < d.actionCooldown {
			return
		}
		d.hist.Save(d.world.State())
		d.world.Remove(hit)
		d.lastAction = now

	case gesture.Palm:
		d.setMode(ModeOrbit)
		d.hideCursor()
		d.orbitActive = true
		d.sink.Orbit(move.X, move.Y)

	case gesture.Peace:
		d.setMode(ModeColor)
		if now.Sub(d.lastColor) < d.colorCooldown {
			return
		}
		d.color = (d.color + 1) % d.paletteSize
		d.lastColor = now
		d.sink.ColorChanged(d.color)
		if d.cursorShown {
			d.sink.CursorMoved(d.cursor, d.color)
		}

	case gesture.SwipeLeft:
		if now.Sub(d.lastUndo) < d.undoCooldown {
			return
		}
		if d.undo() {
			d.lastUndo = now
		}

	case gesture.SwipeRight:
		if now.Sub(d.lastUndo) < d.undoCooldown {
			return
		}
		if d.redo() {
			d.lastUndo = now
		}

	case gesture.None:
		// Cursor stays as-is; only the orbit flag was cleared above.
	}
}

// undo restores the previous snapshot. Snapshots are captured before
// each mutation, so the live state is not in the stack; when undoing
// from the tail it is pushed first so a later redo can re-apply the
// last action.
func (d *Dispatcher) undo() bool {
	if d.hist.Len() == 0 {
		return false
	}
	if !d.hist.CanRedo() {
		cur := d.world.State()
		if tail, ok := d.hist.Tail(); ok && !bytes.Equal(tail, cur) {
			d.hist.Save(cur)
		}
	}
	s, ok := d.hist.Undo()
	if !ok {
		return false
	}
	return d.world.SetState(s) == nil
}

func (d *Dispatcher) redo() bool {
	s, ok := d.hist.Redo()
	if !ok {
		return false
	}
	return d.world.SetState(s) == nil
}

func (d *Dispatcher) setMode(m Mode) {
	if m == d.mode {
		return
	}
	d.mode = m
	d.sink.ModeChanged(m)
}

func (d *Dispatcher) moveCursor(t *pick.Target) {
	if t == nil {
		d.hideCursor()
		return
	}
	d.cursor = t.Pos
	d.cursorShown = true
	d.sink.CursorMoved(t.Pos, d.color)
}

func (d *Dispatcher) hideCursor() {
	if !d.cursorShown {
		return
	}
	d.cursorShown = false
	d.sink.CursorHidden()
}
