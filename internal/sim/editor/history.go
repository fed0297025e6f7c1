package editor

// History is a bounded linear undo/redo stack of serialized world
// snapshots. index always satisfies 0 <= index < len(states) when the
// stack is non-empty.
type History struct {
	states [][]byte
	index  int
	cap    int
}

// NewHistory creates a history capped at max snapshots. A non-positive
// cap falls back to 50.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{index: -1, cap: max}
}

// Save appends a snapshot. If prior undos left the cursor before the
// end, everything past the cursor is discarded first. When the cap is
// exceeded the oldest entry is evicted and the cursor shifts down to
// keep pointing at the same logical entry.
func (h *History) Save(state []byte) {
	if h.index < len(h.states)-1 {
		h.states = h.states[:h.index+1]
	}
	h.states = append(h.states, state)
	h.index = len(h.states) - 1
	if len(h.states) > h.cap {
		h.states = h.states[1:]
		h.index--
	}
}

// Undo moves the cursor back one entry and returns it. At the start of
// history it is a no-op and the caller must not mutate the world.
func (h *History) Undo() ([]byte, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.index--
	return h.states[h.index], true
}

// Redo advances the cursor and returns the entry now pointed to.
func (h *History) Redo() ([]byte, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.index++
	return h.states[h.index], true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.states)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.states) }

// Tail returns the newest snapshot without moving the cursor.
func (h *History) Tail() ([]byte, bool) {
	if len(h.states) == 0 {
		return nil, false
	}
	return h.states[len(h.states)-1], true
}
