package world

// ChangeKind tags what a committed mutation did.
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeRemove
	ChangeClear
	ChangeRestore
)

// Change describes one committed mutation. Pos and ColorIndex are only
// meaningful for ChangeAdd/ChangeRemove; ChangeRestore covers a full
// SetState swap observed as a single event.
type Change struct {
	Kind       ChangeKind
	Pos        Vec3i
	ColorIndex int
}

// Handle identifies a registered observer for Unsubscribe.
type Handle int

// Subscribe registers fn to be invoked synchronously after each
// committed mutation.
func (w *World) Subscribe(fn func(Change)) Handle {
	w.nextHandle++
	h := w.nextHandle
	w.observers[h] = fn
	return Handle(h)
}

// Unsubscribe removes a previously registered observer. Unknown handles
// are a no-op.
func (w *World) Unsubscribe(h Handle) {
	delete(w.observers, int(h))
}

func (w *World) notify(c Change) {
	for _, fn := range w.observers {
		fn(c)
	}
}
