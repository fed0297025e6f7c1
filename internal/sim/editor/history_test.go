package editor

import (
	"fmt"
	"testing"
)

func snap(i int) []byte { return []byte(fmt.Sprintf("s%d", i)) }

func TestHistory_UndoRedoWalk(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 4; i++ {
		h.Save(snap(i))
	}

	if !h.CanUndo() || h.CanRedo() {
		t.Fatalf("cursor guards wrong after saves")
	}

	for i := 3; i >= 1; i-- {
		s, ok := h.Undo()
		if !ok || string(s) != fmt.Sprintf("s%d", i-1) {
			t.Fatalf("undo to %d: got %q ok=%v", i-1, s, ok)
		}
	}
	if h.CanUndo() {
		t.Fatalf("cursor at start should not allow undo")
	}
	if _, ok := h.Undo(); ok {
		t.Fatalf("undo past start must be a no-op")
	}

	for i := 1; i <= 3; i++ {
		s, ok := h.Redo()
		if !ok || string(s) != fmt.Sprintf("s%d", i) {
			t.Fatalf("redo to %d: got %q ok=%v", i, s, ok)
		}
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("redo past end must be a no-op")
	}
}

func TestHistory_SaveAfterUndoTruncates(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 3; i++ {
		h.Save(snap(i))
	}
	h.Undo()
	h.Undo()
	if !h.CanRedo() {
		t.Fatalf("expected redo available after undos")
	}

	h.Save(snap(9))
	if h.CanRedo() {
		t.Fatalf("save after undo must discard the redo branch")
	}
	if h.Len() != 2 {
		t.Fatalf("len=%d want 2", h.Len())
	}
	s, ok := h.Undo()
	if !ok || string(s) != "s0" {
		t.Fatalf("undo after truncation: got %q ok=%v", s, ok)
	}
}

func TestHistory_CapEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 4; i++ {
		h.Save(snap(i))
	}
	if h.Len() != 3 {
		t.Fatalf("len=%d want cap 3", h.Len())
	}

	// Walk back to the start: the oldest surviving entry is s1.
	h.Undo()
	s, ok := h.Undo()
	if !ok || string(s) != "s1" {
		t.Fatalf("oldest=%q ok=%v, want s1 after eviction", s, ok)
	}
	if h.CanUndo() {
		t.Fatalf("s0 should have been evicted")
	}
}
