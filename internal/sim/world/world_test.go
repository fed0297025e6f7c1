package world

import "testing"

func TestAdd_OutOfBoundsIsSilentNoop(t *testing.T) {
	w := New(16)
	var fired int
	w.Subscribe(func(Change) { fired++ })

	cases := []Vec3i{
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		{16, 0, 0}, {0, 16, 0}, {0, 0, 16},
		{100, 100, 100},
	}
	for _, p := range cases {
		if w.Add(p, 0) {
			t.Fatalf("add %v: expected not-added", p)
		}
	}
	if w.Count() != 0 {
		t.Fatalf("world size changed: %d", w.Count())
	}
	if fired != 0 {
		t.Fatalf("notification fired for out-of-bounds add: %d", fired)
	}
}

func TestAdd_OverwriteReportsNotNew(t *testing.T) {
	w := New(16)
	p := Vec3i{1, 2, 3}
	if !w.Add(p, 0) {
		t.Fatalf("first add should report newly added")
	}
	if w.Add(p, 5) {
		t.Fatalf("overwrite should report not newly added")
	}
	if c, _ := w.Get(p); c != 5 {
		t.Fatalf("overwrite lost color: %d", c)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	w := New(16)
	p := Vec3i{4, 0, 4}
	w.Add(p, 1)

	var fired int
	w.Subscribe(func(Change) { fired++ })

	if !w.Remove(p) {
		t.Fatalf("first remove should report removed")
	}
	if w.Remove(p) {
		t.Fatalf("second remove should report nothing removed")
	}
	if fired != 1 {
		t.Fatalf("expected exactly one removal notification, got %d", fired)
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	w := New(16)
	var a, b int
	ha := w.Subscribe(func(Change) { a++ })
	w.Subscribe(func(Change) { b++ })

	w.Add(Vec3i{0, 0, 0}, 0)
	w.Unsubscribe(ha)
	w.Add(Vec3i{1, 0, 0}, 0)

	if a != 1 || b != 2 {
		t.Fatalf("observer counts: a=%d b=%d", a, b)
	}
}

func TestClear_SingleNotification(t *testing.T) {
	w := New(16)
	w.Add(Vec3i{0, 0, 0}, 0)
	w.Add(Vec3i{1, 0, 0}, 1)

	var fired int
	w.Subscribe(func(c Change) {
		if c.Kind != ChangeClear {
			t.Fatalf("unexpected change kind: %v", c.Kind)
		}
		fired++
	})
	w.Clear()
	if fired != 1 {
		t.Fatalf("expected one notification, got %d", fired)
	}
	if w.Count() != 0 {
		t.Fatalf("clear left %d voxels", w.Count())
	}
}

func TestAll_SortedAndFresh(t *testing.T) {
	w := New(16)
	w.Add(Vec3i{5, 0, 0}, 0)
	w.Add(Vec3i{0, 3, 0}, 1)
	w.Add(Vec3i{0, 3, 7}, 2)

	all := w.All()
	if len(all) != 3 {
		t.Fatalf("len=%d", len(all))
	}
	want := []Vec3i{{0, 3, 0}, {0, 3, 7}, {5, 0, 0}}
	for i, v := range all {
		if v.Pos != want[i] {
			t.Fatalf("order[%d]=%v want %v", i, v.Pos, want[i])
		}
	}

	w.Remove(Vec3i{5, 0, 0})
	if len(w.All()) != 2 {
		t.Fatalf("All is stale after remove")
	}
}
