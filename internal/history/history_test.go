package history

import (
	"slices"
	"testing"
)

func TestLinearUndo(t *testing.T) {
	h := New[string](0)
	h.Commit("initial")
	h.Commit("A")
	h.Commit("B")
	if v, ok := h.Undo(); !ok || v != "A" {
		t.Fatalf("undo returned %q, %v", v, ok)
	}
	h.Commit("C")

	if got, want := h.Entries(), []string{"initial", "A", "C"}; !slices.Equal(got, want) {
		t.Fatalf("entries %v, want %v", got, want)
	}
	if cur, _ := h.Current(); cur != "C" || h.Cursor() != 2 {
		t.Fatalf("cursor at %d (%q)", h.Cursor(), cur)
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo should be a no-op after a new commit")
	}
}

func TestBoundaries(t *testing.T) {
	h := New[int](0)
	if _, ok := h.Undo(); ok {
		t.Fatal("undo on empty history")
	}
	if h.Cursor() != -1 {
		t.Fatalf("empty cursor %d", h.Cursor())
	}
	h.Commit(1)
	if _, ok := h.Undo(); ok {
		t.Fatal("undo at cursor 0 should fail")
	}
	if cur, _ := h.Current(); cur != 1 {
		t.Fatalf("current changed to %d", cur)
	}
	h.Commit(2)
	if _, ok := h.Redo(); ok {
		t.Fatal("redo at tail should fail")
	}
	if cur, _ := h.Current(); cur != 2 {
		t.Fatalf("current changed to %d", cur)
	}
	if v, ok := h.Undo(); !ok || v != 1 {
		t.Fatalf("undo returned %d, %v", v, ok)
	}
	if v, ok := h.Redo(); !ok || v != 2 {
		t.Fatalf("redo returned %d, %v", v, ok)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	h := New[int](3)
	for i := 1; i <= 5; i++ {
		h.Commit(i)
	}
	if got := h.Entries(); !slices.Equal(got, []int{3, 4, 5}) {
		t.Fatalf("entries %v", got)
	}
	if h.Cursor() != 2 {
		t.Fatalf("cursor %d", h.Cursor())
	}
	h.Reset()
	if h.Len() != 0 || h.Cursor() != -1 || h.CanUndo() || h.CanRedo() {
		t.Fatal("reset left state behind")
	}
}

func TestReplaceKeepsRedo(t *testing.T) {
	h := New[string](0)
	if h.Replace("x") {
		t.Fatal("replace on empty history")
	}
	h.Commit("a")
	h.Commit("b")
	h.Undo()
	if !h.Replace("a'") {
		t.Fatal("replace failed")
	}
	if got := h.Entries(); !slices.Equal(got, []string{"a'", "b"}) {
		t.Fatalf("entries %v", got)
	}
	if !h.CanRedo() {
		t.Fatal("replace dropped the redo entry")
	}
}

func TestCommitReleasesDiscardedEntries(t *testing.T) {
	h := New[*int](0)
	for i := 0; i < 4; i++ {
		h.Commit(new(int))
	}
	h.Undo()
	h.Undo()
	h.Commit(new(int))
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
	for i, v := range h.entries[h.Len():cap(h.entries)] {
		if v != nil {
			t.Fatalf("discarded entry %d still referenced", h.Len()+i)
		}
	}
}
