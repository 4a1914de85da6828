// Package history implements linear undo/redo over immutable snapshots.
package history

// History is an ordered list of snapshots with a cursor pointing at the
// current one. Committing from the middle of the list discards everything
// after the cursor.
type History[T any] struct {
	entries []T
	cursor  int
	limit   int
}

// New returns an empty history. A positive limit caps the number of kept
// entries; the oldest are dropped first.
func New[T any](limit int) *History[T] {
	if limit < 0 {
		limit = 0
	}
	return &History[T]{cursor: -1, limit: limit}
}

// Commit truncates any redoable entries, appends v and moves the cursor to
// it.
func (h *History[T]) Commit(v T) {
	clear(h.entries[h.cursor+1:])
	h.entries = append(h.entries[:h.cursor+1], v)
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		var zero T
		for i := 0; i < drop; i++ {
			h.entries[i] = zero
		}
		h.entries = append(h.entries[:0], h.entries[drop:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Replace overwrites the current entry without touching the rest of the
// history. It reports false when the history is empty.
func (h *History[T]) Replace(v T) bool {
	if h.cursor < 0 {
		return false
	}
	h.entries[h.cursor] = v
	return true
}

// Undo steps the cursor back and returns the entry now current. It reports
// false, leaving the cursor alone, when there is nothing to undo.
func (h *History[T]) Undo() (T, bool) {
	if h.cursor <= 0 {
		var zero T
		return zero, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo steps the cursor forward and returns the entry now current. It
// reports false at the tail.
func (h *History[T]) Redo() (T, bool) {
	if h.cursor >= len(h.entries)-1 {
		var zero T
		return zero, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the entry under the cursor.
func (h *History[T]) Current() (T, bool) {
	if h.cursor < 0 {
		var zero T
		return zero, false
	}
	return h.entries[h.cursor], true
}

// CanUndo reports whether Undo would succeed.
func (h *History[T]) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History[T]) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of entries.
func (h *History[T]) Len() int { return len(h.entries) }

// Cursor returns the index of the current entry, or -1 when empty.
func (h *History[T]) Cursor() int { return h.cursor }

// Entries returns a copy of all entries, oldest first.
func (h *History[T]) Entries() []T {
	out := make([]T, len(h.entries))
	copy(out, h.entries)
	return out
}

// Reset drops every entry.
func (h *History[T]) Reset() {
	clear(h.entries)
	h.entries = h.entries[:0]
	h.cursor = -1
}
