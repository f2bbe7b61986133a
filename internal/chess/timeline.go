package chess

// Timeline is an append-only history of T with a movable head. Rewinding
// moves the head backward without deleting later entries; the next Append
// truncates the inactive tail. Linear rewind only, no redo tracking.
type Timeline[T any] struct {
	entries []T
	head    int
}

// NewTimeline returns a timeline holding the single entry initial, head 0.
func NewTimeline[T any](initial T) Timeline[T] {
	return Timeline[T]{entries: []T{initial}}
}

// Head returns the head index.
func (t *Timeline[T]) Head() int { return t.head }

// Len returns the number of committed entries, inactive tail included.
func (t *Timeline[T]) Len() int { return len(t.entries) }

// Current returns the entry under the head, reporting false when the
// timeline is empty.
func (t *Timeline[T]) Current() (T, bool) {
	return t.At(t.head)
}

// At returns the entry at index i, reporting false outside the committed
// range.
func (t *Timeline[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(t.entries) {
		var zero T
		return zero, false
	}
	return t.entries[i], true
}

// Set overwrites the entry at index i, reporting false outside the
// committed range.
func (t *Timeline[T]) Set(i int, v T) bool {
	if i < 0 || i >= len(t.entries) {
		return false
	}
	t.entries[i] = v
	return true
}

// Append discards any inactive tail beyond the head, appends v, and moves
// the head onto it.
func (t *Timeline[T]) Append(v T) {
	if len(t.entries) == 0 {
		t.entries = append(t.entries, v)
		t.head = 0
		return
	}
	t.entries = append(t.entries[:t.head+1], v)
	t.head++
}

// ResetTo moves the head to index i. Entries past i stay committed but
// inactive. Reports false outside the committed range, head unchanged.
func (t *Timeline[T]) ResetTo(i int) bool {
	if i < 0 || i >= len(t.entries) {
		return false
	}
	t.head = i
	return true
}
