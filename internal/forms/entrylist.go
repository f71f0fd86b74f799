package forms

// EntryList manages the ordered rows of one multi-valued contact field
// (emails or phones) during a form session. The list never shrinks
// below one row while the form is open, so the user always has an input
// row in front of them; whether blank rows reach the server is decided
// at submission time, not here.
type EntryList[T any] struct {
	rows []T
}

// NewEntryList seeds a list from existing rows, falling back to a
// single blank row when there are none.
func NewEntryList[T any](seed []T, blank T) EntryList[T] {
	if len(seed) == 0 {
		return EntryList[T]{rows: []T{blank}}
	}

	rows := make([]T, len(seed))
	copy(rows, seed)
	return EntryList[T]{rows: rows}
}

// Append adds a row to the end of the list. There is no upper bound on
// row count.
func (l *EntryList[T]) Append(row T) {
	l.rows = append(l.rows, row)
}

// Update applies fn to the row at index i. Out-of-bounds indices are a
// silent no-op; UI-driven indices should never be out of bounds, but
// the contract is defined for robustness.
func (l *EntryList[T]) Update(i int, fn func(*T)) {
	if i < 0 || i >= len(l.rows) {
		return
	}
	fn(&l.rows[i])
}

// Remove deletes the row at index i, unless it is the last remaining
// row or i is out of bounds, in which case nothing happens.
func (l *EntryList[T]) Remove(i int) {
	if len(l.rows) <= 1 {
		return
	}
	if i < 0 || i >= len(l.rows) {
		return
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
}

func (l *EntryList[T]) Len() int {
	return len(l.rows)
}

// Row returns the row at index i and whether it exists.
func (l *EntryList[T]) Row(i int) (T, bool) {
	if i < 0 || i >= len(l.rows) {
		var zero T
		return zero, false
	}
	return l.rows[i], true
}

// Rows returns a copy of the current rows in order.
func (l *EntryList[T]) Rows() []T {
	out := make([]T, len(l.rows))
	copy(out, l.rows)
	return out
}
