package sortedlist

import (
	"github.com/openlighting/olatui/internal/errors"
)

// List owns the rows displayed by one container.
type List[T any] struct {
	rows     []Row[T]
	factory  Factory[T]
	cmp      Comparator[T]
	updating bool
}

// New creates an empty list.
func New[T any](factory Factory[T], cmp Comparator[T]) *List[T] {
	return &List[T]{factory: factory, cmp: cmp}
}

// Update reconciles the rows against items.
//
// items must be sorted by the list comparator with no duplicates; otherwise
// the rows are left as they were and a contract-violation error is
// returned.
func (l *List[T]) Update(items []T) (Stats, error) {
	if l.updating {
		return Stats{}, errors.ErrReentrantUpdate
	}
	if err := l.checkSorted(items); err != nil {
		return Stats{}, err
	}

	l.updating = true
	defer func() { l.updating = false }()

	var stats Stats
	l.rows, stats = Reconcile(items, l.rows, l.factory, l.cmp)
	return stats, nil
}

func (l *List[T]) checkSorted(items []T) error {
	for i := 1; i < len(items); i++ {
		c := l.cmp(items[i-1], items[i])
		if c > 0 {
			return errors.Wrapf(errors.ErrUnsortedInput, "items %d and %d", i-1, i)
		}
		if c == 0 {
			return errors.Wrapf(errors.ErrDuplicateKey, "items %d and %d", i-1, i)
		}
	}
	return nil
}

// Len returns the number of rows.
func (l *List[T]) Len() int {
	return len(l.rows)
}

// At returns the row at index i.
func (l *List[T]) At(i int) Row[T] {
	return l.rows[i]
}

// Rows returns the current rows in order. The slice must not be modified.
func (l *List[T]) Rows() []Row[T] {
	return l.rows
}

// Items returns the items the rows are bound to, in order.
func (l *List[T]) Items() []T {
	items := make([]T, len(l.rows))
	for i, r := range l.rows {
		items[i] = r.Item()
	}
	return items
}

// Index returns the position of the row bound to an item comparing equal
// to item, or -1.
func (l *List[T]) Index(item T) int {
	lo, hi := 0, len(l.rows)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c := l.cmp(l.rows[mid].Item(), item)
		switch {
		case c == 0:
			return mid
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return -1
}

// Clear disposes every row.
func (l *List[T]) Clear() {
	for _, r := range l.rows {
		r.Dispose()
	}
	l.rows = nil
}
