package tui

import (
	"slices"

	"github.com/openlighting/olatui/internal/sortedlist"
)

// row is a list entry that carries display state across refreshes.
type row[T any] struct {
	item     T
	selected bool
	disposed bool
}

func newRow[T any](item T) sortedlist.Row[T] {
	return &row[T]{item: item}
}

func (r *row[T]) Item() T {
	return r.item
}

func (r *row[T]) Update(item T) {
	r.item = item
}

func (r *row[T]) Dispose() {
	r.disposed = true
	r.selected = false
}

// list is a reconciled list together with its ordering.
type list[T any] struct {
	*sortedlist.List[T]
	cmp sortedlist.Comparator[T]
}

func newList[T any](cmp sortedlist.Comparator[T]) list[T] {
	return list[T]{
		List: sortedlist.New[T](sortedlist.FactoryFunc[T](newRow[T]), cmp),
		cmp:  cmp,
	}
}

// set sorts items, drops repeated keys and reconciles the list against
// them.
func (l list[T]) set(items []T) (sortedlist.Stats, error) {
	sorted := slices.Clone(items)
	sortedlist.Sort(sorted, l.cmp)
	sorted = slices.CompactFunc(sorted, func(a, b T) bool { return l.cmp(a, b) == 0 })
	return l.Update(sorted)
}

func (l list[T]) row(i int) *row[T] {
	return l.At(i).(*row[T])
}

// selected returns the index of the selected row, or -1.
func (l list[T]) selected() int {
	for i := range l.Len() {
		if l.row(i).selected {
			return i
		}
	}
	return -1
}

// selectIndex marks row i as the only selected row. An out of range index
// clears the selection.
func (l list[T]) selectIndex(i int) {
	for j := range l.Len() {
		l.row(j).selected = j == i
	}
}
