package sortedlist

import "slices"

// Comparator orders items. It returns a negative number when a sorts
// before b, zero when they share an identity, and a positive number
// otherwise.
type Comparator[T any] func(a, b T) int

// Row is a rendered element bound to exactly one item at a time.
type Row[T any] interface {
	// Item returns the item the row is currently bound to.
	Item() T
	// Update rebinds the row to a newer version of the same item.
	Update(item T)
	// Dispose releases the row once its item has disappeared.
	Dispose()
}

// Factory creates rows for items that have no row yet.
type Factory[T any] interface {
	NewRow(item T) Row[T]
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc[T any] func(item T) Row[T]

// NewRow calls f(item).
func (f FactoryFunc[T]) NewRow(item T) Row[T] {
	return f(item)
}

// Stats counts the operations a reconciliation performed.
type Stats struct {
	Inserted int
	Updated  int
	Removed  int
}

// Changed reports whether any row was inserted or removed.
func (s Stats) Changed() bool {
	return s.Inserted > 0 || s.Removed > 0
}

// Reconcile merges items into rows and returns the new row sequence.
//
// Both inputs must be sorted by cmp. Rows whose item compares equal to an
// item are reused and updated, rows with no matching item are disposed, and
// items with no matching row get a new row from factory. rows itself is not
// modified: callers must replace their row slice with the returned one.
func Reconcile[T any](items []T, rows []Row[T], factory Factory[T], cmp Comparator[T]) ([]Row[T], Stats) {
	var stats Stats
	out := make([]Row[T], 0, len(items))

	i, j := 0, 0
	for i < len(items) && j < len(rows) {
		c := cmp(items[i], rows[j].Item())
		switch {
		case c < 0:
			out = append(out, factory.NewRow(items[i]))
			stats.Inserted++
			i++
		case c == 0:
			rows[j].Update(items[i])
			out = append(out, rows[j])
			stats.Updated++
			i++
			j++
		default:
			rows[j].Dispose()
			stats.Removed++
			j++
		}
	}

	for ; j < len(rows); j++ {
		rows[j].Dispose()
		stats.Removed++
	}
	for ; i < len(items); i++ {
		out = append(out, factory.NewRow(items[i]))
		stats.Inserted++
	}

	return out, stats
}

// Sort sorts items in place by cmp, keeping the input order of equal items.
func Sort[T any](items []T, cmp Comparator[T]) {
	slices.SortStableFunc(items, cmp)
}
