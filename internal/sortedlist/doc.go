// Package sortedlist keeps a sequence of rendered rows in step with a
// sorted sequence of items.
//
// Every list in the UI (plugins, universes, UIDs, ports, RDM sections) is
// refreshed from a full server snapshot. Rebuilding the rows on every poll
// would throw away per-row UI state such as selection or an expanded
// panel, so [Reconcile] instead walks the new items and the existing rows
// together and only inserts, updates or removes what changed:
//
//	list := sortedlist.New(sortedlist.FactoryFunc[ola.Universe](newUniverseRow), ola.CompareUniverses)
//
//	universes := snapshot.Universes
//	sortedlist.Sort(universes, ola.CompareUniverses)
//	stats, err := list.Update(universes)
//
// A row whose item compares equal to an incoming item is kept and updated
// in place. The walk is linear in the sum of both lengths.
//
// # Preconditions
//
// Items must be sorted by the list's comparator and contain no two items
// that compare equal. [List.Update] checks both and returns
// [errors.ErrUnsortedInput] or [errors.ErrDuplicateKey] without touching
// the rows. [Reconcile] does not check; its result is unspecified for
// unsorted input.
//
// # Concurrency
//
// Lists are not safe for concurrent use. They are driven from the UI event
// loop only, and [List.Update] refuses to run while another update on the
// same list is in progress.
package sortedlist
