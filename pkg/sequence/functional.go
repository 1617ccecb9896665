package sequence

import (
	"iter"
	"maps"
	"slices"
)

// Iterator wraps an iter.Seq so filters and sorts can be chained.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From iterates data in slice order.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{seq: slices.Values(data)}
}

// FromMap iterates the values of data. Order is unspecified;
// chain Sort for a stable order.
func FromMap[K comparable, T any](data map[K]T) *Iterator[T] {
	return &Iterator[T]{seq: maps.Values(data)}
}

func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Collect drains the iterator into a slice. Empty input yields nil.
func (i *Iterator[T]) Collect() []T {
	return slices.Collect(i.seq)
}

// Sort orders the elements by cmp, keeping equal elements in input order.
func (i *Iterator[T]) Sort(cmp func(a, b T) int) *Iterator[T] {
	data := i.Collect()
	slices.SortStableFunc(data, cmp)
	return From(data)
}

// Filter keeps the elements for which keep returns true.
func (i *Iterator[T]) Filter(keep func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for v := range i.seq {
				if keep(v) && !yield(v) {
					return
				}
			}
		},
	}
}

// First returns the first element, or false if there is none.
func (i *Iterator[T]) First() (T, bool) {
	for v := range i.seq {
		return v, true
	}
	var zero T
	return zero, false
}

// Map applies fn to every element and collects the results.
func Map[T, S any](it *Iterator[T], fn func(T) S) []S {
	var out []S
	for v := range it.seq {
		out = append(out, fn(v))
	}
	return out
}
