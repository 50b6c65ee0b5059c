// Package sequence provides a small generic wrapper over iter.Seq for
// consuming lazy streams: bounding them and collecting them.
package sequence

import "iter"

// Iterator is a generic view over a lazy sequence of T.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// FromSeq wraps an existing sequence function.
func FromSeq[T any](seq iter.Seq[T]) *Iterator[T] {
	return &Iterator[T]{seq: seq}
}

// Take bounds the iterator to at most n elements. Essential for consuming a
// finite prefix of an unbounded stream.
func (i *Iterator[T]) Take(n int) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			if n <= 0 {
				return
			}
			taken := 0
			i.seq(func(v T) bool {
				if !yield(v) {
					return false
				}
				taken++
				return taken < n
			})
		},
	}
}

// Collect exhausts the iterator and returns all elements. Do not call on an
// unbounded stream without Take.
func (i *Iterator[T]) Collect() []T {
	var out []T
	i.seq(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Count exhausts the iterator and returns the number of elements.
func (i *Iterator[T]) Count() int {
	n := 0
	i.seq(func(T) bool {
		n++
		return true
	})
	return n
}
