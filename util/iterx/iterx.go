// Package iterx provides utilities for working with iterators.
package iterx

import "iter"

// Enumerate yields the zero-based position along with each value of the
// input sequence, similar to ranging over a slice.
func Enumerate[T any](in iter.Seq[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var i int
		for v := range in {
			if !yield(i, v) {
				break
			}
			i++
		}
	}
}

// Limit yields at most n values from the input sequence.
func Limit[T any](in iter.Seq[T], n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		var i int
		for v := range in {
			if i >= n || !yield(v) {
				break
			}
			i++
		}
	}
}
