// Package testutil defines helpers shared by tests across the module.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// AssertEqual compares two values structurally and fails the test with a
// readable diff when they differ.
func AssertEqual[T any](t *testing.T, want, got T, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("values differ (-want +got):\n%s", diff)
	}
}

// Permutations returns every permutation of the input slice,
// including the input itself. The input is modified in place.
func Permutations[T any](arr []T) [][]T {
	n := len(arr)
	var res [][]T

	// Heap's algorithm; c tracks the pending swaps per position.
	c := make([]int, n)

	perm := make([]T, n)
	copy(perm, arr)
	res = append(res, perm)

	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				arr[0], arr[i] = arr[i], arr[0]
			} else {
				arr[c[i]], arr[i] = arr[i], arr[c[i]]
			}

			perm := make([]T, n)
			copy(perm, arr)
			res = append(res, perm)

			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}

	return res
}
