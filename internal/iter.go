package internal

import (
	"iter"
	"slices"
)

// Permutations yields every ordering of items, using Heap's algorithm.
// Each yielded slice is a fresh copy owned by the consumer.
func Permutations[T any](items []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		work := slices.Clone(items)
		n := len(work)
		state := make([]int, n)

		if !yield(slices.Clone(work)) {
			return
		}

		for i := 1; i < n; {
			if state[i] < i {
				if i%2 == 0 {
					work[0], work[i] = work[i], work[0]
				} else {
					work[state[i]], work[i] = work[i], work[state[i]]
				}
				if !yield(slices.Clone(work)) {
					return // Stop if the consumer stops
				}
				state[i]++
				i = 1
			} else {
				state[i] = 0
				i++
			}
		}
	}
}
