package utils

import "slices"

// Remove deletes the first occurrence of item from s, reporting whether it
// was there.
func Remove[T comparable](s []T, item T) ([]T, bool) {
	i := slices.Index(s, item)
	if i < 0 {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}

// Prepend returns a new slice holding items followed by s.
func Prepend[T any](s []T, items ...T) []T {
	out := make([]T, 0, len(items)+len(s))
	return append(append(out, items...), s...)
}
