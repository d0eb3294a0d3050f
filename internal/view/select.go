package view

import "strings"

// Select returns, in order, the items accepted by every predicate. The
// result is a fresh non-nil slice.
func Select[T any](items []T, keep ...func(T) bool) []T {
	out := make([]T, 0, len(items))
next:
	for _, item := range items {
		for _, fn := range keep {
			if !fn(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}

// ContainsFold reports whether the lower-cased s contains the lower-cased
// substr.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Window returns at most size leading items without reading past the end.
func Window[T any](items []T, size int) []T {
	if size <= 0 {
		return items[:0]
	}
	if size > len(items) {
		size = len(items)
	}
	return items[:size]
}
