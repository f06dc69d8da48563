// Package search implements the free-text filtering applied to list endpoints.
package search

import "strings"

// Fields extracts the searchable text of an item.
type Fields[T any] func(item T) []string

// Filter keeps the items where at least one field contains term, ignoring case.
// A blank term returns a copy of items. The input slice is never modified.
func Filter[T any](items []T, term string, fields Fields[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || matches(fields(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

func matches(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Deref returns the pointed-to string or "" so optional columns can be searched.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Page slices items for 1-based page numbers. A non-positive size returns everything.
func Page[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	// Compare before multiplying so huge page numbers cannot overflow.
	if page-1 > len(items)/size {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
