package domain

import (
	"sort"
)

// SortField selects the review attribute used for ordering.
type SortField string

const (
	SortByDatePosted SortField = "datePosted"
	SortByRating     SortField = "rating"
)

// ParseSortField maps a client-supplied sort key to a SortField. Anything
// unrecognized, including the empty string, falls back to date posted.
func ParseSortField(s string) SortField {
	switch s {
	case string(SortByRating):
		return SortByRating
	case string(SortByDatePosted):
		return SortByDatePosted
	default:
		return SortByDatePosted
	}
}

// Direction is the sort direction. The zero-value behaviour is handled by
// ParseDirection, which defaults to descending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection maps a client-supplied direction to a Direction, defaulting
// to descending for anything unrecognized.
func ParseDirection(s string) Direction {
	if s == string(Ascending) {
		return Ascending
	}
	return Descending
}

// RankReviews returns a new slice with the reviews ordered by the given field
// and direction. The sort is stable: reviews with equal keys keep their
// stored relative order, so repeated calls over the same collection paginate
// consistently.
func RankReviews(reviews []Review, field SortField, dir Direction) []Review {
	ranked := make([]Review, len(reviews))
	copy(ranked, reviews)

	var less func(a, b *Review) bool
	switch field {
	case SortByRating:
		less = func(a, b *Review) bool { return a.Rating < b.Rating }
	default:
		less = func(a, b *Review) bool { return a.DatePosted.Before(b.DatePosted) }
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if dir == Descending {
			return less(&ranked[j], &ranked[i])
		}
		return less(&ranked[i], &ranked[j])
	})

	return ranked
}

// Page is one window of a ranked collection together with the total number of
// items across all windows.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// Paginate slices items into the zero-based page of the given size. A page
// index past the end yields an empty page; Total always reflects the full
// collection. Non-positive sizes are treated as empty pages.
func Paginate[T any](items []T, pageIndex, pageSize int) Page[T] {
	p := Page[T]{
		Items: []T{},
		Total: len(items),
		Page:  pageIndex,
		Size:  pageSize,
	}
	if pageIndex < 0 || pageSize <= 0 {
		return p
	}

	start := pageIndex * pageSize
	if start >= len(items) {
		return p
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	p.Items = make([]T, end-start)
	copy(p.Items, items[start:end])
	return p
}
