package pagination

import (
	"net/http"
	"strconv"
)

// Defaults and caps for paginated listing endpoints.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params holds listing parameters extracted from query strings. Page is
// 1-based at the HTTP boundary; Offset is the derived 0-based element offset.
type Params struct {
	Page      int    `json:"page"`
	PerPage   int    `json:"per_page"`
	Offset    int    `json:"-"`
	Sort      string `json:"sort,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// DefaultParams returns the default listing parameters.
func DefaultParams() Params {
	return Params{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
	}
}

// FromRequest extracts page, per_page, sort, and direction from an HTTP
// request. Out-of-range page/per_page values fall back to defaults; sort and
// direction are passed through verbatim for the caller to interpret.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()
	q := r.URL.Query()

	if page := q.Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if perPage := q.Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= MaxPerPage {
			p.PerPage = v
		}
	}

	p.Sort = q.Get("sort")
	p.Direction = q.Get("direction")
	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult creates a paginated result from a data slice and the total
// element count over the full collection.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	totalPages := totalCount / params.PerPage
	if totalCount%params.PerPage > 0 {
		totalPages++
	}

	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
