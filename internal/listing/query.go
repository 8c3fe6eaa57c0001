package listing

import (
	"maps"

	"fleetdesk/internal/backend"
)

// Query is the immutable input of one fetch.
type Query struct {
	Page    int               `json:"page"`
	Count   int               `json:"count"`
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters"`
}

func (q Query) clone() Query {
	q.Filters = maps.Clone(q.Filters)
	if q.Filters == nil {
		q.Filters = map[string]string{}
	}
	return q
}

// Params maps the query onto the backend request for orgID.
func (q Query) Params(orgID int64) backend.ListParams {
	return backend.ListParams{
		Page:    q.Page,
		Count:   q.Count,
		Search:  q.Search,
		OrgID:   orgID,
		Filters: maps.Clone(q.Filters),
	}
}

// Result is one normalized page.
type Result[T any] struct {
	Rows       []T
	TotalCount int
	TotalPages int
}

// TotalPages is ceil(totalCount/count), never less than 1.
func TotalPages(totalCount, count int) int {
	if count <= 0 || totalCount <= 0 {
		return 1
	}
	return (totalCount + count - 1) / count
}

// Normalize turns a decoded backend page into a Result. The backend sends
// totalPages on some endpoints and only totalCount on others.
func Normalize[T any](p backend.Page[T], count int) Result[T] {
	rows := p.Rows
	if rows == nil {
		rows = []T{}
	}
	total := len(rows)
	if p.TotalCount != nil {
		total = max(*p.TotalCount, 0)
	}
	pages := TotalPages(total, count)
	if p.TotalPages != nil {
		pages = max(*p.TotalPages, 1)
	}
	return Result[T]{Rows: rows, TotalCount: total, TotalPages: pages}
}

func emptyResult[T any]() Result[T] {
	return Result[T]{Rows: []T{}, TotalCount: 0, TotalPages: 1}
}

// State is what the view renders.
type State[T any] struct {
	Query
	Rows       []T
	TotalCount int
	TotalPages int
	Loading    bool
	Err        error
}

func (s State[T]) IsEmpty() bool { return !s.Loading && len(s.Rows) == 0 }
func (s State[T]) CanPrev() bool { return s.Page > 1 }
func (s State[T]) CanNext() bool { return s.Page < s.TotalPages }

// ShowingRange is the 1-based "Showing X–Y of Z" window, [0,0] when there is
// nothing to show.
func (s State[T]) ShowingRange() (from, to int) {
	if s.TotalCount <= 0 || s.Count <= 0 {
		return 0, 0
	}
	from = (s.Page-1)*s.Count + 1
	to = min(s.Page*s.Count, s.TotalCount)
	if from > to {
		return 0, 0
	}
	return from, to
}

// Summary is the type-erased part of a State.
type Summary struct {
	Query
	TotalCount  int    `json:"totalCount"`
	TotalPages  int    `json:"totalPages"`
	Loading     bool   `json:"loading"`
	Empty       bool   `json:"empty"`
	ShowingFrom int    `json:"showingFrom"`
	ShowingTo   int    `json:"showingTo"`
	CanPrev     bool   `json:"canPrev"`
	CanNext     bool   `json:"canNext"`
	Error       string `json:"error,omitempty"`
}

func (s State[T]) Summary() Summary {
	from, to := s.ShowingRange()
	sum := Summary{
		Query:       s.Query.clone(),
		TotalCount:  s.TotalCount,
		TotalPages:  s.TotalPages,
		Loading:     s.Loading,
		Empty:       s.IsEmpty(),
		ShowingFrom: from,
		ShowingTo:   to,
		CanPrev:     s.CanPrev(),
		CanNext:     s.CanNext(),
	}
	if s.Err != nil {
		sum.Error = s.Err.Error()
	}
	return sum
}

// Frame is a Summary plus the rows, ready to be encoded for a view.
type Frame struct {
	Summary
	Rows any `json:"rows"`
}
