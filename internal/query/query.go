// Package query maps the list view state to collection query parameters.
package query

import (
	"fmt"
	"strings"

	"taskctl/internal/service"
)

// Filter selects which tasks the list shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterFavorites Filter = "favorites"
)

// Sort selects the list ordering.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortTitleAsc  Sort = "title_asc"
	SortTitleDesc Sort = "title_desc"
)

var orderings = map[Sort]string{
	SortNewest:    "-created_at",
	SortOldest:    "created_at",
	SortTitleAsc:  "title",
	SortTitleDesc: "-title",
}

// Filters lists the accepted filter names in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted, FilterFavorites}

// Sorts lists the accepted sort names in display order.
var Sorts = []Sort{SortNewest, SortOldest, SortTitleAsc, SortTitleDesc}

// State is the view state that drives a list fetch.
type State struct {
	Filter Filter
	Query  string
	Sort   Sort
}

// DefaultState is the state of a freshly opened list.
func DefaultState() State {
	return State{Filter: FilterAll, Sort: SortNewest}
}

// ParseFilter parses a filter name (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter: %s (want all, pending, completed or favorites)", s)
}

// ParseSort parses a sort name (case-insensitive, trimmed).
func ParseSort(s string) (Sort, error) {
	st := Sort(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := orderings[st]; ok {
		return st, nil
	}
	return "", fmt.Errorf("invalid sort: %s (want newest, oldest, title_asc or title_desc)", s)
}

// Ordering returns the ordering directive for a sort key.
// Unknown keys fall back to newest first.
func Ordering(s Sort) string {
	if o, ok := orderings[s]; ok {
		return o
	}
	return orderings[SortNewest]
}

// Build derives the collection query parameters from the view state.
func Build(st State) service.ListParams {
	p := service.ListParams{
		Search:   strings.TrimSpace(st.Query),
		Ordering: Ordering(st.Sort),
	}

	switch st.Filter {
	case FilterPending:
		p.Status = "pending"
	case FilterCompleted:
		p.Status = string(service.StatusDone)
	case FilterFavorites:
		p.Favorite = "1"
	}
	return p
}

// Refine applies the client-side post-filter for f.
// The pending filter drops every done task, since not every server
// honours status=pending. The input slice is never modified.
func Refine(f Filter, tasks []service.Task) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if f == FilterPending && t.Status == service.StatusDone {
			continue
		}
		out = append(out, t)
	}
	return out
}
