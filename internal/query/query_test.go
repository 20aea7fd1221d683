package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskctl/internal/query"
	"taskctl/internal/service"
)

func TestBuild_AllCombinations(t *testing.T) {
	filterPart := map[query.Filter]string{
		query.FilterAll:       "",
		query.FilterPending:   "status=pending&",
		query.FilterCompleted: "status=done&",
		query.FilterFavorites: "favorite=1&",
	}
	sortPart := map[query.Sort]string{
		query.SortNewest:    "ordering=-created_at",
		query.SortOldest:    "ordering=created_at",
		query.SortTitleAsc:  "ordering=title",
		query.SortTitleDesc: "ordering=-title",
	}

	for _, f := range query.Filters {
		for _, s := range query.Sorts {
			got := query.Build(query.State{Filter: f, Sort: s}).Encode()
			want := "?" + filterPart[f] + sortPart[s]
			assert.Equal(t, want, got, "filter=%s sort=%s", f, s)

			// Same input, same output.
			assert.Equal(t, got, query.Build(query.State{Filter: f, Sort: s}).Encode())
		}
	}
}

func TestBuild_FavoritesTitleDesc(t *testing.T) {
	st := query.State{Filter: query.FilterFavorites, Query: "", Sort: query.SortTitleDesc}
	assert.Equal(t, "?favorite=1&ordering=-title", query.Build(st).Encode())
}

func TestBuild_SearchIsTrimmedAndFirst(t *testing.T) {
	st := query.State{Filter: query.FilterCompleted, Query: "  report  ", Sort: query.SortOldest}
	assert.Equal(t, "?q=report&status=done&ordering=created_at", query.Build(st).Encode())

	st.Query = "   "
	assert.Equal(t, "?status=done&ordering=created_at", query.Build(st).Encode())
}

func TestBuild_UnknownSortFallsBackToNewest(t *testing.T) {
	st := query.State{Filter: query.FilterAll, Sort: query.Sort("priority")}
	assert.Equal(t, "?ordering=-created_at", query.Build(st).Encode())
}

func TestParseFilterAndSort(t *testing.T) {
	f, err := query.ParseFilter(" Favorites")
	require.NoError(t, err)
	assert.Equal(t, query.FilterFavorites, f)

	_, err = query.ParseFilter("archived")
	assert.Error(t, err)

	s, err := query.ParseSort("TITLE_ASC")
	require.NoError(t, err)
	assert.Equal(t, query.SortTitleAsc, s)

	_, err = query.ParseSort("priority")
	assert.Error(t, err)
}

func TestRefine_PendingDropsDone(t *testing.T) {
	tasks := []service.Task{
		{ID: "1", Status: service.StatusTodo},
		{ID: "2", Status: service.StatusDone},
		{ID: "3", Status: service.StatusInProgress},
		{ID: "4", Status: service.StatusDone},
		{ID: "5", Status: "blocked"},
	}

	got := query.Refine(query.FilterPending, tasks)
	require.Len(t, got, 3)
	for _, task := range got {
		assert.NotEqual(t, service.StatusDone, task.Status)
	}
	assert.Len(t, tasks, 5, "input must not be modified")
}

func TestRefine_OtherFiltersPassThrough(t *testing.T) {
	tasks := []service.Task{
		{ID: "1", Status: service.StatusTodo},
		{ID: "2", Status: service.StatusDone},
	}
	for _, f := range []query.Filter{query.FilterAll, query.FilterCompleted, query.FilterFavorites} {
		assert.Equal(t, tasks, query.Refine(f, tasks), "filter=%s", f)
	}
}
