package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/todos/internal/task"
)

func mixed() []task.Task {
	return []task.Task{
		{ID: "d", Title: "four", Completed: false, CreatedAt: 4},
		{ID: "c", Title: "three", Completed: true, CreatedAt: 3},
		{ID: "b", Title: "two", Completed: false, CreatedAt: 2},
		{ID: "a", Title: "one", Completed: true, CreatedAt: 1},
	}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		filter task.Filter
		want   []string
	}{
		{task.FilterAll, []string{"d", "c", "b", "a"}},
		{task.FilterActive, []string{"d", "b"}},
		{task.FilterCompleted, []string{"c", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got, err := Select(mixed(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSelect_TwoRecordsOneToggled(t *testing.T) {
	tasks := []task.Task{
		{ID: "t-2", Title: "Walk dog", Completed: false},
		{ID: "t-1", Title: "Buy milk", Completed: true},
	}

	active, err := Select(tasks, task.FilterActive)
	require.NoError(t, err)
	assert.Equal(t, []string{"t-2"}, ids(active))

	completed, err := Select(tasks, task.FilterCompleted)
	require.NoError(t, err)
	assert.Equal(t, []string{"t-1"}, ids(completed))

	all, err := Select(tasks, task.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"t-2", "t-1"}, ids(all))
}

func TestSelect_InvalidFilter(t *testing.T) {
	for _, f := range []task.Filter{"", "done", "All"} {
		_, err := Select(mixed(), f)
		require.Error(t, err)
		assert.ErrorIs(t, err, task.ErrInvalidFilter)
	}
}

func TestSelect_EmptyIsNonNil(t *testing.T) {
	got, err := Select(nil, task.FilterCompleted)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelect_DoesNotAliasInput(t *testing.T) {
	in := mixed()
	got, err := Select(in, task.FilterAll)
	require.NoError(t, err)

	got[0].Title = "changed"
	assert.Equal(t, "four", in[0].Title)
}

func TestRemainingCount(t *testing.T) {
	assert.Equal(t, 0, RemainingCount(nil))
	assert.Equal(t, 2, RemainingCount(mixed()))

	tasks := mixed()
	completed := 0
	for _, tk := range tasks {
		if tk.Completed {
			completed++
		}
	}
	assert.Equal(t, len(tasks)-completed, RemainingCount(tasks))
}

func TestHasCompleted(t *testing.T) {
	assert.False(t, HasCompleted(nil))
	assert.True(t, HasCompleted(mixed()))
	assert.False(t, HasCompleted([]task.Task{{ID: "x"}}))
}

func TestProject(t *testing.T) {
	p, err := Project(mixed(), task.FilterActive)
	require.NoError(t, err)

	assert.Equal(t, task.FilterActive, p.Filter)
	assert.Equal(t, []string{"d", "b"}, ids(p.Items))
	assert.Equal(t, 2, p.Remaining)
	assert.True(t, p.AnyCompleted)
}

func TestProject_SummaryIgnoresFilter(t *testing.T) {
	p, err := Project(mixed(), task.FilterCompleted)
	require.NoError(t, err)

	// Remaining counts the whole collection, not the visible items.
	assert.Equal(t, 2, p.Remaining)
	assert.Len(t, p.Items, 2)
}

func TestProject_Deterministic(t *testing.T) {
	first, err := Project(mixed(), task.FilterAll)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Project(mixed(), task.FilterAll)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestProject_InvalidFilter(t *testing.T) {
	_, err := Project(mixed(), "archived")
	assert.ErrorIs(t, err, task.ErrInvalidFilter)
}
