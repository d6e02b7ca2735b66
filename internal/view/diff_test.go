package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/todos/internal/task"
)

func listing(idList ...string) []task.Task {
	out := make([]task.Task, len(idList))
	for i, id := range idList {
		out[i] = task.Task{ID: id, Title: "task " + id}
	}
	return out
}

func kinds(changes []Change) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = string(c.Kind) + ":" + c.ID
	}
	return out
}

func TestDiff_Identical(t *testing.T) {
	assert.Empty(t, Diff(listing("a", "b"), listing("a", "b")))
}

func TestDiff_Prepend(t *testing.T) {
	changes := Diff(listing("a", "b"), listing("c", "a", "b"))

	require.Len(t, changes, 1)
	assert.Equal(t, ChangeInsert, changes[0].Kind)
	assert.Equal(t, "c", changes[0].ID)
	assert.Equal(t, 0, changes[0].Index)
}

func TestDiff_Remove(t *testing.T) {
	changes := Diff(listing("a", "b", "c"), listing("a", "c"))
	assert.Equal(t, []string{"remove:b"}, kinds(changes))
}

func TestDiff_Update(t *testing.T) {
	prev := listing("a", "b")
	next := listing("a", "b")
	next[1].Completed = true

	changes := Diff(prev, next)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeUpdate, changes[0].Kind)
	assert.Equal(t, "b", changes[0].ID)
	assert.True(t, changes[0].Task.Completed)
}

func TestDiff_MinimalMoves(t *testing.T) {
	// Moving "a" from the front to the back keeps b, c, d stable.
	changes := Diff(listing("a", "b", "c", "d"), listing("b", "c", "d", "a"))
	assert.Equal(t, []string{"move:a"}, kinds(changes))
	assert.Equal(t, 3, changes[0].Index)
}

func TestDiff_FilterSwitch(t *testing.T) {
	tasks := mixed()
	all, err := Select(tasks, task.FilterAll)
	require.NoError(t, err)
	active, err := Select(tasks, task.FilterActive)
	require.NoError(t, err)

	changes := Diff(all, active)
	assert.Equal(t, []string{"remove:c", "remove:a"}, kinds(changes))

	changes = Diff(active, all)
	assert.Equal(t, []string{"insert:c", "insert:a"}, kinds(changes))
}

func TestApply_ReproducesNext(t *testing.T) {
	tests := []struct {
		name       string
		prev, next []task.Task
	}{
		{"empty to some", nil, listing("a", "b")},
		{"some to empty", listing("a", "b"), nil},
		{"prepend", listing("a"), listing("b", "a")},
		{"reverse", listing("a", "b", "c", "d"), listing("d", "c", "b", "a")},
		{"shuffle with churn", listing("a", "b", "c", "d", "e"), listing("f", "d", "a", "g", "c")},
		{"interleave", listing("a", "b", "c"), listing("x", "a", "y", "b", "z", "c")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.prev, Diff(tt.prev, tt.next))
			assert.Equal(t, ids(tt.next), ids(got))
		})
	}
}

func TestApply_CarriesUpdates(t *testing.T) {
	prev := listing("a", "b", "c")
	next := []task.Task{prev[2], prev[0], prev[1]}
	next[0].Title = "renamed"
	next[2].Completed = true

	got := Apply(prev, Diff(prev, next))
	assert.Equal(t, next, got)
}

func TestApply_DoesNotModifyPrev(t *testing.T) {
	prev := listing("a", "b")
	snapshot := append([]task.Task(nil), prev...)

	Apply(prev, Diff(prev, listing("b", "c")))

	assert.Equal(t, snapshot, prev)
}

func TestLongestIncreasing(t *testing.T) {
	assert.Nil(t, longestIncreasing(nil))
	assert.Equal(t, []int{0, 1, 2}, longestIncreasing([]int{1, 2, 3}))
	assert.Len(t, longestIncreasing([]int{3, 2, 1}), 1)

	got := longestIncreasing([]int{0, 8, 4, 12, 2, 10, 6, 14})
	assert.Len(t, got, 4)
	seq := []int{0, 8, 4, 12, 2, 10, 6, 14}
	for i := 1; i < len(got); i++ {
		assert.Less(t, seq[got[i-1]], seq[got[i]])
		assert.Less(t, got[i-1], got[i])
	}
}
