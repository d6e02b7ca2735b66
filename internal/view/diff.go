package view

import (
	"sort"

	"github.com/roach88/todos/internal/task"
)

// ChangeKind names a reconciliation step.
type ChangeKind string

const (
	ChangeRemove ChangeKind = "remove"
	ChangeInsert ChangeKind = "insert"
	ChangeMove   ChangeKind = "move"
	ChangeUpdate ChangeKind = "update"
)

// Change is one keyed step turning a displayed listing into the next.
//
// Index is the target position in the next listing (insert, move).
// Task is the record as it appears in the next listing (all kinds except
// remove, where it is the record being removed).
type Change struct {
	Kind  ChangeKind `json:"kind"`
	ID    string     `json:"id"`
	Index int        `json:"index"`
	Task  task.Task  `json:"task"`
}

// Diff returns the changes that turn prev into next, keyed by task id.
//
// Order of the result: removals in prev order, then inserts and moves by
// ascending target index, then updates in next order. Moves are minimal:
// the tasks kept in place form a longest increasing subsequence of their
// previous positions. Ids must be unique within each listing.
func Diff(prev, next []task.Task) []Change {
	prevIndex := make(map[string]int, len(prev))
	for i, t := range prev {
		prevIndex[t.ID] = i
	}
	nextIDs := make(map[string]bool, len(next))
	for _, t := range next {
		nextIDs[t.ID] = true
	}

	var changes []Change
	for _, t := range prev {
		if !nextIDs[t.ID] {
			changes = append(changes, Change{Kind: ChangeRemove, ID: t.ID, Index: -1, Task: t})
		}
	}

	// Previous positions of the kept tasks, in next order.
	var keptNext []int
	var keptPrev []int
	for i, t := range next {
		if j, ok := prevIndex[t.ID]; ok {
			keptNext = append(keptNext, i)
			keptPrev = append(keptPrev, j)
		}
	}
	stable := make(map[int]bool, len(keptNext))
	for _, k := range longestIncreasing(keptPrev) {
		stable[keptNext[k]] = true
	}

	var updates []Change
	for i, t := range next {
		j, existed := prevIndex[t.ID]
		switch {
		case !existed:
			changes = append(changes, Change{Kind: ChangeInsert, ID: t.ID, Index: i, Task: t})
			continue
		case !stable[i]:
			changes = append(changes, Change{Kind: ChangeMove, ID: t.ID, Index: i, Task: t})
		}
		if prev[j] != t {
			updates = append(updates, Change{Kind: ChangeUpdate, ID: t.ID, Index: i, Task: t})
		}
	}

	return append(changes, updates...)
}

// Apply replays changes produced by Diff against prev and returns the
// resulting listing. prev is not modified.
func Apply(prev []task.Task, changes []Change) []task.Task {
	detached := make(map[string]bool)
	var placed []Change
	updates := make(map[string]task.Task)
	for _, c := range changes {
		switch c.Kind {
		case ChangeRemove:
			detached[c.ID] = true
		case ChangeMove:
			detached[c.ID] = true
			placed = append(placed, c)
		case ChangeInsert:
			placed = append(placed, c)
		case ChangeUpdate:
			updates[c.ID] = c.Task
		}
	}

	out := make([]task.Task, 0, len(prev)+len(placed))
	for _, t := range prev {
		if !detached[t.ID] {
			out = append(out, t)
		}
	}

	sort.SliceStable(placed, func(a, b int) bool { return placed[a].Index < placed[b].Index })
	for _, c := range placed {
		i := c.Index
		if i > len(out) {
			i = len(out)
		}
		out = append(out, task.Task{})
		copy(out[i+1:], out[i:])
		out[i] = c.Task
	}

	for i, t := range out {
		if u, ok := updates[t.ID]; ok {
			out[i] = u
		}
	}
	return out
}

// longestIncreasing returns the positions in seq of one longest strictly
// increasing subsequence, in ascending order.
func longestIncreasing(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}

	// tails[k] is the position in seq of the smallest tail of an increasing
	// subsequence of length k+1.
	tails := make([]int, 0, len(seq))
	parent := make([]int, len(seq))
	for i, v := range seq {
		k := sort.Search(len(tails), func(k int) bool { return seq[tails[k]] >= v })
		if k > 0 {
			parent[i] = tails[k-1]
		} else {
			parent[i] = -1
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}

	out := make([]int, len(tails))
	for i, k := len(tails)-1, tails[len(tails)-1]; i >= 0; i, k = i-1, parent[k] {
		out[i] = k
	}
	return out
}
