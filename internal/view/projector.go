package view

import (
	"fmt"

	"github.com/roach88/todos/internal/task"
)

// Projection is the filtered listing plus derived summary values.
type Projection struct {
	Filter       task.Filter `json:"filter"`
	Items        []task.Task `json:"items"`
	Remaining    int         `json:"remaining"`
	AnyCompleted bool        `json:"anyCompleted"`
}

// Select returns the tasks matching filter, preserving collection order.
// The result is a new slice and is never nil.
// An unknown filter is a wiring bug and returns an error wrapping
// task.ErrInvalidFilter.
func Select(tasks []task.Task, filter task.Filter) ([]task.Task, error) {
	var keep func(task.Task) bool
	switch filter {
	case task.FilterAll:
		keep = func(task.Task) bool { return true }
	case task.FilterActive:
		keep = func(t task.Task) bool { return !t.Completed }
	case task.FilterCompleted:
		keep = func(t task.Task) bool { return t.Completed }
	default:
		return nil, fmt.Errorf("select: %w %q", task.ErrInvalidFilter, filter)
	}

	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// RemainingCount returns the number of incomplete tasks.
func RemainingCount(tasks []task.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// HasCompleted reports whether at least one task is completed.
func HasCompleted(tasks []task.Task) bool {
	for _, t := range tasks {
		if t.Completed {
			return true
		}
	}
	return false
}

// Project builds the projection of tasks under filter.
func Project(tasks []task.Task, filter task.Filter) (Projection, error) {
	items, err := Select(tasks, filter)
	if err != nil {
		return Projection{}, err
	}
	return Projection{
		Filter:       filter,
		Items:        items,
		Remaining:    RemainingCount(tasks),
		AnyCompleted: HasCompleted(tasks),
	}, nil
}
