package task

import (
	"errors"
	"fmt"
	"time"
)

// Task is a single record in the managed list.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds
}

// Filter selects the subset of tasks shown in a listing.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every valid filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ErrInvalidFilter indicates a filter value outside Filters.
// It signals a wiring bug, not user input, and must not be swallowed.
var ErrInvalidFilter = errors.New("invalid filter")

// Valid reports whether f is one of Filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// ParseFilter converts a string to a Filter.
// Returns an error wrapping ErrInvalidFilter for unknown values.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w %q: must be one of %v", ErrInvalidFilter, s, Filters)
	}
	return f, nil
}

// Clock supplies the current time in epoch milliseconds.
type Clock interface {
	NowMillis() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// NowMillis returns time.Now in epoch milliseconds.
func (SystemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}
