package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/todos/internal/app"
	"github.com/roach88/todos/internal/persist"
	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/todo"
	"github.com/roach88/todos/internal/view"
)

// AssertionContext gives assertions access to the final state.
type AssertionContext struct {
	Ctx     context.Context
	Tasks   *todo.Store
	Ctrl    *app.Controller
	Adapter *persist.Adapter
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nInvocations:\n")
		n := 0
		for _, event := range e.Trace {
			if event.Type == EventInvoke {
				n++
				fmt.Fprintf(&buf, "  [%d] %s %v\n", n, event.Action, event.Args)
			}
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns one message per
// failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertProjection:
		return assertProjection(result, a, actx)
	case AssertRemaining:
		return assertRemaining(result, a, actx)
	case AssertAnyCompleted:
		return assertAnyCompleted(result, a, actx)
	case AssertWriteCount:
		return assertWriteCount(result, a)
	case AssertStored:
		return assertStored(result, a, actx)
	case AssertTraceCount:
		return assertTraceCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertProjection(result *Result, a Assertion, actx *AssertionContext) error {
	filter := actx.Ctrl.Filter()
	if a.Filter != "" {
		filter = task.Filter(a.Filter)
	}
	items, err := view.Select(actx.Tasks.Tasks(), filter)
	if err != nil {
		return err
	}
	got := titles(items)
	if !slices.Equal(got, a.Titles) {
		return &AssertionError{
			Type:     AssertProjection,
			Expected: fmt.Sprintf("%s: %q", filter, a.Titles),
			Actual:   fmt.Sprintf("%s: %q", filter, got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertRemaining(result *Result, a Assertion, actx *AssertionContext) error {
	got := view.RemainingCount(actx.Tasks.Tasks())
	if got != a.Count {
		return &AssertionError{
			Type:     AssertRemaining,
			Expected: fmt.Sprintf("%d remaining", a.Count),
			Actual:   fmt.Sprintf("%d remaining", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertAnyCompleted(result *Result, a Assertion, actx *AssertionContext) error {
	got := view.HasCompleted(actx.Tasks.Tasks())
	if got != *a.Value {
		return &AssertionError{
			Type:     AssertAnyCompleted,
			Expected: fmt.Sprintf("any completed = %t", *a.Value),
			Actual:   fmt.Sprintf("any completed = %t", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertWriteCount(result *Result, a Assertion) error {
	if result.Writes != a.Count {
		return &AssertionError{
			Type:     AssertWriteCount,
			Expected: fmt.Sprintf("%d writes", a.Count),
			Actual:   fmt.Sprintf("%d writes", result.Writes),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertStored reloads the slot, so it sees exactly what a fresh start
// would see.
func assertStored(result *Result, a Assertion, actx *AssertionContext) error {
	got := titles(actx.Adapter.Load(actx.Ctx))
	if !slices.Equal(got, a.Titles) {
		return &AssertionError{
			Type:     AssertStored,
			Expected: fmt.Sprintf("stored %q", a.Titles),
			Actual:   fmt.Sprintf("stored %q", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertTraceCount(result *Result, a Assertion) error {
	got := result.Count(a.Action)
	if got != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Action),
			Actual:   fmt.Sprintf("%d occurrences", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func titles(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
