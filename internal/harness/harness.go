package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/todos/internal/app"
	"github.com/roach88/todos/internal/persist"
	"github.com/roach88/todos/internal/store"
	"github.com/roach88/todos/internal/testutil"
	"github.com/roach88/todos/internal/todo"
	"github.com/roach88/todos/internal/view"
)

// ErrInjectedWrite is returned by slot writes during a fail_write step.
var ErrInjectedWrite = errors.New("injected write failure")

// Harness holds the wiring for one scenario run.
type Harness struct {
	slots   *store.Store
	adapter *persist.Adapter
	tasks   *todo.Store
	ctrl    *app.Controller
	result  *Result
	seq     int64
	failing bool
}

// Run executes a scenario and returns its result.
//
// Each run uses a fresh in-memory database, sequential ids and a
// deterministic clock. An error means the harness itself could not run;
// failed expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if scenario.Seed != "" {
		if err := st.Put(ctx, persist.SlotKey, []byte(scenario.Seed)); err != nil {
			return nil, fmt.Errorf("failed to seed slot: %w", err)
		}
	}

	h := &Harness{slots: st, result: NewResult()}
	ids := testutil.NewSequentialIDs("")
	clock := testutil.NewDeterministicClock()

	h.adapter = persist.New(&tracingSlot{h: h}, persist.WithIDs(ids), persist.WithClock(clock))
	h.tasks = todo.Open(ctx, h.adapter, todo.WithIDs(ids), todo.WithClock(clock))
	h.ctrl = app.New(h.tasks, app.RendererFunc(h.traceRender))

	for i, step := range scenario.Setup {
		if _, err := h.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("setup step %d (%s): %w", i, step.Action, err)
		}
	}

	for i, step := range scenario.Flow {
		outcome, err := h.execute(ctx, step)
		if step.Expect != nil {
			h.check(i, step, outcome, err)
		} else if err != nil {
			h.result.AddError(fmt.Sprintf("flow[%d] %s: unexpected error: %v", i, step.Action, err))
		}
	}

	actx := &AssertionContext{
		Ctx:     ctx,
		Tasks:   h.tasks,
		Ctrl:    h.ctrl,
		Adapter: h.adapter,
	}
	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions, actx) {
		h.result.AddError(msg)
	}

	return h.result, nil
}

// execute runs one step through the controller and traces it.
// Steps without an outcome (set_filter) report "".
func (h *Harness) execute(ctx context.Context, step Step) (string, error) {
	h.trace(TraceEvent{Type: EventInvoke, Action: step.Action, Args: step.Args})

	h.failing = step.FailWrite
	defer func() { h.failing = false }()

	var (
		out todo.Outcome
		err error
	)
	switch step.Action {
	case ActionAdd:
		out, err = h.ctrl.Add(ctx, str(step.Args, "title"))
	case ActionToggle:
		completed, _ := step.Args["completed"].(bool)
		out, err = h.ctrl.Toggle(ctx, h.ctrl.Resolve(str(step.Args, "id")), completed)
	case ActionEdit:
		out, err = h.ctrl.Edit(ctx, h.ctrl.Resolve(str(step.Args, "id")), str(step.Args, "title"))
	case ActionRemove:
		out, err = h.ctrl.Remove(ctx, h.ctrl.Resolve(str(step.Args, "id")))
	case ActionClearCompleted:
		out, err = h.ctrl.ClearCompleted(ctx)
	case ActionSetFilter:
		err = h.ctrl.SetFilter(ctx, str(step.Args, "filter"))
		h.complete("", err)
		return "", err
	default:
		return "", fmt.Errorf("unknown action %q", step.Action)
	}

	h.complete(out.String(), err)
	return out.String(), err
}

func (h *Harness) check(i int, step Step, outcome string, err error) {
	e := step.Expect
	switch {
	case e.Error != "":
		if err == nil {
			h.result.AddError(fmt.Sprintf("flow[%d] %s: expected error containing %q, got none", i, step.Action, e.Error))
		} else if !strings.Contains(err.Error(), e.Error) {
			h.result.AddError(fmt.Sprintf("flow[%d] %s: expected error containing %q, got %q", i, step.Action, e.Error, err.Error()))
		}
	case err != nil:
		h.result.AddError(fmt.Sprintf("flow[%d] %s: unexpected error: %v", i, step.Action, err))
	case e.Outcome != "" && e.Outcome != outcome:
		h.result.AddError(fmt.Sprintf("flow[%d] %s: expected outcome %s, got %s", i, step.Action, e.Outcome, outcome))
	}
}

func (h *Harness) trace(e TraceEvent) {
	h.seq++
	e.Seq = h.seq
	h.result.Trace = append(h.result.Trace, e)
}

func (h *Harness) complete(outcome string, err error) {
	e := TraceEvent{Type: EventComplete, Outcome: outcome}
	if err != nil {
		e.Outcome = ""
		e.Error = err.Error()
	}
	h.trace(e)
}

func (h *Harness) traceRender(p view.Projection) error {
	items := make([]string, len(p.Items))
	for i, t := range p.Items {
		items[i] = mark(t.Completed) + " " + t.Title
	}
	h.trace(TraceEvent{Type: EventRender, Render: &RenderEvent{
		Filter:       string(p.Filter),
		Items:        items,
		Remaining:    p.Remaining,
		AnyCompleted: p.AnyCompleted,
	}})
	return nil
}

// tracingSlot records every write the persistence adapter makes.
type tracingSlot struct {
	h *Harness
}

func (s *tracingSlot) Get(ctx context.Context, key string) ([]byte, error) {
	return s.h.slots.Get(ctx, key)
}

func (s *tracingSlot) Put(ctx context.Context, key string, value []byte) error {
	ids := storedIDs(value)
	if s.h.failing {
		s.h.trace(TraceEvent{Type: EventWrite, Write: &WriteEvent{Key: key, IDs: ids, Failed: true}})
		return ErrInjectedWrite
	}
	if err := s.h.slots.Put(ctx, key, value); err != nil {
		return err
	}
	s.h.result.Writes++
	s.h.trace(TraceEvent{Type: EventWrite, Write: &WriteEvent{Key: key, IDs: ids}})
	return nil
}

// storedIDs lists the ids in an encoded collection, in order.
func storedIDs(value []byte) []string {
	var records []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(value, &records); err != nil {
		return nil
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func str(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func mark(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
