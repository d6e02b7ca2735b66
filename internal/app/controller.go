// Package app wires user intents to the task store and re-renders the
// listing after every event.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/todo"
	"github.com/roach88/todos/internal/view"
)

// Renderer presents a projection.
type Renderer interface {
	Render(p view.Projection) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(view.Projection) error

// Render calls f(p).
func (f RendererFunc) Render(p view.Projection) error {
	return f(p)
}

// Discard is a Renderer that drops every projection.
var Discard Renderer = RendererFunc(func(view.Projection) error { return nil })

// Controller holds the current filter and routes intents to the store.
// Each call runs to completion under a mutex, so one Controller may be
// shared by the shell and HTTP handlers.
type Controller struct {
	mu       sync.Mutex
	store    *todo.Store
	renderer Renderer
	filter   task.Filter
}

// New creates a Controller showing all tasks.
func New(store *todo.Store, renderer Renderer) *Controller {
	if renderer == nil {
		renderer = Discard
	}
	return &Controller{
		store:    store,
		renderer: renderer,
		filter:   task.FilterAll,
	}
}

// Add creates a task from title.
func (c *Controller) Add(ctx context.Context, title string) (todo.Outcome, error) {
	return c.do(ctx, "add", func() (todo.Outcome, error) {
		return c.store.Add(ctx, title)
	})
}

// Toggle sets the completed flag of id.
func (c *Controller) Toggle(ctx context.Context, id string, completed bool) (todo.Outcome, error) {
	return c.do(ctx, "toggle", func() (todo.Outcome, error) {
		return c.store.Toggle(ctx, id, completed)
	})
}

// Edit retitles id. An empty title cancels the edit.
func (c *Controller) Edit(ctx context.Context, id, title string) (todo.Outcome, error) {
	return c.do(ctx, "edit", func() (todo.Outcome, error) {
		return c.store.Edit(ctx, id, title)
	})
}

// Update applies a partial change to id with a single write.
func (c *Controller) Update(ctx context.Context, id string, ch todo.Change) (todo.Outcome, error) {
	return c.do(ctx, "update", func() (todo.Outcome, error) {
		return c.store.Update(ctx, id, ch)
	})
}

// Remove deletes id.
func (c *Controller) Remove(ctx context.Context, id string) (todo.Outcome, error) {
	return c.do(ctx, "remove", func() (todo.Outcome, error) {
		return c.store.Remove(ctx, id)
	})
}

// ClearCompleted deletes every completed task.
func (c *Controller) ClearCompleted(ctx context.Context) (todo.Outcome, error) {
	return c.do(ctx, "clear completed", func() (todo.Outcome, error) {
		return c.store.ClearCompleted(ctx)
	})
}

// SetFilter switches the active filter and renders.
// An unknown value returns an error wrapping task.ErrInvalidFilter and
// leaves the filter unchanged.
func (c *Controller) SetFilter(_ context.Context, value string) error {
	f, err := task.ParseFilter(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
	slog.Debug("filter changed", "filter", f)
	return c.render()
}

// Filter returns the active filter.
func (c *Controller) Filter() task.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Projection returns the listing under the active filter.
func (c *Controller) Projection() (view.Projection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return view.Project(c.store.Tasks(), c.filter)
}

// Refresh renders the current projection without changing anything.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render()
}

// Resolve turns a user reference into a task id.
//
// A reference is tried, in order, as an exact id, a 1-based position in
// the current listing, and a unique id prefix. Anything else is returned
// unchanged so the store treats it as an unknown id.
func (c *Controller) Resolve(ref string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks := c.store.Tasks()
	for _, t := range tasks {
		if t.ID == ref {
			return ref
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 {
		items, err := view.Select(tasks, c.filter)
		if err == nil && n <= len(items) {
			return items[n-1].ID
		}
	}
	if id, ok := c.store.Lookup(ref); ok {
		return id
	}
	return ref
}

// do runs op under the lock and renders afterwards, also when op was
// ignored. A failed write skips the render.
func (c *Controller) do(ctx context.Context, name string, op func() (todo.Outcome, error)) (todo.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return todo.Ignored, err
	}

	outcome, err := op()
	if err != nil {
		slog.Error("write failed", "op", name, "error", err)
		return outcome, fmt.Errorf("%s: %w", name, err)
	}
	slog.Debug("event processed", "op", name, "outcome", outcome)
	return outcome, c.render()
}

func (c *Controller) render() error {
	p, err := view.Project(c.store.Tasks(), c.filter)
	if err != nil {
		return err
	}
	if err := c.renderer.Render(p); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
