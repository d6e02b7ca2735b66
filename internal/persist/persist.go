// Package persist saves and loads the task collection to a durable slot.
//
// The slot is an external boundary: its contents can be edited or corrupted
// outside the program. Load therefore never fails; it coerces whatever it
// finds into a valid collection or starts empty.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/todos/internal/idgen"
	"github.com/roach88/todos/internal/store"
	"github.com/roach88/todos/internal/task"
)

// SlotKey is the fixed, versioned key the collection is stored under.
const SlotKey = "simple-todos-v1"

// Slot is a durable key-value slot.
// Get returns an error wrapping store.ErrNotFound for an absent key.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Adapter serializes the task collection to a single slot.
type Adapter struct {
	slot  Slot
	key   string
	ids   idgen.Generator
	clock task.Clock
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey overrides SlotKey.
func WithKey(key string) Option {
	return func(a *Adapter) { a.key = key }
}

// WithIDs sets the generator used to replace missing or invalid ids.
func WithIDs(ids idgen.Generator) Option {
	return func(a *Adapter) { a.ids = ids }
}

// WithClock sets the clock used to default a missing createdAt.
func WithClock(clock task.Clock) Option {
	return func(a *Adapter) { a.clock = clock }
}

// New creates an Adapter over slot.
func New(slot Slot, opts ...Option) *Adapter {
	a := &Adapter{
		slot:  slot,
		key:   SlotKey,
		ids:   idgen.UUIDGenerator{},
		clock: task.SystemClock{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save writes the full collection, replacing the slot's prior contents.
// Write failures are returned to the caller; there is no local recovery.
func (a *Adapter) Save(ctx context.Context, tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	if err := a.slot.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	slog.Debug("tasks saved", "key", a.key, "count", len(tasks), "bytes", len(data))
	return nil
}

// Load reads the slot and returns the stored collection.
//
// An absent, unreadable or malformed slot yields an empty collection.
// Load never returns an error.
func (a *Adapter) Load(ctx context.Context) []task.Task {
	data, err := a.slot.Get(ctx, a.key)
	if errors.Is(err, store.ErrNotFound) {
		slog.Debug("no stored tasks, starting empty", "key", a.key)
		return []task.Task{}
	}
	if err != nil {
		slog.Warn("stored tasks unreadable, starting empty", "key", a.key, "error", err)
		return []task.Task{}
	}

	tasks, err := a.Decode(data)
	if err != nil {
		slog.Warn("stored tasks corrupt, starting empty", "key", a.key, "error", err)
		return []task.Task{}
	}
	slog.Debug("tasks loaded", "key", a.key, "count", len(tasks))
	return tasks
}

// Encode renders tasks in the persisted layout: a JSON array of objects with
// exactly the fields id, title, completed and createdAt.
// A nil or empty collection encodes as [].
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return json.Marshal(tasks)
}

// Decode parses a persisted payload, coercing each element defensively.
// Returns an error only if the payload is not a JSON array.
func (a *Adapter) Decode(data []byte) ([]task.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []task.Task{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse stored tasks: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse stored tasks: trailing data after array")
	}

	elems, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("parse stored tasks: expected array, got %s", kindOf(raw))
	}

	tasks := make([]task.Task, 0, len(elems))
	seen := make(map[string]bool, len(elems))
	for i, elem := range elems {
		obj, ok := elem.(map[string]any)
		if !ok {
			if truthy(elem) {
				slog.Warn("dropping non-object stored task", "index", i, "kind", kindOf(elem))
			}
			continue
		}

		t := a.coerce(obj)
		if seen[t.ID] {
			dup := t.ID
			t.ID = a.ids.Generate()
			slog.Warn("regenerated duplicate task id", "index", i, "id", dup, "new_id", t.ID)
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// coerce builds a Task from a stored object.
// Missing or invalid fields are defaulted rather than rejected.
func (a *Adapter) coerce(obj map[string]any) task.Task {
	id, ok := scalarString(obj["id"])
	if !ok {
		id = a.ids.Generate()
	}

	title, _ := scalarString(obj["title"])

	createdAt, ok := millis(obj["createdAt"])
	if !ok {
		createdAt = a.clock.NowMillis()
	}

	return task.Task{
		ID:        id,
		Title:     title,
		Completed: truthy(obj["completed"]),
		CreatedAt: createdAt,
	}
}
