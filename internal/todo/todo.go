// Package todo owns the authoritative task collection.
//
// Every mutating operation either applies and writes the whole collection
// through the Persister, or is ignored with no mutation and no write.
// "Not found" and "empty title" are ignored outcomes, never errors; the only
// error a mutation returns is a failed persistence write.
package todo

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/todos/internal/idgen"
	"github.com/roach88/todos/internal/task"
)

// Outcome reports whether an operation changed the collection.
type Outcome int

const (
	// Ignored means the operation was a documented no-op: nothing changed
	// and nothing was written.
	Ignored Outcome = iota
	// Applied means the collection changed and a write was attempted.
	Applied
)

func (o Outcome) String() string {
	if o == Applied {
		return "applied"
	}
	return "ignored"
}

// Persister saves and loads the whole collection.
type Persister interface {
	Save(ctx context.Context, tasks []task.Task) error
	Load(ctx context.Context) []task.Task
}

// MinPrefixLen is the shortest id prefix Lookup accepts.
const MinPrefixLen = 6

// Store holds the task collection, newest first.
//
// Store is not safe for concurrent use; callers serialize access
// (see app.Controller).
type Store struct {
	tasks   []task.Task
	persist Persister
	ids     idgen.Generator
	clock   task.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithIDs sets the id generator for new tasks.
func WithIDs(ids idgen.Generator) Option {
	return func(s *Store) { s.ids = ids }
}

// WithClock sets the clock for createdAt.
func WithClock(clock task.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// Open creates a Store and loads the collection once from p.
func Open(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		persist: p,
		ids:     idgen.UUIDGenerator{},
		clock:   task.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = p.Load(ctx)
	if s.tasks == nil {
		s.tasks = []task.Task{}
	}
	return s
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Add prepends a new incomplete task with the trimmed title.
// An empty or whitespace-only title is ignored.
func (s *Store) Add(ctx context.Context, rawTitle string) (Outcome, error) {
	title := cleanTitle(rawTitle)
	if title == "" {
		slog.Debug("add ignored: empty title")
		return Ignored, nil
	}

	t := task.Task{
		ID:        s.freshID(),
		Title:     title,
		Completed: false,
		CreatedAt: s.clock.NowMillis(),
	}
	s.tasks = append([]task.Task{t}, s.tasks...)
	slog.Debug("task added", "id", t.ID)
	return Applied, s.save(ctx)
}

// Toggle sets the completed flag of the task with the given id.
// An unknown id is ignored.
func (s *Store) Toggle(ctx context.Context, id string, completed bool) (Outcome, error) {
	i := s.index(id)
	if i < 0 {
		slog.Debug("toggle ignored: unknown id", "id", id)
		return Ignored, nil
	}
	s.tasks[i].Completed = completed
	slog.Debug("task toggled", "id", id, "completed", completed)
	return Applied, s.save(ctx)
}

// Edit replaces the title of the task with the given id.
// An empty or whitespace-only title cancels the edit; an unknown id is
// ignored.
func (s *Store) Edit(ctx context.Context, id, rawTitle string) (Outcome, error) {
	title := cleanTitle(rawTitle)
	if title == "" {
		slog.Debug("edit ignored: empty title", "id", id)
		return Ignored, nil
	}
	i := s.index(id)
	if i < 0 {
		slog.Debug("edit ignored: unknown id", "id", id)
		return Ignored, nil
	}
	s.tasks[i].Title = title
	slog.Debug("task edited", "id", id)
	return Applied, s.save(ctx)
}

// Change is a partial update for Update. Nil fields are left alone.
type Change struct {
	Completed *bool
	Title     *string
}

// Update applies every field set in ch to the task with the given id and
// writes once. A blank title is dropped as in Edit. An unknown id, or a
// change with nothing left to apply, is ignored.
func (s *Store) Update(ctx context.Context, id string, ch Change) (Outcome, error) {
	title := ""
	if ch.Title != nil {
		title = cleanTitle(*ch.Title)
	}
	if ch.Completed == nil && title == "" {
		slog.Debug("update ignored: nothing to apply", "id", id)
		return Ignored, nil
	}
	i := s.index(id)
	if i < 0 {
		slog.Debug("update ignored: unknown id", "id", id)
		return Ignored, nil
	}
	if ch.Completed != nil {
		s.tasks[i].Completed = *ch.Completed
	}
	if title != "" {
		s.tasks[i].Title = title
	}
	slog.Debug("task updated", "id", id)
	return Applied, s.save(ctx)
}

// Remove deletes the task with the given id, keeping the order of the rest.
// An unknown id is ignored.
func (s *Store) Remove(ctx context.Context, id string) (Outcome, error) {
	i := s.index(id)
	if i < 0 {
		slog.Debug("remove ignored: unknown id", "id", id)
		return Ignored, nil
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	slog.Debug("task removed", "id", id)
	return Applied, s.save(ctx)
}

// ClearCompleted removes every completed task in one step.
// If no task is completed, nothing is written.
func (s *Store) ClearCompleted(ctx context.Context) (Outcome, error) {
	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.tasks) {
		slog.Debug("clear completed ignored: nothing completed")
		return Ignored, nil
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	slog.Debug("completed tasks cleared", "removed", removed)
	return Applied, s.save(ctx)
}

// Lookup resolves a task reference to an id.
// It accepts an exact id or an id prefix of at least MinPrefixLen
// characters that matches exactly one task.
func (s *Store) Lookup(ref string) (string, bool) {
	if s.index(ref) >= 0 {
		return ref, true
	}
	if len(ref) < MinPrefixLen {
		return "", false
	}
	match := ""
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", false
			}
			match = t.ID
		}
	}
	return match, match != ""
}

// freshID draws ids until one is not already in the collection. Loaded
// records keep their stored ids, which a generator knows nothing about.
func (s *Store) freshID() string {
	for {
		id := s.ids.Generate()
		if s.index(id) < 0 {
			return id
		}
		slog.Debug("generated id already in use", "id", id)
	}
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// save writes the collection. On failure the in-memory change stands; the
// next successful save writes it out.
func (s *Store) save(ctx context.Context) error {
	return s.persist.Save(ctx, s.tasks)
}

// cleanTitle trims surrounding whitespace and NFC-normalizes the result.
// Invalid UTF-8 becomes U+FFFD, as it would once the title is stored.
func cleanTitle(raw string) string {
	return norm.NFC.String(strings.TrimSpace(strings.ToValidUTF8(raw, "\uFFFD")))
}
