package render

import (
	"fmt"
	"io"

	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/view"
)

// Update is the JSON payload DiffRenderer emits per event.
type Update struct {
	Filter       task.Filter   `json:"filter"`
	Changes      []view.Change `json:"changes"`
	Remaining    int           `json:"remaining"`
	AnyCompleted bool          `json:"anyCompleted"`
}

// DiffRenderer prints only what changed since the previous call.
//
// It holds the listing it last displayed and reconciles it against each new
// projection with view.Diff. The first call prints every item as an insert.
type DiffRenderer struct {
	W      io.Writer
	Format string

	shown  []task.Task
	filter task.Filter
	footer string
}

// NewDiffRenderer creates a DiffRenderer writing to w.
func NewDiffRenderer(w io.Writer, format string) *DiffRenderer {
	return &DiffRenderer{W: w, Format: format}
}

// Shown returns the listing as currently displayed.
func (r *DiffRenderer) Shown() []task.Task {
	out := make([]task.Task, len(r.shown))
	copy(out, r.shown)
	return out
}

// Render prints the changes from the displayed listing to p.
func (r *DiffRenderer) Render(p view.Projection) error {
	changes := view.Diff(r.shown, p.Items)
	filterChanged := p.Filter != r.filter
	footer := Footer(p)
	footerChanged := footer != r.footer

	r.shown = view.Apply(r.shown, changes)
	r.filter = p.Filter
	r.footer = footer

	if r.Format == FormatJSON {
		if changes == nil {
			changes = []view.Change{}
		}
		return writeJSON(r.W, Update{
			Filter:       p.Filter,
			Changes:      changes,
			Remaining:    p.Remaining,
			AnyCompleted: p.AnyCompleted,
		})
	}

	if filterChanged {
		fmt.Fprintf(r.W, "Filter: %s\n", p.Filter)
	}
	for _, c := range changes {
		fmt.Fprintln(r.W, changeLine(c))
	}
	if len(changes) == 0 && !filterChanged && !footerChanged {
		_, err := fmt.Fprintln(r.W, "(no change)")
		return err
	}
	if footerChanged || filterChanged {
		_, err := fmt.Fprintln(r.W, footer)
		return err
	}
	return nil
}

func changeLine(c view.Change) string {
	switch c.Kind {
	case view.ChangeRemove:
		return fmt.Sprintf("-         %s  (%s)", EscapeTitle(c.Task.Title), ShortID(c.ID))
	case view.ChangeInsert:
		return "+" + Line(c.Index+1, c.Task)
	case view.ChangeMove:
		return ">" + Line(c.Index+1, c.Task)
	default:
		return "~" + Line(c.Index+1, c.Task)
	}
}
