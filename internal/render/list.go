package render

import (
	"fmt"
	"io"

	"github.com/roach88/todos/internal/view"
)

// ListRenderer prints the full projection on every call.
type ListRenderer struct {
	W      io.Writer
	Format string // FormatText (default) or FormatJSON
}

// NewListRenderer creates a ListRenderer writing to w.
func NewListRenderer(w io.Writer, format string) *ListRenderer {
	return &ListRenderer{W: w, Format: format}
}

// Render writes p.
func (r *ListRenderer) Render(p view.Projection) error {
	if r.Format == FormatJSON {
		return writeJSON(r.W, p)
	}

	if _, err := fmt.Fprintf(r.W, "Filter: %s\n", p.Filter); err != nil {
		return err
	}
	if len(p.Items) == 0 {
		fmt.Fprintln(r.W, "  (nothing to show)")
	}
	for i, t := range p.Items {
		fmt.Fprintln(r.W, Line(i+1, t))
	}
	_, err := fmt.Fprintln(r.W, Footer(p))
	return err
}
