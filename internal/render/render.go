// Package render presents projections to a terminal or a pipe.
//
// ListRenderer prints the whole listing on every event. DiffRenderer keeps
// the listing it last printed and prints only the keyed changes, which is
// what the interactive shell uses.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/view"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Response is the JSON envelope for every machine-readable line of output.
type Response struct {
	Status string       `json:"status"`          // "ok" or "error"
	Data   any          `json:"data,omitempty"`  // success payload
	Error  *ErrorDetail `json:"error,omitempty"` // error details
}

// ErrorDetail describes a failure in a Response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// shortIDLen is how many id characters text output shows.
const shortIDLen = 8

// ShortID truncates an id for display.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

var titleEscaper = strings.NewReplacer("\\", `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// EscapeTitle keeps a title on one line.
func EscapeTitle(title string) string {
	return titleEscaper.Replace(title)
}

// Line formats one listing row: position, completion mark, title, short id.
func Line(pos int, t task.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("%3d. [%s] %s  (%s)", pos, mark, EscapeTitle(t.Title), ShortID(t.ID))
}

// Footer formats the summary line of a projection.
func Footer(p view.Projection) string {
	noun := "items"
	if p.Remaining == 1 {
		noun = "item"
	}
	s := fmt.Sprintf("%d %s left", p.Remaining, noun)
	if p.AnyCompleted {
		s += "; completed tasks can be cleared"
	}
	return s
}

func writeJSON(w io.Writer, data any) error {
	return json.NewEncoder(w).Encode(Response{Status: "ok", Data: data})
}
