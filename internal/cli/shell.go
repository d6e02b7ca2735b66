package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/app"
	"github.com/roach88/todos/internal/render"
)

const shellHelp = `Commands:
  add <title>          add a task
  done <ref>           mark completed
  undo <ref>           mark not completed
  edit <ref> <title>   retitle (blank title cancels)
  rm <ref>             delete
  clear                delete completed tasks
  filter <name>        show all, active or completed
  list                 print the whole listing
  help                 show this help
  quit                 leave the shell`

// NewShellCommand creates the shell command.
func NewShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session",
		Long: `Read one command per line and apply it.

Each line is processed to completion before the next is read. After every
line only the changed rows are printed: + added, - removed, ~ changed,
> moved.

Example:
  printf 'add Buy milk\ndone 1\nclear\n' | todos shell`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(opts, cmd)
		},
	}
}

type shell struct {
	ctrl      *app.Controller
	out       io.Writer
	format    string
	formatter *OutputFormatter
}

func runShell(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	format := formatOf(opts)

	s, err := openSession(ctx, opts, render.NewDiffRenderer(out, format))
	if err != nil {
		return err
	}
	defer s.Close()

	sh := &shell{
		ctrl:   s.ctrl,
		out:    out,
		format: format,
		formatter: &OutputFormatter{
			Format:    format,
			Writer:    out,
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}

	if err := s.ctrl.Refresh(); err != nil {
		return commandError(err)
	}

	in := cmd.InOrStdin()
	prompt := format == render.FormatText && interactive(in)
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if sh.handle(ctx, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// handle processes one line and reports whether the session should end.
func (sh *shell) handle(ctx context.Context, line string) bool {
	verb, rest := splitWord(strings.TrimSpace(line))

	var err error
	switch verb {
	case "":
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
	case "list":
		err = sh.list()
	case "add":
		_, err = sh.ctrl.Add(ctx, rest)
	case "done", "undo":
		ref, _ := splitWord(rest)
		if ref == "" {
			err = NewExitError(ExitCommandError, fmt.Sprintf("usage: %s <ref>", verb))
			break
		}
		_, err = sh.ctrl.Toggle(ctx, sh.resolve(ref), verb == "done")
	case "edit":
		ref, title := splitWord(rest)
		if ref == "" {
			err = NewExitError(ExitCommandError, "usage: edit <ref> <title>")
			break
		}
		_, err = sh.ctrl.Edit(ctx, sh.resolve(ref), title)
	case "rm", "remove":
		ref, _ := splitWord(rest)
		if ref == "" {
			err = NewExitError(ExitCommandError, "usage: rm <ref>")
			break
		}
		_, err = sh.ctrl.Remove(ctx, sh.resolve(ref))
	case "clear":
		_, err = sh.ctrl.ClearCompleted(ctx)
	case "filter":
		err = sh.ctrl.SetFilter(ctx, strings.TrimSpace(rest))
	default:
		err = NewExitError(ExitCommandError, fmt.Sprintf("unknown command %q (try help)", verb))
	}

	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			err = commandError(err)
		}
		ReportError(sh.formatter, err)
	}
	return false
}

// resolve maps a ref to a task id, echoing the mapping in verbose mode.
func (sh *shell) resolve(ref string) string {
	id := sh.ctrl.Resolve(ref)
	if id != ref {
		sh.formatter.VerboseLog("%s -> %s", ref, id)
	}
	return id
}

func (sh *shell) list() error {
	p, err := sh.ctrl.Projection()
	if err != nil {
		return err
	}
	return render.NewListRenderer(sh.out, sh.format).Render(p)
}

// splitWord returns the first space-separated word of s and the rest with
// leading whitespace removed.
func splitWord(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
