package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/config"
	"github.com/roach88/todos/internal/render"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DB         string
	Format     string // "json" | "text"
	Verbose    bool

	// Addr is the serve address from the config file.
	Addr string
}

// NewRootCommand creates the root command for the todos CLI.
func NewRootCommand() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *RootOptions) {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "todos",
		Short: "todos - a small persistent task list",
		Long: `A task list kept in a local SQLite file.

Tasks are listed newest first. Commands that take a <ref> accept a task
id, a 1-based position in the current listing, or a unique id prefix of at
least 6 characters, tried in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/todos/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", render.FormatText, "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewDoneCommand(opts))
	cmd.AddCommand(NewUndoCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd, opts
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stderr, or on stdout as JSON with --format json.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd, opts := newRoot()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format := opts.Format
	if !render.ValidFormat(format) {
		format = render.FormatText
	}
	return ReportError(&OutputFormatter{
		Format:    format,
		Writer:    stdout,
		ErrWriter: stderr,
		Verbose:   opts.Verbose,
	}, err)
}

// resolve merges the config file under the flags, validates the result and
// configures logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if !flagChanged(cmd, "db") {
		o.DB = cfg.DB
	}
	if !flagChanged(cmd, "format") {
		o.Format = cfg.Format
	}
	if !flagChanged(cmd, "verbose") {
		o.Verbose = cfg.Verbose
	}
	o.Addr = cfg.Serve.Addr

	if !render.ValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, render.Formats))
	}

	setupLogging(cmd.ErrOrStderr(), o.Verbose)
	return nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// setupLogging installs a text slog handler on w; verbose enables debug.
func setupLogging(w io.Writer, verbose bool) {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
