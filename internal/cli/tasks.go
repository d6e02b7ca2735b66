package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/app"
	"github.com/roach88/todos/internal/render"
	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/todo"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Filter string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show tasks",
		Long: `Show tasks newest first, with the number of incomplete tasks.

Examples:
  todos list
  todos list --filter active
  todos list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", string(task.FilterAll), "which tasks to show (all|active|completed)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	if _, err := task.ParseFilter(opts.Filter); err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	ctx := commandContext(cmd)
	s, err := openSession(ctx, opts.RootOptions, newListRenderer(cmd, opts.RootOptions))
	if err != nil {
		return err
	}
	defer s.Close()

	return commandError(s.ctrl.SetFilter(ctx, opts.Filter))
}

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Long: `Add a task to the top of the list.

Surrounding whitespace is trimmed; a blank title adds nothing.

Example:
  todos add Buy milk`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return mutate(cmd, opts, func(ctx context.Context, ctrl *app.Controller) (todo.Outcome, error) {
				return ctrl.Add(ctx, title)
			})
		},
	}
}

// NewDoneCommand creates the done command.
func NewDoneCommand(opts *RootOptions) *cobra.Command {
	return newToggleCommand(opts, "done", "Mark a task completed", true)
}

// NewUndoCommand creates the undo command.
func NewUndoCommand(opts *RootOptions) *cobra.Command {
	return newToggleCommand(opts, "undo", "Mark a task not completed", false)
}

func newToggleCommand(opts *RootOptions, name, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:           name + " <ref>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, opts, func(ctx context.Context, ctrl *app.Controller) (todo.Outcome, error) {
				return ctrl.Toggle(ctx, ctrl.Resolve(args[0]), completed)
			})
		},
	}
}

// NewEditCommand creates the edit command.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <ref> <title...>",
		Short: "Retitle a task",
		Long: `Replace a task's title.

A blank title cancels the edit and keeps the old title.

Example:
  todos edit 1 Buy oat milk`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			return mutate(cmd, opts, func(ctx context.Context, ctrl *app.Controller) (todo.Outcome, error) {
				return ctrl.Edit(ctx, ctrl.Resolve(args[0]), title)
			})
		},
	}
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <ref>",
		Aliases:       []string{"remove"},
		Short:         "Delete a task",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, opts, func(ctx context.Context, ctrl *app.Controller) (todo.Outcome, error) {
				return ctrl.Remove(ctx, ctrl.Resolve(args[0]))
			})
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Delete every completed task",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, opts, func(ctx context.Context, ctrl *app.Controller) (todo.Outcome, error) {
				return ctrl.ClearCompleted(ctx)
			})
		},
	}
}

func newListRenderer(cmd *cobra.Command, opts *RootOptions) *render.ListRenderer {
	return render.NewListRenderer(cmd.OutOrStdout(), formatOf(opts))
}

// formatOf defaults an unset format to text, for commands built without
// the root command.
func formatOf(opts *RootOptions) string {
	if opts.Format == "" {
		return render.FormatText
	}
	return opts.Format
}
