package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/app"
	"github.com/roach88/todos/internal/config"
	"github.com/roach88/todos/internal/persist"
	"github.com/roach88/todos/internal/store"
	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/todo"
)

// session is one opened database with a controller on top.
type session struct {
	store *store.Store
	ctrl  *app.Controller
}

// openSession opens the database named by opts and wires the controller
// to renderer.
func openSession(ctx context.Context, opts *RootOptions, renderer app.Renderer) (*session, error) {
	path := opts.DB
	if path == "" {
		path = config.DefaultDBPath()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
		}
	}

	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	tasks := todo.Open(ctx, persist.New(st))
	return &session{
		store: st,
		ctrl:  app.New(tasks, renderer),
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// commandError maps a controller error to an exit code.
func commandError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, task.ErrInvalidFilter) {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "interrupted", err)
	}
	return WrapExitError(ExitFailure, "failed to save tasks", err)
}

// mutate opens a session that prints every projection in the configured
// format, runs fn and maps its error.
func mutate(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, ctrl *app.Controller) (todo.Outcome, error)) error {
	ctx := commandContext(cmd)
	s, err := openSession(ctx, opts, newListRenderer(cmd, opts))
	if err != nil {
		return err
	}
	defer s.Close()

	out, err := fn(ctx, s.ctrl)
	if err != nil {
		return commandError(err)
	}
	slog.Debug("command finished", "command", cmd.Name(), "outcome", out)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
