package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/app"
	"github.com/roach88/todos/internal/config"
	"github.com/roach88/todos/internal/view"
	"github.com/roach88/todos/internal/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ListenAddr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list over HTTP",
		Long: `Serve a JSON API over the task list until interrupted.

Routes:
  GET    /api/todos
  POST   /api/todos                   {"title": "..."}
  PATCH  /api/todos/:id               {"completed": true, "title": "..."}  (one write)
  DELETE /api/todos/:id
  POST   /api/todos/clear-completed
  PUT    /api/filter                  {"filter": "active"}

Example:
  todos serve --addr 127.0.0.1:8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ListenAddr, "addr", "", "listen address (default from config, else "+config.DefaultAddr+")")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	addr := opts.ListenAddr
	if addr == "" {
		addr = opts.Addr
	}
	if addr == "" {
		addr = config.DefaultAddr
	}

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	s, err := openSession(ctx, opts.RootOptions, app.RendererFunc(logProjection))
	if err != nil {
		return err
	}
	defer s.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := web.NewServer(s.ctrl).Run(ctx, addr); err != nil {
		return WrapExitError(ExitFailure, "http server failed", err)
	}
	return nil
}

// logProjection is the serve renderer: clients fetch projections over HTTP,
// so each event is only logged.
func logProjection(p view.Projection) error {
	slog.Debug("projection updated",
		"filter", p.Filter,
		"items", len(p.Items),
		"remaining", p.Remaining,
		"any_completed", p.AnyCompleted,
	)
	return nil
}
