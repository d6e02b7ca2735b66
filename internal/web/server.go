// Package web exposes the controller over a JSON HTTP API.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roach88/todos/internal/app"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP surface over a Controller.
type Server struct {
	ctrl   *app.Controller
	router *gin.Engine
}

// NewServer creates a server routing requests to ctrl.
func NewServer(ctrl *app.Controller) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		ctrl:   ctrl,
		router: router,
	}

	api := router.Group("/api")
	{
		api.GET("/todos", s.handleList)
		api.POST("/todos", s.handleCreate)
		api.POST("/todos/clear-completed", s.handleClearCompleted)
		api.PATCH("/todos/:id", s.handleUpdate)
		api.DELETE("/todos/:id", s.handleDelete)
		api.PUT("/filter", s.handleSetFilter)
	}

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
