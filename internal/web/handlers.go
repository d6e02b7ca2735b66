package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/todo"
)

// OutcomeHeader reports whether a mutation was applied or ignored.
const OutcomeHeader = "X-Todos-Outcome"

// StatusClientClosedRequest is sent when the request context ended before
// the mutation ran. The client is usually gone by then.
const StatusClientClosedRequest = 499

type createRequest struct {
	Title string `json:"title"`
}

type updateRequest struct {
	Completed *bool   `json:"completed"`
	Title     *string `json:"title"`
}

type filterRequest struct {
	Filter string `json:"filter"`
}

func (s *Server) handleList(c *gin.Context) {
	s.writeProjection(c)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := s.ctrl.Add(c.Request.Context(), req.Title)
	s.respond(c, out, err)
}

func (s *Server) handleUpdate(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Completed == nil && req.Title == nil {
		badRequest(c, "nothing to update: expected completed or title")
		return
	}

	out, err := s.ctrl.Update(c.Request.Context(), c.Param("id"), todo.Change{
		Completed: req.Completed,
		Title:     req.Title,
	})
	s.respond(c, out, err)
}

func (s *Server) handleDelete(c *gin.Context) {
	out, err := s.ctrl.Remove(c.Request.Context(), c.Param("id"))
	s.respond(c, out, err)
}

func (s *Server) handleClearCompleted(c *gin.Context) {
	out, err := s.ctrl.ClearCompleted(c.Request.Context())
	s.respond(c, out, err)
}

func (s *Server) handleSetFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.ctrl.SetFilter(c.Request.Context(), req.Filter); err != nil {
		if errors.Is(err, task.ErrInvalidFilter) {
			badRequest(c, err.Error())
			return
		}
		serverError(c, err)
		return
	}
	s.writeProjection(c)
}

// respond writes the projection after a mutation, a 499 if the request
// was canceled, or a 500 if the write failed.
func (s *Server) respond(c *gin.Context, out todo.Outcome, opErr error) {
	if canceled(opErr) {
		c.JSON(StatusClientClosedRequest, gin.H{"error": opErr.Error()})
		return
	}
	if opErr != nil {
		serverError(c, opErr)
		return
	}
	c.Header(OutcomeHeader, out.String())
	s.writeProjection(c)
}

func (s *Server) writeProjection(c *gin.Context) {
	p, err := s.ctrl.Projection()
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
