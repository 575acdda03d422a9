package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/domain"
	"taskboard/internal/validation"

	"github.com/gin-gonic/gin"
)

// ListTasks serves GET /tasks. Query params: status, sort_by, sort_order,
// limit, offset. Responses for identical normalized options come from the
// listing cache when Redis is around.
func (h *Handler) ListTasks(c *gin.Context) {
	raw := domain.ListOptions{
		StatusFilter: c.Query("status"),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}

	var bad bool
	raw.Limit, bad = intQuery(c, "limit", 1, bad)
	raw.Offset, bad = intQuery(c, "offset", 0, bad)

	opts, err := h.Tasks.NormalizeOptions(raw)
	if bad || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list options"})
		return
	}

	ctx := c.Request.Context()
	res, err := h.Listing.GetOrLoad(ctx, opts, func(ctx context.Context) (*domain.ListResult, error) {
		return h.Tasks.List(ctx, opts)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var in validation.CreateInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	draft, ferrs := h.Validator.ValidateCreate(in)
	if ferrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": ferrs})
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), *draft)
	if err != nil {
		if errors.Is(err, domain.ErrLimitExceeded) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "task limit reached, delete a task before creating another"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var in validation.UpdateInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	patch, ferrs := h.Validator.ValidateUpdate(in)
	if ferrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": ferrs})
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), c.Param("id"), *patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	err := h.Tasks.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// intQuery parses an optional integer query param, rejecting values below
// min. Absent params return 0 so defaults apply downstream. The bad flag
// accumulates across calls.
func intQuery(c *gin.Context, name string, min int, bad bool) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, bad
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return 0, true
	}
	return n, bad
}
