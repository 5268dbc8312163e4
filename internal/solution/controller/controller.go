package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"veloj/internal/auth"
	"veloj/internal/solution/model"
	"veloj/internal/solution/repository"
	"veloj/internal/solution/service"
	errs "veloj/pkg/errors"
	"veloj/pkg/utils/response"
)

// Controller exposes solution operations over HTTP.
type Controller struct {
	service *service.Service
}

// NewController creates a solution controller.
func NewController(svc *service.Service) *Controller {
	return &Controller{service: svc}
}

// RegisterRoutes wires the solution routes under /api/v1. Every route runs
// behind the entry access middleware.
func (ctrl *Controller) RegisterRoutes(router gin.IRouter, entryAccess gin.HandlerFunc) {
	group := router.Group("/api/v1/solutions", entryAccess)
	group.GET("", ctrl.Get)
	group.GET("/list", ctrl.List)
	group.POST("/rejudge", ctrl.Rejudge)
	group.DELETE("", ctrl.Delete)
}

// Get handles GET /api/v1/solutions?entry=...&id=...
func (ctrl *Controller) Get(c *gin.Context) {
	entry := c.Query("entry")
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		response.BadRequest(c, "id is required")
		return
	}

	solution, err := ctrl.service.Get(c.Request.Context(), entry, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, solution)
}

// Rejudge handles POST /api/v1/solutions/rejudge?entry=...&id=...
// A successful call means the outcome is recorded on the solution, whether
// or not a task actually reached the queue.
func (ctrl *Controller) Rejudge(c *gin.Context) {
	identity, ok := auth.FromContext(c.Request.Context())
	if !ok {
		response.ErrorWithCode(c, errs.Unauthorized, "")
		return
	}
	entry := c.Query("entry")
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		response.BadRequest(c, "id is required")
		return
	}

	if err := ctrl.service.Rejudge(c.Request.Context(), identity, entry, id); err != nil {
		response.Error(c, err)
		return
	}
	response.End(c)
}

// Delete handles DELETE /api/v1/solutions?entry=...&id=...
func (ctrl *Controller) Delete(c *gin.Context) {
	identity, ok := auth.FromContext(c.Request.Context())
	if !ok {
		response.ErrorWithCode(c, errs.Unauthorized, "")
		return
	}
	entry := c.Query("entry")
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		response.BadRequest(c, "id is required")
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), identity, entry, id); err != nil {
		response.Error(c, err)
		return
	}
	response.End(c)
}

// List handles GET /api/v1/solutions/list with optional filters:
// problem, status, min_score, max_score, before, after, creator,
// sort_by (id|updated|score), order (asc|desc), page, page_size.
func (ctrl *Controller) List(c *gin.Context) {
	entry := c.Query("entry")

	query, page, pageSize, err := parseListQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := ctrl.service.List(c.Request.Context(), entry, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, result.Solutions, result.Total, page, pageSize)
}

func parseListQuery(c *gin.Context) (repository.ListQuery, int, int, error) {
	var query repository.ListQuery

	query.Problem = strings.TrimSpace(c.Query("problem"))
	query.Creator = strings.TrimSpace(c.Query("creator"))
	query.SortBy = strings.TrimSpace(c.Query("sort_by"))
	query.Descending = strings.EqualFold(c.Query("order"), "desc")

	if raw := c.Query("status"); raw != "" {
		status, err := model.ParseStatus(raw)
		if err != nil {
			return query, 0, 0, errs.New(errs.InvalidStatusFilter).WithDetail("status", raw)
		}
		query.Status = status
	}

	if raw := c.Query("min_score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return query, 0, 0, errs.ValidationError("min_score", "must be an integer")
		}
		query.MinScore = &score
	}
	if raw := c.Query("max_score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return query, 0, 0, errs.ValidationError("max_score", "must be an integer")
		}
		query.MaxScore = &score
	}

	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return query, 0, 0, errs.ValidationError("before", "must be an RFC 3339 timestamp")
		}
		query.Before = &t
	}
	if raw := c.Query("after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return query, 0, 0, errs.ValidationError("after", "must be an RFC 3339 timestamp")
		}
		query.After = &t
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return query, 0, 0, errs.ValidationError("page", "must be a positive integer")
		}
		page = n
	}
	pageSize := 20
	if raw := c.Query("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return query, 0, 0, errs.ValidationError("page_size", "must be a positive integer")
		}
		pageSize = n
	}

	query.Limit = pageSize
	query.Offset = (page - 1) * pageSize
	return query, page, pageSize, nil
}
