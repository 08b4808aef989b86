package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/xo-harness/api/v1"
	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/services"
	srvErrors "github.com/kubev2v/xo-harness/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListObjects returns the cached objects sorted by id, with filtering and pagination
// (GET /objects)
func (h *Handler) ListObjects(c *gin.Context) {
	var params v1.ObjectListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
		return
	}

	page := 1
	if params.Page > 0 {
		page = params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize > 0 {
		pageSize = min(params.PageSize, maxPageSize)
	}

	all := h.session.Objects().All()
	ids := make([]string, 0, len(all))
	for id, obj := range all {
		if params.Type != "" && obj.Type() != params.Type {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	objects := make([]models.Object, 0, len(ids))
	for _, id := range ids {
		objects = append(objects, all[id])
	}

	total := len(objects)
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	// compared by division so that a huge page cannot overflow
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := min(start+pageSize, total)

	c.JSON(http.StatusOK, v1.ObjectListResponse{
		Objects:   objects[start:end],
		Page:      page,
		PageCount: pageCount,
		Total:     total,
	})
}

// GetObject returns one cached object
// (GET /objects/:id)
func (h *Handler) GetObject(c *gin.Context) {
	id := c.Param("id")
	obj, found := h.session.Objects().Get(id)
	if !found {
		c.JSON(http.StatusNotFound, v1.ErrorResponse{Error: srvErrors.NewObjectNotFoundError(id).Error()})
		return
	}
	c.JSON(http.StatusOK, obj)
}

// WaitObject blocks until the object reaches the requested state
// (GET /objects/:id/wait)
func (h *Handler) WaitObject(c *gin.Context) {
	id := c.Param("id")

	var params v1.WaitParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
		return
	}
	predicate, err := services.ParsePredicate(params.Field, params.Type, params.Absent)
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if params.Timeout != "" {
		timeout, err := time.ParseDuration(params.Timeout)
		if err != nil || timeout <= 0 {
			c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "invalid timeout " + params.Timeout})
			return
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var accepted models.Object
	capture := func(obj models.Object) error {
		if err := predicate(obj); err != nil {
			return err
		}
		accepted = obj
		return nil
	}

	if err := h.session.WaitObjectState(ctx, id, capture); err != nil {
		zap.S().Named("objects_handler").Debugw("wait ended", "id", id, "error", err)
		c.JSON(http.StatusRequestTimeout, v1.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, v1.WaitResponse{ID: id, Object: accepted})
}
