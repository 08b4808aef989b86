package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/xo-harness/api/v1"
)

// GetResources returns the number of temporary resources waiting for cleanup
// (GET /resources)
func (h *Handler) GetResources(c *gin.Context) {
	c.JSON(http.StatusOK, v1.ResourcesResponse{Pending: h.session.TempResources()})
}

// DeleteResources deletes the temporary resources, newest first
// (DELETE /resources)
func (h *Handler) DeleteResources(c *gin.Context) {
	failures := h.session.DeleteTempResources(c.Request.Context())
	if failures > 0 {
		zap.S().Named("resources_handler").Warnw("some temporary resources were not deleted", "failures", failures)
	}
	c.JSON(http.StatusOK, v1.CleanupResponse{Failures: failures})
}
