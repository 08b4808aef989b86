package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kubev2v/xo-harness/internal/services"
	"github.com/kubev2v/xo-harness/internal/store"
)

// Session is the part of an xo connection exposed over HTTP.
type Session interface {
	Objects() *store.Store
	WaitObjectState(ctx context.Context, id string, predicate services.Predicate) error
	TempResources() int
	DeleteTempResources(ctx context.Context) int
}

type Handler struct {
	session Session
}

func New(session Session) *Handler {
	return &Handler{session: session}
}

// RegisterHandlers mounts the routes of h on router.
func RegisterHandlers(router gin.IRouter, h *Handler) {
	router.GET("/objects", h.ListObjects)
	router.GET("/objects/:id", h.GetObject)
	router.GET("/objects/:id/wait", h.WaitObject)
	router.GET("/resources", h.GetResources)
	router.DELETE("/resources", h.DeleteResources)
}
