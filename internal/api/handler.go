package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"station-mods/internal/store"
	"station-mods/internal/world"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	world   *world.World
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, w *world.World, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		world:   w,
		webpush: webpushOptions,
	}
}

// do runs fn on the world goroutine for the lifetime of the request.
func (h *Handler) do(c *gin.Context, fn func(w *world.World) error) error {
	return h.world.Do(c.Request.Context(), fn)
}

// abortWithError maps world errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, world.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "station is not responding"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
