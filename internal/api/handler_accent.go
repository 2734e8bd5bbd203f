package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"station-mods/internal/world"
)

type accentRequest struct {
	Message   string `json:"message" binding:"required"`
	Accent    string `json:"accent"`
	Forgetful bool   `json:"forgetful"`
	Speaker   string `json:"speaker"`
}

var errUnknownAccent = fmt.Errorf("unknown accent")

// PostAccent handles POST /api/accent. With a speaker the message is said by that entity;
// otherwise the named accent is applied directly.
func (h *Handler) PostAccent(c *gin.Context) {
	var req accentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var said string
	err := h.do(c, func(w *world.World) error {
		if req.Speaker != "" {
			e, ok := w.Lookup(req.Speaker)
			if !ok {
				return fmt.Errorf("speaker %q: %w", req.Speaker, world.ErrNotFound)
			}
			said = w.Speech.Accentuate(e.ID, req.Message)
			return nil
		}
		accents := w.Speech.Accents()
		if req.Accent != "" && !accents.Has(req.Accent) {
			return errUnknownAccent
		}
		said = accents.Apply(req.Message, req.Accent, req.Forgetful)
		return nil
	})
	if err == errUnknownAccent {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown accent %q", req.Accent)})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": said})
}
