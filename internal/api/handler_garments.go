package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"station-mods/internal/laundry"
	"station-mods/internal/world"
)

type reagentResponse struct {
	Reagent string  `json:"reagent"`
	Units   float64 `json:"units"`
}

type garmentResponse struct {
	Label    string               `json:"label"`
	Inside   string               `json:"inside,omitempty"`
	Wetness  laundry.Wetness      `json:"wetness"`
	Dripping bool                 `json:"dripping"`
	Volume   float64              `json:"volume"`
	Capacity float64              `json:"capacity"`
	Contents []reagentResponse    `json:"contents"`
	Status   []laundry.StatusLine `json:"status"`
}

// GetGarment handles GET /api/garments/:id.
func (h *Handler) GetGarment(c *gin.Context) {
	id := c.Param("id")
	var resp garmentResponse
	err := h.do(c, func(w *world.World) error {
		e, ok := w.Lookup(id)
		if !ok || e.Washable == nil {
			return fmt.Errorf("garment %q: %w", id, world.ErrNotFound)
		}
		v := w.Laundry.WashableView(e.Washable)
		resp = garmentResponse{
			Label:    e.Label,
			Wetness:  v.Wetness,
			Dripping: v.Dripping,
			Volume:   v.Volume.Float(),
			Capacity: v.Capacity.Float(),
			Contents: make([]reagentResponse, 0, len(v.Contents)),
			Status:   laundry.WashableStatusLines(v),
		}
		for _, rq := range v.Contents {
			resp.Contents = append(resp.Contents, reagentResponse{Reagent: string(rq.Reagent), Units: rq.Quantity.Float()})
		}
		if holder, ok := w.ContainingStorage(e.ID); ok {
			resp.Inside = w.Name(holder)
		}
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
