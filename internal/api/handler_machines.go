package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"station-mods/internal/laundry"
	"station-mods/internal/model"
	"station-mods/internal/parse"
	"station-mods/internal/world"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type doorResponse struct {
	Open   bool `json:"open"`
	Locked bool `json:"locked"`
}

// machineResponse is everything a client shows for one machine.
type machineResponse struct {
	Label                string                 `json:"label"`
	Location             string                 `json:"location"`
	Deck                 int                    `json:"deck"`
	Seq                  int                    `json:"seq"`
	Position             [2]float64             `json:"position"`
	Door                 doorResponse           `json:"door"`
	DrumUnits            float64                `json:"drum_units"`
	TankUnits            float64                `json:"tank_units"`
	Contents             []string               `json:"contents"`
	View                 laundry.View           `json:"view"`
	TimeRemainingSeconds int                    `json:"time_remaining_seconds"`
	Status               []laundry.StatusLine   `json:"status"`
	Commands             []laundry.Command      `json:"commands"`
	Ambient              laundry.AmbientProfile `json:"ambient"`
}

type commandResponse struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message,omitempty"`
	Machine machineResponse `json:"machine"`
}

func resolveMachine(w *world.World, key string) (*world.Entity, error) {
	e, ok := w.Lookup(key)
	if !ok || e.Machine == nil {
		return nil, fmt.Errorf("machine %q: %w", key, world.ErrNotFound)
	}
	return e, nil
}

func describeMachine(w *world.World, e *world.Entity) machineResponse {
	v := e.Machine.View()
	resp := machineResponse{
		Label:                e.Label,
		Location:             e.Label,
		Position:             [2]float64{e.Pos.X(), e.Pos.Y()},
		Contents:             []string{},
		View:                 v,
		TimeRemainingSeconds: int(v.TimeRemaining.Seconds()),
		Status:               laundry.StatusLines(v),
		Commands:             laundry.Commands(v),
		Ambient:              laundry.Ambient(v),
	}
	if parsed, err := parse.ParseLabel(e.Label); err == nil {
		resp.Location, resp.Deck, resp.Seq = parsed.Location, parsed.Deck, parsed.Seq
	}
	if e.Storage != nil {
		resp.Door = doorResponse{Open: e.Storage.Open, Locked: e.Storage.Locked}
		for _, id := range e.Storage.Contents {
			resp.Contents = append(resp.Contents, w.Name(id))
		}
	}
	if drum, ok := w.Solution(e.ID, laundry.DrumSolution); ok {
		resp.DrumUnits = drum.Volume().Float()
	}
	if tank, ok := w.Solution(e.ID, laundry.TankSolution); ok {
		resp.TankUnits = tank.Volume().Float()
	}
	return resp
}

// ListMachines handles GET /api/machines.
func (h *Handler) ListMachines(c *gin.Context) {
	var machines []machineResponse
	err := h.do(c, func(w *world.World) error {
		for _, m := range w.Machines() {
			if e, ok := w.Get(m.Owner()); ok {
				machines = append(machines, describeMachine(w, e))
			}
		}
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	slices.SortFunc(machines, func(a, b machineResponse) int { return strings.Compare(a.Label, b.Label) })
	if machines == nil {
		machines = []machineResponse{}
	}
	c.JSON(http.StatusOK, machines)
}

// GetMachine handles GET /api/machines/:id. The ID is a label or an entity ID.
func (h *Handler) GetMachine(c *gin.Context) {
	id := c.Param("id")
	var resp machineResponse
	err := h.do(c, func(w *world.World) error {
		e, err := resolveMachine(w, id)
		if err != nil {
			return err
		}
		resp = describeMachine(w, e)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMachineHistory handles GET /api/machines/:id/history?limit=N.
func (h *Handler) GetMachineHistory(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is not being recorded"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit)})
			return
		}
		limit = n
	}

	// History is keyed by label. Entity IDs of live machines resolve to theirs; anything else is
	// taken as a label so destroyed machines stay queryable.
	id := c.Param("id")
	err := h.do(c, func(w *world.World) error {
		if e, err := resolveMachine(w, id); err == nil {
			id = e.Label
		}
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	history, err := h.store.History(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}
	events, err := h.store.Events(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	if history == nil {
		history = []model.MachineHistory{}
	}
	if events == nil {
		events = []model.MachineEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"machine": id, "history": history, "events": events})
}

type commandRequest struct {
	Command string `json:"command" binding:"required"`
}

// PostCommand handles POST /api/machines/:id/commands. Refused commands answer 409 with the
// machine's reason.
func (h *Handler) PostCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	cmd, err := laundry.ParseCommand(req.Command)
	if err != nil {
		resp := gin.H{"error": err.Error()}
		var unknown *laundry.UnknownCommandError
		if errors.As(err, &unknown) && unknown.Suggestion != "" {
			resp["suggestion"] = unknown.Suggestion
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	id := c.Param("id")
	var resp commandResponse
	err = h.do(c, func(w *world.World) error {
		e, err := resolveMachine(w, id)
		if err != nil {
			return err
		}
		fb := w.Laundry.Execute(e.ID, cmd)
		resp = commandResponse{OK: fb.OK, Message: fb.Message, Machine: describeMachine(w, e)}
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := http.StatusOK
	if !resp.OK {
		status = http.StatusConflict
	}
	c.JSON(status, resp)
}

type doorRequest struct {
	Open   *bool `json:"open" binding:"required"`
	Locked *bool `json:"locked"`
}

// PostDoor handles POST /api/machines/:id/door. Opening a running machine pauses it and
// drains the drum onto the floor.
func (h *Handler) PostDoor(c *gin.Context) {
	var req doorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id := c.Param("id")
	var resp machineResponse
	err := h.do(c, func(w *world.World) error {
		e, err := resolveMachine(w, id)
		if err != nil {
			return err
		}
		if req.Locked != nil {
			if err := w.SetLocked(e.ID, *req.Locked); err != nil {
				return err
			}
		}
		if err := w.SetDoor(e.ID, *req.Open); err != nil {
			return err
		}
		resp = describeMachine(w, e)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type refillRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// PostRefill handles POST /api/machines/:id/refill. The tank takes what fits.
func (h *Handler) PostRefill(c *gin.Context) {
	var req refillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
		return
	}

	id := c.Param("id")
	var added float64
	var resp machineResponse
	err := h.do(c, func(w *world.World) error {
		e, err := resolveMachine(w, id)
		if err != nil {
			return err
		}
		q, err := w.RefillTank(e.ID, req.Amount)
		if err != nil {
			return err
		}
		added = q.Float()
		resp = describeMachine(w, e)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "machine": resp})
}
