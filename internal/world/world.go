package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"station-mods/internal/accent"
	"station-mods/internal/atmos"
	"station-mods/internal/chem"
	"station-mods/internal/cocoon"
	"station-mods/internal/damage"
	"station-mods/internal/entity"
	"station-mods/internal/laundry"
	"station-mods/internal/siphon"
)

const (
	// DispenserSolution is the mixture a bottle pours from.
	DispenserSolution = "dispenser"

	stationAirVolume = 2500.0
	storageAirVolume = 100.0
	puddleCapacity   = 10000.0
)

var ErrNotFound = errors.New("entity not found")

// Storage is a closable container such as a machine drum.
type Storage struct {
	Open     bool
	Locked   bool
	Contents []entity.ID
	Air      *atmos.GasMixture
}

// Slot holds one item.
type Slot struct {
	Item   entity.ID
	Locked bool
}

// Entity is everything the world knows about one thing on the station.
type Entity struct {
	ID          entity.ID
	Label       string
	Proto       string
	Pos         mgl64.Vec2
	Mass        float64
	Scale       float64
	Temperature float64

	Humanoid    bool
	Clothing    bool
	KnockedDown bool
	Stunned     bool
	Blind       bool

	BloodReagent chem.ReagentID
	Damage       damage.Spec
	Accent       string
	Forgetful    bool

	// Inside is the storage or slot owner holding this entity.
	Inside    entity.ID
	Solutions map[string]*chem.Solution
	Storage   *Storage
	Slots     map[string]*Slot
	Lungs     *atmos.GasMixture

	Machine     *laundry.Machine
	Washable    *laundry.Washable
	Cocooner    *cocoon.Cocooner
	Cocoon      *cocoon.Cocoon
	BloodSucker *cocoon.BloodSucker
	Lanius      *siphon.Lanius
}

// Tile is a floor cell.
type Tile [2]int

// TileAt is the tile under a position.
func TileAt(p mgl64.Vec2) Tile {
	return Tile{int(math.Floor(p.X())), int(math.Floor(p.Y()))}
}

type op struct {
	fn   func(*World) error
	done chan error
}

// World owns every entity and drives the mods on a fixed tick.
type World struct {
	logger   *log.Logger
	reagents *chem.Registry
	tick     time.Duration
	clock    time.Duration

	entities map[entity.ID]*Entity
	order    []entity.ID
	labels   map[string]entity.ID
	puddles  map[Tile]*chem.Solution
	air      *atmos.GasMixture

	machines  []*laundry.Machine
	washables []*laundry.Washable

	Laundry *laundry.System
	Cocoons *cocoon.System
	Siphon  *siphon.System
	Speech  *accent.System

	ops chan op
}

// New builds an empty world. tick is the fixed step Run advances by.
func New(reagents *chem.Registry, accents accent.Table, rnd *rand.Rand, tick time.Duration, timings laundry.Timings, logger *log.Logger) *World {
	if logger == nil {
		logger = log.Default()
	}
	w := &World{
		logger:   logger,
		reagents: reagents,
		tick:     tick,
		entities: make(map[entity.ID]*Entity),
		labels:   make(map[string]entity.ID),
		puddles:  make(map[Tile]*chem.Solution),
		air:      atmos.StandardAir(stationAirVolume),
		ops:      make(chan op),
	}
	prefixed := func(p string) *log.Logger { return log.New(logger.Writer(), p, logger.Flags()) }

	w.Laundry = laundry.NewSystem(w, reagents, rnd, prefixed("laundry "), timings)
	w.Cocoons = cocoon.NewSystem(w, prefixed("cocoon "))
	w.Siphon = siphon.NewSystem(w, prefixed("siphon "))
	w.Speech = accent.NewSystem(w, accent.New(accents, rnd))

	w.Siphon.Handle(w.breathe)
	return w
}

var (
	_ laundry.Host = (*World)(nil)
	_ cocoon.Host  = (*World)(nil)
	_ siphon.Host  = (*World)(nil)
	_ accent.Host  = (*World)(nil)
)

// Clock is the game time elapsed since the world was created.
func (w *World) Clock() time.Duration { return w.clock }

// Reagents is the reagent registry the world runs with.
func (w *World) Reagents() *chem.Registry { return w.reagents }

// Add registers a new entity and returns it for further setup.
func (w *World) Add(label, proto string, at mgl64.Vec2) *Entity {
	e := &Entity{
		ID:          entity.New(),
		Label:       label,
		Proto:       proto,
		Pos:         at,
		Scale:       1,
		Temperature: atmos.T20C,
		Damage:      damage.Spec{},
		Solutions:   make(map[string]*chem.Solution),
		Slots:       make(map[string]*Slot),
	}
	w.entities[e.ID] = e
	w.order = append(w.order, e.ID)
	if label != "" {
		w.labels[label] = e.ID
	}
	return e
}

// Get returns the entity with id.
func (w *World) Get(id entity.ID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Lookup resolves a label or the string form of an ID.
func (w *World) Lookup(key string) (*Entity, bool) {
	if id, ok := w.labels[key]; ok {
		return w.Get(id)
	}
	id, err := entity.Parse(key)
	if err != nil {
		return nil, false
	}
	return w.Get(id)
}

// AttachMachine gives e a laundry machine with a drum, a water tank and a detergent slot.
func (w *World) AttachMachine(e *Entity, cfg laundry.MachineConfig, drum, tank chem.Quantity) *laundry.Machine {
	m := laundry.NewMachine(e.ID, cfg, w.Laundry.Timings())
	e.Machine = m
	e.Storage = &Storage{Air: atmos.StandardAir(storageAirVolume)}
	e.Solutions[laundry.DrumSolution] = chem.NewSolution(drum)
	e.Solutions[laundry.TankSolution] = chem.NewSolution(tank)
	e.Slots[laundry.DetergentSlot] = &Slot{}
	w.machines = append(w.machines, m)
	return m
}

// AttachWashable makes e a garment and creates its mixture.
func (w *World) AttachWashable(e *Entity, cfg laundry.WashableConfig) *laundry.Washable {
	wash := laundry.NewWashable(e.ID, cfg)
	e.Washable = wash
	e.Clothing = true
	w.washables = append(w.washables, wash)
	w.Laundry.OnInit(wash)
	return wash
}

// AttachLanius makes e breathe from its surroundings.
func (w *World) AttachLanius(e *Entity, l siphon.Lanius) {
	e.Lanius = &l
	e.Lungs = atmos.NewGasMixture(0)
	w.Siphon.OnMapInit(e.Lanius, w.clock)
}

// Step advances the world by dt. It is the only way game time moves.
func (w *World) Step(dt time.Duration) {
	w.clock += dt
	w.Laundry.Update(dt)
	w.Cocoons.Update(dt)
	w.Siphon.Update(w.clock)
}

// Run ticks the world until ctx is done, executing queued operations between ticks.
func (w *World) Run(ctx context.Context) {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Step(w.tick)
		case o := <-w.ops:
			o.done <- o.fn(w)
		}
	}
}

// Do runs fn on the world goroutine and waits for its result.
func (w *World) Do(ctx context.Context, fn func(*World) error) error {
	o := op{fn: fn, done: make(chan error, 1)}
	select {
	case w.ops <- o:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-o.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Move places e at a new position. Moving breaks any cocooning e takes part in.
func (w *World) Move(id entity.ID, to mgl64.Vec2) error {
	e, ok := w.Get(id)
	if !ok {
		return fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	dist := to.Sub(e.Pos).Len()
	e.Pos = to
	w.Cocoons.OnMoved(id, dist)
	return nil
}

// SetDoor opens or closes a storage. Opening goes through the same path as a forced opening.
func (w *World) SetDoor(id entity.ID, open bool) error {
	e, ok := w.Get(id)
	if !ok || e.Storage == nil {
		return fmt.Errorf("door %s: %w", id, ErrNotFound)
	}
	if open == e.Storage.Open {
		return nil
	}
	if open {
		w.OpenStorage(id)
		return nil
	}
	e.Storage.Open = false
	return nil
}

// SetLocked locks or unlocks a storage.
func (w *World) SetLocked(id entity.ID, locked bool) error {
	e, ok := w.Get(id)
	if !ok || e.Storage == nil {
		return fmt.Errorf("lock %s: %w", id, ErrNotFound)
	}
	e.Storage.Locked = locked
	return nil
}

// Insert puts item into an open storage.
func (w *World) Insert(storage, item entity.ID) error {
	s, ok := w.Get(storage)
	if !ok || s.Storage == nil {
		return fmt.Errorf("insert into %s: %w", storage, ErrNotFound)
	}
	it, ok := w.Get(item)
	if !ok {
		return fmt.Errorf("insert %s: %w", item, ErrNotFound)
	}
	if !s.Storage.Open {
		return fmt.Errorf("storage %s is closed", s.Label)
	}
	s.Storage.Contents = append(s.Storage.Contents, item)
	it.Inside = storage
	it.Pos = s.Pos
	if s.Machine != nil {
		w.Laundry.OnItemInserted(storage, "", item)
	}
	return nil
}

// Remove takes item out of an open storage.
func (w *World) Remove(storage, item entity.ID) error {
	s, ok := w.Get(storage)
	if !ok || s.Storage == nil {
		return fmt.Errorf("remove from %s: %w", storage, ErrNotFound)
	}
	if !s.Storage.Open {
		return fmt.Errorf("storage %s is closed", s.Label)
	}
	for i, c := range s.Storage.Contents {
		if c != item {
			continue
		}
		s.Storage.Contents = append(s.Storage.Contents[:i], s.Storage.Contents[i+1:]...)
		if it, ok := w.Get(item); ok {
			it.Inside = entity.None
		}
		if s.Machine != nil {
			w.Laundry.OnItemRemoved(storage, "", item)
		}
		return nil
	}
	return fmt.Errorf("remove %s: %w", item, ErrNotFound)
}

// EjectSlot empties a slot regardless of its lock and delivers the removal hooks.
func (w *World) EjectSlot(owner entity.ID, slot string) (entity.ID, bool) {
	o, ok := w.Get(owner)
	if !ok {
		return entity.None, false
	}
	s, ok := o.Slots[slot]
	if !ok || s.Item == entity.None {
		return entity.None, false
	}
	item := s.Item
	s.Item = entity.None
	if it, ok := w.Get(item); ok {
		it.Inside = entity.None
	}
	if o.Machine != nil {
		w.Laundry.OnItemRemoved(owner, slot, item)
	}
	if o.Cocoon != nil && slot == cocoon.BodySlot {
		w.Cocoons.OnRemoved(owner, item)
	}
	return item, true
}

// RefillTank pours up to units of water into a machine tank and returns what fit.
func (w *World) RefillTank(id entity.ID, units float64) (chem.Quantity, error) {
	tank, ok := w.Solution(id, laundry.TankSolution)
	if !ok {
		return 0, fmt.Errorf("refill %s: %w", id, ErrNotFound)
	}
	q := chem.MinQ(chem.Q(units), tank.Available())
	tank.AddReagent("Water", q)
	return q, nil
}

// Destroy removes an entity, delivering the destruction hooks first.
func (w *World) Destroy(id entity.ID) error {
	e, ok := w.Get(id)
	if !ok {
		return fmt.Errorf("destroy %s: %w", id, ErrNotFound)
	}
	if e.Machine != nil {
		w.Laundry.OnDestroyed(id)
		w.machines = without(w.machines, e.Machine)
	}
	if e.Washable != nil {
		w.Laundry.OnWashableDestroyed(e.Washable)
		w.washables = without(w.washables, e.Washable)
	}
	for name := range e.Slots {
		w.EjectSlot(id, name)
	}
	if e.Storage != nil {
		for _, c := range e.Storage.Contents {
			if it, ok := w.Get(c); ok {
				it.Inside = entity.None
			}
		}
	}
	if e.Inside != entity.None {
		if s, ok := w.Get(e.Inside); ok && s.Storage != nil {
			s.Storage.Contents = without(s.Storage.Contents, id)
		}
	}
	delete(w.entities, id)
	delete(w.labels, e.Label)
	w.order = without(w.order, id)
	return nil
}

// Puddle returns the mixture on a tile.
func (w *World) Puddle(t Tile) (*chem.Solution, bool) {
	p, ok := w.puddles[t]
	return p, ok
}

// Puddles lists every tile with liquid on it.
func (w *World) Puddles() map[Tile]*chem.Solution {
	return w.puddles
}

// breathe stores siphoned gas in the lanius' lungs.
func (w *World) breathe(ev *siphon.Siphoned) {
	e, ok := w.Get(ev.Entity)
	if !ok || e.Lungs == nil {
		return
	}
	for g, n := range ev.Gas.Moles {
		e.Lungs.Moles[g] += n
	}
	e.Lungs.Volume += ev.Gas.Volume
	ev.Handled = true
	ev.Succeeded = ev.Gas.TotalMoles() > 0
}

func without[T comparable](s []T, v T) []T {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
