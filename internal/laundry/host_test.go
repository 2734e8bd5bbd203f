package laundry

import (
	"io"
	"log"
	"testing"
	"time"

	"station-mods/internal/chem"
	"station-mods/internal/damage"
	"station-mods/internal/entity"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

// fakeHost is an in-memory engine good enough to drive the laundry system.
type fakeHost struct {
	sys *System

	solutions  map[entity.ID]map[string]*chem.Solution
	dispensers map[entity.ID]*chem.Solution
	storages   map[entity.ID]bool
	locked     map[entity.ID]bool
	contents   map[entity.ID][]entity.ID
	slots      map[entity.ID]map[string]entity.ID
	inside     map[entity.ID]entity.ID
	air        map[entity.ID]float64
	temps      map[entity.ID]float64
	clothing   map[entity.ID]bool
	damage     map[entity.ID]damage.Spec

	machines  []*Machine
	washables []*Washable

	spilled chem.Quantity
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		solutions:  make(map[entity.ID]map[string]*chem.Solution),
		dispensers: make(map[entity.ID]*chem.Solution),
		storages:   make(map[entity.ID]bool),
		locked:     make(map[entity.ID]bool),
		contents:   make(map[entity.ID][]entity.ID),
		slots:      make(map[entity.ID]map[string]entity.ID),
		inside:     make(map[entity.ID]entity.ID),
		air:        make(map[entity.ID]float64),
		temps:      make(map[entity.ID]float64),
		clothing:   make(map[entity.ID]bool),
		damage:     make(map[entity.ID]damage.Spec),
	}
}

func (h *fakeHost) setSolution(owner entity.ID, name string, s *chem.Solution) {
	if h.solutions[owner] == nil {
		h.solutions[owner] = make(map[string]*chem.Solution)
	}
	h.solutions[owner][name] = s
}

func (h *fakeHost) Solution(owner entity.ID, name string) (*chem.Solution, bool) {
	s, ok := h.solutions[owner][name]
	return s, ok
}

func (h *fakeHost) EnsureSolution(owner entity.ID, name string, maxVolume chem.Quantity) (*chem.Solution, bool) {
	if s, ok := h.Solution(owner, name); ok {
		return s, true
	}
	s := chem.NewSolution(maxVolume)
	h.setSolution(owner, name, s)
	return s, true
}

func (h *fakeHost) DispenserSolution(item entity.ID) (*chem.Solution, bool) {
	s, ok := h.dispensers[item]
	return s, ok
}

func (h *fakeHost) StorageOpen(owner entity.ID) (bool, bool) {
	open, ok := h.storages[owner]
	return open, ok
}

func (h *fakeHost) OpenStorage(owner entity.ID) {
	h.storages[owner] = true
	h.sys.OnDoorOpened(owner)
}

func (h *fakeHost) Locked(owner entity.ID) bool { return h.locked[owner] }

func (h *fakeHost) Contents(owner entity.ID) []entity.ID { return h.contents[owner] }

func (h *fakeHost) SlotItem(owner entity.ID, slot string) (entity.ID, bool) {
	item, ok := h.slots[owner][slot]
	return item, ok
}

func (h *fakeHost) ContainingStorage(item entity.ID) (entity.ID, bool) {
	s, ok := h.inside[item]
	return s, ok
}

func (h *fakeHost) AirTemperature(owner entity.ID) (float64, bool) {
	t, ok := h.air[owner]
	return t, ok
}

// air heat capacity is a flat 10 J/K
func (h *fakeHost) AddAirHeat(owner entity.ID, joules float64) { h.air[owner] += joules / 10 }

func (h *fakeHost) SetAirTemperature(owner entity.ID, kelvin float64) { h.air[owner] = kelvin }

func (h *fakeHost) Temperature(e entity.ID) (float64, bool) {
	t, ok := h.temps[e]
	return t, ok
}

func (h *fakeHost) SpillAt(_ entity.ID, s *chem.Solution, _ bool) bool {
	h.spilled += s.Volume()
	s.Split(s.Volume())
	return true
}

func (h *fakeHost) TouchReaction(target entity.ID, s *chem.Solution) {
	if w, ok := h.Washable(target); ok {
		h.sys.OnSplashed(w, s)
	}
}

func (h *fakeHost) ChangeDamage(target entity.ID, d damage.Spec) {
	h.damage[target] = h.damage[target].Add(d)
}

func (h *fakeHost) IsClothing(e entity.ID) bool { return h.clothing[e] }

func (h *fakeHost) Machine(e entity.ID) (*Machine, bool) {
	for _, m := range h.machines {
		if m.owner == e {
			return m, true
		}
	}
	return nil, false
}

func (h *fakeHost) Washable(e entity.ID) (*Washable, bool) {
	for _, w := range h.washables {
		if w.owner == e {
			return w, true
		}
	}
	return nil, false
}

func (h *fakeHost) Machines() []*Machine   { return h.machines }
func (h *fakeHost) Washables() []*Washable { return h.washables }

// rig is a system with one locked, closed machine holding a water tank and an empty drum.
type rig struct {
	host *fakeHost
	sys  *System
	m    *Machine
	id   entity.ID
}

func newRig(t *testing.T, cfg MachineConfig, tankWater float64) *rig {
	t.Helper()
	h := newFakeHost()
	sys := NewSystem(h, chem.DefaultRegistry(), fixedRand(0.5), log.New(io.Discard, "", 0), DefaultTimings())
	h.sys = sys

	id := entity.New()
	m := NewMachine(id, cfg, DefaultTimings())
	h.machines = append(h.machines, m)
	h.storages[id] = false
	h.locked[id] = true
	h.air[id] = chem.DefaultTemperature

	tank := chem.NewSolution(chem.Q(200))
	tank.AddReagent("Water", chem.Q(tankWater))
	h.setSolution(id, TankSolution, tank)
	h.setSolution(id, DrumSolution, chem.NewSolution(chem.Q(200)))

	return &rig{host: h, sys: sys, m: m, id: id}
}

func (r *rig) drum() *chem.Solution {
	s, _ := r.host.Solution(r.id, DrumSolution)
	return s
}

func (r *rig) tank() *chem.Solution {
	s, _ := r.host.Solution(r.id, TankSolution)
	return s
}

func (r *rig) addWashable(cfg WashableConfig, inMachine bool) *Washable {
	id := entity.New()
	w := NewWashable(id, cfg)
	r.host.washables = append(r.host.washables, w)
	r.host.clothing[id] = true
	r.sys.OnInit(w)
	if inMachine {
		r.host.contents[r.id] = append(r.host.contents[r.id], id)
		r.host.inside[id] = r.id
	}
	return w
}

func (r *rig) soaked(w *Washable) *chem.Solution {
	s, _ := r.host.Solution(w.owner, w.cfg.Solution)
	return s
}

// tick runs n one-second updates.
func (r *rig) tick(n int) {
	for i := 0; i < n; i++ {
		r.sys.Update(time.Second)
	}
}

// runUntilOff ticks until the machine stops, failing after limit ticks.
func (r *rig) runUntilOff(t *testing.T, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		r.sys.Update(time.Second)
		if r.m.View().State == StateOff {
			return
		}
	}
	t.Fatalf("machine still %s after %d ticks", r.m.View().State, limit)
}
