package laundry

import (
	"math"
	"time"

	"station-mods/internal/chem"
	"station-mods/internal/entity"
)

// Washable is a garment that soaks up liquids and stains.
type Washable struct {
	owner entity.ID
	cfg   WashableConfig
}

// NewWashable returns the washable component for owner. Call System.OnInit to create its mixture.
func NewWashable(owner entity.ID, cfg WashableConfig) *Washable {
	return &Washable{owner: owner, cfg: cfg}
}

func (w *Washable) Owner() entity.ID { return w.owner }

func (w *Washable) Config() WashableConfig { return w.cfg }

// WashableView is what examining a garment shows.
type WashableView struct {
	ID       entity.ID              `json:"id"`
	Wetness  Wetness                `json:"wetness"`
	Dripping bool                   `json:"dripping"`
	Volume   chem.Quantity          `json:"volume"`
	Capacity chem.Quantity          `json:"capacity"`
	Contents []chem.ReagentQuantity `json:"contents"`
}

// WetnessOf maps an absorbed volume onto a wetness level.
func WetnessOf(volume chem.Quantity, scale float64) Wetness {
	switch {
	case volume >= chem.Q(17.5*scale):
		return Drenched
	case volume >= chem.Q(15*scale):
		return VeryWet
	case volume >= chem.Q(7.5*scale):
		return Wet
	case volume >= chem.Q(5*scale):
		return Moist
	case volume > 0:
		return Damp
	}
	return Dry
}

func (s *System) washableSolution(w *Washable) (*chem.Solution, bool) {
	return s.host.Solution(w.owner, w.cfg.Solution)
}

// Wetness reports how wet the garment is. A garment without its mixture is dry.
func (s *System) Wetness(w *Washable) Wetness {
	sol, ok := s.washableSolution(w)
	if !ok {
		return Dry
	}
	return WetnessOf(sol.Volume(), w.cfg.WetnessScale)
}

// WashableView snapshots a garment.
func (s *System) WashableView(w *Washable) WashableView {
	v := WashableView{ID: w.owner, Capacity: chem.Q(w.cfg.Capacity)}
	sol, ok := s.washableSolution(w)
	if !ok {
		return v
	}
	v.Wetness = WetnessOf(sol.Volume(), w.cfg.WetnessScale)
	v.Dripping = sol.Volume() > chem.Q(w.cfg.DripVolume)
	v.Volume = sol.Volume()
	v.Contents = sol.Contents()
	return v
}

// Wash cleans the garment with what it already holds, then soaks up as much of in as fits.
// Whatever is not absorbed stays in in. Returns the amount absorbed.
func (s *System) Wash(w *Washable, in *chem.Solution) chem.Quantity {
	sol, ok := s.washableSolution(w)
	if !ok || in == nil {
		return 0
	}
	room := chem.MinQ(in.Volume(), sol.Available())
	if room <= 0 {
		return 0
	}
	incoming := in.Split(room)

	s.clean(w, sol)
	s.spill(w, s.washAway(w, sol), false)

	accepted := sol.Merge(incoming)
	if incoming.Volume() > 0 {
		in.Merge(incoming)
		s.spill(w, incoming, false)
	}
	return accepted
}

// clean lets cleaning agents strip stains, spending the cleaners in proportion to what they removed.
func (s *System) clean(w *Washable, sol *chem.Solution) {
	contents := sol.Contents()

	var weighted, cleanerVolume float64
	var cleaners []chem.ReagentQuantity
	for _, rq := range contents {
		p := s.reagents.Index(rq.Reagent)
		if p.LaundryCleaningStrength > 0 {
			weighted += p.LaundryCleaningStrength * rq.Quantity.Float()
			cleanerVolume += rq.Quantity.Float()
			cleaners = append(cleaners, rq)
		}
	}
	if cleanerVolume <= 0 {
		return
	}
	strength := weighted / cleanerVolume * w.cfg.WashFactor

	var removed chem.Quantity
	for _, rq := range contents {
		p := s.reagents.Index(rq.Reagent)
		if p.LaundryCleaningStrength > 0 || p.Absorbent {
			continue
		}
		removed += sol.RemoveReagent(rq.Reagent, chem.Q(strength*CleanStrengthFactor/p.LaundryCleanResistance))
	}
	if removed <= 0 {
		return
	}
	for _, c := range cleaners {
		sol.RemoveReagent(c.Reagent, chem.Q(removed.Float()*(c.Quantity.Float()/cleanerVolume)*CleanStrengthFactor))
	}
}

// washAway takes non-absorbent reagents out in proportion to the absorbent volume and returns them.
func (s *System) washAway(w *Washable, sol *chem.Solution) *chem.Solution {
	out := chem.NewSolution(0)
	out.SetTemperature(sol.Temperature())

	contents := sol.Contents()
	var absorbent float64
	for _, rq := range contents {
		if s.reagents.Index(rq.Reagent).Absorbent {
			absorbent += rq.Quantity.Float()
		}
	}
	if absorbent <= 0 {
		return out
	}

	amount := chem.Q(absorbent * WashStrengthFactor * w.cfg.WashFactor)
	for _, rq := range contents {
		if s.reagents.Index(rq.Reagent).Absorbent {
			continue
		}
		out.AddReagent(rq.Reagent, sol.RemoveReagent(rq.Reagent, amount))
	}
	out.SetMaxVolume(out.Volume())
	return out
}

// Drip lets q run out of the garment.
func (s *System) Drip(w *Washable, q chem.Quantity, sound bool) {
	sol, ok := s.washableSolution(w)
	if !ok {
		return
	}
	s.spill(w, sol.Split(q), sound)
}

// DripAll empties the garment.
func (s *System) DripAll(w *Washable, sound bool) {
	sol, ok := s.washableSolution(w)
	if !ok {
		return
	}
	s.spill(w, sol.Split(sol.Volume()), sound)
}

// spill sends liquid from a garment into the drum of the machine it is in, or onto the floor.
func (s *System) spill(w *Washable, sol *chem.Solution, sound bool) {
	if sol.Volume() <= 0 {
		return
	}
	if storage, ok := s.host.ContainingStorage(w.owner); ok {
		if _, isMachine := s.host.Machine(storage); isMachine {
			if drum, ok := s.host.Solution(storage, DrumSolution); ok {
				drum.Merge(sol)
			}
		}
	}
	s.spillAt(w.owner, sol, sound)
}

// Dry evaporates reagents when the ambient temperature is above the garment's dry temperature.
// Returns what evaporated.
func (s *System) Dry(w *Washable, dt time.Duration, ambient float64) *chem.Solution {
	sol, ok := s.washableSolution(w)
	if !ok {
		return chem.NewSolution(0)
	}
	dried := chem.NewSolution(sol.MaxVolume())
	dried.SetTemperature(sol.Temperature())

	for _, rq := range sol.Contents() {
		rate := s.reagents.Index(rq.Reagent).EvaporationRate()
		if rate <= 0 {
			continue
		}
		strength := math.Min((ambient-w.cfg.DryTemperature)*rate/150, 3)
		if strength <= 0 {
			continue
		}
		dried.AddReagent(rq.Reagent, sol.RemoveReagent(rq.Reagent, chem.Q(strength*dt.Seconds())))
	}
	return dried
}

func (s *System) updateWashable(w *Washable, dt time.Duration) {
	sol, ok := s.washableSolution(w)
	if !ok {
		return
	}
	if sol.Volume() > chem.Q(w.cfg.DripVolume) {
		s.Drip(w, chem.Q(DripAmount*dt.Seconds()), false)
	}
	if t, ok := s.host.Temperature(w.owner); ok {
		s.Dry(w, dt, t)
	}
}

// OnInit creates the garment's mixture.
func (s *System) OnInit(w *Washable) {
	if _, ok := s.host.EnsureSolution(w.owner, w.cfg.Solution, chem.Q(w.cfg.Capacity)); !ok {
		s.logger.Printf("washable %s has no solution container", w.owner)
	}
}

// OnSplashed soaks up an even share of a touch-reaction source. The rest stays in source.
func (s *System) OnSplashed(w *Washable, source *chem.Solution) chem.Quantity {
	if source == nil || source.Volume() <= 0 {
		return 0
	}
	n := len(source.Contents())
	if n == 0 {
		return 0
	}
	share := source.Split(chem.Q(source.Volume().Float() / float64(n)))
	accepted := s.Wash(w, share)
	source.Merge(share)
	return accepted
}

// OnWashableDestroyed dumps everything the garment held.
func (s *System) OnWashableDestroyed(w *Washable) {
	s.DripAll(w, true)
}

// OnTemperatureChanged keeps the garment's mixture at the garment's temperature.
func (s *System) OnTemperatureChanged(w *Washable, kelvin float64) {
	if sol, ok := s.washableSolution(w); ok {
		sol.SetTemperature(kelvin)
	}
}

// OnBleed may soak part of the wearer's bleed into the garment before it hits the floor.
// Returns the amount absorbed.
func (s *System) OnBleed(w *Washable, bleed *chem.Solution) chem.Quantity {
	if bleed == nil || s.rng.Float64() >= w.cfg.BleedChance {
		return 0
	}
	q := bleed.Volume().Mul(w.cfg.BleedPortion)
	if q <= 0 {
		return 0
	}
	taken := bleed.Split(q)
	accepted := s.Wash(w, taken)
	bleed.Merge(taken)
	return accepted
}
