package chem

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Reagent is the subset of a reagent prototype the mods read.
type Reagent struct {
	ID   ReagentID `yaml:"id"`
	Name string    `yaml:"name"`

	// LaundryCleaningStrength > 0 marks a cleaning agent.
	LaundryCleaningStrength float64 `yaml:"laundry_cleaning_strength"`
	// LaundryCleanResistance divides how much a cleaner strips of this reagent.
	LaundryCleanResistance float64 `yaml:"laundry_clean_resistance"`
	// Absorbent reagents (water) soak into fabric and wash other reagents out.
	Absorbent bool `yaml:"absorbent"`

	EvaporationSpeed     float64 `yaml:"evaporation_speed"`
	ImpEvaporates        bool    `yaml:"imp_evaporates"`
	ImpEvaporationAmount float64 `yaml:"imp_evaporation_amount"`

	// SpecificHeat in J/(K·u).
	SpecificHeat float64 `yaml:"specific_heat"`
}

// EvaporationRate is the per-reagent drying factor, clamped to [0, 1].
func (r Reagent) EvaporationRate() float64 {
	speed := r.EvaporationSpeed
	if r.ImpEvaporates {
		speed = r.ImpEvaporationAmount
	}
	switch {
	case speed < 0:
		return 0
	case speed > 1:
		return 1
	}
	return speed
}

// Registry indexes reagent prototypes. Unknown reagents resolve to an inert default.
type Registry struct {
	reagents map[ReagentID]Reagent
}

// NewRegistry builds a registry from the given prototypes, filling unset defaults.
func NewRegistry(reagents ...Reagent) *Registry {
	r := &Registry{reagents: make(map[ReagentID]Reagent, len(reagents))}
	for _, p := range reagents {
		r.Register(p)
	}
	return r
}

// DefaultRegistry returns the built-in reagent table.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Reagent{ID: "Water", Name: "water", Absorbent: true, EvaporationSpeed: 0.3, SpecificHeat: 4.18},
		Reagent{ID: "SpaceCleaner", Name: "space cleaner", LaundryCleaningStrength: 2, EvaporationSpeed: 0.6, SpecificHeat: 2},
		Reagent{ID: "SoapyWater", Name: "soapy water", LaundryCleaningStrength: 1, Absorbent: true, EvaporationSpeed: 0.3, SpecificHeat: 4},
		Reagent{ID: "Blood", Name: "blood", LaundryCleanResistance: 2, SpecificHeat: 3.5},
		Reagent{ID: "Vomit", Name: "vomit", SpecificHeat: 3},
		Reagent{ID: "Ethanol", Name: "ethanol", EvaporationSpeed: 0.8, SpecificHeat: 2.4},
		Reagent{ID: "WebSilk", Name: "web silk", LaundryCleanResistance: 4, SpecificHeat: 1},
	)
}

// Register adds or replaces a prototype.
func (r *Registry) Register(p Reagent) {
	if p.LaundryCleanResistance <= 0 {
		p.LaundryCleanResistance = 1
	}
	if p.SpecificHeat <= 0 {
		p.SpecificHeat = 1
	}
	r.reagents[p.ID] = p
}

// Index returns the prototype for id.
func (r *Registry) Index(id ReagentID) Reagent {
	if p, ok := r.reagents[id]; ok {
		return p
	}
	return Reagent{ID: id, LaundryCleanResistance: 1, SpecificHeat: 1}
}

// Known reports whether id has a registered prototype.
func (r *Registry) Known(id ReagentID) bool {
	_, ok := r.reagents[id]
	return ok
}

// HeatCapacity of a solution in J/K.
func (r *Registry) HeatCapacity(s *Solution) float64 {
	var hc float64
	for _, rq := range s.contents {
		hc += rq.Quantity.Float() * r.Index(rq.Reagent).SpecificHeat
	}
	return hc
}

// AddThermalEnergy heats (or cools, for negative joules) a solution. Empty solutions are untouched.
func (r *Registry) AddThermalEnergy(s *Solution, joules float64) {
	hc := r.HeatCapacity(s)
	if hc <= 0 {
		return
	}
	s.temperature += joules / hc
}

// LoadRegistry reads prototypes from a YAML list and layers them over the defaults.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var protos []Reagent
	if err := yaml.Unmarshal(data, &protos); err != nil {
		return nil, fmt.Errorf("failed to decode reagents from %s: %w", path, err)
	}
	r := DefaultRegistry()
	for _, p := range protos {
		if p.ID == "" {
			return nil, fmt.Errorf("reagent without id in %s", path)
		}
		r.Register(p)
	}
	return r, nil
}
