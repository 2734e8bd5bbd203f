package laundry

import (
	"station-mods/internal/chem"
	"station-mods/internal/damage"
	"station-mods/internal/entity"
)

// Solutions resolves named reagent mixtures attached to entities.
type Solutions interface {
	Solution(owner entity.ID, name string) (*chem.Solution, bool)
	EnsureSolution(owner entity.ID, name string, maxVolume chem.Quantity) (*chem.Solution, bool)
	// DispenserSolution is the mixture a container item pours from, e.g. a detergent bottle.
	DispenserSolution(item entity.ID) (*chem.Solution, bool)
}

// Containers is the entity-storage side of the host: door, lock, contents and item slots.
type Containers interface {
	// StorageOpen reports whether the door is open; ok is false when owner has no storage.
	StorageOpen(owner entity.ID) (open bool, ok bool)
	// OpenStorage opens the door. The host delivers OnDoorOpened as for any other opening.
	OpenStorage(owner entity.ID)
	Locked(owner entity.ID) bool
	Contents(owner entity.ID) []entity.ID
	SlotItem(owner entity.ID, slot string) (entity.ID, bool)
	// ContainingStorage is the storage entity that item sits in, if any.
	ContainingStorage(item entity.ID) (entity.ID, bool)
}

// Atmosphere exposes the air inside a storage and entity temperatures, in kelvin.
type Atmosphere interface {
	AirTemperature(owner entity.ID) (float64, bool)
	AddAirHeat(owner entity.ID, joules float64)
	SetAirTemperature(owner entity.ID, kelvin float64)
	Temperature(e entity.ID) (float64, bool) // what e is exposed to
}

// Puddles spills mixtures onto the floor.
type Puddles interface {
	SpillAt(at entity.ID, s *chem.Solution, sound bool) bool
}

// Bodies is how laundry touches whatever is tumbling in the drum.
type Bodies interface {
	// TouchReaction splashes s onto target; reactions may consume part of it.
	TouchReaction(target entity.ID, s *chem.Solution)
	ChangeDamage(target entity.ID, d damage.Spec)
	// IsClothing marks entities protected from tumbling damage.
	IsClothing(e entity.ID) bool
}

// Components looks up laundry components held by the host.
type Components interface {
	Machine(e entity.ID) (*Machine, bool)
	Washable(e entity.ID) (*Washable, bool)
	Machines() []*Machine
	Washables() []*Washable
}

// Host is everything the laundry system consumes from the engine.
type Host interface {
	Solutions
	Containers
	Atmosphere
	Puddles
	Bodies
	Components
}

// Rand is the random source; *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}
