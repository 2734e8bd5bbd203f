package world

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"station-mods/internal/chem"
	"station-mods/internal/cocoon"
	"station-mods/internal/laundry"
	"station-mods/internal/siphon"
)

// Scenario is the initial station layout.
type Scenario struct {
	Machines  []MachineSpec  `yaml:"machines"`
	Garments  []GarmentSpec  `yaml:"garments"`
	Creatures []CreatureSpec `yaml:"creatures"`
}

// MachineSpec places a laundry machine.
type MachineSpec struct {
	Label        string                 `yaml:"label"`
	Position     [2]float64             `yaml:"position"`
	Locked       bool                   `yaml:"locked"`
	DrumCapacity float64                `yaml:"drum_capacity"`
	TankCapacity float64                `yaml:"tank_capacity"`
	TankWater    float64                `yaml:"tank_water"`
	Detergent    float64                `yaml:"detergent"`
	Config       *laundry.MachineConfig `yaml:"config"`
}

// GarmentSpec places a garment, optionally inside a machine, with initial stains.
type GarmentSpec struct {
	Label    string                  `yaml:"label"`
	Position [2]float64              `yaml:"position"`
	Machine  string                  `yaml:"machine"`
	Stains   map[string]float64      `yaml:"stains"`
	Config   *laundry.WashableConfig `yaml:"config"`
}

// CreatureSpec places a creature.
type CreatureSpec struct {
	Label       string     `yaml:"label"`
	Proto       string     `yaml:"proto"`
	Position    [2]float64 `yaml:"position"`
	Mass        float64    `yaml:"mass"`
	Humanoid    bool       `yaml:"humanoid"`
	Blood       string     `yaml:"blood"`
	Accent      string     `yaml:"accent"`
	Forgetful   bool       `yaml:"forgetful"`
	Cocooner    bool       `yaml:"cocooner"`
	BloodSucker bool       `yaml:"blood_sucker"`
	Lanius      bool       `yaml:"lanius"`
}

const (
	defaultDrumCapacity = 100.0
	defaultTankCapacity = 200.0
)

// Seed populates the world from a scenario. Labels must be unique.
func (w *World) Seed(sc Scenario) error {
	for _, spec := range sc.Machines {
		if err := w.seedMachine(spec); err != nil {
			return err
		}
	}
	for _, spec := range sc.Garments {
		if err := w.seedGarment(spec); err != nil {
			return err
		}
	}
	for _, spec := range sc.Creatures {
		if err := w.seedCreature(spec); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) claim(label string) error {
	if label == "" {
		return fmt.Errorf("scenario entry without a label")
	}
	if _, taken := w.labels[label]; taken {
		return fmt.Errorf("duplicate label %q", label)
	}
	return nil
}

func (w *World) seedMachine(spec MachineSpec) error {
	if err := w.claim(spec.Label); err != nil {
		return err
	}
	cfg := laundry.DefaultMachineConfig()
	if spec.Config != nil {
		cfg = *spec.Config
	}
	drum, tank := spec.DrumCapacity, spec.TankCapacity
	if drum <= 0 {
		drum = defaultDrumCapacity
	}
	if tank <= 0 {
		tank = defaultTankCapacity
	}

	e := w.Add(spec.Label, "LaundryMachine", mgl64.Vec2(spec.Position))
	w.AttachMachine(e, cfg, chem.Q(drum), chem.Q(tank))
	e.Storage.Locked = spec.Locked
	if _, err := w.RefillTank(e.ID, spec.TankWater); err != nil {
		return err
	}

	if spec.Detergent > 0 {
		bottle := w.Add(spec.Label+"/detergent", "DetergentBottle", e.Pos)
		sol := chem.NewSolution(chem.Q(spec.Detergent))
		sol.AddReagent("SpaceCleaner", chem.Q(spec.Detergent))
		bottle.Solutions[DispenserSolution] = sol
		if !w.InsertIntoSlot(e.ID, laundry.DetergentSlot, bottle.ID) {
			return fmt.Errorf("machine %q: detergent slot is taken", spec.Label)
		}
	}
	return nil
}

func (w *World) seedGarment(spec GarmentSpec) error {
	if err := w.claim(spec.Label); err != nil {
		return err
	}
	cfg := laundry.DefaultWashableConfig()
	if spec.Config != nil {
		cfg = *spec.Config
	}

	e := w.Add(spec.Label, "Clothing", mgl64.Vec2(spec.Position))
	w.AttachWashable(e, cfg)
	sol, _ := w.Solution(e.ID, cfg.Solution)
	for _, reagent := range slices.Sorted(maps.Keys(spec.Stains)) {
		units := spec.Stains[reagent]
		if !w.reagents.Known(chem.ReagentID(reagent)) {
			return fmt.Errorf("garment %q: unknown reagent %q", spec.Label, reagent)
		}
		sol.AddReagent(chem.ReagentID(reagent), chem.MinQ(chem.Q(units), sol.Available()))
	}

	if spec.Machine == "" {
		return nil
	}
	m, ok := w.Lookup(spec.Machine)
	if !ok || m.Storage == nil {
		return fmt.Errorf("garment %q: machine %q not found", spec.Label, spec.Machine)
	}
	m.Storage.Contents = append(m.Storage.Contents, e.ID)
	e.Inside = m.ID
	e.Pos = m.Pos
	return nil
}

func (w *World) seedCreature(spec CreatureSpec) error {
	if err := w.claim(spec.Label); err != nil {
		return err
	}
	proto := spec.Proto
	if proto == "" {
		proto = "Mob"
	}
	e := w.Add(spec.Label, proto, mgl64.Vec2(spec.Position))
	e.Mass = spec.Mass
	e.Humanoid = spec.Humanoid
	e.BloodReagent = chem.ReagentID(spec.Blood)
	e.Accent = spec.Accent
	e.Forgetful = spec.Forgetful

	if spec.Cocooner {
		c := cocoon.DefaultCocooner()
		e.Cocooner = &c
	}
	if spec.BloodSucker {
		b := cocoon.DefaultBloodSucker()
		b.WebRequired = true
		e.BloodSucker = &b
	}
	if spec.Lanius {
		w.AttachLanius(e, siphon.DefaultLanius())
	}
	return nil
}
