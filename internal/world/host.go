package world

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"station-mods/internal/atmos"
	"station-mods/internal/chem"
	"station-mods/internal/cocoon"
	"station-mods/internal/damage"
	"station-mods/internal/entity"
	"station-mods/internal/laundry"
	"station-mods/internal/siphon"
)

// Solutions

func (w *World) Solution(owner entity.ID, name string) (*chem.Solution, bool) {
	e, ok := w.Get(owner)
	if !ok {
		return nil, false
	}
	s, ok := e.Solutions[name]
	return s, ok
}

func (w *World) EnsureSolution(owner entity.ID, name string, maxVolume chem.Quantity) (*chem.Solution, bool) {
	e, ok := w.Get(owner)
	if !ok {
		return nil, false
	}
	if s, ok := e.Solutions[name]; ok {
		return s, true
	}
	s := chem.NewSolution(maxVolume)
	s.SetTemperature(e.Temperature)
	e.Solutions[name] = s
	return s, true
}

func (w *World) DispenserSolution(item entity.ID) (*chem.Solution, bool) {
	return w.Solution(item, DispenserSolution)
}

// Containers

func (w *World) StorageOpen(owner entity.ID) (bool, bool) {
	e, ok := w.Get(owner)
	if !ok || e.Storage == nil {
		return false, false
	}
	return e.Storage.Open, true
}

func (w *World) OpenStorage(owner entity.ID) {
	e, ok := w.Get(owner)
	if !ok || e.Storage == nil || e.Storage.Open {
		return
	}
	e.Storage.Open = true
	if e.Machine != nil {
		w.Laundry.OnDoorOpened(owner)
	}
}

func (w *World) Locked(owner entity.ID) bool {
	e, ok := w.Get(owner)
	return ok && e.Storage != nil && e.Storage.Locked
}

func (w *World) Contents(owner entity.ID) []entity.ID {
	e, ok := w.Get(owner)
	if !ok || e.Storage == nil {
		return nil
	}
	return e.Storage.Contents
}

func (w *World) SlotItem(owner entity.ID, slot string) (entity.ID, bool) {
	e, ok := w.Get(owner)
	if !ok {
		return entity.None, false
	}
	s, ok := e.Slots[slot]
	if !ok || s.Item == entity.None {
		return entity.None, false
	}
	return s.Item, true
}

func (w *World) ContainingStorage(item entity.ID) (entity.ID, bool) {
	e, ok := w.Get(item)
	if !ok || e.Inside == entity.None {
		return entity.None, false
	}
	holder, ok := w.Get(e.Inside)
	if !ok || holder.Storage == nil || !slices.Contains(holder.Storage.Contents, item) {
		return entity.None, false
	}
	return holder.ID, true
}

// Atmosphere

func (w *World) storageAir(owner entity.ID) (*atmos.GasMixture, bool) {
	e, ok := w.Get(owner)
	if !ok || e.Storage == nil || e.Storage.Air == nil {
		return nil, false
	}
	return e.Storage.Air, true
}

func (w *World) AirTemperature(owner entity.ID) (float64, bool) {
	air, ok := w.storageAir(owner)
	if !ok {
		return 0, false
	}
	return air.Temperature, true
}

func (w *World) AddAirHeat(owner entity.ID, joules float64) {
	if air, ok := w.storageAir(owner); ok {
		air.AddHeat(joules)
	}
}

func (w *World) SetAirTemperature(owner entity.ID, kelvin float64) {
	if air, ok := w.storageAir(owner); ok {
		air.Temperature = kelvin
	}
}

// Temperature is what e is exposed to: the air of the storage holding it, else its own temperature.
func (w *World) Temperature(e entity.ID) (float64, bool) {
	ent, ok := w.Get(e)
	if !ok {
		return 0, false
	}
	if air, ok := w.storageAir(ent.Inside); ok {
		return air.Temperature, true
	}
	return ent.Temperature, true
}

// SetTemperature changes an entity's temperature and lets garments follow it.
func (w *World) SetTemperature(id entity.ID, kelvin float64) {
	e, ok := w.Get(id)
	if !ok {
		return
	}
	e.Temperature = kelvin
	if e.Washable != nil {
		w.Laundry.OnTemperatureChanged(e.Washable, kelvin)
	}
}

// Puddles

func (w *World) SpillAt(at entity.ID, s *chem.Solution, sound bool) bool {
	e, ok := w.Get(at)
	if !ok {
		return false
	}
	tile := TileAt(e.Pos)
	p, ok := w.puddles[tile]
	if !ok {
		p = chem.NewSolution(chem.Q(puddleCapacity))
		w.puddles[tile] = p
	}
	p.Merge(s)
	if sound {
		w.logger.Printf("splash at %v", tile)
	}
	return true
}

// Bodies

func (w *World) TouchReaction(target entity.ID, s *chem.Solution) {
	e, ok := w.Get(target)
	if !ok {
		return
	}
	if e.Washable != nil {
		w.Laundry.OnSplashed(e.Washable, s)
	}
}

// ChangeDamage adds to an entity's damage. Cocoons pass some of it on to whoever is inside.
func (w *World) ChangeDamage(target entity.ID, d damage.Spec) {
	e, ok := w.Get(target)
	if !ok || d.Empty() {
		return
	}
	e.Damage = e.Damage.Add(d)
	if e.Cocoon != nil {
		w.Cocoons.OnDamageChanged(target, d)
	}
}

func (w *World) IsClothing(e entity.ID) bool {
	ent, ok := w.Get(e)
	return ok && ent.Clothing
}

// Bleed lets a garment worn over a wound soak up part of the blood.
func (w *World) Bleed(garment entity.ID, bleed *chem.Solution) chem.Quantity {
	e, ok := w.Get(garment)
	if !ok || e.Washable == nil {
		return 0
	}
	return w.Laundry.OnBleed(e.Washable, bleed)
}

// Components

func (w *World) Machine(e entity.ID) (*laundry.Machine, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.Machine == nil {
		return nil, false
	}
	return ent.Machine, true
}

func (w *World) Washable(e entity.ID) (*laundry.Washable, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.Washable == nil {
		return nil, false
	}
	return ent.Washable, true
}

func (w *World) Machines() []*laundry.Machine   { return w.machines }
func (w *World) Washables() []*laundry.Washable { return w.washables }

func (w *World) Cocooner(e entity.ID) (*cocoon.Cocooner, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.Cocooner == nil {
		return nil, false
	}
	return ent.Cocooner, true
}

func (w *World) Cocoon(e entity.ID) (*cocoon.Cocoon, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.Cocoon == nil {
		return nil, false
	}
	return ent.Cocoon, true
}

func (w *World) BloodSucker(e entity.ID) (*cocoon.BloodSucker, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.BloodSucker == nil {
		return nil, false
	}
	return ent.BloodSucker, true
}

func (w *World) Laniuses() []entity.ID {
	var out []entity.ID
	for _, id := range w.order {
		if w.entities[id].Lanius != nil {
			out = append(out, id)
		}
	}
	return out
}

func (w *World) Lanius(e entity.ID) (*siphon.Lanius, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.Lanius == nil {
		return nil, false
	}
	return ent.Lanius, true
}

// Creatures

func (w *World) BloodReagent(e entity.ID) (chem.ReagentID, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.BloodReagent == "" {
		return "", false
	}
	return ent.BloodReagent, true
}

func (w *World) KnockedDown(e entity.ID) bool {
	ent, ok := w.Get(e)
	return ok && ent.KnockedDown
}

func (w *World) Humanoid(e entity.ID) bool {
	ent, ok := w.Get(e)
	return ok && ent.Humanoid
}

func (w *World) Mass(e entity.ID) (float64, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.Mass <= 0 {
		return 0, false
	}
	return ent.Mass, true
}

func (w *World) Position(e entity.ID) (mgl64.Vec2, bool) {
	ent, ok := w.Get(e)
	if !ok {
		return mgl64.Vec2{}, false
	}
	return ent.Pos, true
}

func (w *World) Name(e entity.ID) string {
	ent, ok := w.Get(e)
	switch {
	case !ok:
		return e.String()
	case ent.Label != "":
		return ent.Label
	}
	return ent.Proto
}

// Spawn creates a cocoon with a locked body slot.
func (w *World) Spawn(proto string, at mgl64.Vec2) (entity.ID, bool) {
	e := w.Add("", proto, at)
	c := cocoon.DefaultCocoon()
	e.Cocoon = &c
	e.Slots[cocoon.BodySlot] = &Slot{Locked: true}
	return e.ID, true
}

func (w *World) SetScale(e entity.ID, scale float64) {
	if ent, ok := w.Get(e); ok {
		ent.Scale = scale
	}
}

func (w *World) SetSlotLock(owner entity.ID, slot string, locked bool) {
	e, ok := w.Get(owner)
	if !ok {
		return
	}
	if s, ok := e.Slots[slot]; ok {
		s.Locked = locked
	}
}

// InsertIntoSlot moves item into an unlocked, empty slot, taking it out of any storage first.
func (w *World) InsertIntoSlot(owner entity.ID, slot string, item entity.ID) bool {
	o, ok := w.Get(owner)
	if !ok {
		return false
	}
	s, ok := o.Slots[slot]
	if !ok || s.Locked || s.Item != entity.None {
		return false
	}
	it, ok := w.Get(item)
	if !ok {
		return false
	}
	if holder, ok := w.Get(it.Inside); ok && holder.Storage != nil {
		holder.Storage.Contents = without(holder.Storage.Contents, item)
	}

	s.Item = item
	it.Inside = owner
	it.Pos = o.Pos
	if o.Machine != nil {
		w.Laundry.OnItemInserted(owner, slot, item)
	}
	if o.Cocoon != nil && slot == cocoon.BodySlot {
		w.Cocoons.OnInserted(owner, item)
	}
	return true
}

func (w *World) SetStunned(e entity.ID, stunned bool) {
	if ent, ok := w.Get(e); ok {
		ent.Stunned = stunned
	}
}

// UpdateBlindness blinds anyone wrapped in a cocoon.
func (w *World) UpdateBlindness(e entity.ID) {
	ent, ok := w.Get(e)
	if !ok {
		return
	}
	holder, ok := w.Get(ent.Inside)
	ent.Blind = ok && holder.Cocoon != nil
}

func (w *World) ReplacementAccent(e entity.ID) (string, bool) {
	ent, ok := w.Get(e)
	if !ok || ent.Accent == "" {
		return "", false
	}
	return ent.Accent, true
}

func (w *World) SetReplacementAccent(e entity.ID, accent string) {
	if ent, ok := w.Get(e); ok {
		ent.Accent = accent
	}
}

func (w *World) RemoveReplacementAccent(e entity.ID) {
	if ent, ok := w.Get(e); ok {
		ent.Accent = ""
	}
}

func (w *World) Forgetful(e entity.ID) bool {
	ent, ok := w.Get(e)
	return ok && ent.Forgetful
}

// ContainingMixture is the air inside whatever storage holds e, else the station air.
func (w *World) ContainingMixture(e entity.ID) (*atmos.GasMixture, bool) {
	ent, ok := w.Get(e)
	if !ok {
		return nil, false
	}
	if air, ok := w.storageAir(ent.Inside); ok {
		return air, true
	}
	return w.air, true
}
