package laundry

import (
	"station-mods/internal/atmos"
	"station-mods/internal/chem"
	"station-mods/internal/entity"
)

// transfer moves up to q from src into dst. Whatever dst cannot take goes back to src.
func transfer(src, dst *chem.Solution, q chem.Quantity) chem.Quantity {
	taken := src.Split(q)
	accepted := dst.Merge(taken)
	if taken.Volume() > 0 {
		src.Merge(taken)
	}
	return accepted
}

func (s *System) fillDrumWater(m *Machine, units float64) {
	drum, ok := s.host.Solution(m.owner, DrumSolution)
	if !ok {
		return
	}
	tank, ok := s.host.Solution(m.owner, TankSolution)
	if !ok {
		return
	}
	transfer(tank, drum, chem.Q(units))
}

func (s *System) fillDrumDetergent(m *Machine, units float64) {
	drum, ok := s.host.Solution(m.owner, DrumSolution)
	if !ok {
		return
	}
	item, ok := s.host.SlotItem(m.owner, DetergentSlot)
	if !ok {
		return
	}
	detergent, ok := s.host.DispenserSolution(item)
	if !ok {
		return
	}
	transfer(detergent, drum, chem.Q(units))
}

// drainDrum spills q of the drum onto the floor at the machine.
func (s *System) drainDrum(owner entity.ID, q chem.Quantity, sound bool) {
	drum, ok := s.host.Solution(owner, DrumSolution)
	if !ok {
		return
	}
	s.spillAt(owner, drum.Split(q), sound)
}

// drainAll empties a named solution onto the floor.
func (s *System) drainAll(owner entity.ID, name string, sound bool) {
	sol, ok := s.host.Solution(owner, name)
	if !ok {
		return
	}
	s.spillAt(owner, sol.Split(sol.Volume()), sound)
}

func (s *System) spillAt(at entity.ID, sol *chem.Solution, sound bool) {
	if sol.Volume() <= 0 {
		return
	}
	if !s.host.SpillAt(at, sol, sound) {
		s.logger.Printf("failed to spill %s units at %s", sol.Volume(), at)
	}
}

// spin tumbles the drum contents once. It returns false when the door popped open
// and the rest of the tick must be skipped.
func (s *System) spin(m *Machine, secs float64, drip bool) bool {
	drum, ok := s.host.Solution(m.owner, DrumSolution)
	if !ok {
		return true
	}
	if _, ok := s.host.StorageOpen(m.owner); !ok {
		return true
	}

	if !s.host.Locked(m.owner) && s.rng.Float64() < m.cfg.UnlockedOpenChance {
		m.emit(EventDoorForcedOpen, SoundNone)
		s.host.OpenStorage(m.owner)
		return false
	}

	contents := s.host.Contents(m.owner)
	if len(contents) == 0 {
		return true
	}

	exposure, factor := secs, 1.0
	if m.washState == WashFastSpin && m.washerCycle != WasherDelicate {
		exposure, factor = 2*secs, 2
	}
	share := drum.Volume().Float() / float64(len(contents))

	for _, e := range contents {
		var splash *chem.Solution
		if drum.Volume() > 0 {
			splash = drum.Split(chem.Q(share * MachineWashPortion * exposure))
			s.host.TouchReaction(e, splash)
		}
		if drip {
			if w, ok := s.host.Washable(e); ok {
				s.Drip(w, chem.Q(DripAmount*exposure), false)
			}
		}
		if splash != nil {
			drum.Merge(splash)
			s.spillAt(m.owner, splash, false)
		}

		if !s.host.IsClothing(e) && !m.cfg.DamagePerSecond.Empty() {
			s.host.ChangeDamage(e, m.cfg.DamagePerSecond.Scale(factor*secs))
		}
	}
	return true
}

// heat warms the drum liquid and the air inside toward the target without overshooting.
func (s *System) heat(m *Machine, secs float64) {
	target := atmos.T0C + m.cfg.TemperatureCelsius
	joules := m.timings.HeatPerSecond * secs

	if drum, ok := s.host.Solution(m.owner, DrumSolution); ok && drum.Temperature() < target {
		s.reagents.AddThermalEnergy(drum, joules)
		if drum.Temperature() > target {
			drum.SetTemperature(target)
		}
	}

	if air, ok := s.host.AirTemperature(m.owner); ok && air < target {
		s.host.AddAirHeat(m.owner, joules)
		if now, _ := s.host.AirTemperature(m.owner); now > target {
			s.host.SetAirTemperature(m.owner, target)
		}
	}
}
