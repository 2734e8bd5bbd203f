package laundry

import (
	"fmt"

	"station-mods/internal/entity"
)

// Feedback is the user-facing result of a control action.
type Feedback struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func refuse(msg string) Feedback { return Feedback{OK: false, Message: msg} }

const msgNotAMachine = "That is not a laundry machine."

// Start begins a cycle according to the mode. The door must be closed.
func (s *System) Start(id entity.ID) Feedback {
	m, ok := s.host.Machine(id)
	if !ok {
		return refuse(msgNotAMachine)
	}
	open, ok := s.host.StorageOpen(id)
	if !ok {
		return refuse("")
	}
	if open {
		return refuse("Close the door before starting the machine.")
	}
	if m.state != StateOff {
		return Feedback{OK: true, Message: "The machine is already running."}
	}

	m.start()
	m.emit(EventStarted, SoundStart)
	s.flush(m)
	return Feedback{OK: true, Message: "The machine starts."}
}

// Stop turns the machine off from any state.
func (s *System) Stop(id entity.ID) Feedback {
	m, ok := s.host.Machine(id)
	if !ok {
		return refuse(msgNotAMachine)
	}
	m.stop()
	m.emit(EventStopped, SoundStart)
	s.flush(m)
	return Feedback{OK: true, Message: "The machine stops."}
}

// Pause freezes timers without leaving the current stage.
func (s *System) Pause(id entity.ID) Feedback {
	m, ok := s.host.Machine(id)
	if !ok {
		return refuse(msgNotAMachine)
	}
	if m.state == StateOff {
		return refuse("The machine is not running.")
	}
	if !m.pause() {
		return refuse("The machine is already paused.")
	}
	s.flush(m)
	return Feedback{OK: true, Message: "The machine pauses."}
}

// Resume continues a paused cycle. The door must be closed.
func (s *System) Resume(id entity.ID) Feedback {
	m, ok := s.host.Machine(id)
	if !ok {
		return refuse(msgNotAMachine)
	}
	if !m.paused {
		return refuse("The machine is not paused.")
	}
	open, ok := s.host.StorageOpen(id)
	if !ok {
		return refuse("")
	}
	if open {
		return refuse("Close the door before resuming the machine.")
	}
	m.paused = false
	m.emit(EventResumed, SoundClick)
	s.flush(m)
	return Feedback{OK: true, Message: "The machine resumes."}
}

// SwitchWasherCycle moves to the next washer cycle. Only allowed while off.
func (s *System) SwitchWasherCycle(id entity.ID) Feedback {
	m, ok := s.host.Machine(id)
	if !ok {
		return refuse(msgNotAMachine)
	}
	if m.state != StateOff || !m.cfg.CanWash {
		return refuse("")
	}
	m.washerCycle = m.washerCycle.Next()
	m.emit(EventCycleSwitched, SoundClick)
	s.flush(m)
	return Feedback{OK: true, Message: fmt.Sprintf("Wash cycle set to %s.", m.washerCycle)}
}

// SwitchDryerCycle moves to the next dryer cycle. Only allowed while off.
func (s *System) SwitchDryerCycle(id entity.ID) Feedback {
	m, ok := s.host.Machine(id)
	if !ok {
		return refuse(msgNotAMachine)
	}
	if m.state != StateOff || !m.cfg.CanDry {
		return refuse("")
	}
	m.dryerCycle = m.dryerCycle.Next()
	m.emit(EventCycleSwitched, SoundClick)
	s.flush(m)
	return Feedback{OK: true, Message: fmt.Sprintf("Dry cycle set to %s.", m.dryerCycle)}
}

// SwitchMode moves to the next mode. Only washer-dryers have a mode to switch.
func (s *System) SwitchMode(id entity.ID) Feedback {
	m, ok := s.host.Machine(id)
	if !ok {
		return refuse(msgNotAMachine)
	}
	if m.state != StateOff || !m.cfg.CanWash || !m.cfg.CanDry {
		return refuse("")
	}
	m.mode = m.mode.Next()
	m.emit(EventModeSwitched, SoundClick)
	s.flush(m)
	return Feedback{OK: true, Message: fmt.Sprintf("Mode set to %s.", m.mode)}
}

// OnDoorOpened dumps the drum and pauses a running machine.
func (s *System) OnDoorOpened(id entity.ID) {
	m, ok := s.host.Machine(id)
	if !ok {
		return
	}
	s.drainAll(id, DrumSolution, true)
	if m.state != StateOff {
		m.pause()
	}
	s.flush(m)
}

// OnDestroyed spills both the drum and the tank.
func (s *System) OnDestroyed(id entity.ID) {
	if _, ok := s.host.Machine(id); !ok {
		return
	}
	s.drainAll(id, DrumSolution, true)
	s.drainAll(id, TankSolution, false)
}

// OnItemInserted records an item entering a slot. Detergent is looked up at fill time.
func (s *System) OnItemInserted(id entity.ID, slot string, item entity.ID) {
	s.itemEvent(id, EventItemInserted, slot, item)
}

// OnItemRemoved records an item leaving a slot or the drum.
func (s *System) OnItemRemoved(id entity.ID, slot string, item entity.ID) {
	s.itemEvent(id, EventItemRemoved, slot, item)
}

func (s *System) itemEvent(id entity.ID, kind EventKind, slot string, item entity.ID) {
	m, ok := s.host.Machine(id)
	if !ok {
		return
	}
	m.events = append(m.events, Event{Kind: kind, Machine: id, Slot: slot, Item: item, View: m.View()})
	s.flush(m)
}

// CanUnanchor refuses while the drum is tumbling.
func CanUnanchor(v View) bool {
	return !v.Agitating()
}
