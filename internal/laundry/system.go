package laundry

import (
	"log"
	"time"

	"station-mods/internal/chem"
)

// System advances every laundry machine and washable garment on a fixed interval.
// It is not safe for concurrent use; the host calls it from its tick goroutine.
type System struct {
	host     Host
	reagents *chem.Registry
	rng      Rand
	logger   *log.Logger
	timings  Timings

	listeners []Listener
	acc       time.Duration
}

// NewSystem wires the laundry system to its host.
func NewSystem(host Host, reagents *chem.Registry, rng Rand, logger *log.Logger, timings Timings) *System {
	if logger == nil {
		logger = log.Default()
	}
	return &System{
		host:     host,
		reagents: reagents,
		rng:      rng,
		logger:   logger,
		timings:  timings.withDefaults(),
	}
}

// Timings returns the effective timings.
func (s *System) Timings() Timings { return s.timings }

// Subscribe registers a listener for machine events.
func (s *System) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *System) flush(m *Machine) {
	for _, ev := range m.drainEvents() {
		for _, l := range s.listeners {
			l(ev)
		}
	}
}

// Update accumulates frame time and runs one fixed update per elapsed interval.
func (s *System) Update(frameTime time.Duration) {
	s.acc += frameTime
	for s.acc >= s.timings.UpdateInterval {
		s.acc -= s.timings.UpdateInterval
		s.step(s.timings.UpdateInterval)
	}
}

func (s *System) step(dt time.Duration) {
	for _, m := range s.host.Machines() {
		s.updateMachine(m, dt)
		s.flush(m)
	}
	for _, w := range s.host.Washables() {
		s.updateWashable(w, dt)
	}
}

func (s *System) updateMachine(m *Machine, dt time.Duration) {
	if m.paused {
		return
	}
	switch m.state {
	case StateWashing:
		s.updateWash(m, dt)
	case StateDelay:
		if m.countdown(dt) {
			m.changeState(StateDrying)
		}
	case StateDrying:
		s.updateDry(m, dt)
	}
}

func (s *System) updateWash(m *Machine, dt time.Duration) {
	secs := dt.Seconds()
	t := m.timings

	switch m.washState {
	case WashDelay:
		if m.delayNext == nil {
			return
		}
		if m.countdown(dt) {
			m.changeWashState(*m.delayNext, nil)
		}
	case WashFill:
		s.fillDrumWater(m, t.WaterRate*secs)
		s.fillDrumDetergent(m, t.DetergentRate*secs)
		if m.countdown(dt) {
			m.delayThen(WashWashing)
		}
	case WashWashing:
		if !s.spin(m, secs, true) {
			return
		}
		if m.countdown(dt) {
			m.changeWashState(WashDraining, nil)
		}
	case WashDraining:
		s.drainDrum(m.owner, chem.Q(t.DrainRate*secs), false)
		if m.countdown(dt) {
			m.delayThen(WashRinseFill)
		}
	case WashRinseFill:
		s.fillDrumWater(m, t.WaterRate*secs)
		if m.countdown(dt) {
			m.delayThen(WashRinsing)
		}
	case WashRinsing:
		if !s.spin(m, secs, true) {
			return
		}
		if m.countdown(dt) {
			m.changeWashState(WashRinseDraining, nil)
		}
	case WashRinseDraining:
		s.drainDrum(m.owner, chem.Q(t.DrainRate*secs), false)
		if m.countdown(dt) {
			m.delayThen(WashFastSpin)
		}
	case WashFastSpin:
		s.drainDrum(m.owner, chem.Q(t.SpinDrainRate*secs), false)
		if !s.spin(m, secs, true) {
			return
		}
		if m.countdown(dt) {
			m.finishWash()
		}
	}
}

func (s *System) updateDry(m *Machine, dt time.Duration) {
	secs := dt.Seconds()
	if !s.spin(m, secs, false) {
		return
	}
	s.drainDrum(m.owner, chem.Q(m.timings.DryDrainRate*secs), false)
	s.heat(m, secs)
	if m.countdown(dt) {
		m.complete()
	}
}
