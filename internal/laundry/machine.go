package laundry

import (
	"time"

	"station-mods/internal/entity"
)

// Machine is the laundry state machine of one washer, dryer or washer-dryer.
// Its fields change only through the transition methods below; callers read a View.
type Machine struct {
	owner   entity.ID
	cfg     MachineConfig
	timings Timings

	mode        Mode
	washerCycle WasherCycle
	dryerCycle  DryerCycle

	state         State
	washState     WashState
	delayNext     *WashState
	timeRemaining time.Duration
	paused        bool

	events []Event
}

// NewMachine returns an idle machine owned by the given entity.
func NewMachine(owner entity.ID, cfg MachineConfig, timings Timings) *Machine {
	return &Machine{
		owner:       owner,
		cfg:         cfg,
		timings:     timings.withDefaults(),
		mode:        cfg.Mode,
		washerCycle: cfg.WasherCycle,
		dryerCycle:  cfg.DryerCycle,
	}
}

// Owner is the machine entity.
func (m *Machine) Owner() entity.ID { return m.owner }

// View is a read-only snapshot of a machine.
type View struct {
	ID                 entity.ID     `json:"id"`
	CanWash            bool          `json:"can_wash"`
	CanDry             bool          `json:"can_dry"`
	Mode               Mode          `json:"mode"`
	WasherCycle        WasherCycle   `json:"washer_cycle"`
	DryerCycle         DryerCycle    `json:"dryer_cycle"`
	State              State         `json:"state"`
	WashState          WashState     `json:"wash_state"`
	DelayNext          *WashState    `json:"delay_next,omitempty"`
	TimeRemaining      time.Duration `json:"time_remaining"`
	TimeSettingMinutes int           `json:"time_setting_minutes"`
	TemperatureCelsius float64       `json:"temperature_celsius"`
	Paused             bool          `json:"paused"`
}

// View returns the current snapshot.
func (m *Machine) View() View {
	v := View{
		ID:                 m.owner,
		CanWash:            m.cfg.CanWash,
		CanDry:             m.cfg.CanDry,
		Mode:               m.mode,
		WasherCycle:        m.washerCycle,
		DryerCycle:         m.dryerCycle,
		State:              m.state,
		WashState:          m.washState,
		TimeRemaining:      m.timeRemaining,
		TimeSettingMinutes: m.cfg.TimeSettingMinutes,
		TemperatureCelsius: m.cfg.TemperatureCelsius,
		Paused:             m.paused,
	}
	if m.delayNext != nil {
		next := *m.delayNext
		v.DelayNext = &next
	}
	return v
}

// Running reports whether a cycle is in progress, paused or not.
func (v View) Running() bool { return v.State != StateOff }

// Agitating reports whether the drum is tumbling right now.
func (v View) Agitating() bool {
	if v.Paused {
		return false
	}
	switch v.State {
	case StateDrying:
		return true
	case StateWashing:
		return v.WashState.Agitating()
	}
	return false
}

func (m *Machine) emit(kind EventKind, sound Sound) {
	m.events = append(m.events, Event{Kind: kind, Machine: m.owner, Sound: sound, View: m.View()})
}

func (m *Machine) drainEvents() []Event {
	out := m.events
	m.events = nil
	return out
}

// countdown advances the timer and reports whether it expired. The timer never goes negative.
func (m *Machine) countdown(dt time.Duration) bool {
	m.timeRemaining -= dt
	if m.timeRemaining <= 0 {
		m.timeRemaining = 0
		return true
	}
	return false
}

func (m *Machine) changeState(next State) {
	if m.state == next {
		return
	}
	m.state = next

	switch next {
	case StateOff:
		m.washState = WashInactive
		m.delayNext = nil
		m.timeRemaining = 0
		m.emit(EventStateChanged, SoundNone)
	case StateDelay:
		m.washState = WashInactive
		m.delayNext = nil
		m.timeRemaining = m.timings.DryDelay
		m.emit(EventStateChanged, SoundNone)
	case StateDrying:
		m.washState = WashInactive
		m.delayNext = nil
		m.timeRemaining = time.Duration(m.cfg.TimeSettingMinutes) * time.Minute
		m.emit(EventStateChanged, SoundSpinStart)
	case StateWashing:
		m.emit(EventStateChanged, SoundNone)
		if m.washerCycle == WasherRinseAndSpin {
			m.changeWashState(WashRinseFill, nil)
		} else {
			m.changeWashState(WashFill, nil)
		}
	}
}

// changeWashState enters a wash sub-phase and sets its timer. delayNext is kept only for WashDelay.
func (m *Machine) changeWashState(next WashState, delayNext *WashState) {
	if m.washState == next {
		return
	}
	m.washState = next
	m.delayNext = nil

	sound := SoundNone
	switch next {
	case WashDelay:
		m.delayNext = delayNext
		m.timeRemaining = m.timings.StageDelay
	case WashFill, WashRinseFill:
		m.timeRemaining = m.timings.Fill
		sound = SoundFill
	case WashWashing, WashRinsing:
		m.timeRemaining = m.timings.Agitate
		sound = SoundSpinStart
	case WashDraining, WashRinseDraining:
		m.timeRemaining = m.timings.Drain
		sound = SoundFill
	case WashFastSpin:
		m.timeRemaining = m.timings.FastSpin
		sound = SoundSpinStart
	}
	m.emit(EventWashStateChanged, sound)
}

// delayThen inserts the short inter-stage pause before next.
func (m *Machine) delayThen(next WashState) {
	m.changeWashState(WashDelay, &next)
}

// finishWash runs when FastSpin times out.
func (m *Machine) finishWash() {
	if m.mode == ModeWashAndDry && m.cfg.CanWash && m.cfg.CanDry {
		m.changeState(StateDelay)
		return
	}
	m.complete()
}

// complete ends a cycle that ran to the end on its own.
func (m *Machine) complete() {
	m.stop()
	m.emit(EventCycleCompleted, SoundNone)
}

// start picks the first phase from the mode and the machine's abilities.
func (m *Machine) start() {
	switch {
	case m.cfg.CanWash && m.cfg.CanDry:
		if m.mode == ModeDry {
			m.changeState(StateDrying)
		} else {
			m.changeState(StateWashing)
		}
	case m.cfg.CanWash:
		m.changeState(StateWashing)
	default:
		m.changeState(StateDrying)
	}
}

func (m *Machine) stop() {
	m.changeState(StateOff)
	m.washState = WashInactive
	m.delayNext = nil
	m.paused = false
}

func (m *Machine) pause() bool {
	if m.paused {
		return false
	}
	m.paused = true
	m.emit(EventPaused, SoundClick)
	return true
}
