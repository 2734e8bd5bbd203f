package siphon

import (
	"log"
	"time"

	"station-mods/internal/atmos"
	"station-mods/internal/entity"
)

// Lanius is a creature that feeds by siphoning the air around it.
type Lanius struct {
	// BreathVolume in litres taken per siphon.
	BreathVolume       float64       `yaml:"breath_volume"`
	NextUpdate         time.Duration `yaml:"-"`
	UpdateInterval     time.Duration `yaml:"update_interval"`
	IntervalMultiplier float64       `yaml:"interval_multiplier"`
}

func DefaultLanius() Lanius {
	return Lanius{
		BreathVolume:       atmos.BreathVolume,
		UpdateInterval:     2 * time.Second,
		IntervalMultiplier: 1,
	}
}

// AdjustedInterval is the update interval scaled by the metabolic multiplier.
func (l *Lanius) AdjustedInterval() time.Duration {
	return time.Duration(float64(l.UpdateInterval) * l.IntervalMultiplier)
}

// Host supplies laniuses and the air around them.
type Host interface {
	Laniuses() []entity.ID
	Lanius(e entity.ID) (*Lanius, bool)
	ContainingMixture(e entity.ID) (*atmos.GasMixture, bool)
}

// LocationHook may supply the mixture to siphon from, e.g. an internals tank. Nil defers.
type LocationHook func(e entity.ID, l *Lanius) *atmos.GasMixture

// Siphoned is raised once gas was taken. Handlers mark it handled once they stored it.
type Siphoned struct {
	Entity    entity.ID
	Gas       *atmos.GasMixture
	Handled   bool
	Succeeded bool
}

// Handler receives siphoned gas.
type Handler func(*Siphoned)

// System schedules and performs siphoning.
type System struct {
	host     Host
	logger   *log.Logger
	hooks    []LocationHook
	handlers []Handler
}

func NewSystem(host Host, logger *log.Logger) *System {
	if logger == nil {
		logger = log.Default()
	}
	return &System{host: host, logger: logger}
}

func (s *System) AddLocationHook(h LocationHook) { s.hooks = append(s.hooks, h) }

func (s *System) Handle(h Handler) { s.handlers = append(s.handlers, h) }

// OnMapInit schedules the first siphon one interval from now.
func (s *System) OnMapInit(l *Lanius, now time.Duration) {
	l.NextUpdate = now + l.AdjustedInterval()
}

// Update siphons for every lanius that is due at game time now.
func (s *System) Update(now time.Duration) {
	for _, e := range s.host.Laniuses() {
		l, ok := s.host.Lanius(e)
		if !ok || now < l.NextUpdate {
			continue
		}
		l.NextUpdate += l.AdjustedInterval()
		s.Siphon(e)
	}
}

// Siphon takes one breath of gas for e. It returns nil when there is nothing to breathe.
func (s *System) Siphon(e entity.ID) *Siphoned {
	l, ok := s.host.Lanius(e)
	if !ok {
		return nil
	}

	var mix *atmos.GasMixture
	for _, hook := range s.hooks {
		if mix = hook(e, l); mix != nil {
			break
		}
	}
	if mix == nil {
		if mix, ok = s.host.ContainingMixture(e); !ok {
			return nil
		}
	}

	ev := &Siphoned{Entity: e, Gas: mix.RemoveVolume(l.BreathVolume)}
	for _, h := range s.handlers {
		h(ev)
		if ev.Handled {
			break
		}
	}
	if !ev.Handled {
		s.logger.Printf("siphoned gas from %s was not handled", e)
	}
	return ev
}
