package cocoon

import (
	"fmt"
	"log"
	"time"

	"station-mods/internal/damage"
	"station-mods/internal/entity"
)

// moveTolerance is how far either party may drift before a do-after breaks.
const moveTolerance = 0.1

// EventKind classifies cocoon events.
type EventKind int

const (
	EventCocoonStarted EventKind = iota
	EventCocoonCancelled
	EventItemCocooned
)

func (k EventKind) String() string {
	switch k {
	case EventCocoonStarted:
		return "CocoonStarted"
	case EventCocoonCancelled:
		return "CocoonCancelled"
	case EventItemCocooned:
		return "ItemCocooned"
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// Event reports do-after progress and completed cocoonings. Log is set for ItemCocooned.
type Event struct {
	Kind   EventKind
	User   entity.ID
	Target entity.ID
	Cocoon entity.ID
	Log    *AdminLog
}

type doAfter struct {
	user, target entity.ID
	remaining    time.Duration
}

// System runs cocooning do-afters and keeps cocooned victims subdued.
type System struct {
	host      Host
	logger    *log.Logger
	pending   []*doAfter
	listeners []func(Event)
}

func NewSystem(host Host, logger *log.Logger) *System {
	if logger == nil {
		logger = log.Default()
	}
	return &System{host: host, logger: logger}
}

// Subscribe registers a listener for cocoon events.
func (s *System) Subscribe(l func(Event)) {
	s.listeners = append(s.listeners, l)
}

func (s *System) publish(ev Event) {
	for _, l := range s.listeners {
		l(ev)
	}
}

// CanCocoon reports whether spider may wrap target.
func (s *System) CanCocoon(spider, target entity.ID) bool {
	if spider == target {
		return false
	}
	c, ok := s.host.Cocooner(spider)
	if !ok {
		return false
	}
	blood, ok := s.host.BloodReagent(target)
	return ok && blood == c.WebBloodReagent
}

// StartCocooning begins the do-after. It is slower or faster when the target is knocked down.
func (s *System) StartCocooning(spider, target entity.ID) error {
	if !s.CanCocoon(spider, target) {
		return fmt.Errorf("%s cannot cocoon %s", s.host.Name(spider), s.host.Name(target))
	}
	for _, d := range s.pending {
		if d.user == spider {
			return fmt.Errorf("%s is already cocooning", s.host.Name(spider))
		}
	}
	c, _ := s.host.Cocooner(spider)
	delay := c.CocoonDelay
	if s.host.KnockedDown(target) {
		delay = time.Duration(float64(delay) * c.KnockdownMultiplier)
	}

	d := &doAfter{user: spider, target: target, remaining: delay}
	s.pending = append(s.pending, d)
	s.publish(Event{Kind: EventCocoonStarted, User: spider, Target: target})
	return nil
}

// Pending reports whether spider has a cocooning in progress.
func (s *System) Pending(spider entity.ID) bool {
	for _, d := range s.pending {
		if d.user == spider {
			return true
		}
	}
	return false
}

// OnMoved breaks any do-after the entity takes part in when it moved farther than the tolerance.
func (s *System) OnMoved(e entity.ID, distance float64) {
	if distance <= moveTolerance {
		return
	}
	kept := s.pending[:0]
	for _, d := range s.pending {
		if d.user == e || d.target == e {
			s.publish(Event{Kind: EventCocoonCancelled, User: d.user, Target: d.target})
			continue
		}
		kept = append(kept, d)
	}
	s.pending = kept
}

// Update advances do-afters and completes the finished ones.
func (s *System) Update(dt time.Duration) {
	var done []*doAfter
	kept := s.pending[:0]
	for _, d := range s.pending {
		d.remaining -= dt
		if d.remaining <= 0 {
			done = append(done, d)
			continue
		}
		kept = append(kept, d)
	}
	s.pending = kept
	for _, d := range done {
		s.complete(d.user, d.target)
	}
}

func (s *System) complete(user, target entity.ID) {
	at, ok := s.host.Position(target)
	if !ok {
		return
	}
	humanoid := s.host.Humanoid(target)
	proto, impact := ProtoSmall, ImpactMedium
	if humanoid {
		proto, impact = ProtoHumanoid, ImpactHigh
	}

	cocoon, ok := s.host.Spawn(proto, at)
	if !ok {
		s.logger.Printf("failed to spawn %s for %s", proto, target)
		return
	}
	if mass, ok := s.host.Mass(target); ok {
		s.host.SetScale(cocoon, Scale(mass))
	}

	s.host.SetSlotLock(cocoon, BodySlot, false)
	inserted := s.host.InsertIntoSlot(cocoon, BodySlot, target)
	s.host.SetSlotLock(cocoon, BodySlot, true)
	if !inserted {
		s.logger.Printf("failed to insert %s into %s", target, cocoon)
		return
	}

	entry := &AdminLog{
		Impact:  impact,
		User:    user,
		Target:  target,
		Message: fmt.Sprintf("%s cocooned %s", s.host.Name(user), s.host.Name(target)),
	}
	s.logger.Printf("[%s] %s", entry.Impact, entry.Message)
	s.publish(Event{Kind: EventItemCocooned, User: user, Target: target, Cocoon: cocoon, Log: entry})
}

// OnInserted subdues a victim placed in a cocoon and swaps its accent for a mumble.
func (s *System) OnInserted(cocoon, victim entity.ID) {
	c, ok := s.host.Cocoon(cocoon)
	if !ok {
		return
	}
	s.host.UpdateBlindness(victim)
	s.host.SetStunned(victim, true)

	if old, ok := s.host.ReplacementAccent(victim); ok {
		c.WasReplacementAccent = true
		c.OldAccent = old
	} else {
		c.WasReplacementAccent = false
		c.OldAccent = ""
	}
	s.host.SetReplacementAccent(victim, MumbleAccent)
}

// OnRemoved restores whatever accent the victim had before and frees it.
func (s *System) OnRemoved(cocoon, victim entity.ID) {
	c, ok := s.host.Cocoon(cocoon)
	if !ok {
		return
	}
	if _, has := s.host.ReplacementAccent(victim); c.WasReplacementAccent && has {
		s.host.SetReplacementAccent(victim, c.OldAccent)
	} else {
		s.host.RemoveReplacementAccent(victim)
	}
	s.host.SetStunned(victim, false)
	s.host.UpdateBlindness(victim)
}

// OnDamageChanged passes part of any damage the cocoon takes on to the victim inside.
func (s *System) OnDamageChanged(cocoon entity.ID, delta damage.Spec) {
	if !delta.Increased() {
		return
	}
	c, ok := s.host.Cocoon(cocoon)
	if !ok {
		return
	}
	body, ok := s.host.SlotItem(cocoon, BodySlot)
	if !ok {
		return
	}
	s.host.ChangeDamage(body, delta.Scale(c.DamagePassthrough))
}

// SuckTarget is the victim a web-requiring blood sucker may feed on through this cocoon.
func (s *System) SuckTarget(user, cocoon entity.ID) (entity.ID, bool) {
	sucker, ok := s.host.BloodSucker(user)
	if !ok || !sucker.WebRequired {
		return entity.None, false
	}
	if _, ok := s.host.Cocoon(cocoon); !ok {
		return entity.None, false
	}
	victim, ok := s.host.SlotItem(cocoon, BodySlot)
	if !ok {
		return entity.None, false
	}
	if _, ok := s.host.BloodReagent(victim); !ok {
		return entity.None, false
	}
	return victim, true
}
