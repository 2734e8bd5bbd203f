package cocoon

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"station-mods/internal/chem"
	"station-mods/internal/damage"
	"station-mods/internal/entity"
)

const (
	// BodySlot holds the wrapped victim.
	BodySlot = "body_slot"
	// ProtoHumanoid and ProtoSmall are the cocoons spawned around humanoid and other victims.
	ProtoHumanoid = "CocoonedHumanoid"
	ProtoSmall    = "CocoonSmall"
	// MumbleAccent replaces speech while cocooned.
	MumbleAccent = "mumble"

	// massPerScale is the victim mass that gives a cocoon of scale 1.
	massPerScale = 35.0
	minScale     = 0.35
	maxScale     = 2.5
)

// Cocooner can wrap creatures with a matching blood reagent.
type Cocooner struct {
	WebBloodReagent     chem.ReagentID `yaml:"web_blood_reagent"`
	CocoonDelay         time.Duration  `yaml:"cocoon_delay"`
	KnockdownMultiplier float64        `yaml:"knockdown_multiplier"`
}

func DefaultCocooner() Cocooner {
	return Cocooner{WebBloodReagent: "Blood", CocoonDelay: 12 * time.Second, KnockdownMultiplier: 0.5}
}

// Cocoon is the spawned wrapping. It remembers the victim's accent so it can be restored.
type Cocoon struct {
	DamagePassthrough    float64 `yaml:"damage_passthrough"`
	WasReplacementAccent bool    `yaml:"-"`
	OldAccent            string  `yaml:"-"`
}

func DefaultCocoon() Cocoon {
	return Cocoon{DamagePassthrough: 0.5}
}

// BloodSucker feeds on victims; web-requiring suckers feed only on cocooned ones.
type BloodSucker struct {
	UnitsToSuck    float64        `yaml:"units_to_suck"`
	Delay          time.Duration  `yaml:"delay"`
	InjectWhenSuck bool           `yaml:"inject_when_suck"`
	UnitsToInject  float64        `yaml:"units_to_inject"`
	InjectReagent  chem.ReagentID `yaml:"inject_reagent"`
	WebRequired    bool           `yaml:"web_required"`
}

func DefaultBloodSucker() BloodSucker {
	return BloodSucker{UnitsToSuck: 20, Delay: 4 * time.Second, UnitsToInject: 5}
}

// Impact grades an admin log entry.
type Impact int

const (
	ImpactLow Impact = iota
	ImpactMedium
	ImpactHigh
)

func (i Impact) String() string {
	switch i {
	case ImpactMedium:
		return "Medium"
	case ImpactHigh:
		return "High"
	}
	return "Low"
}

func (i Impact) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// AdminLog is an action worth surfacing to administrators.
type AdminLog struct {
	Impact  Impact    `json:"impact"`
	User    entity.ID `json:"user"`
	Target  entity.ID `json:"target"`
	Message string    `json:"message"`
}

// Host is what cocooning needs from the engine.
type Host interface {
	Cocooner(e entity.ID) (*Cocooner, bool)
	Cocoon(e entity.ID) (*Cocoon, bool)
	BloodSucker(e entity.ID) (*BloodSucker, bool)

	BloodReagent(e entity.ID) (chem.ReagentID, bool)
	KnockedDown(e entity.ID) bool
	Humanoid(e entity.ID) bool
	Mass(e entity.ID) (float64, bool)
	Position(e entity.ID) (mgl64.Vec2, bool)
	Name(e entity.ID) string

	// Spawn creates a cocoon prototype at a position; the new entity carries a Cocoon component.
	Spawn(proto string, at mgl64.Vec2) (entity.ID, bool)
	SetScale(e entity.ID, scale float64)

	SlotItem(owner entity.ID, slot string) (entity.ID, bool)
	SetSlotLock(owner entity.ID, slot string, locked bool)
	// InsertIntoSlot places item; the host delivers OnInserted.
	InsertIntoSlot(owner entity.ID, slot string, item entity.ID) bool

	SetStunned(e entity.ID, stunned bool)
	UpdateBlindness(e entity.ID)
	ReplacementAccent(e entity.ID) (string, bool)
	SetReplacementAccent(e entity.ID, accent string)
	RemoveReplacementAccent(e entity.ID)

	ChangeDamage(e entity.ID, d damage.Spec)
}

// Scale is the cocoon size for a victim of the given mass.
func Scale(mass float64) float64 {
	return mgl64.Clamp(mass/massPerScale, minScale, maxScale)
}
