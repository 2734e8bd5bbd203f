package laundry

import "station-mods/internal/entity"

// EventKind classifies machine events.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventWashStateChanged
	EventCycleSwitched
	EventModeSwitched
	EventStarted
	EventStopped
	EventPaused
	EventResumed
	EventDoorForcedOpen
	EventCycleCompleted
	EventItemInserted
	EventItemRemoved
)

var eventKindNames = []string{
	"StateChanged", "WashStateChanged", "CycleSwitched", "ModeSwitched", "Started", "Stopped",
	"Paused", "Resumed", "DoorForcedOpen", "CycleCompleted", "ItemInserted", "ItemRemoved",
}

func (k EventKind) String() string               { return enumName(eventKindNames, int(k)) }
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Sound is a one-shot cue or an ambient loop name.
type Sound string

const (
	SoundNone      Sound = ""
	SoundClick     Sound = "click"
	SoundStart     Sound = "start"
	SoundFill      Sound = "fill"
	SoundSpinStart Sound = "spinstart"
	SoundSpin      Sound = "spin"
	SoundFastSpin  Sound = "fastspin"
)

// Event is produced whenever a machine changes in a way observers care about.
// View is the machine snapshot right after the change.
type Event struct {
	Kind    EventKind `json:"kind"`
	Machine entity.ID `json:"machine"`
	Sound   Sound     `json:"sound,omitempty"`
	Slot    string    `json:"slot,omitempty"`
	Item    entity.ID `json:"item"`
	View    View      `json:"view"`
}

// Listener receives events synchronously on the tick goroutine.
type Listener func(Event)
