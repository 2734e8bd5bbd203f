package laundry

import "fmt"

// Mode selects what Start runs.
type Mode int

const (
	ModeWash Mode = iota
	ModeDry
	ModeWashAndDry
)

// WasherCycle alters spin intensity and which stages run.
type WasherCycle int

const (
	WasherNormal WasherCycle = iota
	WasherDelicate
	WasherRinseAndSpin
)

// DryerCycle is configured and displayed but does not change drying.
type DryerCycle int

const (
	DryerNormal DryerCycle = iota
	DryerDelicate
	DryerTimed
)

// State is the outer machine phase.
type State int

const (
	StateOff State = iota
	StateWashing
	StateDelay
	StateDrying
)

// WashState is the wash sub-phase, meaningful only while State is StateWashing.
type WashState int

const (
	WashInactive WashState = iota
	WashDelay
	WashFill
	WashWashing
	WashDraining
	WashRinseFill
	WashRinsing
	WashRinseDraining
	WashFastSpin
)

var (
	modeNames        = []string{"Wash", "Dry", "WashAndDry"}
	washerCycleNames = []string{"Normal", "Delicate", "RinseAndSpin"}
	dryerCycleNames  = []string{"Normal", "Delicate", "Timed"}
	stateNames       = []string{"Off", "Washing", "Delay", "Drying"}
	washStateNames   = []string{"Inactive", "Delay", "WashFill", "Washing", "WashDraining", "RinseFill", "Rinsing", "RinseDraining", "FastSpin"}
)

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("Unknown(%d)", i)
	}
	return names[i]
}

func enumParse(names []string, kind string, text []byte) (int, error) {
	for i, n := range names {
		if n == string(text) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, text)
}

func (m Mode) String() string                { return enumName(modeNames, int(m)) }
func (m Mode) MarshalText() ([]byte, error)  { return []byte(m.String()), nil }
func (m *Mode) UnmarshalText(b []byte) error { return unmarshalEnum(modeNames, "mode", b, (*int)(m)) }

// Next cycles to the following mode.
func (m Mode) Next() Mode { return Mode((int(m) + 1) % len(modeNames)) }

func (c WasherCycle) String() string               { return enumName(washerCycleNames, int(c)) }
func (c WasherCycle) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (c *WasherCycle) UnmarshalText(b []byte) error {
	return unmarshalEnum(washerCycleNames, "washer cycle", b, (*int)(c))
}
func (c WasherCycle) Next() WasherCycle { return WasherCycle((int(c) + 1) % len(washerCycleNames)) }

func (c DryerCycle) String() string               { return enumName(dryerCycleNames, int(c)) }
func (c DryerCycle) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (c *DryerCycle) UnmarshalText(b []byte) error {
	return unmarshalEnum(dryerCycleNames, "dryer cycle", b, (*int)(c))
}
func (c DryerCycle) Next() DryerCycle { return DryerCycle((int(c) + 1) % len(dryerCycleNames)) }

func (s State) String() string                { return enumName(stateNames, int(s)) }
func (s State) MarshalText() ([]byte, error)  { return []byte(s.String()), nil }
func (s *State) UnmarshalText(b []byte) error { return unmarshalEnum(stateNames, "state", b, (*int)(s)) }

func (s WashState) String() string               { return enumName(washStateNames, int(s)) }
func (s WashState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *WashState) UnmarshalText(b []byte) error {
	return unmarshalEnum(washStateNames, "wash state", b, (*int)(s))
}

// Agitating reports whether the drum tumbles in this sub-phase.
func (s WashState) Agitating() bool {
	return s == WashWashing || s == WashRinsing || s == WashFastSpin
}

func unmarshalEnum(names []string, kind string, b []byte, dst *int) error {
	v, err := enumParse(names, kind, b)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// Wetness is derived from a garment's absorbed volume; it is never stored.
type Wetness int

const (
	Dry Wetness = iota
	Damp
	Moist
	Wet
	VeryWet
	Drenched
)

var wetnessNames = []string{"Dry", "Damp", "Moist", "Wet", "VeryWet", "Drenched"}

func (w Wetness) String() string               { return enumName(wetnessNames, int(w)) }
func (w Wetness) MarshalText() ([]byte, error) { return []byte(w.String()), nil }
