package laundry

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Jitter is how hard the machine shakes.
type Jitter struct {
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
}

// AmbientProfile is the looping sound, shaking and light a machine shows.
type AmbientProfile struct {
	Sound  Sound  `json:"sound,omitempty"`
	Jitter Jitter `json:"jitter"`
	Light  bool   `json:"light"`
}

var (
	spinJitter     = Jitter{Amplitude: 4, Frequency: 8}
	fastSpinJitter = Jitter{Amplitude: 4, Frequency: 16}
)

// Ambient derives the ambient profile from a view. Paused machines keep their light but go quiet.
func Ambient(v View) AmbientProfile {
	p := AmbientProfile{Light: v.State != StateOff}
	if v.Paused || v.State == StateOff {
		return p
	}
	switch v.State {
	case StateDrying:
		p.Sound, p.Jitter = SoundSpin, spinJitter
	case StateWashing:
		switch v.WashState {
		case WashWashing, WashRinsing:
			p.Sound, p.Jitter = SoundSpin, spinJitter
		case WashFastSpin:
			if v.WasherCycle == WasherDelicate {
				p.Sound, p.Jitter = SoundSpin, spinJitter
			} else {
				p.Sound, p.Jitter = SoundFastSpin, fastSpinJitter
			}
		}
	}
	return p
}

// StatusLine is one examine line; higher priority sorts first.
type StatusLine struct {
	Priority int    `json:"priority"`
	Text     string `json:"text"`
}

func sortLines(lines []StatusLine) []StatusLine {
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Priority > lines[j].Priority })
	return lines
}

// StatusLines is the examine text for a machine.
func StatusLines(v View) []StatusLine {
	var lines []StatusLine
	if v.CanDry && v.State == StateDrying {
		mins := int(math.Ceil(v.TimeRemaining.Minutes()))
		lines = append(lines, StatusLine{12, fmt.Sprintf("It has %d %s remaining.", mins, plural(mins, "minute"))})
	}
	state := fmt.Sprintf("It is %s.", strings.ToLower(v.State.String()))
	if v.Paused {
		state = fmt.Sprintf("It is %s, but paused.", strings.ToLower(v.State.String()))
	}
	lines = append(lines, StatusLine{11, state})
	if v.CanWash {
		lines = append(lines, StatusLine{10, fmt.Sprintf("The wash cycle is set to %s.", v.WasherCycle)})
	}
	if v.CanDry && v.State != StateDrying {
		lines = append(lines, StatusLine{8, fmt.Sprintf("The timer is set to %d %s.", v.TimeSettingMinutes, plural(v.TimeSettingMinutes, "minute"))})
	}
	if v.CanWash && v.CanDry {
		lines = append(lines, StatusLine{6, fmt.Sprintf("The mode is set to %s.", v.Mode)})
	}
	return sortLines(lines)
}

var wetnessText = map[Wetness]string{
	Dry:      "It is dry.",
	Damp:     "It is damp.",
	Moist:    "It is moist.",
	Wet:      "It is wet.",
	VeryWet:  "It is very wet.",
	Drenched: "It is drenched.",
}

// WashableStatusLines is the examine text for a garment.
func WashableStatusLines(v WashableView) []StatusLine {
	lines := []StatusLine{{10, wetnessText[v.Wetness]}}
	if v.Dripping {
		lines = append(lines, StatusLine{9, "It is dripping."})
	}
	return lines
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
