package damage

import "sort"

// Type is a damage category such as Blunt or Heat.
type Type string

const (
	Blunt Type = "Blunt"
	Slash Type = "Slash"
	Heat  Type = "Heat"
)

// Spec is a set of damage amounts keyed by type.
type Spec map[Type]float64

// Scale returns a copy with every amount multiplied by f.
func (s Spec) Scale(f float64) Spec {
	out := make(Spec, len(s))
	for t, v := range s {
		out[t] = v * f
	}
	return out
}

// Add returns the per-type sum of s and o.
func (s Spec) Add(o Spec) Spec {
	out := make(Spec, len(s)+len(o))
	for t, v := range s {
		out[t] = v
	}
	for t, v := range o {
		out[t] += v
	}
	return out
}

// Total sums every type.
func (s Spec) Total() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// Empty reports whether the spec deals no damage.
func (s Spec) Empty() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// Increased reports whether any single type goes up, even if others go down.
func (s Spec) Increased() bool {
	for _, v := range s {
		if v > 0 {
			return true
		}
	}
	return false
}

// Types lists the types present, sorted.
func (s Spec) Types() []Type {
	out := make([]Type, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
