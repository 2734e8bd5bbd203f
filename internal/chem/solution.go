package chem

// ReagentID names a reagent prototype, e.g. "Water".
type ReagentID string

// ReagentQuantity is one entry of a solution.
type ReagentQuantity struct {
	Reagent  ReagentID `json:"reagent" yaml:"reagent"`
	Quantity Quantity  `json:"quantity" yaml:"quantity"`
}

// DefaultTemperature is room temperature in kelvin.
const DefaultTemperature = 293.15

// Solution is a capacity-bounded mixture of reagents.
// Contents keep insertion order.
type Solution struct {
	contents    []ReagentQuantity
	volume      Quantity
	maxVolume   Quantity
	temperature float64
}

// NewSolution returns an empty solution that can hold at most maxVolume.
func NewSolution(maxVolume Quantity) *Solution {
	return &Solution{maxVolume: maxVolume, temperature: DefaultTemperature}
}

// NewSolutionOf returns a solution holding the given reagents, sized to fit them.
func NewSolutionOf(contents ...ReagentQuantity) *Solution {
	s := NewSolution(0)
	for _, rq := range contents {
		s.AddReagent(rq.Reagent, rq.Quantity)
	}
	s.maxVolume = s.volume
	return s
}

func (s *Solution) Volume() Quantity { return s.volume }
func (s *Solution) MaxVolume() Quantity { return s.maxVolume }
func (s *Solution) Temperature() float64 { return s.temperature }

// SetMaxVolume changes the capacity. Existing contents are kept even if they exceed it.
func (s *Solution) SetMaxVolume(q Quantity) {
	s.maxVolume = q
}

// SetTemperature sets the temperature in kelvin.
func (s *Solution) SetTemperature(kelvin float64) {
	s.temperature = kelvin
}

// Available is the room left before the solution is full.
func (s *Solution) Available() Quantity {
	return MaxQ(0, s.maxVolume-s.volume)
}

// Contents returns a copy of the reagent entries.
func (s *Solution) Contents() []ReagentQuantity {
	out := make([]ReagentQuantity, len(s.contents))
	copy(out, s.contents)
	return out
}

// Quantity returns how much of a reagent is present.
func (s *Solution) Quantity(id ReagentID) Quantity {
	for _, rq := range s.contents {
		if rq.Reagent == id {
			return rq.Quantity
		}
	}
	return 0
}

// AddReagent adds a reagent regardless of capacity.
func (s *Solution) AddReagent(id ReagentID, q Quantity) {
	if q <= 0 {
		return
	}
	s.volume += q
	for i := range s.contents {
		if s.contents[i].Reagent == id {
			s.contents[i].Quantity += q
			return
		}
	}
	s.contents = append(s.contents, ReagentQuantity{Reagent: id, Quantity: q})
}

// RemoveReagent removes up to q of a reagent and returns the amount removed.
func (s *Solution) RemoveReagent(id ReagentID, q Quantity) Quantity {
	if q <= 0 {
		return 0
	}
	for i := range s.contents {
		if s.contents[i].Reagent != id {
			continue
		}
		removed := MinQ(q, s.contents[i].Quantity)
		s.contents[i].Quantity -= removed
		s.volume -= removed
		if s.contents[i].Quantity <= 0 {
			s.contents = append(s.contents[:i], s.contents[i+1:]...)
		}
		return removed
	}
	return 0
}

// Split removes q units spread proportionally over every reagent and returns them as a new
// solution at the same temperature. Asking for more than the volume splits everything.
func (s *Solution) Split(q Quantity) *Solution {
	out := NewSolution(0)
	out.temperature = s.temperature
	if q <= 0 || s.volume <= 0 {
		return out
	}
	if q >= s.volume {
		out.contents = s.contents
		out.volume = s.volume
		out.maxVolume = s.volume
		s.contents = nil
		s.volume = 0
		return out
	}

	// floor each share, then hand out the remaining hundredths in order
	shares := make([]Quantity, len(s.contents))
	var taken Quantity
	for i, rq := range s.contents {
		shares[i] = Quantity(int64(rq.Quantity) * int64(q) / int64(s.volume))
		taken += shares[i]
	}
	for i := 0; taken < q && i < len(s.contents); i++ {
		if shares[i] < s.contents[i].Quantity {
			shares[i]++
			taken++
		}
	}

	kept := s.contents[:0]
	for i, rq := range s.contents {
		out.AddReagent(rq.Reagent, shares[i])
		rq.Quantity -= shares[i]
		if rq.Quantity > 0 {
			kept = append(kept, rq)
		}
	}
	s.contents = kept
	s.volume -= taken
	out.maxVolume = out.volume
	return out
}

// Merge moves as much of from into s as fits. Whatever does not fit stays in from.
// The merged temperature is the volume-weighted mean. Returns the amount accepted.
func (s *Solution) Merge(from *Solution) Quantity {
	if from == nil || from.volume <= 0 {
		return 0
	}
	accepted := MinQ(from.volume, s.Available())
	if accepted <= 0 {
		return 0
	}
	part := from.Split(accepted)
	if total := s.volume + part.volume; total > 0 {
		s.temperature = (s.temperature*s.volume.Float() + part.temperature*part.volume.Float()) / total.Float()
	}
	for _, rq := range part.contents {
		s.AddReagent(rq.Reagent, rq.Quantity)
	}
	return accepted
}
