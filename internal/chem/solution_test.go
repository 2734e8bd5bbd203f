package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolution_SplitProportional(t *testing.T) {
	s := NewSolutionOf(
		ReagentQuantity{Reagent: "Water", Quantity: Q(30)},
		ReagentQuantity{Reagent: "Blood", Quantity: Q(10)},
	)

	part := s.Split(Q(10))

	assert.Equal(t, Q(10), part.Volume())
	assert.Equal(t, Q(7.5), part.Quantity("Water"))
	assert.Equal(t, Q(2.5), part.Quantity("Blood"))
	assert.Equal(t, Q(30), s.Volume())
}

func TestSolution_SplitKeepsTotalsExact(t *testing.T) {
	s := NewSolutionOf(
		ReagentQuantity{Reagent: "Water", Quantity: Q(1)},
		ReagentQuantity{Reagent: "Blood", Quantity: Q(1)},
		ReagentQuantity{Reagent: "Vomit", Quantity: Q(1)},
	)

	part := s.Split(Q(1))

	assert.Equal(t, Q(1), part.Volume())
	assert.Equal(t, Q(2), s.Volume())
	var sum Quantity
	for _, rq := range s.Contents() {
		sum += rq.Quantity
	}
	assert.Equal(t, s.Volume(), sum)
}

func TestSolution_SplitMoreThanVolumeTakesAll(t *testing.T) {
	s := NewSolutionOf(ReagentQuantity{Reagent: "Water", Quantity: Q(4)})

	part := s.Split(Q(100))

	assert.Equal(t, Q(4), part.Volume())
	assert.Equal(t, Quantity(0), s.Volume())
	assert.Empty(t, s.Contents())
}

func TestSolution_MergeIsCapacityBounded(t *testing.T) {
	dst := NewSolution(Q(5))
	dst.AddReagent("Water", Q(3))
	src := NewSolutionOf(ReagentQuantity{Reagent: "Water", Quantity: Q(10)})

	accepted := dst.Merge(src)

	assert.Equal(t, Q(2), accepted)
	assert.Equal(t, Q(5), dst.Volume())
	assert.Equal(t, Q(8), src.Volume(), "leftover stays in the source")
}

func TestSolution_MergeMixesTemperature(t *testing.T) {
	dst := NewSolution(Q(100))
	dst.AddReagent("Water", Q(10))
	dst.SetTemperature(300)
	src := NewSolutionOf(ReagentQuantity{Reagent: "Water", Quantity: Q(10)})
	src.SetTemperature(400)

	dst.Merge(src)

	assert.InDelta(t, 350, dst.Temperature(), 0.001)
}

func TestSolution_RemoveReagent(t *testing.T) {
	s := NewSolutionOf(ReagentQuantity{Reagent: "Blood", Quantity: Q(2)})

	assert.Equal(t, Q(2), s.RemoveReagent("Blood", Q(5)))
	assert.Equal(t, Quantity(0), s.RemoveReagent("Blood", Q(1)))
	assert.Equal(t, Quantity(0), s.RemoveReagent("Water", Q(1)))
	assert.Empty(t, s.Contents())
}

func TestRegistry_AddThermalEnergy(t *testing.T) {
	r := NewRegistry(Reagent{ID: "Water", SpecificHeat: 2})
	s := NewSolutionOf(ReagentQuantity{Reagent: "Water", Quantity: Q(10)})
	before := s.Temperature()

	r.AddThermalEnergy(s, 40)
	assert.InDelta(t, before+2, s.Temperature(), 0.0001)

	empty := NewSolution(Q(10))
	r.AddThermalEnergy(empty, 40)
	assert.Equal(t, DefaultTemperature, empty.Temperature())
}

func TestReagent_EvaporationRate(t *testing.T) {
	testCases := []struct {
		name     string
		reagent  Reagent
		expected float64
	}{
		{name: "plain", reagent: Reagent{EvaporationSpeed: 0.3}, expected: 0.3},
		{name: "clamped high", reagent: Reagent{EvaporationSpeed: 4}, expected: 1},
		{name: "imp override", reagent: Reagent{EvaporationSpeed: 0.3, ImpEvaporates: true, ImpEvaporationAmount: 0.7}, expected: 0.7},
		{name: "never evaporates", reagent: Reagent{}, expected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, tc.reagent.EvaporationRate(), 1e-9)
		})
	}
}

func TestRegistry_IndexUnknownIsInert(t *testing.T) {
	r := DefaultRegistry()
	p := r.Index("Plasma")
	require.Equal(t, ReagentID("Plasma"), p.ID)
	assert.Zero(t, p.LaundryCleaningStrength)
	assert.False(t, p.Absorbent)
	assert.Equal(t, 1.0, p.LaundryCleanResistance)
}
