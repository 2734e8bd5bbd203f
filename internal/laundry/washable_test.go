package laundry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-mods/internal/chem"
)

func TestWetnessOf(t *testing.T) {
	testCases := []struct {
		name     string
		volume   chem.Quantity
		scale    float64
		expected Wetness
	}{
		{name: "empty", volume: 0, scale: 1, expected: Dry},
		{name: "a drop", volume: chem.Q(0.01), scale: 1, expected: Damp},
		{name: "just under moist", volume: chem.Q(4.99), scale: 1, expected: Damp},
		{name: "exactly moist", volume: chem.Q(5), scale: 1, expected: Moist},
		{name: "exactly wet", volume: chem.Q(7.5), scale: 1, expected: Wet},
		{name: "exactly very wet", volume: chem.Q(15), scale: 1, expected: VeryWet},
		{name: "exactly drenched", volume: chem.Q(17.5), scale: 1, expected: Drenched},
		{name: "scaled moist", volume: chem.Q(10), scale: 2, expected: Moist},
		{name: "scaled damp", volume: chem.Q(9.99), scale: 2, expected: Damp},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, WetnessOf(tc.volume, tc.scale))
		})
	}
}

func TestWash_NeverExceedsCapacity(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	w := r.addWashable(DefaultWashableConfig(), false)
	r.soaked(w).AddReagent("Water", chem.Q(15))
	in := chem.NewSolutionOf(chem.ReagentQuantity{Reagent: "Water", Quantity: chem.Q(30)})

	accepted := r.sys.Wash(w, in)

	assert.Equal(t, chem.Q(5), accepted)
	assert.Equal(t, chem.Q(20), r.soaked(w).Volume())
	assert.Equal(t, chem.Q(25), in.Volume(), "the rest stays in the source")

	assert.Equal(t, chem.Quantity(0), r.sys.Wash(w, in), "a full garment takes nothing")
	assert.Equal(t, chem.Q(20), r.soaked(w).Volume())
}

func TestWash_CleanersStripStains(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	w := r.addWashable(DefaultWashableConfig(), false)
	r.soaked(w).AddReagent("SpaceCleaner", chem.Q(4))
	r.soaked(w).AddReagent("Blood", chem.Q(4))
	in := chem.NewSolutionOf(chem.ReagentQuantity{Reagent: "Water", Quantity: chem.Q(1)})

	r.sys.Wash(w, in)

	sol := r.soaked(w)
	// strength 2 * 0.25 / resistance 2
	assert.Equal(t, chem.Q(3.75), sol.Quantity("Blood"))
	// spent 0.25 * 0.25, rounded to hundredths
	assert.Equal(t, chem.Q(3.94), sol.Quantity("SpaceCleaner"))
	assert.Equal(t, chem.Q(1), sol.Quantity("Water"))
	assert.Equal(t, chem.Quantity(0), r.host.spilled, "cleaned stains are consumed, not spilled")
}

func TestWash_WaterWashesAwayStains(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	cfg := DefaultWashableConfig()
	cfg.Capacity = 30
	w := r.addWashable(cfg, false)
	r.soaked(w).AddReagent("Water", chem.Q(10))
	r.soaked(w).AddReagent("Vomit", chem.Q(10))
	in := chem.NewSolutionOf(chem.ReagentQuantity{Reagent: "Water", Quantity: chem.Q(1)})

	r.sys.Wash(w, in)

	sol := r.soaked(w)
	assert.Equal(t, chem.Q(2.5), sol.Quantity("Vomit"))
	assert.Equal(t, chem.Q(11), sol.Quantity("Water"))
	assert.Equal(t, chem.Q(7.5), r.host.spilled, "washed away stains land on the floor")
}

func TestWash_WashFactorScalesStrength(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	cfg := DefaultWashableConfig()
	cfg.WashFactor = 0.5
	w := r.addWashable(cfg, false)
	r.soaked(w).AddReagent("Water", chem.Q(4))
	r.soaked(w).AddReagent("Vomit", chem.Q(10))

	r.sys.Wash(w, chem.NewSolutionOf(chem.ReagentQuantity{Reagent: "Water", Quantity: chem.Q(1)}))

	assert.Equal(t, chem.Q(8.5), r.soaked(w).Quantity("Vomit"))
}

func TestDrip_IntoDrumWhenInsideMachine(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	w := r.addWashable(DefaultWashableConfig(), true)
	r.soaked(w).AddReagent("Water", chem.Q(12))

	r.sys.Drip(w, chem.Q(2), false)
	assert.Equal(t, chem.Q(2), r.drum().Volume())
	assert.Equal(t, chem.Q(10), r.soaked(w).Volume())

	r.drum().SetMaxVolume(chem.Q(3))
	r.sys.DripAll(w, false)
	assert.Equal(t, chem.Q(3), r.drum().Volume())
	assert.Equal(t, chem.Q(9), r.host.spilled, "what the drum cannot hold hits the floor")
	assert.Equal(t, chem.Quantity(0), r.soaked(w).Volume())
}

func TestDry(t *testing.T) {
	dryAt := DefaultWashableConfig().DryTemperature
	testCases := []struct {
		name     string
		reagent  chem.ReagentID
		ambient  float64
		expected chem.Quantity
	}{
		{name: "below dry temperature", reagent: "Water", ambient: dryAt - 10, expected: 0},
		{name: "at dry temperature", reagent: "Water", ambient: dryAt, expected: 0},
		{name: "never evaporates", reagent: "Blood", ambient: dryAt + 500, expected: 0},
		{name: "water above", reagent: "Water", ambient: dryAt + 150, expected: chem.Q(0.3)},
		{name: "capped strength", reagent: "Ethanol", ambient: dryAt + 10000, expected: chem.Q(3)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, washOnly(), 0)
			w := r.addWashable(DefaultWashableConfig(), false)
			r.soaked(w).AddReagent(tc.reagent, chem.Q(10))

			dried := r.sys.Dry(w, time.Second, tc.ambient)

			assert.Equal(t, tc.expected, dried.Volume())
			assert.Equal(t, chem.Q(10)-tc.expected, r.soaked(w).Volume())
		})
	}
}

func TestUpdateWashable_DripsAboveThreshold(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	w := r.addWashable(DefaultWashableConfig(), false)
	r.soaked(w).AddReagent("Water", chem.Q(10))

	r.tick(1)
	assert.Equal(t, chem.Q(10), r.soaked(w).Volume(), "at the threshold nothing drips")

	r.soaked(w).AddReagent("Water", chem.Q(1))
	r.tick(1)
	assert.Equal(t, chem.Q(10.92), r.soaked(w).Volume())
}

func TestOnSplashed_TakesEvenShare(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	w := r.addWashable(DefaultWashableConfig(), false)
	source := chem.NewSolutionOf(
		chem.ReagentQuantity{Reagent: "Water", Quantity: chem.Q(10)},
		chem.ReagentQuantity{Reagent: "Vomit", Quantity: chem.Q(10)},
	)

	accepted := r.sys.OnSplashed(w, source)

	assert.Equal(t, chem.Q(10), accepted)
	assert.Equal(t, chem.Q(10), r.soaked(w).Volume())
	assert.Equal(t, chem.Q(10), source.Volume())
}

func TestOnBleed(t *testing.T) {
	testCases := []struct {
		name     string
		roll     float64
		expected chem.Quantity
	}{
		{name: "soaks", roll: 0.1, expected: chem.Q(5)},
		{name: "misses", roll: 0.9, expected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, washOnly(), 0)
			r.sys.rng = fixedRand(tc.roll)
			w := r.addWashable(DefaultWashableConfig(), false)
			bleed := chem.NewSolutionOf(chem.ReagentQuantity{Reagent: "Blood", Quantity: chem.Q(10)})

			accepted := r.sys.OnBleed(w, bleed)

			assert.Equal(t, tc.expected, accepted)
			assert.Equal(t, tc.expected, r.soaked(w).Quantity("Blood"))
			assert.Equal(t, chem.Q(10)-tc.expected, bleed.Volume())
		})
	}
}

func TestOnWashableDestroyed_DumpsEverything(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	w := r.addWashable(DefaultWashableConfig(), false)
	r.soaked(w).AddReagent("Blood", chem.Q(6))

	r.sys.OnWashableDestroyed(w)

	assert.Equal(t, chem.Quantity(0), r.soaked(w).Volume())
	assert.Equal(t, chem.Q(6), r.host.spilled)
}

func TestOnTemperatureChanged(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	w := r.addWashable(DefaultWashableConfig(), false)

	r.sys.OnTemperatureChanged(w, 310)

	require.NotNil(t, r.soaked(w))
	assert.Equal(t, 310.0, r.soaked(w).Temperature())
}

func TestWashableView(t *testing.T) {
	r := newRig(t, washOnly(), 0)
	w := r.addWashable(DefaultWashableConfig(), false)
	r.soaked(w).AddReagent("Water", chem.Q(12))

	v := r.sys.WashableView(w)

	assert.Equal(t, Wet, v.Wetness)
	assert.True(t, v.Dripping)
	assert.Equal(t, chem.Q(20), v.Capacity)
	assert.Equal(t, []StatusLine{{10, "It is wet."}, {9, "It is dripping."}}, WashableStatusLines(v))
}
