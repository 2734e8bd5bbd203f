package cocoon

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-mods/internal/chem"
	"station-mods/internal/damage"
	"station-mods/internal/entity"
)

type fakeHost struct {
	sys *System

	cocooners map[entity.ID]*Cocooner
	cocoons   map[entity.ID]*Cocoon
	suckers   map[entity.ID]*BloodSucker
	blood     map[entity.ID]chem.ReagentID
	knocked   map[entity.ID]bool
	humanoid  map[entity.ID]bool
	mass      map[entity.ID]float64
	pos       map[entity.ID]mgl64.Vec2
	scale     map[entity.ID]float64
	slots     map[entity.ID]entity.ID
	locked    map[entity.ID]bool
	stunned   map[entity.ID]bool
	accents   map[entity.ID]string
	damage    map[entity.ID]damage.Spec
	spawned   []string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		cocooners: make(map[entity.ID]*Cocooner),
		cocoons:   make(map[entity.ID]*Cocoon),
		suckers:   make(map[entity.ID]*BloodSucker),
		blood:     make(map[entity.ID]chem.ReagentID),
		knocked:   make(map[entity.ID]bool),
		humanoid:  make(map[entity.ID]bool),
		mass:      make(map[entity.ID]float64),
		pos:       make(map[entity.ID]mgl64.Vec2),
		scale:     make(map[entity.ID]float64),
		slots:     make(map[entity.ID]entity.ID),
		locked:    make(map[entity.ID]bool),
		stunned:   make(map[entity.ID]bool),
		accents:   make(map[entity.ID]string),
		damage:    make(map[entity.ID]damage.Spec),
	}
}

func (h *fakeHost) Cocooner(e entity.ID) (*Cocooner, bool) {
	c, ok := h.cocooners[e]
	return c, ok
}

func (h *fakeHost) Cocoon(e entity.ID) (*Cocoon, bool) {
	c, ok := h.cocoons[e]
	return c, ok
}

func (h *fakeHost) BloodSucker(e entity.ID) (*BloodSucker, bool) {
	b, ok := h.suckers[e]
	return b, ok
}

func (h *fakeHost) BloodReagent(e entity.ID) (chem.ReagentID, bool) {
	r, ok := h.blood[e]
	return r, ok
}

func (h *fakeHost) KnockedDown(e entity.ID) bool { return h.knocked[e] }
func (h *fakeHost) Humanoid(e entity.ID) bool    { return h.humanoid[e] }

func (h *fakeHost) Mass(e entity.ID) (float64, bool) {
	m, ok := h.mass[e]
	return m, ok
}

func (h *fakeHost) Position(e entity.ID) (mgl64.Vec2, bool) {
	p, ok := h.pos[e]
	return p, ok
}

func (h *fakeHost) Name(e entity.ID) string { return e.String()[:8] }

func (h *fakeHost) Spawn(proto string, at mgl64.Vec2) (entity.ID, bool) {
	id := entity.New()
	c := DefaultCocoon()
	h.cocoons[id] = &c
	h.pos[id] = at
	h.spawned = append(h.spawned, proto)
	return id, true
}

func (h *fakeHost) SetScale(e entity.ID, scale float64) { h.scale[e] = scale }

func (h *fakeHost) SlotItem(owner entity.ID, _ string) (entity.ID, bool) {
	item, ok := h.slots[owner]
	return item, ok
}

func (h *fakeHost) SetSlotLock(owner entity.ID, _ string, locked bool) { h.locked[owner] = locked }

func (h *fakeHost) InsertIntoSlot(owner entity.ID, _ string, item entity.ID) bool {
	if h.locked[owner] {
		return false
	}
	h.slots[owner] = item
	h.sys.OnInserted(owner, item)
	return true
}

func (h *fakeHost) eject(owner entity.ID) {
	item := h.slots[owner]
	delete(h.slots, owner)
	h.sys.OnRemoved(owner, item)
}

func (h *fakeHost) SetStunned(e entity.ID, stunned bool) { h.stunned[e] = stunned }
func (h *fakeHost) UpdateBlindness(entity.ID)            {}

func (h *fakeHost) ReplacementAccent(e entity.ID) (string, bool) {
	a, ok := h.accents[e]
	return a, ok
}

func (h *fakeHost) SetReplacementAccent(e entity.ID, accent string) { h.accents[e] = accent }
func (h *fakeHost) RemoveReplacementAccent(e entity.ID)             { delete(h.accents, e) }

func (h *fakeHost) ChangeDamage(e entity.ID, d damage.Spec) {
	h.damage[e] = h.damage[e].Add(d)
}

func setup(t *testing.T) (*fakeHost, *System, entity.ID, entity.ID) {
	t.Helper()
	h := newFakeHost()
	sys := NewSystem(h, log.New(io.Discard, "", 0))
	h.sys = sys

	spider, victim := entity.New(), entity.New()
	c := DefaultCocooner()
	h.cocooners[spider] = &c
	h.blood[spider] = "WebSilk"
	h.blood[victim] = "Blood"
	h.humanoid[victim] = true
	h.mass[victim] = 70
	h.pos[victim] = mgl64.Vec2{3, 4}
	return h, sys, spider, victim
}

func TestCanCocoon(t *testing.T) {
	h, sys, spider, victim := setup(t)
	robot := entity.New()
	h.blood[robot] = "Oil"

	assert.True(t, sys.CanCocoon(spider, victim))
	assert.False(t, sys.CanCocoon(spider, spider), "not self")
	assert.False(t, sys.CanCocoon(spider, robot), "wrong blood")
	assert.False(t, sys.CanCocoon(victim, spider), "not a cocooner")
}

func TestCocooning_CompletesAfterDelay(t *testing.T) {
	h, sys, spider, victim := setup(t)
	var got []Event
	sys.Subscribe(func(ev Event) { got = append(got, ev) })

	require.NoError(t, sys.StartCocooning(spider, victim))
	require.Error(t, sys.StartCocooning(spider, victim), "one at a time")

	sys.Update(11 * time.Second)
	assert.Empty(t, h.spawned)
	sys.Update(time.Second)

	require.Equal(t, []string{ProtoHumanoid}, h.spawned)
	require.Len(t, got, 2)
	done := got[1]
	assert.Equal(t, EventItemCocooned, done.Kind)
	require.NotNil(t, done.Log)
	assert.Equal(t, ImpactHigh, done.Log.Impact)
	assert.Equal(t, victim, h.slots[done.Cocoon])
	assert.True(t, h.locked[done.Cocoon], "slot relocked")
	assert.InDelta(t, 2.0, h.scale[done.Cocoon], 1e-9)
	assert.Equal(t, mgl64.Vec2{3, 4}, h.pos[done.Cocoon])
	assert.False(t, sys.Pending(spider))
}

func TestCocooning_KnockedDownIsFaster(t *testing.T) {
	h, sys, spider, victim := setup(t)
	h.knocked[victim] = true
	h.humanoid[victim] = false

	require.NoError(t, sys.StartCocooning(spider, victim))
	sys.Update(6 * time.Second)

	assert.Equal(t, []string{ProtoSmall}, h.spawned)
}

func TestCocooning_BreaksOnMove(t *testing.T) {
	h, sys, spider, victim := setup(t)
	require.NoError(t, sys.StartCocooning(spider, victim))

	sys.OnMoved(victim, 0.05)
	assert.True(t, sys.Pending(spider), "small jitters are tolerated")
	sys.OnMoved(victim, 1)
	assert.False(t, sys.Pending(spider))

	sys.Update(time.Minute)
	assert.Empty(t, h.spawned)
}

func TestScale(t *testing.T) {
	assert.InDelta(t, 0.35, Scale(1), 1e-9)
	assert.InDelta(t, 1.0, Scale(35), 1e-9)
	assert.InDelta(t, 2.5, Scale(500), 1e-9)
}

func TestAccentSwapRoundTrip(t *testing.T) {
	testCases := []struct {
		name    string
		accent  string
		hasPrev bool
	}{
		{name: "had an accent", accent: "pirate", hasPrev: true},
		{name: "had none"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, _, _, victim := setup(t)
			if tc.hasPrev {
				h.accents[victim] = tc.accent
			}
			cocoon, _ := h.Spawn(ProtoHumanoid, mgl64.Vec2{})

			require.True(t, h.InsertIntoSlot(cocoon, BodySlot, victim))
			assert.Equal(t, MumbleAccent, h.accents[victim])
			assert.True(t, h.stunned[victim])

			h.eject(cocoon)
			accent, ok := h.accents[victim]
			assert.Equal(t, tc.hasPrev, ok)
			assert.Equal(t, tc.accent, accent)
			assert.False(t, h.stunned[victim])
		})
	}
}

func TestOnDamageChanged_PassesThrough(t *testing.T) {
	h, sys, _, victim := setup(t)
	cocoon, _ := h.Spawn(ProtoHumanoid, mgl64.Vec2{})
	require.True(t, h.InsertIntoSlot(cocoon, BodySlot, victim))

	sys.OnDamageChanged(cocoon, damage.Spec{damage.Slash: 10})
	sys.OnDamageChanged(cocoon, damage.Spec{damage.Slash: -4})

	assert.InDelta(t, 5, h.damage[victim][damage.Slash], 1e-9)
}

func TestOnDamageChanged_MixedDelta(t *testing.T) {
	h, sys, _, victim := setup(t)
	cocoon, _ := h.Spawn(ProtoHumanoid, mgl64.Vec2{})
	require.True(t, h.InsertIntoSlot(cocoon, BodySlot, victim))

	sys.OnDamageChanged(cocoon, damage.Spec{damage.Slash: 6, damage.Heat: -10})

	assert.InDelta(t, 3, h.damage[victim][damage.Slash], 1e-9)
	assert.InDelta(t, -5, h.damage[victim][damage.Heat], 1e-9)
}

func TestSuckTarget(t *testing.T) {
	h, sys, _, victim := setup(t)
	cocoon, _ := h.Spawn(ProtoHumanoid, mgl64.Vec2{})
	require.True(t, h.InsertIntoSlot(cocoon, BodySlot, victim))

	vampire, picky := entity.New(), entity.New()
	h.suckers[vampire] = &BloodSucker{WebRequired: false}
	picky2 := DefaultBloodSucker()
	picky2.WebRequired = true
	h.suckers[picky] = &picky2

	_, ok := sys.SuckTarget(vampire, cocoon)
	assert.False(t, ok)
	got, ok := sys.SuckTarget(picky, cocoon)
	require.True(t, ok)
	assert.Equal(t, victim, got)
}
