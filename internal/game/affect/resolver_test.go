package affect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-rift/internal/game/geo"
	"github.com/udisondev/la2go-rift/internal/model"
	"github.com/udisondev/la2go-rift/internal/world"
)

type fixture struct {
	t     *testing.T
	world *world.World
	r     *Resolver
	ids   uint32
}

func newFixture(t *testing.T, obstacles ...geo.Obstacle) *fixture {
	t.Helper()
	w := world.New()
	return &fixture{
		t:     t,
		world: w,
		r:     NewResolver(w, geo.NewLineOfSight(obstacles...), nil, 900),
		ids:   100,
	}
}

func (f *fixture) add(obj *model.WorldObject) {
	f.t.Helper()
	require.NoError(f.t, f.world.AddObject(obj))
}

func (f *fixture) player(x, y int32) *model.Player {
	f.ids++
	p := model.NewPlayer(f.ids, "player", model.NewLocation(x, y, 0, 0), 1000)
	f.add(p.WorldObject)
	return p
}

func (f *fixture) mob(x, y int32) *model.Npc {
	f.ids++
	n := model.NewNpc(f.ids, 20001, "mob", model.NewLocation(x, y, 0, 0), 1000)
	f.add(n.WorldObject)
	return n
}

func (f *fixture) summon(owner *model.Player, x, y int32) *model.Summon {
	f.ids++
	s := model.NewSummon(f.ids, "pet", model.NewLocation(x, y, 0, 0), 500, owner)
	f.add(s.WorldObject)
	return s
}

func ids(objs []*model.WorldObject) []uint32 {
	out := make([]uint32, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.ObjectID())
	}
	return out
}

func TestResolver_Single(t *testing.T) {
	f := newFixture(t)
	caster := f.player(0, 0)
	mob := f.mob(100, 0)
	friend := f.player(50, 0)

	skill := &Skill{Scope: ScopeSingle, Object: ObjectNotFriend}
	assert.Equal(t, []uint32{mob.ObjectID()}, ids(f.r.AffectTargets(caster.Character, mob.WorldObject, skill)))
	assert.Empty(t, f.r.AffectTargets(caster.Character, friend.WorldObject, skill))

	skill.Object = ObjectAll
	assert.Equal(t, []uint32{friend.ObjectID()}, ids(f.r.AffectTargets(caster.Character, friend.WorldObject, skill)))
}

func TestResolver_UnimplementedScopesAreEmpty(t *testing.T) {
	f := newFixture(t)
	caster := f.player(0, 0)
	mob := f.mob(10, 0)
	f.mob(20, 0)

	for _, scope := range []Scope{ScopeNone, ScopeBalakas, ScopeWyvern, ScopeStaticObject, ScopeSquare, ScopeSquarePB, ScopeRingRange, Scope(99)} {
		skill := &Skill{Scope: scope, Object: ObjectAll, AffectRange: 1000}
		assert.Empty(t, f.r.AffectTargets(caster.Character, mob.WorldObject, skill), scope.String())
	}
}

func TestResolver_Range(t *testing.T) {
	f := newFixture(t)
	caster := f.player(-5000, 0)
	target := f.mob(0, 0)
	alive1 := f.mob(100, 0)
	dead := f.mob(110, 0)
	dead.SetCurrentHP(0)
	alive2 := f.mob(120, 0)
	f.mob(1000, 0) // out of range
	f.add(model.NewWorldObject(9000, "chest", model.NewLocation(50, 0, 0, 0)))

	skill := &Skill{Scope: ScopeRange, Object: ObjectAll, AffectRange: 200}
	got := f.r.AffectTargets(caster.Character, target.WorldObject, skill)
	assert.Equal(t, []uint32{alive1.ObjectID(), alive2.ObjectID()}, ids(got))

	skill.AffectLimit = 1
	got = f.r.AffectTargets(caster.Character, target.WorldObject, skill)
	assert.Equal(t, []uint32{alive1.ObjectID()}, ids(got))
}

// HP ratios 0.9, 0.1, 0.5 come out weakest first; the limit keeps the prefix.
func TestResolver_RangeSortByHP(t *testing.T) {
	f := newFixture(t)
	caster := f.player(-5000, 0)
	target := f.mob(0, 0)

	a := f.mob(10, 0)
	a.SetCurrentHP(900)
	b := f.mob(20, 0)
	b.SetCurrentHP(100)
	c := f.mob(30, 0)
	c.SetCurrentHP(500)

	skill := &Skill{Scope: ScopeRangeSortByHP, Object: ObjectAll, AffectRange: 500}
	got := f.r.AffectTargets(caster.Character, target.WorldObject, skill)
	assert.Equal(t, []uint32{b.ObjectID(), c.ObjectID(), a.ObjectID()}, ids(got))

	ratios := make([]float64, 0, len(got))
	for _, o := range got {
		ratios = append(ratios, o.AsCharacter().HPRatio())
	}
	assert.IsNonDecreasing(t, ratios)

	skill.AffectLimit = 2
	got = f.r.AffectTargets(caster.Character, target.WorldObject, skill)
	assert.Equal(t, []uint32{b.ObjectID(), c.ObjectID()}, ids(got))
}

func TestResolver_RangeSortByHP_StableAndObserverFiltered(t *testing.T) {
	f := newFixture(t)
	caster := f.player(-5000, 0)
	target := f.mob(0, 0)
	first := f.mob(10, 0)
	second := f.mob(20, 0)
	hidden := f.mob(30, 0)
	hidden.SetInvisible(true)
	hidden.SetCurrentHP(1)

	skill := &Skill{Scope: ScopeRangeSortByHP, Object: ObjectAll, AffectRange: 500}
	got := f.r.AffectTargets(caster.Character, target.WorldObject, skill)
	assert.Equal(t, []uint32{first.ObjectID(), second.ObjectID()}, ids(got), "equal HP keeps query order; hidden skipped")
}

func TestResolver_PointBlank(t *testing.T) {
	f := newFixture(t)
	caster := f.player(0, 0)
	m1 := f.mob(50, 0)
	m2 := f.mob(-50, 0)
	ally := f.player(0, 50)
	f.mob(2000, 0)

	skill := &Skill{Scope: ScopePointBlank, Object: ObjectNotFriend, AffectRange: 200}
	got := f.r.AffectTargets(caster.Character, caster.WorldObject, skill)
	assert.ElementsMatch(t, []uint32{m1.ObjectID(), m2.ObjectID()}, ids(got))
	assert.NotContains(t, ids(got), ally.ObjectID())
	assert.NotContains(t, ids(got), caster.ObjectID())

	skill.AffectLimit = 1
	assert.Len(t, f.r.AffectTargets(caster.Character, caster.WorldObject, skill), 1)

	chest := model.NewWorldObject(9001, "chest", model.Location{})
	assert.Empty(t, f.r.AffectTargets(caster.Character, chest, skill))
}

// Target due east at 100; fan of 90° centred on it: 40° is inside, 50° is outside.
func TestResolver_Fan(t *testing.T) {
	f := newFixture(t)
	caster := f.player(0, 0)
	target := f.mob(100, 0)
	at40 := f.mob(77, 64) // ≈39.7°
	at50 := f.mob(64, 77) // ≈50.3°
	dead := f.mob(90, 10)
	dead.SetCurrentHP(0)

	skill := &Skill{Scope: ScopeFan, Object: ObjectNotFriend, FanRange: [4]int32{0, 0, 200, 90}}
	got := f.r.AffectTargets(caster.Character, target.WorldObject, skill)

	assert.Equal(t, []uint32{at40.ObjectID()}, ids(got))
	assert.NotContains(t, ids(got), at50.ObjectID())
}

func TestResolver_Fan_StartingAngleNoWrap(t *testing.T) {
	f := newFixture(t)
	caster := f.player(0, 0)
	target := f.mob(100, 0)
	north := f.mob(70, 70)      // 45°
	south := f.mob(70, -70)     // 315°
	southEast := f.mob(100, -5) // ≈357°

	// fan rotated by +45°: only the northern mob fits
	skill := &Skill{Scope: ScopeFan, Object: ObjectAll, FanRange: [4]int32{0, 45, 200, 30}}
	got := f.r.AffectTargets(caster.Character, target.WorldObject, skill)
	assert.Equal(t, []uint32{north.ObjectID()}, ids(got))

	// bearings just below 360 are far from heading 0
	skill = &Skill{Scope: ScopeFan, Object: ObjectAll, FanRange: [4]int32{0, 0, 200, 120}}
	got = f.r.AffectTargets(caster.Character, target.WorldObject, skill)
	assert.NotContains(t, ids(got), south.ObjectID())
	assert.NotContains(t, ids(got), southEast.ObjectID())
	assert.Contains(t, ids(got), north.ObjectID())
}

func TestResolver_Fan_LineOfSight(t *testing.T) {
	wall := geo.Obstacle{Min: geo.Point3D{X: 40, Y: 20, Z: -100}, Max: geo.Point3D{X: 45, Y: 200, Z: 300}}
	f := newFixture(t, wall)
	caster := f.player(0, 0)
	target := f.mob(100, 0)
	behindWall := f.mob(80, 60) // ≈36.9°, line crosses the wall at x≈40..45
	inOpen := f.mob(90, 10)     // ≈6.3°

	skill := &Skill{Scope: ScopeFan, Object: ObjectAll, FanRange: [4]int32{0, 0, 200, 90}}
	got := f.r.AffectTargets(caster.Character, target.WorldObject, skill)

	assert.Contains(t, ids(got), inOpen.ObjectID())
	assert.NotContains(t, ids(got), behindWall.ObjectID())
}

func TestResolver_Fan_AffectLimit(t *testing.T) {
	f := newFixture(t)
	caster := f.player(0, 0)
	target := f.mob(100, 0)
	inFan := []uint32{f.mob(90, 10).ObjectID(), f.mob(110, 20).ObjectID(), f.mob(120, 5).ObjectID()}

	skill := &Skill{Scope: ScopeFan, Object: ObjectNotFriend, FanRange: [4]int32{0, 0, 200, 90}}
	got := f.r.AffectTargets(caster.Character, target.WorldObject, skill)
	assert.ElementsMatch(t, inFan, ids(got))

	for _, limit := range []int{1, 2, 3} {
		skill.AffectLimit = limit
		got = f.r.AffectTargets(caster.Character, target.WorldObject, skill)
		assert.Len(t, got, limit)
		assert.Subset(t, inFan, ids(got))
	}
}

func TestResolver_Party(t *testing.T) {
	f := newFixture(t)
	leader := f.player(0, 0)
	near := f.player(100, 0)
	far := f.player(5000, 0) // beyond party range
	dead := f.player(50, 50)
	dead.SetCurrentHP(0)
	pet := f.summon(near, 120, 0)

	party := model.NewParty(1, leader)
	for _, p := range []*model.Player{near, far, dead} {
		require.NoError(t, party.AddMember(p))
	}

	skill := &Skill{Scope: ScopeParty, Object: ObjectFriend, AffectRange: 1000}
	got := f.r.AffectTargets(leader.Character, leader.WorldObject, skill)
	assert.Equal(t, []uint32{leader.ObjectID(), near.ObjectID(), pet.ObjectID()}, ids(got))

	// member and summon count separately against the limit
	skill.AffectLimit = 2
	got = f.r.AffectTargets(leader.Character, leader.WorldObject, skill)
	assert.Equal(t, []uint32{leader.ObjectID(), near.ObjectID()}, ids(got))

	// summon as the target resolves its owner's party
	skill.AffectLimit = 0
	got = f.r.AffectTargets(leader.Character, pet.WorldObject, skill)
	assert.Contains(t, ids(got), leader.ObjectID())
}

func TestResolver_Party_NoParty(t *testing.T) {
	f := newFixture(t)
	solo := f.player(0, 0)
	pet := f.summon(solo, 50, 0)

	skill := &Skill{Scope: ScopeParty, Object: ObjectAll, AffectRange: 100}
	got := f.r.AffectTargets(solo.Character, solo.WorldObject, skill)
	assert.Equal(t, []uint32{solo.ObjectID(), pet.ObjectID()}, ids(got))

	pet.SetLocation(model.NewLocation(500, 0, 0, 0))
	got = f.r.AffectTargets(solo.Character, solo.WorldObject, skill)
	assert.Equal(t, []uint32{solo.ObjectID()}, ids(got), "summon out of affect range")

	mob := f.mob(10, 0)
	assert.Empty(t, f.r.AffectTargets(solo.Character, mob.WorldObject, skill))
}

func TestResolver_Pledge_Players(t *testing.T) {
	f := newFixture(t)
	a := f.player(0, 0)
	b := f.player(100, 0)
	c := f.player(5000, 0)
	duelist := f.player(50, 0)
	clan := model.NewClan(7, "Rift Walkers")
	for _, p := range []*model.Player{a, b, c, duelist} {
		clan.AddMember(p)
	}
	duelist.SetDuelID(3)

	skill := &Skill{Scope: ScopePledge, Object: ObjectAll, AffectRange: 1000}
	got := f.r.AffectTargets(a.Character, a.WorldObject, skill)
	assert.ElementsMatch(t, []uint32{a.ObjectID(), b.ObjectID(), duelist.ObjectID()}, ids(got))

	// the duelist only reaches mates in the same duel
	got = f.r.AffectTargets(duelist.Character, duelist.WorldObject, skill)
	assert.Equal(t, []uint32{duelist.ObjectID()}, ids(got))
}

// player and summon each take a slot: the cap holds between the two appends
func TestResolver_Pledge_AffectLimitCountsSummons(t *testing.T) {
	f := newFixture(t)
	a := f.player(0, 0)
	pet := f.summon(a, 20, 0)
	b := f.player(100, 0)
	bPet := f.summon(b, 120, 0)
	clan := model.NewClan(8, "Pet Lovers")
	clan.AddMember(a)
	clan.AddMember(b)

	skill := &Skill{Scope: ScopePledge, Object: ObjectAll, AffectRange: 1000}
	got := f.r.AffectTargets(a.Character, a.WorldObject, skill)
	assert.Equal(t, []uint32{a.ObjectID(), pet.ObjectID(), b.ObjectID(), bPet.ObjectID()}, ids(got))

	skill.AffectLimit = 1
	got = f.r.AffectTargets(a.Character, a.WorldObject, skill)
	assert.Equal(t, []uint32{a.ObjectID()}, ids(got))

	skill.AffectLimit = 3
	got = f.r.AffectTargets(a.Character, a.WorldObject, skill)
	assert.Equal(t, []uint32{a.ObjectID(), pet.ObjectID(), b.ObjectID()}, ids(got))
}

func TestResolver_Pledge_NoClanFallsBackToSelf(t *testing.T) {
	f := newFixture(t)
	p := f.player(0, 0)
	pet := f.summon(p, 10, 0)

	skill := &Skill{Scope: ScopePledge, Object: ObjectAll, AffectRange: 100}
	got := f.r.AffectTargets(p.Character, p.WorldObject, skill)
	assert.Equal(t, []uint32{p.ObjectID(), pet.ObjectID()}, ids(got))
}

func TestResolver_Pledge_Olympiad(t *testing.T) {
	f := newFixture(t)
	a := f.player(0, 0)
	b := f.player(10, 0)
	clan := model.NewClan(1, "Olympians")
	clan.AddMember(a)
	clan.AddMember(b)

	// одна игра, одна сторона: всё равно отсекается, пока сторона не равна ID игры
	a.SetOlympiad(5, 1)
	b.SetOlympiad(5, 1)
	skill := &Skill{Scope: ScopePledge, Object: ObjectAll, AffectRange: 100}
	assert.Empty(t, f.r.AffectTargets(a.Character, a.WorldObject, skill))

	a.SetOlympiad(5, 5)
	got := f.r.AffectTargets(a.Character, a.WorldObject, skill)
	assert.ElementsMatch(t, []uint32{a.ObjectID(), b.ObjectID()}, ids(got))
}

func TestResolver_Pledge_NpcClan(t *testing.T) {
	f := newFixture(t)
	caster := f.player(-1000, 0)
	leader := f.mob(0, 0)
	leader.SetClans("ANT")
	ant := f.mob(100, 0)
	ant.SetClans("ANT", "INSECT")
	orc := f.mob(50, 0)
	orc.SetClans("ORC")
	f.player(60, 0)

	skill := &Skill{Scope: ScopePledge, Object: ObjectAll, AffectRange: 300}
	got := f.r.AffectTargets(caster.Character, leader.WorldObject, skill)
	assert.Equal(t, []uint32{leader.ObjectID(), ant.ObjectID()}, ids(got))

	skill.AffectLimit = 1
	got = f.r.AffectTargets(caster.Character, leader.WorldObject, skill)
	assert.Equal(t, []uint32{leader.ObjectID()}, ids(got))

	loner := f.mob(5000, 0)
	got = f.r.AffectTargets(caster.Character, loner.WorldObject, &Skill{Scope: ScopePledge, AffectRange: 300})
	assert.Equal(t, []uint32{loner.ObjectID()}, ids(got))
}

func TestResolver_PartyPledge_IsDedupUnion(t *testing.T) {
	f := newFixture(t)
	leader := f.player(0, 0)
	partyOnly := f.player(100, 0)
	both := f.player(0, 100)
	clanOnly := f.player(100, 100)

	party := model.NewParty(1, leader)
	require.NoError(t, party.AddMember(partyOnly))
	require.NoError(t, party.AddMember(both))
	clan := model.NewClan(2, "Union")
	clan.AddMember(leader)
	clan.AddMember(both)
	clan.AddMember(clanOnly)

	skill := &Skill{Scope: ScopePartyPledge, Object: ObjectAll, AffectRange: 1000}
	got := ids(f.r.AffectTargets(leader.Character, leader.WorldObject, skill))

	partyIDs := ids(f.r.AffectTargets(leader.Character, leader.WorldObject, &Skill{Scope: ScopeParty, AffectRange: 1000}))
	pledgeIDs := ids(f.r.AffectTargets(leader.Character, leader.WorldObject, &Skill{Scope: ScopePledge, AffectRange: 1000}))
	assert.Subset(t, got, partyIDs)
	assert.Subset(t, got, pledgeIDs)
	assert.Len(t, got, 4, "no duplicates")
	assert.Equal(t, partyIDs, got[:len(partyIDs)], "party members first")

	skill.AffectLimit = 3
	assert.Len(t, f.r.AffectTargets(leader.Character, leader.WorldObject, skill), 3)
}

func TestResolver_DeadPledge(t *testing.T) {
	f := newFixture(t)
	caster := f.player(-100, 0)
	fallen := f.player(0, 0)
	fallen.SetCurrentHP(0)
	mate := f.player(50, 0)
	mate.SetCurrentHP(0)
	alive := f.player(60, 0)
	sieger := f.player(70, 0)
	sieger.SetInsideZone(model.ZoneIDSiege, true)
	registered := f.player(80, 0)
	registered.SetInsideZone(model.ZoneIDSiege, true)
	registered.SetInSiege(true)
	stranger := f.player(90, 0)
	pet := f.summon(mate, 55, 0)

	clan := model.NewClan(3, "Phoenix")
	for _, p := range []*model.Player{caster, fallen, mate, alive, sieger, registered} {
		clan.AddMember(p)
	}

	skill := &Skill{Scope: ScopeDeadPledge, Object: ObjectAll, AffectRange: 500}
	got := ids(f.r.AffectTargets(caster.Character, fallen.WorldObject, skill))

	assert.Contains(t, got, mate.ObjectID())
	assert.Contains(t, got, alive.ObjectID(), "liveness is not filtered here")
	assert.Contains(t, got, registered.ObjectID())
	assert.Contains(t, got, caster.ObjectID())
	assert.NotContains(t, got, sieger.ObjectID(), "inside siege zone without taking part")
	assert.NotContains(t, got, stranger.ObjectID())
	assert.NotContains(t, got, pet.ObjectID(), "summons resolve to their owner")
	assert.NotContains(t, got, fallen.ObjectID(), "origin is not its own neighbour")
	assert.Len(t, got, 4, "owner reached through its summon is listed once")

	skill.AffectLimit = 2
	assert.Len(t, f.r.AffectTargets(caster.Character, fallen.WorldObject, skill), 2)
}

func TestResolver_DeadPledge_NoClanOrNotPlayable(t *testing.T) {
	f := newFixture(t)
	caster := f.player(0, 0)
	clanless := f.player(10, 0)
	mob := f.mob(20, 0)

	skill := &Skill{Scope: ScopeDeadPledge, Object: ObjectAll, AffectRange: 500}
	assert.Empty(t, f.r.AffectTargets(caster.Character, clanless.WorldObject, skill))
	assert.Empty(t, f.r.AffectTargets(caster.Character, mob.WorldObject, skill))
}

func TestResolver_AffectObjectGate(t *testing.T) {
	f := newFixture(t)
	caster := f.player(0, 0)
	for i := range 6 {
		f.mob(int32(10*(i+1)), 0)
	}
	for i := range 3 {
		f.player(0, int32(10*(i+1)))
	}

	for _, obj := range []Object{ObjectAll, ObjectFriend, ObjectNotFriend} {
		skill := &Skill{Scope: ScopePointBlank, Object: obj, AffectRange: 500, AffectLimit: 4}
		got := f.r.AffectTargets(caster.Character, caster.WorldObject, skill)
		assert.LessOrEqual(t, len(got), 4)
		for _, o := range got {
			assert.True(t, obj.Affects(caster.WorldObject, o), "%s lets %d through", obj, o.ObjectID())
			assert.True(t, caster.Location().InRange(o.Location(), 500))
		}
	}
}
