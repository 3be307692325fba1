package affect

import (
	"math"
	"slices"

	"github.com/udisondev/la2go-rift/internal/game/geo"
	"github.com/udisondev/la2go-rift/internal/model"
)

// Skill carries the fields of a skill template that shape its area.
type Skill struct {
	ID          int32
	Level       int32
	Scope       Scope
	Object      Object
	AffectRange int32
	AffectLimit int      // 0 = unbounded
	FanRange    [4]int32 // [unused, starting angle, radius, angle]
	Offensive   bool
}

// World is the spatial query surface the resolver reads.
type World interface {
	VisibleObjects(origin *model.WorldObject, radius int32) []*model.WorldObject
	VisibleObjectsFor(observer, origin *model.WorldObject, radius int32) []*model.WorldObject
	KnownCharactersInRadius(obj *model.WorldObject, radius int32) []*model.Character
}

// Sight answers line-of-sight questions.
type Sight interface {
	CanSee(from, to *model.WorldObject) bool
}

type policy func(r *Resolver, caster *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject

// Resolver computes the ordered list of objects a skill affects.
// Read-only over World; safe for concurrent use.
type Resolver struct {
	world      World
	sight      Sight
	gates      Gates
	partyRange int32
	policies   map[Scope]policy
}

// NewResolver creates a resolver. A nil gates uses StandardGates.
func NewResolver(world World, sight Sight, gates Gates, partyRange int32) *Resolver {
	if gates == nil {
		gates = StandardGates{}
	}
	return &Resolver{
		world:      world,
		sight:      sight,
		gates:      gates,
		partyRange: partyRange,
		policies: map[Scope]policy{
			ScopeSingle:        (*Resolver).single,
			ScopePointBlank:    (*Resolver).pointBlank,
			ScopeRange:         (*Resolver).rangeScope,
			ScopeRangeSortByHP: (*Resolver).rangeSortByHP,
			ScopeFan:           (*Resolver).fan,
			ScopeParty:         (*Resolver).party,
			ScopePledge:        (*Resolver).pledge,
			ScopePartyPledge:   (*Resolver).partyPledge,
			ScopeDeadPledge:    (*Resolver).deadPledge,
		},
	}
}

// AffectTargets returns the objects skill affects when caster uses it on target.
// Scopes without a policy yield an empty list.
func (r *Resolver) AffectTargets(caster *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	p, ok := r.policies[skill.Scope]
	if !ok || target == nil {
		return nil
	}
	return p(r, caster, target, skill)
}

// collector appends up to limit objects (0 = unbounded).
type collector struct {
	limit int
	out   []*model.WorldObject
}

func newCollector(limit int) *collector {
	return &collector{limit: limit}
}

func (c *collector) full() bool {
	return c.limit > 0 && len(c.out) >= c.limit
}

func (c *collector) add(obj *model.WorldObject) {
	if !c.full() {
		c.out = append(c.out, obj)
	}
}

func (r *Resolver) single(caster *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	if !skill.Object.Affects(caster.WorldObject, target) {
		return nil
	}
	return []*model.WorldObject{target}
}

func (r *Resolver) pointBlank(_ *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	if !target.IsCharacter() {
		return nil
	}
	c := newCollector(skill.AffectLimit)
	for _, ch := range r.world.KnownCharactersInRadius(target, skill.AffectRange) {
		if c.full() {
			break
		}
		if skill.Object.Affects(target, ch.WorldObject) {
			c.add(ch.WorldObject)
		}
	}
	return c.out
}

func livingCharacters(objs []*model.WorldObject) []*model.Character {
	out := make([]*model.Character, 0, len(objs))
	for _, o := range objs {
		if ch := o.AsCharacter(); ch != nil && !ch.IsDead() {
			out = append(out, ch)
		}
	}
	return out
}

func truncate(chars []*model.Character, limit int) []*model.WorldObject {
	if limit > 0 && len(chars) > limit {
		chars = chars[:limit]
	}
	out := make([]*model.WorldObject, len(chars))
	for i, ch := range chars {
		out[i] = ch.WorldObject
	}
	return out
}

func (r *Resolver) rangeScope(_ *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	return truncate(livingCharacters(r.world.VisibleObjects(target, skill.AffectRange)), skill.AffectLimit)
}

func (r *Resolver) rangeSortByHP(caster *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	chars := livingCharacters(r.world.VisibleObjectsFor(caster.WorldObject, target, skill.AffectRange))
	slices.SortStableFunc(chars, func(a, b *model.Character) int {
		ra, rb := a.HPRatio(), b.HPRatio()
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		default:
			return 0
		}
	})
	return truncate(chars, skill.AffectLimit)
}

func (r *Resolver) fan(caster *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	if !target.IsCharacter() {
		return nil
	}
	from := caster.Location()
	heading := geo.AngleFrom(from, target.Location())
	startAngle := float64(skill.FanRange[1])
	radius := skill.FanRange[2]
	halfAngle := float64(skill.FanRange[3] / 2)

	c := newCollector(skill.AffectLimit)
	for _, ch := range r.world.KnownCharactersInRadius(target, radius) {
		if c.full() {
			break
		}
		if ch.IsDead() {
			continue
		}
		if math.Abs(geo.AngleFrom(from, ch.Location())-(heading+startAngle)) > halfAngle {
			continue
		}
		if !skill.Object.Affects(caster.WorldObject, ch.WorldObject) {
			continue
		}
		if r.sight != nil && !r.sight.CanSee(caster.WorldObject, ch.WorldObject) {
			continue
		}
		c.add(ch.WorldObject)
	}
	return c.out
}

func (r *Resolver) party(_ *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	creature := target.AsCharacter()
	if creature == nil {
		return nil
	}
	owner := target.ActingPlayer()
	if owner == nil {
		return nil
	}

	c := newCollector(skill.AffectLimit)
	party := owner.Party()
	if party == nil {
		r.addWithSummon(c, target, owner, skill.AffectRange)
		return c.out
	}

	for _, member := range party.Members() {
		if c.full() {
			break
		}
		if !creature.Location().InRange(member.Location(), r.partyRange) {
			continue
		}
		r.addWithSummon(c, target, member, skill.AffectRange)
	}
	return c.out
}

// addWithSummon adds player and its summon, each under the standard gate around origin.
func (r *Resolver) addWithSummon(c *collector, origin *model.WorldObject, player *model.Player, radius int32) {
	if addCharacter(origin, player.Character, radius) {
		c.add(player.WorldObject)
	}
	if addSummon(origin, player, radius) {
		c.add(player.Summon().WorldObject)
	}
}

// mateAllowed applies the duel, PvP, TvT and olympiad checks between two clan mates.
func (r *Resolver) mateAllowed(p, mate *model.Player, skill *Skill) bool {
	if p.IsInDuel() {
		if p.DuelID() != mate.DuelID() {
			return false
		}
		pp, mp := p.Party(), mate.Party()
		if pp != nil && mp != nil && pp.LeaderObjectID() != mp.LeaderObjectID() {
			return false
		}
	}
	if !r.gates.CheckPvpSkill(p, mate, skill) {
		return false
	}
	if !r.gates.CheckTvTSkill(p, mate, skill) {
		return false
	}
	if p.IsInOlympiadMode() {
		if p.OlympiadGameID() != mate.OlympiadGameID() {
			return false
		}
		// FIXME: сторона сравнивается с ID игры, а не со стороной соперника
		if p.OlympiadSide() != mate.OlympiadGameID() {
			return false
		}
	}
	return true
}

func (r *Resolver) pledge(_ *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	c := newCollector(skill.AffectLimit)

	switch d := target.Data.(type) {
	case *model.Player:
		clan := d.Clan()
		if clan == nil {
			r.addWithSummon(c, target, d, skill.AffectRange)
			return c.out
		}
		for _, mate := range clan.Members() {
			if c.full() {
				break
			}
			if !r.mateAllowed(d, mate, skill) {
				continue
			}
			r.addWithSummon(c, target, mate, skill.AffectRange)
		}

	case *model.Npc:
		c.add(target)
		if len(d.Clans()) == 0 {
			return c.out
		}
		for _, ch := range r.world.KnownCharactersInRadius(target, skill.AffectRange) {
			if c.full() {
				break
			}
			if npc, ok := ch.WorldObject.Data.(*model.Npc); ok && d.IsInMyClan(npc) {
				c.add(ch.WorldObject)
			}
		}
	}
	return c.out
}

func (r *Resolver) partyPledge(caster *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	merged := r.party(caster, target, skill)
	seen := make(map[uint32]struct{}, len(merged))
	for _, o := range merged {
		seen[o.ObjectID()] = struct{}{}
	}
	for _, o := range r.pledge(caster, target, skill) {
		if _, dup := seen[o.ObjectID()]; dup {
			continue
		}
		seen[o.ObjectID()] = struct{}{}
		merged = append(merged, o)
	}
	if skill.AffectLimit > 0 && len(merged) > skill.AffectLimit {
		merged = merged[:skill.AffectLimit]
	}
	return merged
}

func (r *Resolver) deadPledge(_ *model.Character, target *model.WorldObject, skill *Skill) []*model.WorldObject {
	if !target.IsPlayable() {
		return nil
	}
	player := target.ActingPlayer()
	clanID := player.ClanID()
	if clanID == 0 {
		return nil
	}

	c := newCollector(skill.AffectLimit)
	seen := make(map[uint32]struct{})
	for _, obj := range r.world.VisibleObjects(target, skill.AffectRange) {
		if c.full() {
			break
		}
		if !obj.IsPlayable() {
			continue
		}
		mate := obj.ActingPlayer()
		if mate == nil || mate.ClanID() != clanID {
			continue
		}
		if _, dup := seen[mate.ObjectID()]; dup {
			continue
		}
		if !r.mateAllowed(player, mate, skill) {
			continue
		}
		if mate.IsInsideZone(model.ZoneIDSiege) && !mate.IsInSiege() {
			continue
		}
		if !skill.Object.Affects(player.WorldObject, mate.WorldObject) {
			continue
		}
		seen[mate.ObjectID()] = struct{}{}
		c.add(mate.WorldObject)
	}
	return c.out
}
