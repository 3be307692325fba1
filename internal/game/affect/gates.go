package affect

import "github.com/udisondev/la2go-rift/internal/model"

// Gates are the PvP and event checks applied when a skill spreads over clan mates.
type Gates interface {
	// CheckPvpSkill reports whether caster may apply skill to target under PvP rules.
	CheckPvpSkill(caster, target *model.Player, skill *Skill) bool
	// CheckTvTSkill reports whether caster may apply skill to target under TvT event rules.
	CheckTvTSkill(caster, target *model.Player, skill *Skill) bool
}

// StandardGates implements the default server rules.
type StandardGates struct{}

// CheckPvpSkill: buffs always pass; offensive skills need a legal PvP situation
// (flagged or karma target, shared duel, shared olympiad game or both in a PvP zone)
// and never pass inside a peace zone or between party or clan mates.
func (StandardGates) CheckPvpSkill(caster, target *model.Player, skill *Skill) bool {
	if !skill.Offensive {
		return true
	}
	if caster.IsInsideZone(model.ZoneIDPeace) || target.IsInsideZone(model.ZoneIDPeace) {
		return false
	}
	if party := caster.Party(); party != nil && party.IsMember(target.ObjectID()) {
		return false
	}
	if caster.ClanID() != 0 && caster.ClanID() == target.ClanID() {
		return false
	}
	switch {
	case target.Karma() > 0, target.PvPFlag():
		return true
	case caster.IsInDuel() && caster.DuelID() == target.DuelID():
		return true
	case caster.IsInOlympiadMode() && caster.OlympiadGameID() == target.OlympiadGameID():
		return true
	case caster.IsInsideZone(model.ZoneIDPVP) && target.IsInsideZone(model.ZoneIDPVP):
		return true
	}
	return false
}

// CheckTvTSkill: outside the event everything passes; participants may only buff
// their own team and only attack the other team; mixing participants with
// outsiders is forbidden.
func (StandardGates) CheckTvTSkill(caster, target *model.Player, skill *Skill) bool {
	ct, tt := caster.EventTeam(), target.EventTeam()
	switch {
	case ct == 0 && tt == 0:
		return true
	case ct == 0 || tt == 0:
		return false
	case ct == tt:
		return !skill.Offensive
	default:
		return skill.Offensive
	}
}

// addCharacter is the standard character gate: alive and within radius of origin (radius ≤ 0 is unlimited).
func addCharacter(origin *model.WorldObject, target *model.Character, radius int32) bool {
	if target == nil || target.IsDead() {
		return false
	}
	return radius <= 0 || origin.Location().InRange(target.Location(), radius)
}

// addSummon is addCharacter applied to the owner's summon.
func addSummon(origin *model.WorldObject, owner *model.Player, radius int32) bool {
	s := owner.Summon()
	return s != nil && addCharacter(origin, s.Character, radius)
}
