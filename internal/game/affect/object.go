package affect

import "github.com/udisondev/la2go-rift/internal/model"

// Object: фильтр целей скилла (affect object).
type Object int8

const (
	ObjectAll             Object = iota // Every target
	ObjectClan                          // Clan mates (players) or clan NPCs
	ObjectFriend                        // Non-hostile targets
	ObjectHiddenPlace                   // Hidden places (not implemented)
	ObjectInvisible                     // Invisible targets
	ObjectNone                          // Nothing
	ObjectNotFriend                     // Hostile targets
	ObjectDeadNpcBody                   // Dead NPC bodies
	ObjectUndeadRealEnemy               // Undead NPCs
	ObjectWyvern                        // Wyverns
)

// WyvernNpcID is the template ID of a wyvern.
const WyvernNpcID int32 = 12621

var objectNames = [...]string{
	ObjectAll:             "ALL",
	ObjectClan:            "CLAN",
	ObjectFriend:          "FRIEND",
	ObjectHiddenPlace:     "HIDDEN_PLACE",
	ObjectInvisible:       "INVISIBLE",
	ObjectNone:            "NONE",
	ObjectNotFriend:       "NOT_FRIEND",
	ObjectDeadNpcBody:     "OBJECT_DEAD_NPC_BODY",
	ObjectUndeadRealEnemy: "UNDEAD_REAL_ENEMY",
	ObjectWyvern:          "WYVERN_OBJECT",
}

// String returns the datapack name of the filter.
func (o Object) String() string {
	if o < 0 || int(o) >= len(objectNames) {
		return "UNKNOWN"
	}
	return objectNames[o]
}

// ParseObject converts a datapack name to Object.
func ParseObject(name string) (Object, bool) {
	for i, n := range objectNames {
		if n == name {
			return Object(i), true
		}
	}
	return ObjectNone, false
}

// Affects reports whether target passes the filter from the point of view of caster.
func (o Object) Affects(caster, target *model.WorldObject) bool {
	switch o {
	case ObjectAll:
		return true
	case ObjectClan:
		return sameClan(caster, target)
	case ObjectFriend:
		return !isHostile(caster, target)
	case ObjectNotFriend:
		return isHostile(caster, target)
	case ObjectInvisible:
		return target.IsInvisible()
	case ObjectDeadNpcBody:
		npc, ok := target.Data.(*model.Npc)
		return ok && npc.IsDead()
	case ObjectUndeadRealEnemy:
		npc, ok := target.Data.(*model.Npc)
		return ok && npc.IsUndead()
	case ObjectWyvern:
		npc, ok := target.Data.(*model.Npc)
		return ok && npc.TemplateID() == WyvernNpcID
	default:
		// HIDDEN_PLACE, NONE и неизвестные
		return false
	}
}

func sameClan(caster, target *model.WorldObject) bool {
	if cp := caster.ActingPlayer(); cp != nil {
		tp := target.ActingPlayer()
		return tp != nil && cp.ClanID() != 0 && cp.ClanID() == tp.ClanID()
	}
	cn, ok := caster.Data.(*model.Npc)
	if !ok {
		return false
	}
	tn, ok := target.Data.(*model.Npc)
	return ok && cn.IsInMyClan(tn)
}

// isHostile reports whether caster would treat target as an enemy.
func isHostile(caster, target *model.WorldObject) bool {
	if caster.ObjectID() == target.ObjectID() {
		return false
	}
	cp, tp := caster.ActingPlayer(), target.ActingPlayer()
	switch {
	case cp != nil && tp != nil:
		return playersHostile(cp, tp)
	case cp != nil:
		npc, ok := target.Data.(*model.Npc)
		return ok && npc.IsAttackable()
	case tp != nil:
		npc, ok := caster.Data.(*model.Npc)
		return ok && npc.IsAttackable()
	default:
		return false
	}
}

func playersHostile(a, b *model.Player) bool {
	if a.ObjectID() == b.ObjectID() {
		return false
	}
	if a.IsInDuel() && a.DuelID() == b.DuelID() {
		return true
	}
	if a.IsInOlympiadMode() && b.IsInOlympiadMode() && a.OlympiadGameID() == b.OlympiadGameID() {
		return a.OlympiadSide() != b.OlympiadSide()
	}
	if a.EventTeam() != 0 && b.EventTeam() != 0 {
		return a.EventTeam() != b.EventTeam()
	}
	if party := a.Party(); party != nil && party.IsMember(b.ObjectID()) {
		return false
	}
	if a.ClanID() != 0 && a.ClanID() == b.ClanID() {
		return false
	}
	return b.Karma() > 0 || b.PvPFlag()
}
