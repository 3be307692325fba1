package model

import (
	"sync"
	"sync/atomic"
)

// Access levels. Anything at or above AccessLevelGM bypasses cheat punishment.
const (
	AccessLevelUser int32 = 0
	AccessLevelGM   int32 = 100
)

// Player: игровой персонаж под управлением клиента.
// Thread-safe: social links are guarded by socialMu, combat flags are atomic.
type Player struct {
	*Character

	inventory   *Inventory
	accessLevel atomic.Int32
	karma       atomic.Int32
	pvpFlag     atomic.Bool

	socialMu sync.RWMutex
	party    *Party
	clan     *Clan
	summon   *Summon

	duelID atomic.Int32 // 0 = not in duel

	olympiadMode   atomic.Bool
	olympiadGameID atomic.Int32
	olympiadSide   atomic.Int32

	eventTeam atomic.Int32 // TvT team: 0 = not participating
	inSiege   atomic.Bool  // registered siege participant
}

// NewPlayer создаёт игрока с пустым инвентарём.
func NewPlayer(objectID uint32, name string, loc Location, maxHP float64) *Player {
	p := &Player{
		Character: NewCharacter(objectID, name, loc, maxHP),
		inventory: NewInventory(),
	}
	p.WorldObject.Data = p
	return p
}

// Inventory returns the player's inventory.
func (p *Player) Inventory() *Inventory { return p.inventory }

// AccessLevel returns the account access level.
func (p *Player) AccessLevel() int32 { return p.accessLevel.Load() }

// SetAccessLevel sets the account access level.
func (p *Player) SetAccessLevel(level int32) { p.accessLevel.Store(level) }

// IsGM reports whether the player is a game master.
func (p *Player) IsGM() bool { return p.AccessLevel() >= AccessLevelGM }

// Karma returns the player karma (PK points).
func (p *Player) Karma() int32 { return p.karma.Load() }

// SetKarma sets karma.
func (p *Player) SetKarma(k int32) { p.karma.Store(k) }

// PvPFlag reports whether the player is flagged for PvP.
func (p *Player) PvPFlag() bool { return p.pvpFlag.Load() }

// SetPvPFlag sets the PvP flag.
func (p *Player) SetPvPFlag(v bool) { p.pvpFlag.Store(v) }

// Party returns the current party or nil.
func (p *Player) Party() *Party {
	p.socialMu.RLock()
	defer p.socialMu.RUnlock()
	return p.party
}

// SetParty binds or clears the party link. Party.AddMember/RemoveMember call it.
func (p *Player) SetParty(party *Party) {
	p.socialMu.Lock()
	defer p.socialMu.Unlock()
	p.party = party
}

// IsInParty reports whether the player belongs to a party.
func (p *Player) IsInParty() bool { return p.Party() != nil }

// Clan returns the player's clan or nil.
func (p *Player) Clan() *Clan {
	p.socialMu.RLock()
	defer p.socialMu.RUnlock()
	return p.clan
}

// SetClan binds or clears the clan link. Clan.AddMember/RemoveMember call it.
func (p *Player) SetClan(clan *Clan) {
	p.socialMu.Lock()
	defer p.socialMu.Unlock()
	p.clan = clan
}

// ClanID returns the clan ID or 0 when clanless.
func (p *Player) ClanID() int32 {
	if c := p.Clan(); c != nil {
		return c.ID()
	}
	return 0
}

// Summon returns the active pet/servitor or nil.
func (p *Player) Summon() *Summon {
	p.socialMu.RLock()
	defer p.socialMu.RUnlock()
	return p.summon
}

// SetSummon sets the active pet/servitor.
func (p *Player) SetSummon(s *Summon) {
	p.socialMu.Lock()
	defer p.socialMu.Unlock()
	p.summon = s
}

// HasSummon reports whether a pet/servitor is out.
func (p *Player) HasSummon() bool { return p.Summon() != nil }

// DuelID returns the duel session ID (0 = not dueling).
func (p *Player) DuelID() int32 { return p.duelID.Load() }

// SetDuelID sets the duel session ID.
func (p *Player) SetDuelID(id int32) { p.duelID.Store(id) }

// IsInDuel reports whether the player is dueling.
func (p *Player) IsInDuel() bool { return p.DuelID() != 0 }

// IsInOlympiadMode reports whether the player is fighting an Olympiad match.
func (p *Player) IsInOlympiadMode() bool { return p.olympiadMode.Load() }

// OlympiadGameID returns the Olympiad stadium/game ID.
func (p *Player) OlympiadGameID() int32 { return p.olympiadGameID.Load() }

// OlympiadSide returns the Olympiad side (1 or 2).
func (p *Player) OlympiadSide() int32 { return p.olympiadSide.Load() }

// SetOlympiad enters (gameID > 0) or leaves (gameID = 0) Olympiad mode.
func (p *Player) SetOlympiad(gameID, side int32) {
	p.olympiadGameID.Store(gameID)
	p.olympiadSide.Store(side)
	p.olympiadMode.Store(gameID > 0)
}

// EventTeam returns the TvT team (0 = not participating).
func (p *Player) EventTeam() int32 { return p.eventTeam.Load() }

// SetEventTeam sets the TvT team.
func (p *Player) SetEventTeam(team int32) { p.eventTeam.Store(team) }

// IsInSiege reports whether the player is a registered siege participant.
func (p *Player) IsInSiege() bool { return p.inSiege.Load() }

// SetInSiege sets siege participation.
func (p *Player) SetInSiege(v bool) { p.inSiege.Store(v) }
