package model

import (
	"sync/atomic"
)

// Character: базовый класс для живых существ (Player, Summon, NPC).
// Добавляет HP к WorldObject.
type Character struct {
	*WorldObject // embedded

	currentHP float64
	maxHP     float64

	// Zone flags bitfield, one bit per ZoneID.
	zones atomic.Uint32
}

// NewCharacter создаёт персонажа с полным HP.
func NewCharacter(objectID uint32, name string, loc Location, maxHP float64) *Character {
	if maxHP < 1 {
		maxHP = 1
	}
	return &Character{
		WorldObject: NewWorldObject(objectID, name, loc),
		currentHP:   maxHP,
		maxHP:       maxHP,
	}
}

// CurrentHP возвращает текущее HP.
func (c *Character) CurrentHP() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentHP
}

// MaxHP возвращает максимальное HP.
func (c *Character) MaxHP() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxHP
}

// SetCurrentHP устанавливает текущее HP (clamp 0..maxHP).
func (c *Character) SetCurrentHP(hp float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hp < 0 {
		hp = 0
	}
	if hp > c.maxHP {
		hp = c.maxHP
	}
	c.currentHP = hp
}

// IsDead проверяет мёртв ли персонаж (HP <= 0).
func (c *Character) IsDead() bool {
	return c.CurrentHP() <= 0
}

// HPRatio returns currentHP / maxHP in [0, 1].
func (c *Character) HPRatio() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentHP / c.maxHP
}

// SetInsideZone sets or clears a zone flag.
func (c *Character) SetInsideZone(zone ZoneID, inside bool) {
	bit := uint32(1) << zone
	for {
		old := c.zones.Load()
		next := old &^ bit
		if inside {
			next = old | bit
		}
		if c.zones.CompareAndSwap(old, next) {
			return
		}
	}
}

// IsInsideZone reports whether the character is inside a zone of the given type.
func (c *Character) IsInsideZone(zone ZoneID) bool {
	return c.zones.Load()&(uint32(1)<<zone) != 0
}
