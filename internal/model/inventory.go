package model

import "sync"

// Inventory holds stackable item counts keyed by item template ID.
// Thread-safe.
type Inventory struct {
	mu    sync.Mutex
	items map[int32]int64
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{items: make(map[int32]int64, 8)}
}

// ItemCount returns how many items of itemID the inventory holds.
func (inv *Inventory) ItemCount(itemID int32) int64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.items[itemID]
}

// AddItem adds count items of itemID. Non-positive counts are ignored.
func (inv *Inventory) AddItem(itemID int32, count int64) {
	if count <= 0 {
		return
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.items[itemID] += count
}

// DestroyItemByItemID removes count items of itemID.
// Returns false (and changes nothing) if fewer than count are held.
func (inv *Inventory) DestroyItemByItemID(itemID int32, count int64) bool {
	if count <= 0 {
		return false
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()

	have := inv.items[itemID]
	if have < count {
		return false
	}
	if have == count {
		delete(inv.items, itemID)
		return true
	}
	inv.items[itemID] = have - count
	return true
}
