package rift

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/la2go-rift/internal/model"
)

// RoomSource loads room records from storage.
type RoomSource interface {
	LoadRooms(ctx context.Context) ([]RoomRecord, error)
}

type roomKey struct {
	tier, id uint8
}

// Registry is an immutable snapshot of all rift rooms grouped by tier.
// Spawn descriptors are attached before the snapshot is published.
type Registry struct {
	byKey  map[roomKey]*Room
	byTier map[uint8][]*Room // ordered by room id
}

// NewRegistry builds a registry from records.
// Invalid records are skipped with a warning; a duplicate (tier, id) replaces the earlier one.
func NewRegistry(records []RoomRecord) *Registry {
	reg := &Registry{
		byKey:  make(map[roomKey]*Room, len(records)),
		byTier: make(map[uint8][]*Room, int(MaxTier)+1),
	}

	for _, rec := range records {
		if rec.Tier > MaxTier {
			slog.Warn("skipping rift room with unknown tier", "tier", rec.Tier, "room", rec.RoomID)
			continue
		}
		room, err := newRoom(rec)
		if err != nil {
			slog.Warn("skipping rift room", "error", err)
			continue
		}
		key := roomKey{rec.Tier, rec.RoomID}
		if _, dup := reg.byKey[key]; dup {
			slog.Warn("duplicate rift room, replacing", "tier", rec.Tier, "room", rec.RoomID)
		}
		reg.byKey[key] = room
	}

	for key, room := range reg.byKey {
		reg.byTier[key.tier] = append(reg.byTier[key.tier], room)
	}
	for _, rooms := range reg.byTier {
		slices.SortFunc(rooms, func(a, b *Room) int { return int(a.id) - int(b.id) })
	}

	slog.Info("loaded rift rooms", "types", len(reg.byTier), "rooms", len(reg.byKey))
	return reg
}

// LoadRegistry reads records from src and builds a registry.
func LoadRegistry(ctx context.Context, src RoomSource) (*Registry, error) {
	records, err := src.LoadRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rift rooms: %w", err)
	}
	return NewRegistry(records), nil
}

// Room returns the room (tier, id).
func (r *Registry) Room(tier, id uint8) (*Room, bool) {
	room, ok := r.byKey[roomKey{tier, id}]
	return room, ok
}

// Rooms returns the rooms of tier ordered by id. The slice must not be modified.
func (r *Registry) Rooms(tier uint8) []*Room {
	return r.byTier[tier]
}

// Tiers returns the loaded tiers in ascending order.
func (r *Registry) Tiers() []uint8 {
	tiers := make([]uint8, 0, len(r.byTier))
	for t := range r.byTier {
		tiers = append(tiers, t)
	}
	slices.Sort(tiers)
	return tiers
}

// CheckIfInPeaceZone reports whether the point is inside the waiting room (0/0).
func (r *Registry) CheckIfInPeaceZone(x, y, z int32) bool {
	peace, ok := r.Room(TierWaiting, RoomPeace)
	return ok && peace.CheckIfInZone(x, y, z)
}

// WaitingLocation returns the waiting room teleport anchor.
func (r *Registry) WaitingLocation() (model.Location, bool) {
	peace, ok := r.Room(TierWaiting, RoomPeace)
	if !ok {
		return model.Location{}, false
	}
	return peace.teleport, true
}

// RoomCount returns total number of rooms.
func (r *Registry) RoomCount() int { return len(r.byKey) }

// OccupiedCount returns the number of occupied rooms of tier.
func (r *Registry) OccupiedCount(tier uint8) int {
	n := 0
	for _, room := range r.byTier[tier] {
		if room.IsOccupied() {
			n++
		}
	}
	return n
}

// FreeRooms returns the ids of unoccupied rooms of tier in id order.
func (r *Registry) FreeRooms(tier uint8) []uint8 {
	var free []uint8
	for _, room := range r.byTier[tier] {
		if !room.IsOccupied() {
			free = append(free, room.id)
		}
	}
	return free
}

// IsAllowedEnter reports whether one more party fits into tier:
// at most |rooms| − 1 rooms may be occupied at once.
func (r *Registry) IsAllowedEnter(tier uint8) bool {
	return r.OccupiedCount(tier) < len(r.byTier[tier])-1
}
