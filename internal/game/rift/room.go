package rift

import (
	"fmt"
	"sync/atomic"

	"github.com/udisondev/la2go-rift/internal/model"
)

// Tiers: 0 is the waiting area, 1..6 are recruit..hero.
const (
	TierWaiting uint8 = 0
	MinTier     uint8 = 1
	MaxTier     uint8 = 6
)

// Rooms of the waiting area.
const (
	RoomPeace    uint8 = 0
	RoomRiftZone uint8 = 1
)

// RoomRecord is one row of the dimensional_rift table.
type RoomRecord struct {
	Tier   uint8
	RoomID uint8
	XMin   int32
	XMax   int32
	YMin   int32
	YMax   int32
	ZMin   int32
	ZMax   int32
	XT     int32
	YT     int32
	ZT     int32
	Boss   bool
}

// Room is a rift room. Geometry is immutable; only occupancy changes after load.
type Room struct {
	tier     uint8
	id       uint8
	box      Box
	teleport model.Location
	boss     bool
	spawns   []*model.Spawn

	occupied atomic.Bool
}

func newRoom(rec RoomRecord) (*Room, error) {
	box, err := NewBox(rec.XMin, rec.XMax, rec.YMin, rec.YMax, rec.ZMin, rec.ZMax)
	if err != nil {
		return nil, fmt.Errorf("room %d/%d: %w", rec.Tier, rec.RoomID, err)
	}
	return &Room{
		tier:     rec.Tier,
		id:       rec.RoomID,
		box:      box,
		teleport: model.NewLocation(rec.XT, rec.YT, rec.ZT, 0),
		boss:     rec.Boss,
	}, nil
}

// Tier returns the room tier.
func (r *Room) Tier() uint8 { return r.tier }

// ID returns the room id inside its tier.
func (r *Room) ID() uint8 { return r.id }

// Box returns the room volume.
func (r *Room) Box() Box { return r.box }

// TeleportLocation returns the anchor members are teleported to.
func (r *Room) TeleportLocation() model.Location { return r.teleport }

// IsBossRoom reports whether the room hosts a boss.
func (r *Room) IsBossRoom() bool { return r.boss }

// Spawns returns the room spawn descriptors.
func (r *Room) Spawns() []*model.Spawn { return r.spawns }

// CheckIfInZone reports whether the point is inside the room.
func (r *Room) CheckIfInZone(x, y, z int32) bool { return r.box.Contains(x, y, z) }

// IsOccupied reports whether a party is inside.
func (r *Room) IsOccupied() bool { return r.occupied.Load() }

// claim marks the room occupied; false if another session holds it.
func (r *Room) claim() bool { return r.occupied.CompareAndSwap(false, true) }

func (r *Room) release() { r.occupied.Store(false) }

func (r *Room) String() string {
	return fmt.Sprintf("room %d/%d", r.tier, r.id)
}
