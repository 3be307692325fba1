package db

import (
	"github.com/udisondev/la2go-rift/internal/game/rift"
	"github.com/udisondev/la2go-rift/internal/model"
)

func sampleRooms() []rift.RoomRecord {
	return []rift.RoomRecord{
		{Tier: 1, RoomID: 2, XMin: -112000, XMax: -108000, YMin: -181000, YMax: -177000, ZMin: -6900, ZMax: -6600, XT: -110000, YT: -179000, ZT: -6752},
		{Tier: 0, RoomID: 0, XMin: -114800, XMax: -114500, YMin: -179700, YMax: -179300, ZMin: -6800, ZMax: -6700, XT: -114700, YT: -179500, ZT: -6752},
		{Tier: 6, RoomID: 9, XMin: 10000, XMax: 12000, YMin: 20000, YMax: 22000, ZMin: -100, ZMax: 100, XT: 11000, YT: 21000, ZT: 0, Boss: true},
	}
}

func sampleTemplates() []*model.NpcTemplate {
	return []*model.NpcTemplate{
		model.NewNpcTemplate(25333, "Anakazel", "", 28, 2500, 300),
		model.NewNpcTemplate(25339, "Dimension Lord", "Rift", 40, 9000, 500).WithTraits(true, true, "RIFT", "UNDEAD"),
	}
}
