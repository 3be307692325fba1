package rift

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/udisondev/la2go-rift/internal/model"
)

// SpawnStats counts the descriptors created and discarded by LoadSpawnCatalog.
type SpawnStats struct {
	Loaded int
	Failed int
}

// XML: <rift><area type><room id><spawn mobId delay count/></room></area></rift>
type xmlRift struct {
	XMLName xml.Name  `xml:"rift"`
	Areas   []xmlArea `xml:"area"`
}

type xmlArea struct {
	Type  uint8     `xml:"type,attr"`
	Rooms []xmlRoom `xml:"room"`
}

type xmlRoom struct {
	ID     uint8      `xml:"id,attr"`
	Spawns []xmlSpawn `xml:"spawn"`
}

type xmlSpawn struct {
	MobID int32 `xml:"mobId,attr"`
	Delay int   `xml:"delay,attr"` // seconds
	Count int   `xml:"count,attr"`
}

// LoadSpawnCatalog parses the spawn XML at path and attaches descriptors to reg rooms.
// Each spawn entry yields count descriptors at random points of the room floor (teleport Z).
// A missing file is logged and yields no spawns. Must run before reg is published.
func LoadSpawnCatalog(reg *Registry, path string) (SpawnStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("could not find rift spawn file", "path", path)
			return SpawnStats{}, nil
		}
		return SpawnStats{}, fmt.Errorf("reading rift spawns %s: %w", path, err)
	}

	var doc xmlRift
	if err := xml.Unmarshal(data, &doc); err != nil {
		slog.Warn("there was an error on loading rift spawns", "path", path, "error", err)
		return SpawnStats{}, fmt.Errorf("parsing rift spawns %s: %w", path, err)
	}

	stats := attachSpawns(reg, doc)

	slog.Info("loaded rift spawns", "count", stats.Loaded)
	if stats.Failed > 0 {
		slog.Warn("rift spawns with unknown rooms", "count", stats.Failed)
	}
	return stats, nil
}

func attachSpawns(reg *Registry, doc xmlRift) SpawnStats {
	var stats SpawnStats
	for _, area := range doc.Areas {
		for _, xr := range area.Rooms {
			room, ok := reg.Room(area.Type, xr.ID)
			if !ok {
				slog.Warn("rift room not found", "type", area.Type, "room", xr.ID)
			}
			for _, s := range xr.Spawns {
				if !ok {
					stats.Failed += max(s.Count, 0)
					continue
				}
				for range s.Count {
					loc := model.NewLocation(room.box.RandomX(), room.box.RandomY(), room.teleport.Z, 0)
					room.spawns = append(room.spawns, model.NewSpawn(s.MobID, loc, time.Duration(s.Delay)*time.Second))
					stats.Loaded++
				}
			}
		}
	}
	return stats
}
