package gamedata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a JSON game data export. Missing tables decode as empty maps so
// lookups never need nil checks on the containers.
func Decode(r io.Reader) (*GameData, error) {
	var gd GameData
	if err := json.NewDecoder(r).Decode(&gd); err != nil {
		return nil, fmt.Errorf("decode game data: %w", err)
	}
	gd.normalize()
	return &gd, nil
}

func Load(path string) (*GameData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open game data: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Empty returns a GameData with no entries; every lookup on it misses.
func Empty() *GameData {
	gd := &GameData{}
	gd.normalize()
	return gd
}

func (gd *GameData) normalize() {
	if gd.Officer == nil {
		gd.Officer = map[int64]*OfficerDetail{}
	}
	if gd.Ship == nil {
		gd.Ship = map[int64]*ShipDetail{}
	}
	if gd.Research == nil {
		gd.Research = map[int64]*ResearchDetail{}
	}
	if gd.Building == nil {
		gd.Building = map[int64]*BuildingDetail{}
	}
	if gd.Hostile == nil {
		gd.Hostile = map[int64]*HostileDetail{}
	}
	if gd.ForbiddenTech == nil {
		gd.ForbiddenTech = map[int64]*ForbiddenTechDetail{}
	}
}
