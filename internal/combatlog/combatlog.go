// Package combatlog turns an exported battle journal into a list of
// participating ships, the parsed battle log and per-ship statistics.
package combatlog

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/pefman/stfc-combat/internal/battlelog"
	"github.com/pefman/stfc-combat/internal/combatstats"
	"github.com/pefman/stfc-combat/internal/gamedata"
	"github.com/pefman/stfc-combat/internal/models"
)

type Side string

const (
	SideInitiator Side = "initiator"
	SideTarget    Side = "target"
)

// Ship is one participant. The journal indexes ships by several unrelated
// ids; all of them are kept so callers can cross-reference.
type Ship struct {
	DisplayName string           `json:"displayName"`
	ShipID      int64            `json:"shipId"`
	PlayerID    string           `json:"playerId"`
	InfoID      string           `json:"infoId"`
	InfoIndex   int              `json:"infoIndex"`
	FleetID     string           `json:"fleetId"`
	FleetIndex  int              `json:"fleetIndex"`
	Side        Side             `json:"side"`
	FleetData   models.FleetData `json:"-"`
	FleetInfo   models.FleetInfo `json:"fleetInfo"`

	// Entries are nil for empty officer slots and unknown components.
	Officers   []*gamedata.OfficerLookupResult   `json:"officers"`
	Components []*gamedata.ComponentLookupResult `json:"components"`
	Details    *gamedata.ShipDetail              `json:"details,omitempty"`
}

type ParsedData struct {
	AllShips  []*Ship                     `json:"allShips"`
	ShipByID  map[int64]*Ship             `json:"shipById"`
	BattleLog []battlelog.Round           `json:"battleLog"`
	Stats     *combatstats.CombatLogStats `json:"stats"`
}

// Parse never fails: an unreadable battle log yields no rounds and is logged.
func Parse(log *zap.Logger, msg models.JournalMessage, gd *gamedata.GameData) *ParsedData {
	if gd == nil {
		gd = gamedata.Empty()
	}
	ships := ListAllShips(msg, gd)
	byID := make(map[int64]*Ship, len(ships))
	ids := make([]int64, 0, len(ships))
	for _, s := range ships {
		byID[s.ShipID] = s
		ids = append(ids, s.ShipID)
	}
	rounds := battlelog.ParseBattleLog(log, msg.Journal.BattleLog)
	return &ParsedData{
		AllShips:  ships,
		ShipByID:  byID,
		BattleLog: rounds,
		Stats:     combatstats.GatherStats(ids, rounds, gd),
	}
}

func ListAllShips(msg models.JournalMessage, gd *gamedata.GameData) []*Ship {
	names := msg.Names
	if names == nil {
		names = map[string]string{}
	}
	ships := ListFleetShips(msg.Journal.InitiatorFleetData, SideInitiator, gd, names)
	return append(ships, ListFleetShips(msg.Journal.TargetFleetData, SideTarget, gd, names)...)
}

// ListFleetShips lists one ship per deployed fleet, in fleet id order. A side
// without deployed fleets gets a single placeholder ship with id 0.
func ListFleetShips(fd models.FleetData, side Side, gd *gamedata.GameData, names map[string]string) []*Ship {
	var out []*Ship
	for fleetIndex, fleetID := range sortedKeys(fd.DeployedFleets) {
		info := fd.DeployedFleets[fleetID]
		infoID := firstKey(info.ShipHPs)
		shipID := first(info.ShipIDs)

		name, ok := names[info.UID]
		if !ok {
			name = fmt.Sprintf("%s %d", sideLabel(side), fleetIndex+1)
		}

		officers := []*gamedata.OfficerLookupResult{}
		for _, ref := range fd.FleetsOfficers[fleetID] {
			if ref == nil {
				officers = append(officers, nil)
				continue
			}
			o := gd.LookupOfficer(ref.ID)
			officers = append(officers, &o)
		}

		components := []*gamedata.ComponentLookupResult{}
		for _, cid := range info.ShipComponents[infoID] {
			if c, ok := gd.LookupComponent(cid); ok {
				components = append(components, &c)
			} else {
				components = append(components, nil)
			}
		}

		details, _ := gd.LookupShipDetails(first(info.HullIDs), refLocaID(fd))

		out = append(out, &Ship{
			DisplayName: name,
			ShipID:      shipID,
			PlayerID:    info.UID,
			InfoID:      infoID,
			InfoIndex:   indexOf(fd.ShipIDs, shipID),
			FleetID:     fleetID,
			FleetIndex:  fleetIndex,
			Side:        side,
			FleetData:   fd,
			FleetInfo:   info,
			Officers:    officers,
			Components:  components,
			Details:     details,
		})
	}
	if len(out) > 0 {
		return out
	}

	info := fd.DeployedFleet
	return []*Ship{{
		DisplayName: sideLabel(side),
		ShipID:      0,
		PlayerID:    info.UID,
		InfoID:      firstKey(info.ShipHPs),
		InfoIndex:   indexOf(fd.ShipIDs, first(info.ShipIDs)),
		Side:        side,
		FleetData:   fd,
		FleetInfo:   info,
		Officers:    []*gamedata.OfficerLookupResult{},
		Components:  []*gamedata.ComponentLookupResult{},
	}}
}

// ShipName resolves the hull (or hostile) name, "???" when unknown.
func ShipName(ship *Ship, gd *gamedata.GameData) string {
	level := ship.FleetInfo.ShipLevels[ship.InfoID]
	name, ok := gd.LookupShipName(first(ship.FleetInfo.HullIDs), refLocaID(ship.FleetData), level)
	if !ok || name == "" {
		return "???"
	}
	return name
}

func sideLabel(side Side) string {
	if side == SideInitiator {
		return "Initiator"
	}
	return "Target"
}

func refLocaID(fd models.FleetData) int64 {
	if fd.RefIDs == nil {
		return 0
	}
	return fd.RefIDs.LocaID
}

func first(ids []int64) int64 {
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func firstKey[V any](m map[string]V) string {
	keys := sortedKeys(m)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// sortedKeys orders integer keys numerically ahead of any other keys, which
// sort lexically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseUint(keys[i], 10, 64)
		b, errB := strconv.ParseUint(keys[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
