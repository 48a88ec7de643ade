package models

// ========================= Combat log journal =========================
// Raw journal document as exported by the game client. Only the fields the
// analyzer reads are modelled.

type JournalMessage struct {
	Journal Journal           `json:"journal"`
	Names   map[string]string `json:"names,omitempty"` // player uid -> display name
}

type Journal struct {
	BattleLog          []int64   `json:"battle_log"`
	InitiatorFleetData FleetData `json:"initiator_fleet_data"`
	TargetFleetData    FleetData `json:"target_fleet_data"`
}

type FleetData struct {
	DeployedFleets map[string]FleetInfo     `json:"deployed_fleets"`
	DeployedFleet  FleetInfo                `json:"deployed_fleet"`
	ShipIDs        []int64                  `json:"ship_ids"`
	FleetsOfficers map[string][]*OfficerRef `json:"fleets_officers"`
	RefIDs         *RefIDs                  `json:"ref_ids,omitempty"`
}

type FleetInfo struct {
	UID            string             `json:"uid"`
	ShipIDs        []int64            `json:"ship_ids"`
	HullIDs        []int64            `json:"hull_ids"`
	ShipHPs        map[string]float64 `json:"ship_hps"`
	ShipComponents map[string][]int64 `json:"ship_components"`
	ShipLevels     map[string]int     `json:"ship_levels"`
}

type OfficerRef struct {
	ID int64 `json:"id"`
}

// RefIDs identify hostiles; LocaID is 0 for player ships.
type RefIDs struct {
	LocaID int64 `json:"loca_id"`
}
