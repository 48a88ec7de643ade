package combatstats

import (
	"encoding/json"
	"math"
)

// CombatLogTime locates a sample in the battle log. All fields are 1-indexed.
type CombatLogTime struct {
	Round    int `json:"round"`
	SubRound int `json:"subRound"`
	Event    int `json:"event"`
}

// DamageSample describes one attack event from both the attacker and the
// defender point of view. The same value is appended to both ships.
type DamageSample struct {
	T                CombatLogTime `json:"t"`
	Mitigation       float64       `json:"mitigation"` // fraction of the total damage mitigated
	HHP              float64       `json:"hhp"`        // hull damage taken
	SHP              float64       `json:"shp"`        // shield damage taken
	Crit             bool          `json:"crit"`
	DamageMultiplier float64       `json:"damageMultiplier"` // total damage over the weapon's mean base damage
	StdDamage        float64       `json:"std_damage"`
	StdMitigated     float64       `json:"std_mitigated"`
	IsoDamage        float64       `json:"iso_damage"`
	IsoMitigated     float64       `json:"iso_mitigated"`
	ApexMitigated    float64       `json:"apex_mitigated"`
	BaseMin          float64       `json:"base_min"`
	BaseMax          float64       `json:"base_max"`
}

// MarshalJSON writes non-finite ratios as null.
func (s DamageSample) MarshalJSON() ([]byte, error) {
	type plain DamageSample
	return json.Marshal(struct {
		Tag string `json:"tag"`
		plain
		Mitigation       *float64 `json:"mitigation"`
		DamageMultiplier *float64 `json:"damageMultiplier"`
	}{"damage", plain(s), finite(s.Mitigation), finite(s.DamageMultiplier)})
}

type HitPointSample struct {
	T   CombatLogTime `json:"t"`
	HHP float64       `json:"hhp"` // remaining hull
	SHP float64       `json:"shp"` // remaining shield
}

// HitPointChangeSample records hit point movement not explained by the attack
// itself (repairs, regeneration, burning).
type HitPointChangeSample struct {
	T    CombatLogTime `json:"t"`
	Diff float64       `json:"diff"`
}

type EmptyEventSample struct {
	T CombatLogTime `json:"t"`
}

type ShipStats struct {
	DamageOut   []DamageSample         `json:"damageOut"`
	DamageIn    []DamageSample         `json:"damageIn"`
	HitPoints   []HitPointSample       `json:"hitPoints"`
	HHPChange   []HitPointChangeSample `json:"hhpChange"`
	SHPChange   []HitPointChangeSample `json:"shpChange"`
	HHPDepleted []EmptyEventSample     `json:"hhpDepleted"`
	SHPDepleted []EmptyEventSample     `json:"shpDepleted"`

	// Per weapon component id.
	Weapons map[int64][]DamageSample `json:"weapons"`
}

func newShipStats() *ShipStats {
	return &ShipStats{
		DamageOut:   []DamageSample{},
		DamageIn:    []DamageSample{},
		HitPoints:   []HitPointSample{},
		HHPChange:   []HitPointChangeSample{},
		SHPChange:   []HitPointChangeSample{},
		HHPDepleted: []EmptyEventSample{},
		SHPDepleted: []EmptyEventSample{},
		Weapons:     map[int64][]DamageSample{},
	}
}

type CombatLogStats struct {
	Ships map[int64]*ShipStats `json:"ships"`
}

// Ship returns the stats of a ship, or an empty set if it never appeared.
func (c *CombatLogStats) Ship(id int64) *ShipStats {
	if s, ok := c.Ships[id]; ok {
		return s
	}
	return newShipStats()
}

func (c *CombatLogStats) ensure(id int64) *ShipStats {
	s, ok := c.Ships[id]
	if !ok {
		s = newShipStats()
		c.Ships[id] = s
	}
	return s
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}
