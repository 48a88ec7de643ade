package battlelog

import "encoding/json"

// Round is one combat round. Rounds are 1-indexed when shown to users.
type Round struct {
	SubRounds   []SubRound   `json:"subRounds"`
	HullRepairs []HullRepair `json:"hullRepairs"`
}

type SubRound struct {
	Events []Event `json:"events"`
}

type HullRepair struct {
	Ship         int64 `json:"ship"`
	HullRepaired int64 `json:"hull_repaired"`
}

// Event is one of AttackEvent, ChargeEvent or AbilityEvent.
type Event interface {
	EventType() string
	Subject() int64
}

const (
	TypeAttack  = "attack"
	TypeCharge  = "charge"
	TypeAbility = "ability"
)

// AttackEvent is a resolved weapon volley against one target.
// Ship is -1 when no subject preceded the attack in its sub-round.
type AttackEvent struct {
	Ship               int64          `json:"ship"`
	Weapon             int64          `json:"weapon"`
	Target             int64          `json:"target"`
	Accuracy           int64          `json:"accuracy"`
	Dodge              int64          `json:"dodge"`
	Missed             int64          `json:"missed"`
	Crit               bool           `json:"crit"`
	DamageTakenHull    int64          `json:"damage_taken_hull"`
	RemainingHull      int64          `json:"remaining_hull"`
	DamageTakenShield  int64          `json:"damage_taken_shield"`
	RemainingShield    int64          `json:"remaining_shield"`
	DamageMitigated    int64          `json:"damage_mitigated"`
	DamageIso          int64          `json:"damage_iso"`
	DamageIsoMitigated int64          `json:"damage_iso_mitigated"`
	Triggers           []AbilityEvent `json:"triggers"`
}

// ChargeEvent marks a weapon charging instead of firing. Charge is the raw
// stream value and reads as a percentage: 50 means 50%.
type ChargeEvent struct {
	Ship   int64 `json:"ship"`
	Weapon int64 `json:"weapon"`
	Charge int64 `json:"charge"`
}

// Percent returns the charge as a percentage, unscaled.
func (e ChargeEvent) Percent() float64 { return float64(e.Charge) }

type AbilityEvent struct {
	Ship    int64 `json:"ship"`
	Officer int64 `json:"officer"`
	Ability int64 `json:"ability"`
	Value   int64 `json:"value"`
}

func (AttackEvent) EventType() string  { return TypeAttack }
func (ChargeEvent) EventType() string  { return TypeCharge }
func (AbilityEvent) EventType() string { return TypeAbility }

func (e AttackEvent) Subject() int64  { return e.Ship }
func (e ChargeEvent) Subject() int64  { return e.Ship }
func (e AbilityEvent) Subject() int64 { return e.Ship }

func (e AttackEvent) MarshalJSON() ([]byte, error) {
	type plain AttackEvent
	p := plain(e)
	if p.Triggers == nil {
		p.Triggers = []AbilityEvent{}
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypeAttack, p})
}

func (e ChargeEvent) MarshalJSON() ([]byte, error) {
	type plain ChargeEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypeCharge, plain(e)})
}

func (e AbilityEvent) MarshalJSON() ([]byte, error) {
	type plain AbilityEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypeAbility, plain(e)})
}
