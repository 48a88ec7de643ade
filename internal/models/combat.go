package models

import "math"

// ========================= Simulator input =========================
// CombatData is the JSON document accepted by the fleet simulator.

type CombatData struct {
	Ships []ShipData `json:"ships"`
}

type ShipData struct {
	Name      string        `json:"name"`
	Side      string        `json:"side"` // "Attacker" or "Defender"
	Faction   string        `json:"faction"`
	ShipClass string        `json:"shipClass"` // Explorer, Interceptor, Battleship, Survey, Structure
	Effects   []EffectData  `json:"effects"`
	Abilities []AbilityData `json:"abilities"`
	Weapons   []WeaponData  `json:"weapons"`
}

const (
	SideAttacker = "Attacker"
	SideDefender = "Defender"
)

// EffectData stats are [base, modifier, bonus] triples keyed by stat name.
// A nil Duration means the effect never expires; an empty OnConflict means Ignore.
type EffectData struct {
	Name       string                `json:"name"`
	Stats      map[string][3]float64 `json:"stats"`
	Duration   *float64              `json:"duration,omitempty"`
	OnConflict string                `json:"onConflict,omitempty"`
}

const (
	ConflictReplace = "Replace"
	ConflictIgnore  = "Ignore"
	ConflictExtend  = "Extend"
	ConflictStack   = "Stack"
)

type WeaponData struct {
	Name       string  `json:"name"`
	DamageType string  `json:"damageType"` // Energy or Kinetic
	Load       float64 `json:"load"`
	Reload     float64 `json:"reload"`
}

// AbilityData binds lists of actions to the simulator hook points.
type AbilityData struct {
	Name          string       `json:"name"`
	OnInit        []ActionData `json:"onInit,omitempty"`
	OnCombatStart []ActionData `json:"onCombatStart,omitempty"`
	OnRoundStart  []ActionData `json:"onRoundStart,omitempty"`
	OnRoundEnd    []ActionData `json:"onRoundEnd,omitempty"`
	OnAttackOut   []ActionData `json:"onAttackOut,omitempty"`
	OnAttackIn    []ActionData `json:"onAttackIn,omitempty"`
}

// ActionData is one step of an ability. If is an optional boolean expression
// evaluated before the action runs.
type ActionData struct {
	Do     string      `json:"do"`           // addEffect | removeEffect
	To     string      `json:"to,omitempty"` // self (default) | target | fleet | enemyFleet | attacker | defender
	If     string      `json:"if,omitempty"`
	Effect *EffectData `json:"effect,omitempty"`
	Name   string      `json:"name,omitempty"` // effect name for removeEffect
}

const (
	ActionAddEffect    = "addEffect"
	ActionRemoveEffect = "removeEffect"

	TargetSelf       = "self"
	TargetTarget     = "target"
	TargetFleet      = "fleet"
	TargetEnemyFleet = "enemyFleet"
	TargetAttacker   = "attacker"
	TargetDefender   = "defender"
)

// ========================= Simulator output =========================

type CombatOutcome struct {
	Rounds               float64 `json:"rounds"`
	AttackerWin          float64 `json:"attackerWin"`
	AttackerLosses       float64 `json:"attackerLosses"`
	AttackerShieldDamage float64 `json:"attackerShieldDamage"`
	AttackerHullDamage   float64 `json:"attackerHullDamage"`
	DefenderWin          float64 `json:"defenderWin"`
	DefenderLosses       float64 `json:"defenderLosses"`
	DefenderShieldDamage float64 `json:"defenderShieldDamage"`
	DefenderHullDamage   float64 `json:"defenderHullDamage"`
}

// AddScaled adds o*w field by field.
func (c *CombatOutcome) AddScaled(o CombatOutcome, w float64) {
	c.Rounds += o.Rounds * w
	c.AttackerWin += o.AttackerWin * w
	c.AttackerLosses += o.AttackerLosses * w
	c.AttackerShieldDamage += o.AttackerShieldDamage * w
	c.AttackerHullDamage += o.AttackerHullDamage * w
	c.DefenderWin += o.DefenderWin * w
	c.DefenderLosses += o.DefenderLosses * w
	c.DefenderShieldDamage += o.DefenderShieldDamage * w
	c.DefenderHullDamage += o.DefenderHullDamage * w
}

// Finite reports whether every field is a real number. Overflowing stats
// turn damage into ±Inf or NaN.
func (c CombatOutcome) Finite() bool {
	for _, v := range []float64{
		c.Rounds, c.AttackerWin, c.AttackerLosses, c.AttackerShieldDamage, c.AttackerHullDamage,
		c.DefenderWin, c.DefenderLosses, c.DefenderShieldDamage, c.DefenderHullDamage,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type CombatSimulatorResult struct {
	SimulationDuration float64       `json:"simulationDuration"` // milliseconds
	Iterations         int           `json:"iterations"`
	AverageOutcome     CombatOutcome `json:"averageOutcome"`
	ExampleLog         string        `json:"exampleLog"`
}

func Float(v float64) *float64 { return &v }

// DefaultCombatData is the sample battle offered by the simulator endpoints:
// an interceptor with two officer abilities against a survey ship.
func DefaultCombatData() CombatData {
	return CombatData{Ships: []ShipData{
		{
			Name:      "Saladin",
			Side:      SideAttacker,
			Faction:   "Federation",
			ShipClass: "Interceptor",
			Effects: []EffectData{{
				Name: "static",
				Stats: map[string][3]float64{
					"HHP":               {100000, 4, 0},
					"SHP":               {50000, 4, 0},
					"Armor":             {1000, 3, 0},
					"Shield":            {1000, 3, 0},
					"Dodge":             {1000, 5, 0},
					"ArmorPiercing":     {1000, 5, 0},
					"ShieldPiercing":    {1000, 3, 0},
					"Accuracy":          {1000, 3, 0},
					"ShieldAbsorption":  {0.8, 0, 0},
					"Weapon1MinDamage":  {40000, 7, 0},
					"Weapon1MaxDamage":  {60000, 7, 0},
					"Weapon1CritChance": {0.1, 0, 0},
					"Weapon1CritDamage": {1.75, 0, 0},
					"Weapon1Shots":      {1, 0, 0},
					"Weapon2MinDamage":  {15000, 7, 0},
					"Weapon2MaxDamage":  {20000, 7, 0},
					"Weapon2CritChance": {0.1, 0, 0},
					"Weapon2CritDamage": {1.75, 0, 0},
					"Weapon2Shots":      {1, 0, 0},
				},
			}},
			Abilities: []AbilityData{
				{
					Name: "Harrison",
					OnCombatStart: []ActionData{{
						Do: ActionAddEffect,
						To: TargetTarget,
						Effect: &EffectData{
							Name:     "Harrison",
							Stats:    map[string][3]float64{"ShieldAbsorption": {0, -0.7, 0}},
							Duration: Float(1),
						},
					}},
				},
				{
					Name: "Decius",
					OnAttackIn: []ActionData{{
						Do: ActionAddEffect,
						To: TargetSelf,
						Effect: &EffectData{
							Name: "Decius",
							Stats: map[string][3]float64{
								"Weapon1MinDamage": {0, 0.1, 0},
								"Weapon1MaxDamage": {0, 0.1, 0},
								"Weapon2MinDamage": {0, 0.1, 0},
								"Weapon2MaxDamage": {0, 0.1, 0},
							},
							OnConflict: ConflictStack,
						},
					}},
				},
			},
			Weapons: []WeaponData{
				{Name: "Big gun", DamageType: "Kinetic", Load: 1, Reload: 4},
				{Name: "Small gun", DamageType: "Energy", Load: 1, Reload: 1},
			},
		},
		{
			Name:      "Federation Trader",
			Side:      SideDefender,
			Faction:   "Federation",
			ShipClass: "Survey",
			Effects: []EffectData{{
				Name: "base",
				Stats: map[string][3]float64{
					"HHP":               {2500000, 0, 0},
					"SHP":               {500000, 0, 0},
					"Armor":             {30000, 0, 0},
					"Shield":            {30000, 0, 0},
					"Dodge":             {30000, 0, 0},
					"ArmorPiercing":     {20000, 0, 0},
					"ShieldPiercing":    {20000, 0, 0},
					"Accuracy":          {20000, 0, 0},
					"ShieldAbsorption":  {0.8, 0, 0},
					"Weapon1MinDamage":  {30000, 0, 0},
					"Weapon1MaxDamage":  {40000, 0, 0},
					"Weapon1CritChance": {0.1, 0, 0},
					"Weapon1CritDamage": {1.5, 0, 0},
					"Weapon1Shots":      {1, 0, 0},
				},
			}},
			Weapons: []WeaponData{
				{Name: "Trader gun", DamageType: "Energy", Load: 1, Reload: 1},
			},
		},
	}}
}
