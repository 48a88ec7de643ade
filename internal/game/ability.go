package game

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/pefman/stfc-combat/internal/models"
)

// Hook names a point in the combat where abilities run.
type Hook int

const (
	HookInit Hook = iota
	HookCombatStart
	HookRoundStart
	HookRoundEnd
	HookAttackOut
	HookAttackIn

	numHooks
)

var hookNames = [numHooks]string{"onInit", "onCombatStart", "onRoundStart", "onRoundEnd", "onAttackOut", "onAttackIn"}

func (h Hook) String() string { return hookNames[h] }

// Ability is a compiled set of hook actions. Conditions are compiled once
// when the scenario loads and are the only user-authored logic evaluated
// during combat; they can read state but change nothing.
type Ability struct {
	Name  string
	hooks [numHooks][]action
}

type action struct {
	do     string
	to     string
	cond   *vm.Program
	source string
	effect Effect
	name   string
}

// CombatTime is the current position in the combat. Attack is the weapon
// slot being resolved, 0 outside the attack phase.
type CombatTime struct {
	Round  int
	Attack int
}

// AttackInfo summarises one resolved weapon volley.
type AttackInfo struct {
	Weapon          string
	DamageType      DamageType
	Attacker        *Ship
	Target          *Ship
	Shots           int
	Crits           int
	MitigatedDamage float64
	ShieldDamage    float64
	HullDamage      float64
	ShieldDepleted  bool
	Destroyed       bool
}

var ErrInvalidAbility = errors.New("invalid ability")

// Condition environment. Field names are what expressions see.
type shipView struct {
	Name       string  `expr:"name"`
	Side       string  `expr:"side"`
	Class      string  `expr:"class"`
	HHP        float64 `expr:"hhp"`
	SHP        float64 `expr:"shp"`
	HHPPercent float64 `expr:"hhpPercent"`
	SHPPercent float64 `expr:"shpPercent"`
	Alive      bool    `expr:"alive"`
}

type hitView struct {
	Weapon          string  `expr:"weapon"`
	DamageType      string  `expr:"damageType"`
	Shots           int     `expr:"shots"`
	Crits           int     `expr:"crits"`
	MitigatedDamage float64 `expr:"mitigatedDamage"`
	ShieldDamage    float64 `expr:"shieldDamage"`
	HullDamage      float64 `expr:"hullDamage"`
	ShieldDepleted  bool    `expr:"shieldDepleted"`
	Destroyed       bool    `expr:"destroyed"`
	Outgoing        bool    `expr:"outgoing"`
}

type condEnv struct {
	Round           int                  `expr:"round"`
	Attack          int                  `expr:"attack"`
	Self            shipView             `expr:"self"`
	Target          shipView             `expr:"target"`
	HasTarget       bool                 `expr:"hasTarget"`
	Hit             hitView              `expr:"hit"`
	HasHit          bool                 `expr:"hasHit"`
	Stat            func(string) float64 `expr:"stat"`
	TargetStat      func(string) float64 `expr:"targetStat"`
	HasEffect       func(string) bool    `expr:"hasEffect"`
	TargetHasEffect func(string) bool    `expr:"targetHasEffect"`
}

func viewOf(s *Ship) shipView {
	if s == nil {
		return shipView{}
	}
	return shipView{
		Name:       s.name,
		Side:       string(s.side),
		Class:      string(s.class),
		HHP:        s.RemainingHHP(),
		SHP:        s.RemainingSHP(),
		HHPPercent: s.RemainingHHPPercent(),
		SHPPercent: s.RemainingSHPPercent(),
		Alive:      s.Alive(),
	}
}

func statByString(s ShipAPI) func(string) float64 {
	return func(name string) float64 {
		if s == nil {
			return 0
		}
		st, err := ParseStat(name)
		if err != nil {
			return 0
		}
		return s.GetStat(st)
	}
}

func hasEffectOf(s ShipAPI) func(string) bool {
	return func(name string) bool { return s != nil && s.HasEffect(name) }
}

func newCondEnv(self *Ship, t CombatTime, hit *AttackInfo) condEnv {
	env := condEnv{
		Round:           t.Round,
		Attack:          t.Attack,
		Self:            viewOf(self),
		Target:          viewOf(self.target),
		HasTarget:       self.target != nil,
		Stat:            statByString(self),
		TargetStat:      statByString(self.Target()),
		HasEffect:       hasEffectOf(self),
		TargetHasEffect: hasEffectOf(self.Target()),
	}
	if hit != nil {
		env.HasHit = true
		env.Hit = hitView{
			Weapon:          hit.Weapon,
			DamageType:      string(hit.DamageType),
			Shots:           hit.Shots,
			Crits:           hit.Crits,
			MitigatedDamage: hit.MitigatedDamage,
			ShieldDamage:    hit.ShieldDamage,
			HullDamage:      hit.HullDamage,
			ShieldDepleted:  hit.ShieldDepleted,
			Destroyed:       hit.Destroyed,
			Outgoing:        hit.Attacker == self,
		}
	}
	return env
}

// compileAbility validates the action lists and compiles every condition.
func compileAbility(data models.AbilityData) (*Ability, error) {
	a := &Ability{Name: data.Name}
	lists := [numHooks][]models.ActionData{
		data.OnInit, data.OnCombatStart, data.OnRoundStart,
		data.OnRoundEnd, data.OnAttackOut, data.OnAttackIn,
	}
	for h, list := range lists {
		for i, ad := range list {
			act, err := compileAction(ad)
			if err != nil {
				return nil, fmt.Errorf("%w: %q %s[%d]: %v", ErrInvalidAbility, data.Name, Hook(h), i, err)
			}
			a.hooks[h] = append(a.hooks[h], act)
		}
	}
	return a, nil
}

func compileAction(ad models.ActionData) (action, error) {
	act := action{do: ad.Do, to: ad.To, source: ad.If}
	if act.to == "" {
		act.to = models.TargetSelf
	}
	switch act.to {
	case models.TargetSelf, models.TargetTarget, models.TargetFleet,
		models.TargetEnemyFleet, models.TargetAttacker, models.TargetDefender:
	default:
		return action{}, fmt.Errorf("unknown recipient %q", ad.To)
	}
	switch ad.Do {
	case models.ActionAddEffect:
		if ad.Effect == nil {
			return action{}, errors.New("addEffect without effect")
		}
		e, err := NewEffect(*ad.Effect)
		if err != nil {
			return action{}, err
		}
		act.effect = e
	case models.ActionRemoveEffect:
		act.name = ad.Name
		if act.name == "" && ad.Effect != nil {
			act.name = ad.Effect.Name
		}
		if act.name == "" {
			return action{}, errors.New("removeEffect without a name")
		}
	default:
		return action{}, fmt.Errorf("unknown action %q", ad.Do)
	}
	if ad.If != "" {
		prog, err := expr.Compile(ad.If, expr.Env(condEnv{}), expr.AsBool())
		if err != nil {
			return action{}, fmt.Errorf("condition %q: %w", ad.If, err)
		}
		act.cond = prog
	}
	return act, nil
}

// run executes the hook's actions for self. Recipients are resolved at the
// time each action runs, so an earlier action may change what a later
// condition sees.
func (a *Ability) run(h Hook, self *Ship, t CombatTime, hit *AttackInfo) error {
	for _, act := range a.hooks[h] {
		if act.cond != nil {
			out, err := expr.Run(act.cond, newCondEnv(self, t, hit))
			if err != nil {
				return fmt.Errorf("ability %q %s: condition %q: %w", a.Name, h, act.source, err)
			}
			if ok, _ := out.(bool); !ok {
				continue
			}
		}
		for _, to := range recipients(act.to, self, hit) {
			switch act.do {
			case models.ActionAddEffect:
				to.AddEffect(act.effect)
			case models.ActionRemoveEffect:
				to.RemoveEffect(act.name)
			}
		}
	}
	return nil
}

func recipients(to string, self *Ship, hit *AttackInfo) []ShipAPI {
	one := func(s *Ship) []ShipAPI {
		if s == nil {
			return nil
		}
		return []ShipAPI{s}
	}
	many := func(f *Fleet) []ShipAPI {
		if f == nil {
			return nil
		}
		out := make([]ShipAPI, len(f.Ships))
		for i, s := range f.Ships {
			out[i] = s
		}
		return out
	}
	switch to {
	case models.TargetSelf:
		return one(self)
	case models.TargetTarget:
		return one(self.target)
	case models.TargetFleet:
		return many(self.fleet)
	case models.TargetEnemyFleet:
		return many(self.targetFleet)
	case models.TargetAttacker:
		if hit != nil {
			return one(hit.Attacker)
		}
	case models.TargetDefender:
		if hit != nil {
			return one(hit.Target)
		}
	}
	return nil
}
