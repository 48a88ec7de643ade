package game

import (
	"math"

	"github.com/pefman/stfc-combat/internal/engine"
	"github.com/pefman/stfc-combat/internal/mechanics"
)

// ShipAPI is everything an ability may do to a ship.
type ShipAPI interface {
	Name() string
	Class() mechanics.ShipClass
	Target() ShipAPI
	GetStat(s Stat) float64
	AddEffect(e Effect)
	RemoveEffect(name string)
	HasEffect(name string) bool
	RemainingSHP() float64
	RemainingHHP() float64
	RemainingSHPPercent() float64
	RemainingHHPPercent() float64
}

type Side string

const (
	Attacker Side = "Attacker"
	Defender Side = "Defender"
)

type DamageType string

const (
	Energy  DamageType = "Energy"
	Kinetic DamageType = "Kinetic"
)

type Weapon struct {
	Name       string
	DamageType DamageType
	Load       float64
	Reload     float64
	NextAttack float64 // first round this weapon may fire again
}

type Ship struct {
	name      string
	side      Side
	faction   string
	class     mechanics.ShipClass
	effects   []*Effect
	abilities []*Ability
	weapons   []*Weapon

	target *Ship

	ShieldDepleted bool
	Destroyed      bool
	HullDamage     float64
	ShieldDamage   float64

	fleet       *Fleet
	targetFleet *Fleet

	stats [numStats]float64
}

func (s *Ship) Name() string               { return s.name }
func (s *Ship) Side() Side                 { return s.side }
func (s *Ship) Faction() string            { return s.faction }
func (s *Ship) Class() mechanics.ShipClass { return s.class }

func (s *Ship) Target() ShipAPI {
	if s.target == nil {
		return nil
	}
	return s.target
}

// GetStat returns the cached derived value; stats no effect touches read 0.
func (s *Ship) GetStat(stat Stat) float64 {
	if !stat.valid() {
		return 0
	}
	return s.stats[stat]
}

func (s *Ship) recomputeStats() {
	var acc [numStats]StatValue
	for _, e := range s.effects {
		for stat, v := range e.Stats {
			acc[stat] = acc[stat].add(v)
		}
	}
	for i := range acc {
		s.stats[i] = acc[i].resolve()
	}
}

// AddEffect applies e, resolving a name clash with the incoming effect's
// conflict policy.
func (s *Ship) AddEffect(e Effect) {
	incoming := e.clone()
	var existing *Effect
	for _, cur := range s.effects {
		if cur.Name == incoming.Name {
			existing = cur
			break
		}
	}
	if existing == nil {
		s.effects = append(s.effects, incoming)
	} else {
		switch incoming.OnConflict {
		case ConflictReplace:
			existing.replace(incoming)
		case ConflictExtend:
			existing.extend(incoming)
		case ConflictStack:
			existing.stack(incoming)
		default:
			return
		}
	}
	s.recomputeStats()
}

func (s *Ship) RemoveEffect(name string) {
	kept := s.effects[:0]
	for _, e := range s.effects {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	if len(kept) != len(s.effects) {
		clear(s.effects[len(kept):])
		s.effects = kept
		s.recomputeStats()
	}
}

func (s *Ship) HasEffect(name string) bool {
	for _, e := range s.effects {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Effects returns the active effects in the order they were applied.
func (s *Ship) Effects() []Effect {
	out := make([]Effect, len(s.effects))
	for i, e := range s.effects {
		out[i] = *e.clone()
	}
	return out
}

func (s *Ship) tickEffects() {
	for _, e := range s.effects {
		e.Duration--
	}
}

// pruneEffects drops expired effects, recomputing stats only on change.
func (s *Ship) pruneEffects() {
	kept := s.effects[:0]
	for _, e := range s.effects {
		if !e.expired() {
			kept = append(kept, e)
		}
	}
	if len(kept) != len(s.effects) {
		clear(s.effects[len(kept):])
		s.effects = kept
		s.recomputeStats()
	}
}

func (s *Ship) RemainingSHP() float64 { return s.GetStat(SHP) - s.ShieldDamage }
func (s *Ship) RemainingHHP() float64 { return s.GetStat(HHP) - s.HullDamage }

func (s *Ship) RemainingSHPPercent() float64 {
	return clamp(1-s.ShieldDamage/s.GetStat(SHP), 0, 1)
}

func (s *Ship) RemainingHHPPercent() float64 {
	return clamp(1-s.HullDamage/s.GetStat(HHP), 0, 1)
}

func (s *Ship) Alive() bool { return !s.Destroyed }

func (s *Ship) weapon(slot int) *Weapon {
	if slot < 1 || slot > len(s.weapons) {
		return nil
	}
	return s.weapons[slot-1]
}

func (s *Ship) selectTarget(candidates []*Ship, rng engine.Source) *Ship {
	if len(candidates) == 0 {
		s.target = nil
	} else {
		s.target = candidates[rng.Intn(len(candidates))]
	}
	return s.target
}

// clamp also maps NaN to lo.
func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
