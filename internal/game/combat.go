package game

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pefman/stfc-combat/internal/engine"
	"github.com/pefman/stfc-combat/internal/mechanics"
	"github.com/pefman/stfc-combat/internal/models"
)

// MaxRounds caps every combat.
const MaxRounds = 100

// maxShots caps the shots a weapon fires in one attack.
const maxShots = 1000

var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is validated, compiled combat data. It is read-only and may be
// shared by any number of concurrent combats.
type Scenario struct {
	ships []shipTemplate
}

type shipTemplate struct {
	name      string
	side      Side
	faction   string
	class     mechanics.ShipClass
	effects   []Effect
	abilities []*Ability
	weapons   []Weapon
}

// Load checks the combat data and compiles every ability condition.
func Load(data models.CombatData) (*Scenario, error) {
	sc := &Scenario{ships: make([]shipTemplate, 0, len(data.Ships))}
	for i, sd := range data.Ships {
		t, err := loadShip(sd)
		if err != nil {
			return nil, fmt.Errorf("%w: ship %d (%q): %v", ErrInvalidScenario, i, sd.Name, err)
		}
		sc.ships = append(sc.ships, t)
	}
	return sc, nil
}

func loadShip(sd models.ShipData) (shipTemplate, error) {
	t := shipTemplate{
		name:    sd.Name,
		side:    Side(sd.Side),
		faction: sd.Faction,
		class:   mechanics.ShipClass(sd.ShipClass),
	}
	if t.side != Attacker && t.side != Defender {
		return t, fmt.Errorf("unknown side %q", sd.Side)
	}
	if !t.class.Valid() {
		return t, fmt.Errorf("unknown ship class %q", sd.ShipClass)
	}
	for _, ed := range sd.Effects {
		e, err := NewEffect(ed)
		if err != nil {
			return t, err
		}
		t.effects = append(t.effects, e)
	}
	for _, ad := range sd.Abilities {
		a, err := compileAbility(ad)
		if err != nil {
			return t, err
		}
		t.abilities = append(t.abilities, a)
	}
	for _, wd := range sd.Weapons {
		dt := DamageType(wd.DamageType)
		if dt != Energy && dt != Kinetic {
			return t, fmt.Errorf("weapon %q: unknown damage type %q", wd.Name, wd.DamageType)
		}
		t.weapons = append(t.weapons, Weapon{
			Name:       wd.Name,
			DamageType: dt,
			Load:       wd.Load,
			Reload:     wd.Reload,
			NextAttack: wd.Load,
		})
	}
	return t, nil
}

func (t *shipTemplate) instantiate() *Ship {
	s := &Ship{
		name:      t.name,
		side:      t.side,
		faction:   t.faction,
		class:     t.class,
		abilities: t.abilities,
	}
	for _, e := range t.effects {
		s.effects = append(s.effects, e.clone())
	}
	for _, w := range t.weapons {
		s.weapons = append(s.weapons, &w)
	}
	s.recomputeStats()
	return s
}

// Combat is one simulated battle. It is not safe for concurrent use.
type Combat struct {
	rng       engine.Source
	enableLog bool
	log       strings.Builder

	Ships         []*Ship
	AttackerFleet *Fleet
	DefenderFleet *Fleet
}

// NewCombat builds fresh ships from the scenario. All randomness is drawn
// from rng, so a fixed source replays the same battle.
func (sc *Scenario) NewCombat(rng engine.Source, enableLog bool) *Combat {
	c := &Combat{
		rng:           rng,
		enableLog:     enableLog,
		AttackerFleet: &Fleet{},
		DefenderFleet: &Fleet{},
	}
	for i := range sc.ships {
		s := sc.ships[i].instantiate()
		c.Ships = append(c.Ships, s)
		if s.side == Attacker {
			c.AttackerFleet.Ships = append(c.AttackerFleet.Ships, s)
		} else {
			c.DefenderFleet.Ships = append(c.DefenderFleet.Ships, s)
		}
	}
	for _, s := range c.Ships {
		if s.side == Attacker {
			s.fleet, s.targetFleet = c.AttackerFleet, c.DefenderFleet
		} else {
			s.fleet, s.targetFleet = c.DefenderFleet, c.AttackerFleet
		}
	}
	return c
}

// Log returns the text log, empty unless logging was enabled.
func (c *Combat) Log() string { return c.log.String() }

func (c *Combat) logf(format string, args ...any) {
	if c.enableLog {
		fmt.Fprintf(&c.log, format, args...)
	}
}

func (c *Combat) fire(h Hook, t CombatTime) error {
	for _, s := range c.Ships {
		if err := c.fireShip(h, s, t, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *Combat) fireShip(h Hook, s *Ship, t CombatTime, hit *AttackInfo) error {
	for _, a := range s.abilities {
		if err := a.run(h, s, t, hit); err != nil {
			return err
		}
	}
	return nil
}

func (c *Combat) init(t CombatTime) error {
	for _, s := range c.Ships {
		s.selectTarget(s.targetFleet.Ships, c.rng)
	}
	return c.fire(HookInit, t)
}

func (c *Combat) roundEnd(t CombatTime) error {
	for _, s := range c.Ships {
		s.tickEffects()
	}
	if err := c.fire(HookRoundEnd, t); err != nil {
		return err
	}
	for _, s := range c.Ships {
		s.pruneEffects()
	}
	return nil
}

func (c *Combat) attack(t CombatTime) error {
	for _, s := range c.Ships {
		target := s.selectTarget(s.targetFleet.Ships, c.rng)
		w := s.weapon(t.Attack)
		switch {
		case s.Destroyed, w == nil:
			continue
		case w.NextAttack > float64(t.Round):
			c.logf("%s is reloading weapon %d (%v rounds left)\n", s.name, t.Attack, w.NextAttack-float64(t.Round))
			continue
		case target == nil:
			continue
		}
		if err := c.resolve(s, target, w, t); err != nil {
			return err
		}
	}
	return nil
}

func (c *Combat) resolve(s, target *Ship, w *Weapon, t CombatTime) error {
	ws, _ := weaponStatsFor(t.Attack)
	shots := int(clamp(math.Round(s.GetStat(ws.shots)), 0, maxShots))
	minDamage := clamp(s.GetStat(ws.minDamage), 0, math.Inf(1))
	maxDamage := clamp(s.GetStat(ws.maxDamage), 0, math.Inf(1))
	critChance := clamp(s.GetStat(ws.critChance), 0, 1)
	critDamage := clamp(s.GetStat(ws.critDamage), 0, math.Inf(1))
	absorption := clamp(target.GetStat(ShieldAbsorption), 0, 1)
	mitigation := mechanics.Mitigation(
		mechanics.Defense{Armor: target.GetStat(Armor), Shield: target.GetStat(Shield), Dodge: target.GetStat(Dodge)},
		mechanics.Piercing{Armor: s.GetStat(ArmorPiercing), Shield: s.GetStat(ShieldPiercing), Accuracy: s.GetStat(Accuracy)},
		target.class,
	)

	info := &AttackInfo{
		Weapon:     w.Name,
		DamageType: w.DamageType,
		Attacker:   s,
		Target:     target,
		Shots:      shots,
	}
	for i := 0; i < shots; i++ {
		crit := engine.Chance(c.rng, critChance)
		damage := engine.Roll(c.rng, minDamage, maxDamage)
		if crit {
			info.Crits++
			damage *= critDamage
		}
		mitigated := damage * mitigation
		info.MitigatedDamage += mitigated
		unmitigated := damage - mitigated

		if target.RemainingSHP() > 0 {
			target.ShieldDamage += unmitigated * absorption
			target.HullDamage += unmitigated * (1 - absorption)
			info.ShieldDamage += unmitigated * absorption
			info.HullDamage += unmitigated * (1 - absorption)
		} else {
			target.HullDamage += unmitigated
			info.HullDamage += unmitigated
		}

		if !target.ShieldDepleted && target.RemainingSHP() <= 0 {
			info.ShieldDepleted = true
			target.ShieldDepleted = true
		}
		if !target.Destroyed && target.RemainingHHP() <= 0 {
			info.Destroyed = true
			target.Destroyed = true
		}
	}

	if c.enableLog {
		crits := ""
		if info.Crits > 0 {
			crits = fmt.Sprintf(" (%dx critical)", info.Crits)
		}
		c.logf("%s attacks %dx %s using %s%s. %.2f mitigated, %.2f shield damage, %.2f hull damage. %.2f shield left, %.2f hull left.\n",
			s.name, shots, target.name, w.Name, crits,
			info.MitigatedDamage, info.ShieldDamage, info.HullDamage,
			target.RemainingSHP(), target.RemainingHHP())
		if info.ShieldDepleted {
			c.logf("%s shield depleted\n", target.name)
		}
		if info.Destroyed {
			c.logf("%s destroyed\n", target.name)
		}
	}

	if err := c.fireShip(HookAttackOut, s, t, info); err != nil {
		return err
	}
	if err := c.fireShip(HookAttackIn, s, t, info); err != nil {
		return err
	}
	if err := c.fireShip(HookAttackIn, target, t, info); err != nil {
		return err
	}
	w.NextAttack = float64(t.Round) + w.Reload

	if info.Destroyed {
		c.AttackerFleet.removeDeadShips()
		c.DefenderFleet.removeDeadShips()
	}
	return nil
}

func (c *Combat) maxWeaponCount() int {
	n := 0
	for _, s := range c.Ships {
		n = max(n, len(s.weapons))
	}
	return n
}

// Run plays the combat to the end: until one fleet is gone or MaxRounds
// have been fought.
func (c *Combat) Run() (models.CombatOutcome, error) {
	t := CombatTime{}
	weapons := c.maxWeaponCount()

	if err := c.init(t); err != nil {
		return models.CombatOutcome{}, err
	}
	if err := c.fire(HookCombatStart, t); err != nil {
		return models.CombatOutcome{}, err
	}
	for t.Round < MaxRounds && c.AttackerFleet.Alive() && c.DefenderFleet.Alive() {
		t.Round++
		t.Attack = 0
		c.logf("Round %d\n===================\n", t.Round)

		if err := c.fire(HookRoundStart, t); err != nil {
			return models.CombatOutcome{}, err
		}
		for t.Attack < weapons {
			t.Attack++
			if err := c.attack(t); err != nil {
				return models.CombatOutcome{}, err
			}
		}
		if err := c.roundEnd(t); err != nil {
			return models.CombatOutcome{}, err
		}
		c.logf("\n")
	}
	return c.outcome(t), nil
}

func (c *Combat) outcome(t CombatTime) models.CombatOutcome {
	out := models.CombatOutcome{Rounds: float64(t.Round)}
	if c.AttackerFleet.Alive() {
		out.AttackerWin = 1
	}
	if c.DefenderFleet.Alive() {
		out.DefenderWin = 1
	}
	for _, s := range c.Ships {
		lost := 0.0
		if s.Destroyed {
			lost = 1
		}
		if s.side == Attacker {
			out.AttackerLosses += lost
			out.AttackerShieldDamage += s.ShieldDamage
			out.AttackerHullDamage += s.HullDamage
		} else {
			out.DefenderLosses += lost
			out.DefenderShieldDamage += s.ShieldDamage
			out.DefenderHullDamage += s.HullDamage
		}
	}
	return out
}
