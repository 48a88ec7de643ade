package game

import (
	"errors"
	"fmt"
)

// Stat identifies one derived ship attribute.
type Stat int

const (
	HHP Stat = iota
	SHP
	Armor
	Shield
	Dodge
	ArmorPiercing
	ShieldPiercing
	Accuracy
	ShieldAbsorption
	Weapon1MinDamage
	Weapon1MaxDamage
	Weapon1Shots
	Weapon1CritChance
	Weapon1CritDamage
	Weapon2MinDamage
	Weapon2MaxDamage
	Weapon2Shots
	Weapon2CritChance
	Weapon2CritDamage

	numStats
)

var statNames = [numStats]string{
	"HHP", "SHP", "Armor", "Shield", "Dodge",
	"ArmorPiercing", "ShieldPiercing", "Accuracy", "ShieldAbsorption",
	"Weapon1MinDamage", "Weapon1MaxDamage", "Weapon1Shots", "Weapon1CritChance", "Weapon1CritDamage",
	"Weapon2MinDamage", "Weapon2MaxDamage", "Weapon2Shots", "Weapon2CritChance", "Weapon2CritDamage",
}

var statByName = func() map[string]Stat {
	m := make(map[string]Stat, numStats)
	for i, n := range statNames {
		m[n] = Stat(i)
	}
	return m
}()

var ErrUnknownStat = errors.New("unknown stat")

func (s Stat) String() string {
	if s < 0 || s >= numStats {
		return fmt.Sprintf("Stat(%d)", int(s))
	}
	return statNames[s]
}

func (s Stat) valid() bool { return s >= 0 && s < numStats }

// ParseStat maps a stat name such as "Weapon1Shots" to its Stat.
func ParseStat(name string) (Stat, error) {
	if s, ok := statByName[name]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

// weaponStats are the per-weapon stats of slot k (1-based). Only two weapon
// slots carry stats; higher slots get invalid stats, which read zero.
type weaponStats struct {
	minDamage, maxDamage, shots, critChance, critDamage Stat
}

func weaponStatsFor(slot int) (weaponStats, bool) {
	switch slot {
	case 1:
		return weaponStats{Weapon1MinDamage, Weapon1MaxDamage, Weapon1Shots, Weapon1CritChance, Weapon1CritDamage}, true
	case 2:
		return weaponStats{Weapon2MinDamage, Weapon2MaxDamage, Weapon2Shots, Weapon2CritChance, Weapon2CritDamage}, true
	}
	return weaponStats{-1, -1, -1, -1, -1}, false
}

// StatValue is a [base, modifier, bonus] triple. A stat resolves to
// sum(base) * (1 + sum(modifier)) + sum(bonus) over all active effects.
type StatValue [3]float64

func (v StatValue) add(o StatValue) StatValue {
	return StatValue{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v StatValue) resolve() float64 {
	return v[0]*(1+v[1]) + v[2]
}
