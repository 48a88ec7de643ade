package combatstats

import (
	"github.com/pefman/stfc-combat/internal/battlelog"
	"github.com/pefman/stfc-combat/internal/gamedata"
)

type hitPoints struct {
	hhp, shp float64
}

// GatherStats walks the battle log once and builds per-ship sample series.
// Every ship in shipIDs gets an entry even if it never appears in the log;
// ships referenced only by events are added on demand. gd may be nil, in
// which case weapon base damage is unknown and reads as zero.
func GatherStats(shipIDs []int64, rounds []battlelog.Round, gd *gamedata.GameData) *CombatLogStats {
	result := &CombatLogStats{Ships: make(map[int64]*ShipStats, len(shipIDs))}
	for _, id := range shipIDs {
		result.Ships[id] = newShipStats()
	}

	// Last seen hit points per target, used to spot changes between attacks.
	hp := map[int64]*hitPoints{}
	baseDamage := map[int64][2]float64{}

	for ri, round := range rounds {
		for si, sub := range round.SubRounds {
			for ei, ev := range sub.Events {
				attack, ok := ev.(battlelog.AttackEvent)
				if !ok {
					continue
				}
				t := CombatLogTime{Round: ri + 1, SubRound: si + 1, Event: ei + 1}

				base, ok := baseDamage[attack.Weapon]
				if !ok {
					if gd != nil {
						base[0], base[1] = gd.WeaponBaseDamage(attack.Weapon)
					}
					baseDamage[attack.Weapon] = base
				}

				attacker := result.ensure(attack.Ship)
				defender := result.ensure(attack.Target)

				hull := float64(attack.DamageTakenHull)
				shield := float64(attack.DamageTakenShield)
				mitigated := float64(attack.DamageMitigated)
				iso := float64(attack.DamageIso)
				isoMitigated := float64(attack.DamageIsoMitigated)
				apexMitigated := 0.0 // not carried by the current log format

				total := hull + shield + mitigated + isoMitigated + apexMitigated
				sample := DamageSample{
					T:                t,
					Mitigation:       mitigated / total,
					HHP:              hull,
					SHP:              shield,
					Crit:             attack.Crit,
					DamageMultiplier: total / ((base[0] + base[1]) / 2),
					StdDamage:        total - iso - isoMitigated,
					StdMitigated:     mitigated,
					IsoDamage:        iso + isoMitigated,
					IsoMitigated:     isoMitigated,
					ApexMitigated:    apexMitigated,
					BaseMin:          base[0],
					BaseMax:          base[1],
				}
				attacker.DamageOut = append(attacker.DamageOut, sample)
				defender.DamageIn = append(defender.DamageIn, sample)
				attacker.Weapons[attack.Weapon] = append(attacker.Weapons[attack.Weapon], sample)

				remHull := float64(attack.RemainingHull)
				remShield := float64(attack.RemainingShield)
				defender.HitPoints = append(defender.HitPoints, HitPointSample{T: t, HHP: remHull, SHP: remShield})

				if prev, ok := hp[attack.Target]; !ok {
					hp[attack.Target] = &hitPoints{hhp: remHull, shp: remShield}
				} else {
					diffHHP := prev.hhp - remHull - hull
					diffSHP := prev.shp - remShield - shield
					prev.hhp, prev.shp = remHull, remShield
					if diffHHP != 0 {
						defender.HHPChange = append(defender.HHPChange, HitPointChangeSample{T: t, Diff: -diffHHP})
					}
					if diffSHP != 0 {
						defender.SHPChange = append(defender.SHPChange, HitPointChangeSample{T: t, Diff: -diffSHP})
					}
				}

				if attack.RemainingShield == 0 && attack.DamageTakenShield > 0 {
					defender.SHPDepleted = append(defender.SHPDepleted, EmptyEventSample{T: t})
				}
				if attack.RemainingHull == 0 && attack.DamageTakenHull > 0 {
					defender.HHPDepleted = append(defender.HHPDepleted, EmptyEventSample{T: t})
				}
			}
		}
	}
	return result
}
