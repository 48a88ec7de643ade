package combatstats

import "math"

// Stats summarises a filtered, mapped series. An empty series has
// Min=+Inf, Max=-Inf and Count=0.
type Stats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
	Sum2  float64 `json:"sum2"`
	Count int     `json:"count"`
}

func emptyStats() Stats {
	return Stats{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (s *Stats) add(v float64) {
	s.Min = math.Min(s.Min, v)
	s.Max = math.Max(s.Max, v)
	s.Count++
	s.Sum += v
	s.Sum2 += v * v
}

// Average is Sum/Count, NaN for an empty series.
func (s Stats) Average() float64 {
	if s.Count == 0 {
		return math.NaN()
	}
	return s.Sum / float64(s.Count)
}

// GetStats folds the samples accepted by filter (all of them when filter is
// nil) through value.
func GetStats[S any](samples []S, filter func(S) bool, value func(S) float64) Stats {
	st := emptyStats()
	for _, s := range samples {
		if filter != nil && !filter(s) {
			continue
		}
		st.add(value(s))
	}
	return st
}

func sumOf[S any](samples []S, filter func(S) bool, value func(S) float64) float64 {
	return GetStats(samples, filter, value).Sum
}

func ratio(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return math.NaN()
}

func critIs(crit bool) func(DamageSample) bool {
	return func(s DamageSample) bool { return s.Crit == crit }
}

// Incoming mitigation.

func (s *ShipStats) StdMitigationTotal() float64 {
	std := sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.StdDamage })
	mit := sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.StdMitigated })
	return ratio(mit, std)
}

func (s *ShipStats) StdMitigationStats() Stats {
	return GetStats(s.DamageIn,
		func(x DamageSample) bool { return x.StdDamage > 0 },
		func(x DamageSample) float64 { return x.StdMitigated / x.StdDamage })
}

func (s *ShipStats) IsoMitigationTotal() float64 {
	iso := sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.IsoDamage })
	mit := sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.IsoMitigated })
	return ratio(mit, iso)
}

func (s *ShipStats) IsoMitigationStats() Stats {
	return GetStats(s.DamageIn,
		func(x DamageSample) bool { return x.IsoDamage > 0 },
		func(x DamageSample) float64 { return x.IsoMitigated / x.IsoDamage })
}

func (s *ShipStats) ApexMitigationTotal() float64 {
	taken := sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.HHP + x.SHP })
	apex := sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.ApexMitigated })
	if taken > 0 {
		return apex / (apex + taken)
	}
	return math.NaN()
}

func (s *ShipStats) ApexMitigationStats() Stats {
	return GetStats(s.DamageIn,
		func(x DamageSample) bool { return x.HHP+x.SHP > 0 },
		func(x DamageSample) float64 { return x.ApexMitigated / (x.ApexMitigated + x.HHP + x.SHP) })
}

// ShieldMitigationTotal is the share of taken damage absorbed by shields.
func (s *ShipStats) ShieldMitigationTotal() float64 {
	taken := sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.HHP + x.SHP })
	shp := sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.SHP })
	return ratio(shp, taken)
}

// Outgoing damage.

// StdDamageMultiplierTotal compares standard damage dealt with the weapons'
// base damage, interpolated between max (baseRoll 0) and min (baseRoll 1).
func (s *ShipStats) StdDamageMultiplierTotal(baseRoll float64, crit bool) float64 {
	f := critIs(crit)
	min := sumOf(s.DamageOut, f, func(x DamageSample) float64 { return x.BaseMin })
	max := sumOf(s.DamageOut, f, func(x DamageSample) float64 { return x.BaseMax })
	std := sumOf(s.DamageOut, f, func(x DamageSample) float64 { return x.StdDamage })
	return ratio(std, min*baseRoll+max*(1-baseRoll))
}

func (s *ShipStats) StdDamageMultiplierStats(baseRoll float64, crit bool) Stats {
	return GetStats(s.DamageOut, critIs(crit), func(x DamageSample) float64 {
		return x.StdDamage / (x.BaseMin*baseRoll + x.BaseMax*(1-baseRoll))
	})
}

func (s *ShipStats) IsoDamageMultiplierTotal() float64 {
	std := sumOf(s.DamageOut, nil, func(x DamageSample) float64 { return x.StdDamage })
	iso := sumOf(s.DamageOut, nil, func(x DamageSample) float64 { return x.IsoDamage })
	return ratio(iso, std)
}

func (s *ShipStats) IsoDamageMultiplierStats() Stats {
	return GetStats(s.DamageOut,
		func(x DamageSample) bool { return x.StdDamage > 0 },
		func(x DamageSample) float64 { return x.IsoDamage / x.StdDamage })
}

func (s *ShipStats) AllDamageMultiplier() float64 {
	min := sumOf(s.DamageOut, nil, func(x DamageSample) float64 { return x.BaseMin })
	max := sumOf(s.DamageOut, nil, func(x DamageSample) float64 { return x.BaseMax })
	total := sumOf(s.DamageOut, nil, func(x DamageSample) float64 { return x.StdDamage + x.IsoDamage })
	base := (min + max) / 2
	if total <= 0 || base == 0 {
		return math.NaN()
	}
	return total / base
}

// ShotsOut counts outgoing attacks; crit narrows the count when non-nil.
func (s *ShipStats) ShotsOut(crit *bool) int {
	return countShots(s.DamageOut, crit)
}

func (s *ShipStats) ShotsIn(crit *bool) int {
	return countShots(s.DamageIn, crit)
}

func countShots(samples []DamageSample, crit *bool) int {
	var filter func(DamageSample) bool
	if crit != nil {
		filter = critIs(*crit)
	}
	return GetStats(samples, filter, func(DamageSample) float64 { return 1 }).Count
}

// CritDamage estimates the crit multiplier from mean-roll damage multipliers.
func (s *ShipStats) CritDamage() float64 {
	nonCrit := s.StdDamageMultiplierTotal(0.5, false)
	crit := s.StdDamageMultiplierTotal(0.5, true)
	if math.IsNaN(nonCrit) || math.IsNaN(crit) {
		return math.NaN()
	}
	return crit / nonCrit
}

func (s *ShipStats) HullDamageOut() float64 {
	return sumOf(s.DamageOut, nil, func(x DamageSample) float64 { return x.HHP })
}

func (s *ShipStats) HullDamageIn() float64 {
	return sumOf(s.DamageIn, nil, func(x DamageSample) float64 { return x.HHP })
}

// SHPDepletedRound is the first round the ship was seen with no shield left,
// NaN if never.
func (s *ShipStats) SHPDepletedRound() float64 {
	return firstRound(s.HitPoints, func(x HitPointSample) bool { return x.SHP <= 0 })
}

func (s *ShipStats) HHPDepletedRound() float64 {
	return firstRound(s.HitPoints, func(x HitPointSample) bool { return x.HHP <= 0 })
}

func firstRound(samples []HitPointSample, filter func(HitPointSample) bool) float64 {
	r := GetStats(samples, filter, func(x HitPointSample) float64 { return float64(x.T.Round) }).Min
	if math.IsInf(r, 1) {
		return math.NaN()
	}
	return r
}
