package mechanics

import "math"

// ShipClass decides which defense stat dominates mitigation.
type ShipClass string

const (
	Explorer    ShipClass = "Explorer"
	Interceptor ShipClass = "Interceptor"
	Battleship  ShipClass = "Battleship"
	Survey      ShipClass = "Survey"
	Structure   ShipClass = "Structure"
)

// Valid reports whether c is one of the known classes.
func (c ShipClass) Valid() bool {
	switch c {
	case Explorer, Interceptor, Battleship, Survey, Structure:
		return true
	}
	return false
}

// Coefficients weight the armor, shield and dodge components.
type Coefficients struct {
	Armor  float64 `json:"armor"`
	Shield float64 `json:"shield"`
	Dodge  float64 `json:"dodge"`
}

// CoefficientsFor returns the per-class weights. Unknown classes get the
// 0.2 baseline on every component.
func CoefficientsFor(class ShipClass) Coefficients {
	switch class {
	case Battleship:
		return Coefficients{Armor: 0.55, Shield: 0.2, Dodge: 0.2}
	case Explorer:
		return Coefficients{Armor: 0.2, Shield: 0.55, Dodge: 0.2}
	case Interceptor:
		return Coefficients{Armor: 0.2, Shield: 0.2, Dodge: 0.55}
	case Survey, Structure:
		return Coefficients{Armor: 0.3, Shield: 0.3, Dodge: 0.3}
	default:
		return Coefficients{Armor: 0.2, Shield: 0.2, Dodge: 0.2}
	}
}

// Defense holds the defender side of the mitigation curve.
type Defense struct {
	Armor  float64 `json:"armor"`
	Shield float64 `json:"shield"`
	Dodge  float64 `json:"dodge"`
}

// Piercing holds the attacker side, paired with Defense field by field.
type Piercing struct {
	Armor    float64 `json:"armorPiercing"`
	Shield   float64 `json:"shieldPiercing"`
	Accuracy float64 `json:"accuracy"`
}

// MitigationComponent is 1 / (1 + 4^(1.1 - defense/piercing)) with the ratio
// clamped to [0, +Inf]. Piercing at or below zero counts as an infinite ratio.
func MitigationComponent(defense, piercing float64) float64 {
	piercing = clamp(piercing, 0, math.Inf(1))
	ratio := math.Inf(1)
	if piercing > 0 {
		ratio = clamp(defense/piercing, 0, math.Inf(1))
	}
	return 1 / (1 + math.Pow(4, 1.1-ratio))
}

// Mitigation combines the three components multiplicatively:
//
//	1 - (1 - cA*fa) * (1 - cS*fs) * (1 - cD*fd)
func Mitigation(d Defense, p Piercing, class ShipClass) float64 {
	c := CoefficientsFor(class)
	ma := MitigationComponent(d.Armor, p.Armor)
	ms := MitigationComponent(d.Shield, p.Shield)
	md := MitigationComponent(d.Dodge, p.Accuracy)
	return 1.0 - (1.0-c.Armor*ma)*(1.0-c.Shield*ms)*(1.0-c.Dodge*md)
}

// MaxMitigation is the ceiling reached when every component saturates.
func MaxMitigation(class ShipClass) float64 {
	c := CoefficientsFor(class)
	return 1.0 - (1.0-c.Armor)*(1.0-c.Shield)*(1.0-c.Dodge)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
