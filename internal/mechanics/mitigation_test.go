package mechanics

import (
	"math"
	"testing"
)

func TestMitigationComponentZeroDefense(t *testing.T) {
	want := 1 / (1 + math.Pow(4, 1.1))
	for _, p := range []float64{1, 100, 1e6} {
		if got := MitigationComponent(0, p); math.Abs(got-want) > 1e-12 {
			t.Fatalf("piercing=%v: expected %v, got %v", p, want, got)
		}
	}
}

func TestMitigationComponentSaturates(t *testing.T) {
	if got := MitigationComponent(1e9, 1); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected ~1 for huge ratio, got %v", got)
	}
}

func TestMitigationComponentZeroPiercing(t *testing.T) {
	for _, d := range []float64{0, 10, 5000} {
		if got := MitigationComponent(d, 0); got != 1 {
			t.Fatalf("defense=%v piercing=0: expected 1, got %v", d, got)
		}
	}
	if got := MitigationComponent(10, -5); got != 1 {
		t.Fatalf("negative piercing should clamp to 0 and give 1, got %v", got)
	}
}

func TestMitigationComponentNegativeRatioClamped(t *testing.T) {
	want := MitigationComponent(0, 1)
	if got := MitigationComponent(-50, 1); got != want {
		t.Fatalf("negative defense should clamp ratio to 0: expected %v, got %v", want, got)
	}
}

func TestMitigationEqualStats(t *testing.T) {
	// defense == piercing gives f = 1/(1+4^0.1) on every component
	f := 1 / (1 + math.Pow(4, 0.1))
	d := Defense{Armor: 100, Shield: 100, Dodge: 100}
	p := Piercing{Armor: 100, Shield: 100, Accuracy: 100}
	cases := []struct {
		class ShipClass
		c     [3]float64
	}{
		{Battleship, [3]float64{0.55, 0.2, 0.2}},
		{Explorer, [3]float64{0.2, 0.55, 0.2}},
		{Interceptor, [3]float64{0.2, 0.2, 0.55}},
		{Survey, [3]float64{0.3, 0.3, 0.3}},
		{Structure, [3]float64{0.3, 0.3, 0.3}},
	}
	for _, tc := range cases {
		want := 1 - (1-tc.c[0]*f)*(1-tc.c[1]*f)*(1-tc.c[2]*f)
		if got := Mitigation(d, p, tc.class); math.Abs(got-want) > 1e-12 {
			t.Fatalf("%s: expected %v, got %v", tc.class, want, got)
		}
	}
}

func TestMitigationArmorDominatesBattleship(t *testing.T) {
	p := Piercing{Armor: 100, Shield: 100, Accuracy: 100}
	armorHeavy := Mitigation(Defense{Armor: 1000, Shield: 0, Dodge: 0}, p, Battleship)
	shieldHeavy := Mitigation(Defense{Armor: 0, Shield: 1000, Dodge: 0}, p, Battleship)
	if armorHeavy <= shieldHeavy {
		t.Fatalf("battleship should benefit more from armor: armor=%v shield=%v", armorHeavy, shieldHeavy)
	}
}

func TestMaxMitigation(t *testing.T) {
	want := 1 - 0.45*0.8*0.8
	if got := MaxMitigation(Battleship); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
	got := Mitigation(Defense{Armor: 1e12, Shield: 1e12, Dodge: 1e12}, Piercing{Armor: 1, Shield: 1, Accuracy: 1}, Survey)
	if math.Abs(got-MaxMitigation(Survey)) > 1e-9 {
		t.Fatalf("saturated mitigation %v should equal ceiling %v", got, MaxMitigation(Survey))
	}
}
