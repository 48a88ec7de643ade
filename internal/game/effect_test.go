package game

import (
	"errors"
	"math"
	"testing"

	"github.com/pefman/stfc-combat/internal/models"
)

func effect(name string, policy ConflictPolicy, duration float64, stats map[Stat]StatValue) Effect {
	return Effect{Name: name, Stats: stats, Duration: duration, OnConflict: policy}
}

func TestStatFormula(t *testing.T) {
	s := &Ship{}
	s.AddEffect(effect("a", ConflictIgnore, math.Inf(1), map[Stat]StatValue{HHP: {100, 0.5, 10}}))
	s.AddEffect(effect("b", ConflictIgnore, math.Inf(1), map[Stat]StatValue{HHP: {100, 0.5, 0}, Armor: {3, 0, 0}}))
	// (100+100) * (1+0.5+0.5) + 10
	if got := s.GetStat(HHP); got != 410 {
		t.Fatalf("expected 410, got %v", got)
	}
	if s.GetStat(Armor) != 3 || s.GetStat(Dodge) != 0 {
		t.Fatalf("unexpected armor/dodge")
	}
	if s.GetStat(Stat(99)) != 0 || s.GetStat(Stat(-1)) != 0 {
		t.Fatalf("unknown stats should read zero")
	}
}

func TestEffectConflicts(t *testing.T) {
	base := map[Stat]StatValue{Shield: {10, 0, 0}}

	s := &Ship{}
	s.AddEffect(effect("x", ConflictIgnore, 2, base))
	s.AddEffect(effect("x", ConflictIgnore, 5, map[Stat]StatValue{Shield: {99, 0, 0}}))
	if s.GetStat(Shield) != 10 || len(s.Effects()) != 1 || s.Effects()[0].Duration != 2 {
		t.Fatalf("ignore should keep the existing effect untouched")
	}

	s.AddEffect(effect("x", ConflictStack, 7, map[Stat]StatValue{Shield: {5, 0, 0}, Dodge: {1, 0, 0}}))
	if s.GetStat(Shield) != 15 || s.GetStat(Dodge) != 1 {
		t.Fatalf("stack should add triples, got shield %v dodge %v", s.GetStat(Shield), s.GetStat(Dodge))
	}
	if s.Effects()[0].Duration != 2 {
		t.Fatalf("stack should keep the duration")
	}

	s.AddEffect(effect("x", ConflictExtend, 3, map[Stat]StatValue{Shield: {1000, 0, 0}}))
	if d := s.Effects()[0].Duration; d != 5 || s.GetStat(Shield) != 15 {
		t.Fatalf("extend should add duration only, got duration %v shield %v", d, s.GetStat(Shield))
	}

	s.AddEffect(effect("x", ConflictReplace, 1, map[Stat]StatValue{Armor: {4, 0, 0}}))
	eff := s.Effects()[0]
	if eff.Duration != 1 || eff.OnConflict != ConflictReplace || s.GetStat(Shield) != 0 || s.GetStat(Armor) != 4 {
		t.Fatalf("replace should copy stats, duration and policy, got %+v", eff)
	}
}

func TestEffectTemplateNotShared(t *testing.T) {
	tmpl := effect("x", ConflictStack, math.Inf(1), map[Stat]StatValue{Accuracy: {1, 0, 0}})
	a, b := &Ship{}, &Ship{}
	a.AddEffect(tmpl)
	a.AddEffect(tmpl)
	b.AddEffect(tmpl)
	if a.GetStat(Accuracy) != 2 || b.GetStat(Accuracy) != 1 || tmpl.Stats[Accuracy][0] != 1 {
		t.Fatalf("stacking must not leak between ships or into the template")
	}
}

func TestEffectExpiry(t *testing.T) {
	s := &Ship{}
	s.AddEffect(effect("short", ConflictIgnore, 1, map[Stat]StatValue{SHP: {10, 0, 0}}))
	s.AddEffect(effect("long", ConflictIgnore, math.Inf(1), map[Stat]StatValue{SHP: {5, 0, 0}}))
	s.tickEffects()
	s.pruneEffects()
	if s.HasEffect("short") || !s.HasEffect("long") || s.GetStat(SHP) != 5 {
		t.Fatalf("expected only the permanent effect to survive, SHP %v", s.GetStat(SHP))
	}
	s.RemoveEffect("long")
	if s.HasEffect("long") || s.GetStat(SHP) != 0 {
		t.Fatalf("remove should drop the effect and recompute")
	}
}

func TestNewEffect(t *testing.T) {
	e, err := NewEffect(models.EffectData{Name: "a", Stats: map[string][3]float64{"Weapon2Shots": {1, 0, 0}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(e.Duration, 1) || e.OnConflict != ConflictIgnore || e.Stats[Weapon2Shots] != (StatValue{1, 0, 0}) {
		t.Fatalf("unexpected defaults %+v", e)
	}
	if _, err := NewEffect(models.EffectData{Name: "a", Stats: map[string][3]float64{"Warp": {1, 0, 0}}}); !errors.Is(err, ErrUnknownStat) {
		t.Fatalf("expected ErrUnknownStat, got %v", err)
	}
	if _, err := NewEffect(models.EffectData{Name: "a", OnConflict: "Merge"}); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
	if _, err := NewEffect(models.EffectData{}); err == nil {
		t.Fatalf("expected error for missing name")
	}
}

func TestRemainingHitPoints(t *testing.T) {
	s := &Ship{}
	s.AddEffect(effect("hp", ConflictIgnore, math.Inf(1), map[Stat]StatValue{HHP: {1000, 0, 0}, SHP: {200, 0, 0}}))
	s.HullDamage = 250
	s.ShieldDamage = 300
	if s.RemainingHHP() != 750 || s.RemainingSHP() != -100 {
		t.Fatalf("unexpected remaining hp %v %v", s.RemainingHHP(), s.RemainingSHP())
	}
	if s.RemainingHHPPercent() != 0.75 || s.RemainingSHPPercent() != 0 {
		t.Fatalf("unexpected percents %v %v", s.RemainingHHPPercent(), s.RemainingSHPPercent())
	}
	if (&Ship{}).RemainingSHPPercent() != 0 {
		t.Fatalf("a ship without shields should report 0%%")
	}
}
