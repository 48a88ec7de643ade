package battlelog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// attackTokens emits START_ATTACK weapon target ... END_ATTACK with the
// remaining fields given in stream order.
func attackTokens(weapon, target int64, fields ...int64) []int64 {
	out := []int64{int64(StartAttack), weapon, target}
	out = append(out, fields...)
	return append(out, int64(EndAttack))
}

func plainAttack(weapon, target, hull, remHull int64) []int64 {
	// acc dodge missed crit hull remHull shield remShield mitigated iso isoMit
	return attackTokens(weapon, target, 100, 0, 0, 0, hull, remHull, 0, 0, 10, 0, 0)
}

func join(parts ...[]int64) []int64 {
	var out []int64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func tags(ts ...Tag) []int64 {
	out := make([]int64, len(ts))
	for i, t := range ts {
		out[i] = int64(t)
	}
	return out
}

func TestParseSingleAttackRound(t *testing.T) {
	data := join(
		tags(StartRound, StartSubRound),
		[]int64{1},
		attackTokens(7, 2, 100, 0, 0, 0, 50, 950, 0, 0, 10, 0, 0),
		tags(EndSubRound, EndRound),
	)
	rounds, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rounds) != 1 || len(rounds[0].SubRounds) != 1 || len(rounds[0].SubRounds[0].Events) != 1 {
		t.Fatalf("expected 1 round / 1 sub-round / 1 event, got %+v", rounds)
	}
	ev, ok := rounds[0].SubRounds[0].Events[0].(AttackEvent)
	if !ok {
		t.Fatalf("expected AttackEvent, got %T", rounds[0].SubRounds[0].Events[0])
	}
	if ev.DamageTakenHull != 50 || ev.RemainingHull != 950 {
		t.Fatalf("expected hull 50/950, got %d/%d", ev.DamageTakenHull, ev.RemainingHull)
	}
	if ev.Ship != 1 || ev.Weapon != 7 || ev.Target != 2 || ev.DamageMitigated != 10 || ev.Crit {
		t.Fatalf("unexpected attack fields: %+v", ev)
	}
}

func TestParseStructureCounts(t *testing.T) {
	var data []int64
	wantSub := []int{1, 3, 2}
	wantEvents := 0
	for _, subs := range wantSub {
		data = append(data, int64(StartRound))
		for s := 0; s < subs; s++ {
			data = append(data, int64(StartSubRound), 5)
			for e := 0; e <= s; e++ {
				data = append(data, plainAttack(1, 6, 10, 90)...)
				wantEvents++
			}
			data = append(data, int64(EndSubRound))
		}
		data = append(data, int64(EndRound))
	}
	rounds, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rounds) != len(wantSub) {
		t.Fatalf("expected %d rounds, got %d", len(wantSub), len(rounds))
	}
	got := 0
	for i, r := range rounds {
		if len(r.SubRounds) != wantSub[i] {
			t.Fatalf("round %d: expected %d sub-rounds, got %d", i, wantSub[i], len(r.SubRounds))
		}
		for j, sr := range r.SubRounds {
			if len(sr.Events) != j+1 {
				t.Fatalf("round %d sub %d: expected %d events, got %d", i, j, j+1, len(sr.Events))
			}
			got += len(sr.Events)
		}
	}
	if got != wantEvents {
		t.Fatalf("expected %d events total, got %d", wantEvents, got)
	}
}

func TestParseSubjectPropagation(t *testing.T) {
	const shipA, shipB = 0, 42
	data := join(
		tags(StartRound, StartSubRound),
		[]int64{shipA},
		plainAttack(1, shipB, 5, 95),
		tags(OfficerAbilitiesAppliedStart),
		[]int64{shipA},
		tags(OfficerAbilityAppliedStart), []int64{11, 12, 13}, tags(OfficerAbilityAppliedEnd),
		tags(OfficerAbilitiesAppliedEnd),
		[]int64{shipB},
		plainAttack(2, shipA, 5, 95),
		tags(EndSubRound, EndRound),
	)
	rounds, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := rounds[0].SubRounds[0].Events
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, want := range []int64{shipA, shipA, shipB} {
		if got := events[i].Subject(); got != want {
			t.Fatalf("event %d: expected ship %d, got %d", i, want, got)
		}
	}
	ab, ok := events[1].(AbilityEvent)
	if !ok || ab.Officer != 11 || ab.Ability != 12 || ab.Value != 13 {
		t.Fatalf("unexpected ability event: %#v", events[1])
	}
}

func TestParseUnsetSubjectIsMinusOne(t *testing.T) {
	data := join(tags(StartRound, StartSubRound), plainAttack(1, 2, 1, 1), tags(EndSubRound, EndRound))
	rounds, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rounds[0].SubRounds[0].Events[0].Subject(); got != -1 {
		t.Fatalf("expected -1 before any subject, got %d", got)
	}
}

func TestParseAbilityBlockSubjectIsLocal(t *testing.T) {
	data := join(
		tags(StartRound, StartSubRound),
		[]int64{9},
		tags(ForbiddenTechBuffsAppliedStart),
		tags(ForbiddenTechBuffAppliedStart), []int64{1, 2, 3}, tags(ForbiddenTechBuffAppliedEnd),
		tags(ForbiddenTechBuffsAppliedEnd),
		tags(EndSubRound, EndRound),
	)
	rounds, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rounds[0].SubRounds[0].Events[0].Subject(); got != -1 {
		t.Fatalf("ability block should start without a subject, got %d", got)
	}
}

func TestParseChargeAndTriggers(t *testing.T) {
	data := join(
		tags(StartRound, StartSubRound),
		[]int64{3},
		tags(StartAttack), []int64{77}, tags(AttackCharge), []int64{50}, tags(EndAttack),
		tags(StartAttack), []int64{78, 4, 100, 0, 0, 1, 10, 90, 20, 80, 5, 3, 1},
		tags(OfficerAbilitiesFiring),
		[]int64{4},
		tags(OfficerAbilityStart), []int64{100, 200, 1}, tags(OfficerAbilityEnd),
		tags(OfficerAbilitiesFired),
		tags(EndAttack),
		tags(EndSubRound),
		tags(HullRepairStart), []int64{4, 500}, tags(HullRepairEnd),
		tags(EndRound),
	)
	rounds, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rounds[0]
	if len(r.HullRepairs) != 1 || r.HullRepairs[0] != (HullRepair{Ship: 4, HullRepaired: 500}) {
		t.Fatalf("unexpected hull repairs: %+v", r.HullRepairs)
	}
	events := r.SubRounds[0].Events
	if len(events) != 2 {
		t.Fatalf("triggers must not be emitted as siblings; got %d events", len(events))
	}
	ch, ok := events[0].(ChargeEvent)
	if !ok || ch.Charge != 50 || ch.Percent() != 50 || ch.Weapon != 77 || ch.Ship != 3 {
		t.Fatalf("unexpected charge event: %#v", events[0])
	}
	at, ok := events[1].(AttackEvent)
	if !ok {
		t.Fatalf("expected attack, got %T", events[1])
	}
	if !at.Crit || at.DamageIso != 3 || at.DamageIsoMitigated != 1 {
		t.Fatalf("unexpected attack fields: %+v", at)
	}
	if len(at.Triggers) != 1 || at.Triggers[0].Ship != 4 || at.Triggers[0].Officer != 100 {
		t.Fatalf("unexpected triggers: %+v", at.Triggers)
	}
}

func TestParseCritOnlyWhenOne(t *testing.T) {
	data := join(
		tags(StartRound, StartSubRound),
		attackTokens(1, 2, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0),
		tags(EndSubRound, EndRound),
	)
	rounds, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rounds[0].SubRounds[0].Events[0].(AttackEvent).Crit {
		t.Fatalf("crit must be true only for the value 1")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		data    []int64
		wantEnd bool
		wantPos int
	}{
		{"dangling start", tags(StartRound), true, 0},
		{"stray payload", []int64{5}, false, 0},
		{"truncated attack", join(tags(StartRound, StartSubRound), []int64{int64(StartAttack), 1, 2, 3}), true, 0},
		{"mismatched close", tags(StartRound, StartSubRound, EndRound), false, 2},
		{"unknown tag in round", tags(StartRound, StartAttack), false, 1},
		{"bad ability close", join(tags(StartRound, StartSubRound, OfficerAbilitiesAppliedStart, OfficerAbilityStart), []int64{1, 2, 3}, tags(EndSubRound)), false, 7},
		{"officer block closed as forbidden tech", join(tags(StartRound, StartSubRound), []int64{5}, tags(OfficerAbilitiesAppliedStart), []int64{5}, tags(OfficerAbilityStart), []int64{1, 2, 3}, tags(ForbiddenTechBuffAppliedEnd, ForbiddenTechBuffsAppliedEnd, EndSubRound, EndRound)), false, 9},
		{"trigger block closed as applied", join(tags(StartRound, StartSubRound), []int64{5, int64(StartAttack), 7, 2, 100, 0, 0, 0, 50, 950, 0, 0, 10, 0, 0}, tags(OfficerAbilitiesFiring, OfficerAbilitiesAppliedEnd, EndAttack)), false, 18},
	}
	for _, tc := range cases {
		_, err := Parse(tc.data)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if tc.wantEnd {
			if !errors.Is(err, ErrUnexpectedEndOfInput) {
				t.Fatalf("%s: expected end-of-input, got %v", tc.name, err)
			}
			continue
		}
		var ue *UnexpectedElementError
		if !errors.As(err, &ue) || !errors.Is(err, ErrUnexpectedElement) {
			t.Fatalf("%s: expected UnexpectedElementError, got %v", tc.name, err)
		}
		if ue.Pos != tc.wantPos {
			t.Fatalf("%s: expected position %d, got %d (%v)", tc.name, tc.wantPos, ue.Pos, err)
		}
	}
}

// blockPrefix opens a block in the context where open is legal.
func blockPrefix(open Tag) []int64 {
	if open == OfficerAbilitiesFiring {
		return join(tags(StartRound, StartSubRound), []int64{int64(StartAttack), 7, 2, 100, 0, 0, 0, 50, 950, 0, 0, 10, 0, 0}, tags(open))
	}
	return tags(StartRound, StartSubRound, open)
}

func TestParseRejectsMismatchedCloses(t *testing.T) {
	for open, end := range blockPairs {
		for _, other := range blockPairs {
			if other == end {
				continue
			}
			data := join(blockPrefix(open), tags(other))
			_, err := Parse(data)
			var ue *UnexpectedElementError
			if !errors.As(err, &ue) || ue.Pos != len(data)-1 {
				t.Fatalf("block %v closed by %v: expected error at %d, got %v", open, other, len(data)-1, err)
			}
		}
		for aopen, aend := range abilityPairs {
			for _, other := range abilityPairs {
				if other == aend {
					continue
				}
				data := join(blockPrefix(open), tags(aopen), []int64{1, 2, 3}, tags(other))
				_, err := Parse(data)
				var ue *UnexpectedElementError
				if !errors.As(err, &ue) || ue.Pos != len(data)-1 {
					t.Fatalf("ability %v closed by %v: expected error at %d, got %v", aopen, other, len(data)-1, err)
				}
			}
		}
	}
}

func TestParseAcceptsMatchedForbiddenTechBlock(t *testing.T) {
	data := join(
		tags(StartRound, StartSubRound),
		[]int64{5},
		tags(ForbiddenTechBuffsAppliedStart),
		[]int64{5},
		tags(ForbiddenTechBuffAppliedStart), []int64{1, 2, 3}, tags(ForbiddenTechBuffAppliedEnd),
		tags(ForbiddenTechBuffsAppliedEnd, EndSubRound, EndRound),
	)
	rounds, err := Parse(data)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rounds) != 1 || len(rounds[0].SubRounds) != 1 || len(rounds[0].SubRounds[0].Events) != 1 {
		t.Fatalf("expected one ability event, got %+v", rounds)
	}
}

func TestParseBattleLogIsTotal(t *testing.T) {
	inputs := [][]int64{
		nil,
		{},
		tags(StartRound),
		tags(EndRound),
		{-1, -2, -3},
		join(tags(StartRound, StartSubRound), []int64{int64(StartAttack), 1}),
		join(tags(StartRound, StartSubRound), plainAttack(1, 2, 3, 4), tags(EndSubRound, EndRound), tags(StartRound)),
	}
	for i, in := range inputs {
		got := ParseBattleLog(zap.NewNop(), in)
		if got == nil || len(got) != 0 {
			t.Fatalf("input %d: expected empty non-nil result, got %+v", i, got)
		}
	}
	if got := ParseBattleLog(nil, tags(StartRound)); len(got) != 0 {
		t.Fatalf("nil logger should be tolerated")
	}
}

func TestParseBattleLogSuccess(t *testing.T) {
	data := join(tags(StartRound, StartSubRound), plainAttack(1, 2, 3, 4), tags(EndSubRound, EndRound))
	if got := ParseBattleLog(zap.NewNop(), data); len(got) != 1 {
		t.Fatalf("expected 1 round, got %d", len(got))
	}
}

func TestEventJSONCarriesType(t *testing.T) {
	sr := SubRound{Events: []Event{
		AttackEvent{Ship: 1, Weapon: 2},
		ChargeEvent{Ship: 1, Weapon: 2, Charge: 25},
		AbilityEvent{Ship: 1, Officer: 3},
	}}
	b, err := json.Marshal(sr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"type":"attack"`, `"type":"charge"`, `"type":"ability"`, `"triggers":[]`, `"charge":25`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(ChargeEvent{Ship: 1, Weapon: 2, Charge: 50}); !strings.Contains(got, "50%") {
		t.Fatalf("charge should render as percent, got %q", got)
	}
	if got := Describe(nil); !strings.HasPrefix(got, "unknown event") {
		t.Fatalf("expected unknown fallback, got %q", got)
	}
}
