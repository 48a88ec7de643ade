package battlelog

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// subject is the acting ship announced by a bare non-negative value inside a
// sub-round or ability block. Ship 0 is an NPC, so "unset" needs its own flag.
type subject struct {
	id  int64
	set bool
}

func (s subject) ship() int64 {
	if !s.set {
		return -1
	}
	return s.id
}

// Parse decodes a complete battle log. Any structural problem aborts the whole
// parse; no partial rounds are returned alongside an error.
func Parse(data []int64) ([]Round, error) {
	in := NewTokenStream(data)
	rounds := []Round{}
	for in.HasMore() {
		x, _ := in.Peek()
		if x != int64(StartRound) {
			return nil, in.Unexpected()
		}
		r, err := parseRound(in)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, nil
}

// ParseBattleLog is the lenient entry point. Failures are logged together with
// the tag trace and yield an empty slice.
func ParseBattleLog(log *zap.Logger, data []int64) (rounds []Round) {
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("battle log parser panicked", zap.Any("panic", r), zap.Int("tokens", len(data)))
			rounds = []Round{}
		}
	}()
	rounds, err := Parse(data)
	if err != nil {
		log.Warn("battle log parse failed", zap.Error(err), zap.Int("tokens", len(data)))
		logTrace(log, data)
		return []Round{}
	}
	logTrace(log, data)
	return rounds
}

func logTrace(log *zap.Logger, data []int64) {
	if ce := log.Check(zap.DebugLevel, "battle log trace"); ce != nil {
		ce.Write(zap.String("trace", strings.Join(ExtractTags(data), "\n")))
	}
}

func parseRound(in *TokenStream) (Round, error) {
	r := Round{SubRounds: []SubRound{}, HullRepairs: []HullRepair{}}
	if err := in.ReadLiteral(StartRound); err != nil {
		return r, err
	}
	for {
		x, err := in.Peek()
		if err != nil {
			return r, err
		}
		switch Tag(x) {
		case StartSubRound:
			sr, err := parseSubRound(in)
			if err != nil {
				return r, err
			}
			r.SubRounds = append(r.SubRounds, sr)
		case HullRepairStart:
			hr, err := parseHullRepair(in)
			if err != nil {
				return r, err
			}
			r.HullRepairs = append(r.HullRepairs, hr)
		case EndRound:
			in.Read()
			return r, nil
		default:
			return r, in.Unexpected()
		}
	}
}

func parseHullRepair(in *TokenStream) (HullRepair, error) {
	if err := in.ReadLiteral(HullRepairStart); err != nil {
		return HullRepair{}, err
	}
	v, err := in.ReadN(2)
	if err != nil {
		return HullRepair{}, err
	}
	if err := in.ReadLiteral(HullRepairEnd); err != nil {
		return HullRepair{}, err
	}
	return HullRepair{Ship: v[0], HullRepaired: v[1]}, nil
}

func parseSubRound(in *TokenStream) (SubRound, error) {
	sr := SubRound{Events: []Event{}}
	if err := in.ReadLiteral(StartSubRound); err != nil {
		return sr, err
	}
	var subj subject
	for {
		x, err := in.Peek()
		if err != nil {
			return sr, err
		}
		switch {
		case x == int64(EndSubRound):
			in.Read()
			return sr, nil
		case x == int64(OfficerAbilitiesAppliedStart), x == int64(ForbiddenTechBuffsAppliedStart):
			abilities, err := parseAbilities(in)
			if err != nil {
				return sr, err
			}
			for _, a := range abilities {
				sr.Events = append(sr.Events, a)
			}
		case x == int64(StartAttack):
			ev, err := parseAttack(in, subj)
			if err != nil {
				return sr, err
			}
			sr.Events = append(sr.Events, ev)
		case x >= 0:
			in.Read()
			subj = subject{id: x, set: true}
		default:
			return sr, in.Unexpected()
		}
	}
}

// parseAbilities reads one ability block. The block keeps its own subject,
// independent of the enclosing sub-round.
func parseAbilities(in *TokenStream) ([]AbilityEvent, error) {
	out := []AbilityEvent{}
	end, err := readOpen(in, blockPairs)
	if err != nil {
		return nil, err
	}
	var subj subject
	for {
		x, err := in.Peek()
		if err != nil {
			return nil, err
		}
		switch {
		case x == int64(end):
			in.Read()
			return out, nil
		case isOpen(x, abilityPairs):
			a, err := parseAbility(in, subj)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		case x >= 0:
			in.Read()
			subj = subject{id: x, set: true}
		default:
			return nil, in.Unexpected()
		}
	}
}

func parseAbility(in *TokenStream, subj subject) (AbilityEvent, error) {
	end, err := readOpen(in, abilityPairs)
	if err != nil {
		return AbilityEvent{}, err
	}
	v, err := in.ReadN(3)
	if err != nil {
		return AbilityEvent{}, err
	}
	if err := in.ReadLiteral(end); err != nil {
		return AbilityEvent{}, err
	}
	return AbilityEvent{Ship: subj.ship(), Officer: v[0], Ability: v[1], Value: v[2]}, nil
}

const attackFields = 12

func parseAttack(in *TokenStream, subj subject) (Event, error) {
	if err := in.ReadLiteral(StartAttack); err != nil {
		return nil, err
	}
	weapon, err := in.Read()
	if err != nil {
		return nil, err
	}
	next, err := in.Peek()
	if err != nil {
		return nil, err
	}

	switch {
	case next == int64(AttackCharge):
		in.Read()
		charge, err := in.Read()
		if err != nil {
			return nil, err
		}
		if err := in.ReadLiteral(EndAttack); err != nil {
			return nil, err
		}
		return ChargeEvent{Ship: subj.ship(), Weapon: weapon, Charge: charge}, nil

	case next >= 0:
		v, err := in.ReadN(attackFields)
		if err != nil {
			return nil, err
		}
		ev := AttackEvent{
			Ship:               subj.ship(),
			Weapon:             weapon,
			Target:             v[0],
			Accuracy:           v[1],
			Dodge:              v[2],
			Missed:             v[3],
			Crit:               v[4] == 1,
			DamageTakenHull:    v[5],
			RemainingHull:      v[6],
			DamageTakenShield:  v[7],
			RemainingShield:    v[8],
			DamageMitigated:    v[9],
			DamageIso:          v[10],
			DamageIsoMitigated: v[11],
			Triggers:           []AbilityEvent{},
		}
		if x, err := in.Peek(); err == nil && x == int64(OfficerAbilitiesFiring) {
			triggers, err := parseAbilities(in)
			if err != nil {
				return nil, err
			}
			ev.Triggers = append(ev.Triggers, triggers...)
		}
		if err := in.ReadLiteral(EndAttack); err != nil {
			return nil, err
		}
		return ev, nil

	default:
		return nil, in.Unexpected()
	}
}

// Describe renders one event as a single human-readable line.
func Describe(ev Event) string {
	switch e := ev.(type) {
	case AttackEvent:
		crit := ""
		if e.Crit {
			crit = " (crit)"
		}
		return fmt.Sprintf("ship %d fires weapon %d at %d%s: hull -%d (%d left), shield -%d (%d left), mitigated %d",
			e.Ship, e.Weapon, e.Target, crit, e.DamageTakenHull, e.RemainingHull, e.DamageTakenShield, e.RemainingShield, e.DamageMitigated)
	case ChargeEvent:
		return fmt.Sprintf("ship %d charges weapon %d: %d%%", e.Ship, e.Weapon, e.Charge)
	case AbilityEvent:
		return fmt.Sprintf("ship %d ability %d/%d value %d", e.Ship, e.Officer, e.Ability, e.Value)
	default:
		return fmt.Sprintf("unknown event %T", ev)
	}
}
