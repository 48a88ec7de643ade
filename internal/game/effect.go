package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/pefman/stfc-combat/internal/models"
)

// ConflictPolicy decides what happens when a ship receives an effect whose
// name is already active.
type ConflictPolicy string

const (
	ConflictReplace ConflictPolicy = models.ConflictReplace
	ConflictIgnore  ConflictPolicy = models.ConflictIgnore
	ConflictExtend  ConflictPolicy = models.ConflictExtend
	ConflictStack   ConflictPolicy = models.ConflictStack
)

// Effect is a named, timed set of stat contributions owned by one ship.
type Effect struct {
	Name       string
	Stats      map[Stat]StatValue
	Duration   float64 // rounds left; +Inf never expires
	OnConflict ConflictPolicy
}

// NewEffect validates effect data. Missing duration means permanent and a
// missing conflict policy means Ignore.
func NewEffect(data models.EffectData) (Effect, error) {
	e := Effect{
		Name:       data.Name,
		Stats:      make(map[Stat]StatValue, len(data.Stats)),
		Duration:   math.Inf(1),
		OnConflict: ConflictIgnore,
	}
	if data.Name == "" {
		return Effect{}, fmt.Errorf("effect without a name")
	}
	// sorted so the first bad stat reported is stable
	names := make([]string, 0, len(data.Stats))
	for n := range data.Stats {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		s, err := ParseStat(n)
		if err != nil {
			return Effect{}, fmt.Errorf("effect %q: %w", data.Name, err)
		}
		e.Stats[s] = StatValue(data.Stats[n])
	}
	if data.Duration != nil {
		e.Duration = *data.Duration
	}
	switch ConflictPolicy(data.OnConflict) {
	case "":
	case ConflictReplace, ConflictIgnore, ConflictExtend, ConflictStack:
		e.OnConflict = ConflictPolicy(data.OnConflict)
	default:
		return Effect{}, fmt.Errorf("effect %q: unknown conflict policy %q", data.Name, data.OnConflict)
	}
	return e, nil
}

// clone gives the receiving ship its own stats map.
func (e Effect) clone() *Effect {
	c := e
	c.Stats = make(map[Stat]StatValue, len(e.Stats))
	for k, v := range e.Stats {
		c.Stats[k] = v
	}
	return &c
}

func (e *Effect) expired() bool { return e.Duration <= 0 }

func (e *Effect) stack(o *Effect) {
	for s, v := range o.Stats {
		e.Stats[s] = e.Stats[s].add(v)
	}
}

func (e *Effect) extend(o *Effect) { e.Duration += o.Duration }

func (e *Effect) replace(o *Effect) {
	c := o.clone()
	e.Stats = c.Stats
	e.Duration = c.Duration
	e.OnConflict = c.OnConflict
}
