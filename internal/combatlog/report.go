package combatlog

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/pefman/stfc-combat/internal/combatstats"
	"github.com/pefman/stfc-combat/internal/gamedata"
	"github.com/pefman/stfc-combat/internal/mechanics"
)

// ShipReport summarises one ship's derived metrics. Metrics with no
// underlying samples are NaN and serialise as null.
type ShipReport struct {
	ShipID      int64  `json:"shipId"`
	DisplayName string `json:"displayName"`
	ShipName    string `json:"shipName"`
	Side        Side   `json:"side"`
	Class       string `json:"class,omitempty"`

	ShotsOut      int                `json:"shotsOut"`
	CritsOut      int                `json:"critsOut"`
	ShotsIn       int                `json:"shotsIn"`
	HullDamageOut combatstats.Metric `json:"hullDamageOut"`
	HullDamageIn  combatstats.Metric `json:"hullDamageIn"`
	CritDamage    combatstats.Metric `json:"critDamage"`

	StdMitigation    combatstats.Metric `json:"stdMitigation"`
	IsoMitigation    combatstats.Metric `json:"isoMitigation"`
	ApexMitigation   combatstats.Metric `json:"apexMitigation"`
	ShieldMitigation combatstats.Metric `json:"shieldMitigation"`
	MaxMitigation    combatstats.Metric `json:"maxMitigation"`

	StdDamageMultiplier combatstats.Metric `json:"stdDamageMultiplier"`
	IsoDamageMultiplier combatstats.Metric `json:"isoDamageMultiplier"`
	AllDamageMultiplier combatstats.Metric `json:"allDamageMultiplier"`

	SHPDepletedRound combatstats.Metric `json:"shpDepletedRound"`
	HHPDepletedRound combatstats.Metric `json:"hhpDepletedRound"`
}

type Report struct {
	Rounds int          `json:"rounds"`
	Ships  []ShipReport `json:"ships"`
}

// averageBaseRoll assumes the weapon roll lands mid-range.
const averageBaseRoll = 0.5

func BuildReport(pd *ParsedData, gd *gamedata.GameData) Report {
	if gd == nil {
		gd = gamedata.Empty()
	}
	crit := true
	rep := Report{Rounds: len(pd.BattleLog), Ships: make([]ShipReport, 0, len(pd.AllShips))}
	for _, ship := range pd.AllShips {
		st := pd.Stats.Ship(ship.ShipID)
		r := ShipReport{
			ShipID:      ship.ShipID,
			DisplayName: ship.DisplayName,
			ShipName:    ShipName(ship, gd),
			Side:        ship.Side,

			ShotsOut:      st.ShotsOut(nil),
			CritsOut:      st.ShotsOut(&crit),
			ShotsIn:       st.ShotsIn(nil),
			HullDamageOut: combatstats.Metric(st.HullDamageOut()),
			HullDamageIn:  combatstats.Metric(st.HullDamageIn()),
			CritDamage:    combatstats.Metric(st.CritDamage()),

			StdMitigation:    combatstats.Metric(st.StdMitigationTotal()),
			IsoMitigation:    combatstats.Metric(st.IsoMitigationTotal()),
			ApexMitigation:   combatstats.Metric(st.ApexMitigationTotal()),
			ShieldMitigation: combatstats.Metric(st.ShieldMitigationTotal()),
			MaxMitigation:    combatstats.Metric(math.NaN()),

			StdDamageMultiplier: combatstats.Metric(st.StdDamageMultiplierTotal(averageBaseRoll, false)),
			IsoDamageMultiplier: combatstats.Metric(st.IsoDamageMultiplierTotal()),
			AllDamageMultiplier: combatstats.Metric(st.AllDamageMultiplier()),

			SHPDepletedRound: combatstats.Metric(st.SHPDepletedRound()),
			HHPDepletedRound: combatstats.Metric(st.HHPDepletedRound()),
		}
		if ship.Details != nil {
			if class, ok := gamedata.HullClass(ship.Details.HullType); ok {
				r.Class = string(class)
				r.MaxMitigation = combatstats.Metric(mechanics.MaxMitigation(class))
			}
		}
		rep.Ships = append(rep.Ships, r)
	}
	return rep
}

// WriteText renders the report as an aligned table.
func (r Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "rounds: %d\n", r.Rounds)
	fmt.Fprintln(tw, "ship\tside\tshots out\tcrits\tshots in\thull out\thull in\tstd mit\tiso mit\tapex mit\tdmg mult\tshield gone\thull gone")
	for _, s := range r.Ships {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.DisplayName, s.Side, s.ShotsOut, s.CritsOut, s.ShotsIn,
			combatstats.ShortNumber(float64(s.HullDamageOut)),
			combatstats.ShortNumber(float64(s.HullDamageIn)),
			combatstats.Cell(float64(s.StdMitigation), 3),
			combatstats.Cell(float64(s.IsoMitigation), 3),
			combatstats.Cell(float64(s.ApexMitigation), 3),
			combatstats.Cell(float64(s.AllDamageMultiplier), 2),
			combatstats.Cell(float64(s.SHPDepletedRound), 0),
			combatstats.Cell(float64(s.HHPDepletedRound), 0))
	}
	return tw.Flush()
}
