package combatstats

import (
	"math"
	"strconv"
)

const epsilon = 2.220446049250313e-16

// RoundTo rounds half up to the given number of decimal digits.
func RoundTo(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Floor((x+epsilon)*p+0.5) / p
}

func RoundTo2Digits(x float64) float64 { return RoundTo(x, 2) }
func RoundTo3Digits(x float64) float64 { return RoundTo(x, 3) }
func RoundTo4Digits(x float64) float64 { return RoundTo(x, 4) }

// ShortNumber abbreviates large values: 1234567 -> "1.23M".
func ShortNumber(x float64) string {
	switch {
	case x > 1e12:
		return formatNumber(RoundTo2Digits(x/1e12)) + "T"
	case x > 1e9:
		return formatNumber(RoundTo2Digits(x/1e9)) + "B"
	case x > 1e6:
		return formatNumber(RoundTo2Digits(x/1e6)) + "M"
	case x > 1e3:
		return formatNumber(RoundTo2Digits(x/1e3)) + "k"
	default:
		return formatNumber(RoundTo2Digits(x))
	}
}

// Cell renders a metric for a table: NaN and infinities become empty cells.
func Cell(x float64, digits int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ""
	}
	return formatNumber(RoundTo(x, digits))
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Metric is a derived value that serialises NaN and infinities as null.
type Metric float64

func (m Metric) MarshalJSON() ([]byte, error) {
	x := float64(m)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(x, 'g', -1, 64)), nil
}
