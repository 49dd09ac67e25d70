package solar

import (
	"math"

	"github.com/shopspring/decimal"
)

// roundHalfUp rounds to the nearest integer with halves going toward +Inf,
// so -10.5 becomes -10.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func roundInt(x float64) int {
	return int(roundHalfUp(x))
}

// roundPlaces rounds x to the given number of decimal places using exact
// decimal arithmetic, avoiding binary artifacts such as 0.285 -> 0.28.
func roundPlaces(x float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

func absLat(lat float64) float64 {
	return math.Abs(lat)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
