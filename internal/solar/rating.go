package solar

// RateIrradiance maps average GHI (kWh/m²/day) to a site rating.
// Lower bounds are inclusive; 0 (no provider data) rates Low.
func RateIrradiance(avgGHI float64) Rating {
	switch {
	case avgGHI >= 5.5:
		return RatingExcellent
	case avgGHI >= 4.5:
		return RatingGood
	case avgGHI >= 3.5:
		return RatingModerate
	default:
		return RatingLow
	}
}
