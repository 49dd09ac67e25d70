package solar

// Tilt search parameters.
const (
	tiltSearchStep = 10
	minTiltDeg     = 0
	maxTiltDeg     = 90
)

// CalculateTheoreticalTilt returns latitude rules of thumb for panel tilt:
// annual = 0.9*|lat|, summer = |lat|-15, winter = |lat|+15, each rounded.
// Summer and winter are not clamped to [0,90].
func CalculateTheoreticalTilt(lat float64) TheoreticalTilt {
	a := absLat(lat)
	return TheoreticalTilt{
		Annual: roundHalfUp(a * 0.9),
		Summer: roundHalfUp(a - 15),
		Winter: roundHalfUp(a + 15),
	}
}

// CandidateTilts returns the three tilts explored around the annual rule of thumb,
// ordered low, mid, high. Duplicates after clamping are kept.
func CandidateTilts(theoretical TheoreticalTilt) []float64 {
	return []float64{
		clamp(theoretical.Annual-tiltSearchStep, minTiltDeg, maxTiltDeg),
		theoretical.Annual,
		clamp(theoretical.Annual+tiltSearchStep, minTiltDeg, maxTiltDeg),
	}
}

// SelectBestTilt picks the candidate with the greatest unrounded annual output.
// On ties the later candidate wins. candidates must be non-empty.
func SelectBestTilt(candidates []TiltCandidate) TiltCandidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.rawOutput >= best.rawOutput {
			best = c
		}
	}
	return best
}

func newTiltCandidate(tilt, rawOutput float64) TiltCandidate {
	return TiltCandidate{
		TiltDeg:         tilt,
		AnnualOutputKWh: roundInt(rawOutput),
		rawOutput:       rawOutput,
	}
}
