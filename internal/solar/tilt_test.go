package solar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTheoreticalTilt(t *testing.T) {
	for _, lat := range []float64{0, 4.5, 10, -33.9, 40, 51.5, -66.6, 80, 90, -90} {
		got := CalculateTheoreticalTilt(lat)
		assert.Equal(t, math.Floor(math.Abs(lat)*0.9+0.5), got.Annual, "lat %v", lat)
		assert.Equal(t, got.Winter-30, got.Summer, "lat %v", lat)
	}
}

func TestTheoreticalTiltSeasonalValuesAreUnclamped(t *testing.T) {
	equator := CalculateTheoreticalTilt(0)
	assert.Equal(t, float64(-15), equator.Summer)
	assert.Equal(t, float64(15), equator.Winter)

	pole := CalculateTheoreticalTilt(-85)
	assert.Equal(t, float64(100), pole.Winter)
	assert.Equal(t, float64(77), pole.Annual)
}

func TestTheoreticalTiltRoundsHalfUp(t *testing.T) {
	// 4.5 - 15 = -10.5 rounds toward +Inf.
	assert.Equal(t, float64(-10), CalculateTheoreticalTilt(4.5).Summer)
	assert.Equal(t, float64(20), CalculateTheoreticalTilt(4.5).Winter)
}

func TestCandidateTiltsClampAndKeepDuplicates(t *testing.T) {
	assert.Equal(t, []float64{26, 36, 46}, CandidateTilts(CalculateTheoreticalTilt(40)))
	assert.Equal(t, []float64{0, 0, 10}, CandidateTilts(CalculateTheoreticalTilt(0)))
	assert.Equal(t, []float64{71, 81, 90}, CandidateTilts(CalculateTheoreticalTilt(90)))
}

func TestSelectBestTiltLastTieWins(t *testing.T) {
	candidates := []TiltCandidate{
		newTiltCandidate(26, 100),
		newTiltCandidate(36, 120),
		newTiltCandidate(46, 120),
	}
	assert.Equal(t, float64(46), SelectBestTilt(candidates).TiltDeg)
}

func TestSelectBestTiltUsesUnroundedOutput(t *testing.T) {
	candidates := []TiltCandidate{
		newTiltCandidate(26, 1000.4),
		newTiltCandidate(36, 1000.45),
		newTiltCandidate(46, 1000.1),
	}
	best := SelectBestTilt(candidates)
	assert.Equal(t, float64(36), best.TiltDeg)
	assert.Equal(t, 1000, best.AnnualOutputKWh)
}

func TestSelectBestTiltStrictMaximum(t *testing.T) {
	candidates := []TiltCandidate{
		newTiltCandidate(0, 300),
		newTiltCandidate(5, 200),
		newTiltCandidate(15, 100),
	}
	assert.Equal(t, float64(0), SelectBestTilt(candidates).TiltDeg)
}
