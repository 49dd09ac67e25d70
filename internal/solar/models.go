package solar

import (
	"strings"
	"time"
)

// MonthsPerYear is the length of every monthly series, January first.
const MonthsPerYear = 12

// Rating represents a categorical site-quality rating derived from average GHI.
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingModerate  Rating = "Moderate"
	RatingLow       Rating = "Low"
)

// ModuleType is the PV module technology passed to the simulation provider.
type ModuleType string

const (
	ModuleStandard ModuleType = "standard"
	ModulePremium  ModuleType = "premium"
	ModuleThinFilm ModuleType = "thinfilm"
)

// Code returns the simulation provider's numeric module_type value.
func (m ModuleType) Code() int {
	switch m {
	case ModulePremium:
		return 1
	case ModuleThinFilm:
		return 2
	default:
		return 0
	}
}

// Data source labels attached to every operation result.
const (
	SourceSolarResource = "NREL Solar Resource API"
	SourcePVWatts       = "NREL PVWatts v8"
	SourceOpenMeteo     = "Open-Meteo"
)

// Location is a point on the globe. Lat in [-90,90], Lon in [-180,180].
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DefaultAzimuth returns the equator-facing azimuth for the location's hemisphere:
// 180 (south) in the northern hemisphere, 0 (north) in the southern one.
func (l Location) DefaultAzimuth() float64 {
	if l.Lat >= 0 {
		return 180
	}
	return 0
}

// SystemConfig describes the simulated PV array.
type SystemConfig struct {
	CapacityKW    float64    `json:"capacityKW"`
	TiltDeg       float64    `json:"tiltDeg"`
	AzimuthDeg    float64    `json:"azimuthDeg"`
	ModuleType    ModuleType `json:"moduleType"`
	LossesPercent float64    `json:"lossesPercent"`
}

// SystemOptions carries caller input before defaults are applied.
// Nil pointers and empty strings mean "use the default".
type SystemOptions struct {
	CapacityKW    float64
	TiltDeg       *float64
	AzimuthDeg    *float64
	ModuleType    ModuleType
	LossesPercent *float64
}

// DefaultLossesPercent is the system loss assumed when the caller gives none.
const DefaultLossesPercent = 14

// NewSystemConfig fills in defaults: tilt = |lat|, azimuth = 180, standard modules, 14% losses.
func NewSystemConfig(loc Location, opts SystemOptions) SystemConfig {
	cfg := SystemConfig{
		CapacityKW:    opts.CapacityKW,
		TiltDeg:       absLat(loc.Lat),
		AzimuthDeg:    180,
		ModuleType:    ModuleStandard,
		LossesPercent: DefaultLossesPercent,
	}
	if opts.TiltDeg != nil {
		cfg.TiltDeg = *opts.TiltDeg
	}
	if opts.AzimuthDeg != nil {
		cfg.AzimuthDeg = *opts.AzimuthDeg
	}
	if opts.ModuleType != "" {
		cfg.ModuleType = opts.ModuleType
	}
	if opts.LossesPercent != nil {
		cfg.LossesPercent = *opts.LossesPercent
	}
	return cfg
}

// MonthlyAnnual is an annual figure plus its twelve monthly values.
type MonthlyAnnual struct {
	Annual  float64   `json:"annual"`
	Monthly []float64 `json:"monthly"`
}

// ResourceData is the normalized irradiance-provider response (kWh/m²/day).
type ResourceData struct {
	AvgGHI               MonthlyAnnual `json:"avgGHI"`
	AvgDNI               MonthlyAnnual `json:"avgDNI"`
	AvgLatTiltIrradiance MonthlyAnnual `json:"avgLatTilt"`
}

// PVOutput is the normalized simulation-provider response.
type PVOutput struct {
	ACAnnualKWh           int       `json:"acAnnualKWh"`
	CapacityFactor        float64   `json:"capacityFactor"`
	SolarRadiationAnnual  float64   `json:"solarRadiationAnnual"`
	ACMonthlyKWh          []int     `json:"acMonthlyKWh"`
	SolarRadiationMonthly []float64 `json:"solarRadiationMonthly"`
}

// StationInfo describes the weather station the simulation provider used, when reported.
type StationInfo struct {
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	DistanceM  float64 `json:"distanceM,omitempty"`
	WeatherSrc string  `json:"weatherDataSource,omitempty"`
}

// TiltCandidate is one point on the tilt/output curve explored during optimization.
type TiltCandidate struct {
	TiltDeg         float64 `json:"tiltDeg"`
	AnnualOutputKWh int     `json:"annualOutputKWh"`

	// rawOutput is the unrounded simulation output used for selection.
	rawOutput float64
}

// TheoreticalTilt holds latitude-based tilt rules of thumb (degrees, unclamped).
type TheoreticalTilt struct {
	Annual float64 `json:"annual"`
	Summer float64 `json:"summer"`
	Winter float64 `json:"winter"`
}

// ForecastDay summarizes one calendar day of the radiation forecast.
type ForecastDay struct {
	Date                  string  `json:"date"`
	PeakRadiationWm2      float64 `json:"peakRadiationWm2"`
	AvgRadiationWm2       int     `json:"avgRadiationWm2"`
	SunshineDurationHours float64 `json:"sunshineDurationHours"`
}

// HourlyRadiation is the unaggregated hourly forecast, passed through as received.
// Nil entries are provider gaps.
type HourlyRadiation struct {
	Time                   []string   `json:"time"`
	DirectRadiation        []*float64 `json:"directRadiation"`
	DiffuseRadiation       []*float64 `json:"diffuseRadiation"`
	DirectNormalIrradiance []*float64 `json:"directNormalIrradiance"`
	ShortwaveRadiation     []*float64 `json:"shortwaveRadiation"`
}

// NamedLocation is a comparison input; Name may be empty.
type NamedLocation struct {
	Name string  `json:"name,omitempty" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
}

// ComparisonEntry is one ranked site of a location comparison.
type ComparisonEntry struct {
	Name            string   `json:"name"`
	Location        Location `json:"location"`
	AnnualOutputKWh int      `json:"annualOutputKWh"`
	CapacityFactor  float64  `json:"capacityFactor"`
	AvgGHI          float64  `json:"avgGHI"`
	AvgDNI          float64  `json:"avgDNI"`
	Rank            int      `json:"rank"`
	VsTopPercent    int      `json:"vsTopPercent"`
}

// OutputRange is the spread of annual output across compared sites.
type OutputRange struct {
	Min        int `json:"min"`
	Max        int `json:"max"`
	Difference int `json:"difference"`
}

// Meta is attached to every operation result.
type Meta struct {
	FetchedAt  time.Time `json:"fetchedAt"`
	DataSource string    `json:"dataSource"`
}

func newMeta(now time.Time, sources ...string) Meta {
	return Meta{FetchedAt: now.UTC(), DataSource: strings.Join(sources, " + ")}
}

// Overview is the result of Service.Overview.
type Overview struct {
	Location           Location `json:"location"`
	AvgGHI             float64  `json:"avgGHI"`
	AvgDNI             float64  `json:"avgDNI"`
	AvgLatTilt         float64  `json:"avgLatTilt"`
	Rating             Rating   `json:"rating"`
	RecommendedTilt    float64  `json:"recommendedTilt"`
	RecommendedAzimuth float64  `json:"recommendedAzimuth"`
	Meta
}

// PVEstimate is the result of Service.PVEstimate.
type PVEstimate struct {
	Location Location     `json:"location"`
	System   SystemConfig `json:"system"`
	Output   PVOutput     `json:"output"`
	Station  *StationInfo `json:"station,omitempty"`
	Meta
}

// SolarResource is the result of Service.SolarResource.
type SolarResource struct {
	Location Location     `json:"location"`
	Resource ResourceData `json:"resource"`
	Rating   Rating       `json:"rating"`
	Meta
}

// RadiationForecast is the result of Service.RadiationForecast.
type RadiationForecast struct {
	Location     Location        `json:"location"`
	ForecastDays int             `json:"forecastDays"`
	Timezone     string          `json:"timezone"`
	Daily        []ForecastDay   `json:"daily"`
	Hourly       HourlyRadiation `json:"hourly"`
	Meta
}

// OptimalTilt is the result of Service.OptimalTilt.
type OptimalTilt struct {
	Location        Location        `json:"location"`
	CapacityKW      float64         `json:"capacityKW"`
	AzimuthDeg      float64         `json:"azimuthDeg"`
	Best            TiltCandidate   `json:"best"`
	Candidates      []TiltCandidate `json:"candidates"`
	SeasonalTilts   TheoreticalTilt `json:"seasonalTilts"`
	TheoreticalBest float64         `json:"theoreticalBest"`
	Meta
}

// Comparison is the result of Service.CompareLocations.
type Comparison struct {
	CapacityKW   float64           `json:"capacityKW"`
	Ranked       []ComparisonEntry `json:"ranked"`
	BestLocation string            `json:"bestLocation"`
	OutputRange  OutputRange       `json:"outputRange"`
	Meta
}
