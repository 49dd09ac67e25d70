package solar

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Provider names used in errors, metrics and health reporting.
const (
	ProviderSolarResource = "nrel-solar-resource"
	ProviderPVWatts       = "nrel-pvwatts"
	ProviderOpenMeteo     = "openmeteo"
)

var monthKeys = [MonthsPerYear]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// MonthlySeries decodes a monthly series given either as a JSON array or as an
// object keyed by three-letter month names.
type MonthlySeries []float64

func (m *MonthlySeries) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var byMonth map[string]float64
		if err := json.Unmarshal(b, &byMonth); err != nil {
			return err
		}
		out := make([]float64, 0, MonthsPerYear)
		for _, k := range monthKeys {
			v, ok := byMonth[k]
			if !ok {
				return fmt.Errorf("monthly series missing %q", k)
			}
			out = append(out, v)
		}
		*m = out
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	*m = arr
	return nil
}

// ResourceMetric is one irradiance metric of the resource payload. The provider
// sends the string "no data" outside its coverage; NoData records that.
type ResourceMetric struct {
	Annual  *float64      `json:"annual"`
	Monthly MonthlySeries `json:"monthly"`
	NoData  bool          `json:"-"`
}

func (r *ResourceMetric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		r.NoData = true
		return nil
	}
	type plain ResourceMetric
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = ResourceMetric(p)
	return nil
}

// ResourceResponse is the irradiance provider payload.
type ResourceResponse struct {
	Errors  []string `json:"errors"`
	Outputs *struct {
		AvgDNI     *ResourceMetric `json:"avg_dni"`
		AvgGHI     *ResourceMetric `json:"avg_ghi"`
		AvgLatTilt *ResourceMetric `json:"avg_lat_tilt"`
	} `json:"outputs"`
}

// PVWattsResponse is the simulation provider payload.
type PVWattsResponse struct {
	Errors  []string `json:"errors"`
	Outputs *struct {
		ACAnnual       *float64      `json:"ac_annual"`
		CapacityFactor *float64      `json:"capacity_factor"`
		SolradAnnual   *float64      `json:"solrad_annual"`
		ACMonthly      MonthlySeries `json:"ac_monthly"`
		SolradMonthly  MonthlySeries `json:"solrad_monthly"`
	} `json:"outputs"`
	StationInfo *struct {
		City              string  `json:"city"`
		State             string  `json:"state"`
		Distance          float64 `json:"distance"`
		WeatherDataSource string  `json:"weather_data_source"`
	} `json:"station_info"`
}

// ForecastResponse is the weather-forecast provider payload.
type ForecastResponse struct {
	Timezone string `json:"timezone"`
	Hourly   *struct {
		Time                   []string   `json:"time"`
		DirectRadiation        []*float64 `json:"direct_radiation"`
		DiffuseRadiation       []*float64 `json:"diffuse_radiation"`
		DirectNormalIrradiance []*float64 `json:"direct_normal_irradiance"`
		ShortwaveRadiation     []*float64 `json:"shortwave_radiation"`
	} `json:"hourly"`
	Daily *struct {
		Time             []string   `json:"time"`
		SunshineDuration []*float64 `json:"sunshine_duration"`
	} `json:"daily"`
}

// NormalizePVOutput maps a simulation payload to a PVOutput. Rounding happens here,
// at the output boundary. The unrounded annual output is returned alongside.
func NormalizePVOutput(raw PVWattsResponse) (PVOutput, float64, error) {
	o := raw.Outputs
	if o == nil {
		return PVOutput{}, 0, Malformed(ProviderPVWatts, "missing outputs")
	}
	if o.ACAnnual == nil || o.CapacityFactor == nil || o.SolradAnnual == nil {
		return PVOutput{}, 0, Malformed(ProviderPVWatts, "missing annual outputs")
	}
	if len(o.ACMonthly) != MonthsPerYear {
		return PVOutput{}, 0, Malformed(ProviderPVWatts, "ac_monthly has %d entries, want %d", len(o.ACMonthly), MonthsPerYear)
	}
	if len(o.SolradMonthly) != MonthsPerYear {
		return PVOutput{}, 0, Malformed(ProviderPVWatts, "solrad_monthly has %d entries, want %d", len(o.SolradMonthly), MonthsPerYear)
	}

	out := PVOutput{
		ACAnnualKWh:           roundInt(*o.ACAnnual),
		CapacityFactor:        roundPlaces(*o.CapacityFactor, 2),
		SolarRadiationAnnual:  roundPlaces(*o.SolradAnnual, 2),
		ACMonthlyKWh:          make([]int, MonthsPerYear),
		SolarRadiationMonthly: make([]float64, MonthsPerYear),
	}
	for i := 0; i < MonthsPerYear; i++ {
		out.ACMonthlyKWh[i] = roundInt(o.ACMonthly[i])
		out.SolarRadiationMonthly[i] = roundPlaces(o.SolradMonthly[i], 2)
	}
	return out, *o.ACAnnual, nil
}

// stationInfo returns the station metadata of a simulation payload, if any.
func stationInfo(raw PVWattsResponse) *StationInfo {
	s := raw.StationInfo
	if s == nil || (s.City == "" && s.State == "" && s.Distance == 0) {
		return nil
	}
	return &StationInfo{
		City:       s.City,
		State:      s.State,
		DistanceM:  s.Distance,
		WeatherSrc: s.WeatherDataSource,
	}
}

// NormalizeResource maps an irradiance payload to ResourceData. Metrics reported
// as "no data" become zero with twelve zero months.
func NormalizeResource(raw ResourceResponse) (ResourceData, error) {
	o := raw.Outputs
	if o == nil {
		return ResourceData{}, Malformed(ProviderSolarResource, "missing outputs")
	}
	ghi, err := normalizeMetric("avg_ghi", o.AvgGHI)
	if err != nil {
		return ResourceData{}, err
	}
	dni, err := normalizeMetric("avg_dni", o.AvgDNI)
	if err != nil {
		return ResourceData{}, err
	}
	tilt, err := normalizeMetric("avg_lat_tilt", o.AvgLatTilt)
	if err != nil {
		return ResourceData{}, err
	}
	return ResourceData{AvgGHI: ghi, AvgDNI: dni, AvgLatTiltIrradiance: tilt}, nil
}

func normalizeMetric(name string, m *ResourceMetric) (MonthlyAnnual, error) {
	if m == nil {
		return MonthlyAnnual{}, Malformed(ProviderSolarResource, "missing %s", name)
	}
	if m.NoData {
		return MonthlyAnnual{Monthly: make([]float64, MonthsPerYear)}, nil
	}
	if m.Annual == nil {
		return MonthlyAnnual{}, Malformed(ProviderSolarResource, "missing %s.annual", name)
	}
	if len(m.Monthly) != MonthsPerYear {
		return MonthlyAnnual{}, Malformed(ProviderSolarResource, "%s.monthly has %d entries, want %d", name, len(m.Monthly), MonthsPerYear)
	}
	monthly := make([]float64, MonthsPerYear)
	copy(monthly, m.Monthly)
	return MonthlyAnnual{Annual: *m.Annual, Monthly: monthly}, nil
}
