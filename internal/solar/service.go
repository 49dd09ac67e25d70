package solar

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/solar-potential/internal/metrics"
)

// Operation names used in errors, logs and metrics.
const (
	OpOverview          = "overview"
	OpPVEstimate        = "pv_estimate"
	OpSolarResource     = "solar_resource"
	OpRadiationForecast = "radiation_forecast"
	OpOptimalTilt       = "optimal_tilt"
	OpCompareLocations  = "compare_locations"
)

// Forecast horizon accepted by the forecast provider.
const (
	MinForecastDays = 1
	MaxForecastDays = 16
)

// Service orchestrates provider calls and the derived computations.
// Every operation is request-scoped; the service holds no per-request state.
type Service struct {
	resource ResourceProvider
	pv       PVProvider
	forecast ForecastProvider
	probes   ProbeStore

	probeLoc Location
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithProbeStore enables provider health probes recorded into store at loc.
func WithProbeStore(store ProbeStore, loc Location) Option {
	return func(s *Service) {
		s.probes = store
		s.probeLoc = loc
	}
}

// WithClock overrides the time source used for fetchedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service.
func NewService(resource ResourceProvider, pv PVProvider, forecast ForecastProvider, opts ...Option) *Service {
	s := &Service{
		resource: resource,
		pv:       pv,
		forecast: forecast,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview returns headline irradiance figures, a site rating and the recommended orientation.
func (s *Service) Overview(ctx context.Context, loc Location) (result Overview, err error) {
	defer s.observe(OpOverview, time.Now(), &err)

	data, err := s.fetchResource(ctx, loc)
	if err != nil {
		return Overview{}, withOp(OpOverview, err)
	}

	return Overview{
		Location:           loc,
		AvgGHI:             data.AvgGHI.Annual,
		AvgDNI:             data.AvgDNI.Annual,
		AvgLatTilt:         data.AvgLatTiltIrradiance.Annual,
		Rating:             RateIrradiance(data.AvgGHI.Annual),
		RecommendedTilt:    CalculateTheoreticalTilt(loc.Lat).Annual,
		RecommendedAzimuth: loc.DefaultAzimuth(),
		Meta:               newMeta(s.now(), SourceSolarResource),
	}, nil
}

// PVEstimate simulates annual and monthly output for sys at loc.
func (s *Service) PVEstimate(ctx context.Context, loc Location, sys SystemConfig) (result PVEstimate, err error) {
	defer s.observe(OpPVEstimate, time.Now(), &err)

	raw, err := s.pv.Simulate(ctx, loc, sys)
	if err != nil {
		return PVEstimate{}, withOp(OpPVEstimate, err)
	}
	out, _, err := NormalizePVOutput(raw)
	if err != nil {
		return PVEstimate{}, withOp(OpPVEstimate, err)
	}

	return PVEstimate{
		Location: loc,
		System:   sys,
		Output:   out,
		Station:  stationInfo(raw),
		Meta:     newMeta(s.now(), SourcePVWatts),
	}, nil
}

// SolarResource returns the full monthly irradiance profile for loc.
func (s *Service) SolarResource(ctx context.Context, loc Location) (result SolarResource, err error) {
	defer s.observe(OpSolarResource, time.Now(), &err)

	data, err := s.fetchResource(ctx, loc)
	if err != nil {
		return SolarResource{}, withOp(OpSolarResource, err)
	}

	return SolarResource{
		Location: loc,
		Resource: data,
		Rating:   RateIrradiance(data.AvgGHI.Annual),
		Meta:     newMeta(s.now(), SourceSolarResource),
	}, nil
}

// RadiationForecast returns hourly radiation and daily summaries for the next days.
func (s *Service) RadiationForecast(ctx context.Context, loc Location, days int) (result RadiationForecast, err error) {
	defer s.observe(OpRadiationForecast, time.Now(), &err)

	if days < MinForecastDays || days > MaxForecastDays {
		return RadiationForecast{}, withOp(OpRadiationForecast, InvalidInput("forecast days must be within [%d,%d], got %d", MinForecastDays, MaxForecastDays, days))
	}

	log.Printf("DEBUG: RadiationForecast called for %.4f,%.4f for %d days", loc.Lat, loc.Lon, days)

	raw, err := s.forecast.FetchForecast(ctx, loc, days)
	if err != nil {
		return RadiationForecast{}, withOp(OpRadiationForecast, err)
	}
	if err := checkForecast(raw); err != nil {
		return RadiationForecast{}, withOp(OpRadiationForecast, err)
	}
	h := raw.Hourly

	daily := AggregateForecastDays(days, h.Time, h.ShortwaveRadiation, raw.Daily.Time, raw.Daily.SunshineDuration)

	return RadiationForecast{
		Location:     loc,
		ForecastDays: days,
		Timezone:     raw.Timezone,
		Daily:        daily,
		Hourly: HourlyRadiation{
			Time:                   h.Time,
			DirectRadiation:        h.DirectRadiation,
			DiffuseRadiation:       h.DiffuseRadiation,
			DirectNormalIrradiance: h.DirectNormalIrradiance,
			ShortwaveRadiation:     h.ShortwaveRadiation,
		},
		Meta: newMeta(s.now(), SourceOpenMeteo),
	}, nil
}

// checkForecast rejects forecast payloads missing the series the daily summary is built from.
func checkForecast(raw ForecastResponse) error {
	if raw.Hourly == nil || raw.Daily == nil {
		return Malformed(ProviderOpenMeteo, "missing hourly or daily block")
	}
	h, d := raw.Hourly, raw.Daily
	if len(h.Time) == 0 {
		return Malformed(ProviderOpenMeteo, "hourly.time is empty")
	}
	if len(h.ShortwaveRadiation) != len(h.Time) {
		return Malformed(ProviderOpenMeteo, "shortwave_radiation has %d entries for %d timestamps", len(h.ShortwaveRadiation), len(h.Time))
	}
	if len(d.Time) == 0 {
		return Malformed(ProviderOpenMeteo, "daily.time is empty")
	}
	if len(d.SunshineDuration) != len(d.Time) {
		return Malformed(ProviderOpenMeteo, "sunshine_duration has %d entries for %d days", len(d.SunshineDuration), len(d.Time))
	}
	return nil
}

// OptimalTilt simulates three tilts around the latitude rule of thumb and returns the
// best one together with the whole comparison table. Azimuth faces the equator.
func (s *Service) OptimalTilt(ctx context.Context, loc Location, capacityKW float64) (result OptimalTilt, err error) {
	defer s.observe(OpOptimalTilt, time.Now(), &err)

	theoretical := CalculateTheoreticalTilt(loc.Lat)
	tilts := CandidateTilts(theoretical)
	azimuth := loc.DefaultAzimuth()

	candidates := make([]TiltCandidate, len(tilts))

	// All simulations are in flight before any is awaited. Any failure fails the
	// search; siblings run to completion and their results are dropped.
	var g errgroup.Group
	for i, tilt := range tilts {
		i, tilt := i, tilt
		g.Go(func() error {
			sys := NewSystemConfig(loc, SystemOptions{
				CapacityKW: capacityKW,
				TiltDeg:    &tilt,
				AzimuthDeg: &azimuth,
			})
			raw, err := s.pv.Simulate(ctx, loc, sys)
			if err != nil {
				return err
			}
			_, annual, err := NormalizePVOutput(raw)
			if err != nil {
				return err
			}
			candidates[i] = newTiltCandidate(tilt, annual)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return OptimalTilt{}, withOp(OpOptimalTilt, err)
	}

	return OptimalTilt{
		Location:        loc,
		CapacityKW:      capacityKW,
		AzimuthDeg:      azimuth,
		Best:            SelectBestTilt(candidates),
		Candidates:      candidates,
		SeasonalTilts:   theoretical,
		TheoreticalBest: theoretical.Annual,
		Meta:            newMeta(s.now(), SourcePVWatts),
	}, nil
}

// CompareLocations simulates the same system at each location and ranks them by output.
// Each location runs its simulation and resource lookup concurrently; any failure
// fails the whole comparison once every call has returned.
func (s *Service) CompareLocations(ctx context.Context, locations []NamedLocation, capacityKW float64) (result Comparison, err error) {
	defer s.observe(OpCompareLocations, time.Now(), &err)

	if n := len(locations); n < MinCompareLocations || n > MaxCompareLocations {
		return Comparison{}, withOp(OpCompareLocations, InvalidInput("need %d-%d locations, got %d", MinCompareLocations, MaxCompareLocations, n))
	}

	entries := make([]ComparisonEntry, len(locations))

	var g errgroup.Group
	for i, nl := range locations {
		i, nl := i, nl
		g.Go(func() error {
			entry, err := s.compareOne(ctx, nl, capacityKW)
			if err != nil {
				return err
			}
			entry.Name = LocationName(nl, i)
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Comparison{}, withOp(OpCompareLocations, err)
	}

	ranked := RankEntries(entries)
	return Comparison{
		CapacityKW:   capacityKW,
		Ranked:       ranked,
		BestLocation: ranked[0].Name,
		OutputRange:  RangeOf(ranked),
		Meta:         newMeta(s.now(), SourcePVWatts, SourceSolarResource),
	}, nil
}

func (s *Service) compareOne(ctx context.Context, nl NamedLocation, capacityKW float64) (ComparisonEntry, error) {
	loc := Location{Lat: nl.Lat, Lon: nl.Lon}
	tilt := absLat(loc.Lat)
	azimuth := loc.DefaultAzimuth()
	sys := NewSystemConfig(loc, SystemOptions{
		CapacityKW: capacityKW,
		TiltDeg:    &tilt,
		AzimuthDeg: &azimuth,
	})

	var (
		out      PVOutput
		resource ResourceData
	)

	var g errgroup.Group
	g.Go(func() error {
		raw, err := s.pv.Simulate(ctx, loc, sys)
		if err != nil {
			return err
		}
		out, _, err = NormalizePVOutput(raw)
		return err
	})
	g.Go(func() error {
		var err error
		resource, err = s.fetchResource(ctx, loc)
		return err
	})
	if err := g.Wait(); err != nil {
		return ComparisonEntry{}, err
	}

	return ComparisonEntry{
		Location:        loc,
		AnnualOutputKWh: out.ACAnnualKWh,
		CapacityFactor:  out.CapacityFactor,
		AvgGHI:          resource.AvgGHI.Annual,
		AvgDNI:          resource.AvgDNI.Annual,
	}, nil
}

func (s *Service) fetchResource(ctx context.Context, loc Location) (ResourceData, error) {
	raw, err := s.resource.FetchResource(ctx, loc)
	if err != nil {
		return ResourceData{}, err
	}
	return NormalizeResource(raw)
}

func (s *Service) observe(op string, start time.Time, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = string(KindOf(*err))
		log.Printf("ERROR: %s failed: %v", op, *err)
	}
	metrics.ObserveOperation(op, outcome, time.Since(start))
}

// ProbeProviders checks every provider concurrently at the configured probe location
// and records the results. Individual failures are recorded, not returned.
func (s *Service) ProbeProviders(ctx context.Context) []ProbeResult {
	type probe struct {
		name string
		call func(context.Context) error
	}

	capacity := 1.0
	probes := []probe{
		{s.resource.Name(), func(ctx context.Context) error {
			_, err := s.fetchResource(ctx, s.probeLoc)
			return err
		}},
		{s.pv.Name(), func(ctx context.Context) error {
			_, err := s.pv.Simulate(ctx, s.probeLoc, NewSystemConfig(s.probeLoc, SystemOptions{CapacityKW: capacity}))
			return err
		}},
		{s.forecast.Name(), func(ctx context.Context) error {
			_, err := s.forecast.FetchForecast(ctx, s.probeLoc, MinForecastDays)
			return err
		}},
	}

	results := make([]ProbeResult, len(probes))
	var wg sync.WaitGroup
	for i, p := range probes {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			err := p.call(ctx)
			r := ProbeResult{
				Provider:  p.name,
				OK:        err == nil,
				Latency:   time.Since(start),
				CheckedAt: s.now().UTC(),
			}
			if err != nil {
				r.Kind = KindOf(err)
				r.Error = err.Error()
				log.Printf("provider %s probe failed: %v", p.name, err)
			}
			results[i] = r
		}()
	}
	wg.Wait()

	for _, r := range results {
		metrics.SetProviderUp(r.Provider, r.OK)
		if s.probes != nil {
			s.probes.SaveProbe(r)
		}
	}
	return results
}

// ProviderNames lists the configured providers in a stable order.
func (s *Service) ProviderNames() []string {
	return []string{s.resource.Name(), s.pv.Name(), s.forecast.Name()}
}

// LatestProbe delegates to the underlying probe store.
func (s *Service) LatestProbe(provider string) (ProbeResult, error) {
	if s.probes == nil {
		return ProbeResult{}, ErrNoProbeStore
	}
	return s.probes.GetLatest(provider)
}

// ProbeHistory delegates to the underlying probe store.
func (s *Service) ProbeHistory(provider string, from, to time.Time) ([]ProbeResult, error) {
	if s.probes == nil {
		return nil, ErrNoProbeStore
	}
	return s.probes.GetRange(provider, from, to)
}
