package solar

import (
	"context"
	"time"
)

// ResourceProvider fetches long-term irradiance averages for a location.
type ResourceProvider interface {
	Name() string
	FetchResource(ctx context.Context, loc Location) (ResourceResponse, error)
}

// PVProvider runs a PV output simulation for a system at a location.
type PVProvider interface {
	Name() string
	Simulate(ctx context.Context, loc Location, sys SystemConfig) (PVWattsResponse, error)
}

// ForecastProvider fetches an hourly radiation forecast.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, loc Location, days int) (ForecastResponse, error)
}

// ProbeResult records one health probe of a provider.
type ProbeResult struct {
	Provider  string        `json:"provider"`
	OK        bool          `json:"ok"`
	Kind      Kind          `json:"kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latencyNs"`
	CheckedAt time.Time     `json:"checkedAt"`
}

// ProbeStore is the contract the in-memory probe history must satisfy.
type ProbeStore interface {
	SaveProbe(result ProbeResult)
	GetLatest(provider string) (ProbeResult, error)
	GetRange(provider string, from, to time.Time) ([]ProbeResult, error)
}
