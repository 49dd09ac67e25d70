package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/solar-potential/internal/solar"
)

// DefaultNRELBaseURL is the root of the NREL developer API.
const DefaultNRELBaseURL = "https://developer.nrel.gov/api"

// PVWatts request constants.
const (
	pvwattsArrayType = "1" // fixed, roof mounted
	pvwattsDataset   = "nsrdb"
)

// SolarResourceProvider implements solar.ResourceProvider for the NREL Solar Resource API.
type SolarResourceProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewSolarResourceProvider(client *http.Client, baseURL, apiKey string, timeout time.Duration) *SolarResourceProvider {
	if baseURL == "" {
		baseURL = DefaultNRELBaseURL
	}
	return &SolarResourceProvider{
		name:    solar.ProviderSolarResource,
		apiKey:  apiKey,
		baseURL: baseURL + "/solar/solar_resource/v1.json",
		httpCfg: HTTPClientConfig{Client: client, Timeout: timeout},
		circuit: newCircuitBreaker(solar.ProviderSolarResource),
	}
}

func (p *SolarResourceProvider) Name() string {
	return p.name
}

func (p *SolarResourceProvider) FetchResource(ctx context.Context, loc solar.Location) (solar.ResourceResponse, error) {
	if p.apiKey == "" {
		return solar.ResourceResponse{}, &solar.Error{Kind: solar.KindTransport, Provider: p.name, Err: fmt.Errorf("nrel api key is not configured")}
	}

	values := url.Values{}
	values.Set("api_key", p.apiKey)
	values.Set("lat", formatCoord(loc.Lat))
	values.Set("lon", formatCoord(loc.Lon))

	var payload solar.ResourceResponse
	if err := fetchJSON(ctx, p.httpCfg, p.circuit, p.name, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return solar.ResourceResponse{}, err
	}
	if len(payload.Errors) > 0 {
		return solar.ResourceResponse{}, solar.Malformed(p.name, "provider reported errors: %v", payload.Errors)
	}
	return payload, nil
}

// PVWattsProvider implements solar.PVProvider for NREL PVWatts v8.
type PVWattsProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewPVWattsProvider(client *http.Client, baseURL, apiKey string, timeout time.Duration) *PVWattsProvider {
	if baseURL == "" {
		baseURL = DefaultNRELBaseURL
	}
	return &PVWattsProvider{
		name:    solar.ProviderPVWatts,
		apiKey:  apiKey,
		baseURL: baseURL + "/pvwatts/v8.json",
		httpCfg: HTTPClientConfig{Client: client, Timeout: timeout},
		circuit: newCircuitBreaker(solar.ProviderPVWatts),
	}
}

func (p *PVWattsProvider) Name() string {
	return p.name
}

func (p *PVWattsProvider) Simulate(ctx context.Context, loc solar.Location, sys solar.SystemConfig) (solar.PVWattsResponse, error) {
	if p.apiKey == "" {
		return solar.PVWattsResponse{}, &solar.Error{Kind: solar.KindTransport, Provider: p.name, Err: fmt.Errorf("nrel api key is not configured")}
	}

	values := url.Values{}
	values.Set("api_key", p.apiKey)
	values.Set("system_capacity", formatNumber(sys.CapacityKW))
	values.Set("azimuth", formatNumber(sys.AzimuthDeg))
	values.Set("tilt", formatNumber(sys.TiltDeg))
	values.Set("array_type", pvwattsArrayType)
	values.Set("module_type", fmt.Sprintf("%d", sys.ModuleType.Code()))
	values.Set("losses", formatNumber(sys.LossesPercent))
	values.Set("dataset", pvwattsDataset)
	values.Set("lat", formatCoord(loc.Lat))
	values.Set("lon", formatCoord(loc.Lon))

	var payload solar.PVWattsResponse
	if err := fetchJSON(ctx, p.httpCfg, p.circuit, p.name, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return solar.PVWattsResponse{}, err
	}
	if len(payload.Errors) > 0 {
		return solar.PVWattsResponse{}, solar.Malformed(p.name, "provider reported errors: %v", payload.Errors)
	}
	return payload, nil
}
