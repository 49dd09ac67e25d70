package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/solar-potential/internal/solar"
)

// DefaultOpenMeteoBaseURL is the root of the Open-Meteo API.
const DefaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1"

const (
	openMeteoHourly = "shortwave_radiation,direct_radiation,diffuse_radiation,direct_normal_irradiance"
	openMeteoDaily  = "sunshine_duration"
)

// OpenMeteoProvider implements the solar.ForecastProvider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string, timeout time.Duration) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:    solar.ProviderOpenMeteo,
		baseURL: baseURL + "/forecast",
		httpCfg: HTTPClientConfig{Client: client, Timeout: timeout},
		circuit: newCircuitBreaker(solar.ProviderOpenMeteo),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc solar.Location, days int) (solar.ForecastResponse, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(loc.Lat))
	values.Set("longitude", formatCoord(loc.Lon))
	values.Set("hourly", openMeteoHourly)
	values.Set("daily", openMeteoDaily)
	values.Set("forecast_days", strconv.Itoa(days))
	values.Set("timezone", "auto")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload solar.ForecastResponse
	if err := fetchJSON(ctx, p.httpCfg, p.circuit, p.name, u, &payload); err != nil {
		return solar.ForecastResponse{}, err
	}
	return payload, nil
}
