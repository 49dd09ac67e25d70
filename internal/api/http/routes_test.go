package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/solar-potential/internal/solar"
)

type stubResource struct {
	calls atomic.Int32
	err   error
}

func (s *stubResource) Name() string { return solar.ProviderSolarResource }

func (s *stubResource) FetchResource(ctx context.Context, loc solar.Location) (solar.ResourceResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return solar.ResourceResponse{}, s.err
	}
	var r solar.ResourceResponse
	err := json.Unmarshal([]byte(`{"outputs":{
		"avg_ghi":{"annual":5.6,"monthly":[1,2,3,4,5,6,7,8,9,10,11,12]},
		"avg_dni":{"annual":6.1,"monthly":[1,2,3,4,5,6,7,8,9,10,11,12]},
		"avg_lat_tilt":{"annual":6.0,"monthly":[1,2,3,4,5,6,7,8,9,10,11,12]}}}`), &r)
	return r, err
}

type stubPV struct {
	calls atomic.Int32
	err   error
}

func (s *stubPV) Name() string { return solar.ProviderPVWatts }

func (s *stubPV) Simulate(ctx context.Context, loc solar.Location, sys solar.SystemConfig) (solar.PVWattsResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return solar.PVWattsResponse{}, s.err
	}
	var r solar.PVWattsResponse
	err := json.Unmarshal([]byte(`{"outputs":{"ac_annual":1500.4,"capacity_factor":17.123,"solrad_annual":5.456,
		"ac_monthly":[100,110,120,130,140,150,150,140,130,120,110,100],
		"solrad_monthly":[4,4,5,5,6,6,6,6,5,5,4,4]}}`), &r)
	return r, err
}

type stubForecast struct {
	calls atomic.Int32
}

func (s *stubForecast) Name() string { return solar.ProviderOpenMeteo }

func (s *stubForecast) FetchForecast(ctx context.Context, loc solar.Location, days int) (solar.ForecastResponse, error) {
	s.calls.Add(1)
	return solar.ForecastResponse{}, nil
}

// TestForecastDaysValidation verifies that the forecast endpoint enforces the
// 1-16 range for the `days` query parameter before any provider call.
func TestForecastDaysValidation(t *testing.T) {
	fc := &stubForecast{}
	app := NewApp(solar.NewService(&stubResource{}, &stubPV{}, fc))

	for _, path := range []string{
		"/api/v1/solar/forecast?lat=40&lon=-105&days=17",
		"/api/v1/solar/forecast?lat=40&lon=-105&days=0",
		"/api/v1/solar/forecast?lat=40&lon=-105&days=abc",
		"/api/v1/solar/forecast?lon=-105&days=3",
		"/api/v1/solar/forecast?lat=91&lon=-105&days=3",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
	assert.Zero(t, fc.calls.Load())
}

func TestOverviewReturnsRating(t *testing.T) {
	app := NewApp(solar.NewService(&stubResource{}, &stubPV{}, &stubForecast{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/solar/overview?lat=-33.9&lon=18.4", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body solar.Overview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, solar.RatingExcellent, body.Rating)
	assert.Equal(t, float64(0), body.RecommendedAzimuth)
	assert.Equal(t, float64(31), body.RecommendedTilt)
	assert.Equal(t, solar.SourceSolarResource, body.DataSource)
	assert.False(t, body.FetchedAt.IsZero())
}

func TestPVEstimateAppliesDefaults(t *testing.T) {
	app := NewApp(solar.NewService(&stubResource{}, &stubPV{}, &stubForecast{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/solar/pv-estimate?lat=40&lon=-105&capacity=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body solar.PVEstimate
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(40), body.System.TiltDeg)
	assert.Equal(t, float64(180), body.System.AzimuthDeg)
	assert.Equal(t, solar.ModuleStandard, body.System.ModuleType)
	assert.Equal(t, float64(14), body.System.LossesPercent)
	assert.Equal(t, 1500, body.Output.ACAnnualKWh)
	assert.Equal(t, 17.12, body.Output.CapacityFactor)
}

func TestPVEstimateRejectsBadModule(t *testing.T) {
	pv := &stubPV{}
	app := NewApp(solar.NewService(&stubResource{}, pv, &stubForecast{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/solar/pv-estimate?lat=40&lon=-105&capacity=5&module=bifacial", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, pv.calls.Load())
}

func TestCompareUpstreamFailureMapsToBadGateway(t *testing.T) {
	pv := &stubPV{err: &solar.Error{Kind: solar.KindUpstream, Provider: solar.ProviderPVWatts, StatusCode: 503}}
	app := NewApp(solar.NewService(&stubResource{}, pv, &stubForecast{}))

	body := `{"capacity":5,"locations":[{"lat":10,"lon":0},{"name":"Denver","lat":39.7,"lon":-105}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solar/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "upstream", out["kind"])
	assert.Equal(t, float64(503), out["upstreamStatus"])
	assert.NotEmpty(t, out["requestId"])
}

func TestCompareRejectsTooManyLocations(t *testing.T) {
	pv := &stubPV{}
	app := NewApp(solar.NewService(&stubResource{}, pv, &stubForecast{}))

	body := `{"capacity":5,"locations":[{"lat":1,"lon":0},{"lat":2,"lon":0},{"lat":3,"lon":0},{"lat":4,"lon":0},{"lat":5,"lon":0},{"lat":6,"lon":0}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solar/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, pv.calls.Load())
}

func TestCompareRejectsSiteWithoutCoordinates(t *testing.T) {
	for _, body := range []string{
		`{"capacity":5,"locations":[{"name":"Denver","lat":39.7},{"lat":10,"lon":0}]}`,
		`{"capacity":5,"locations":[{"lon":-105},{"lat":10,"lon":0}]}`,
		`{"capacity":5,"locations":[{"name":"nowhere"},{"lat":10,"lon":0}]}`,
	} {
		pv := &stubPV{}
		res := &stubResource{}
		app := NewApp(solar.NewService(res, pv, &stubForecast{}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/solar/compare", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Zero(t, pv.calls.Load())
		assert.Zero(t, res.calls.Load())
	}
}

func TestCompareAcceptsEquatorAndPrimeMeridian(t *testing.T) {
	app := NewApp(solar.NewService(&stubResource{}, &stubPV{}, &stubForecast{}))

	body := `{"capacity":5,"locations":[{"name":"Null Island","lat":0,"lon":0},{"lat":10,"lon":0}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solar/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out solar.Comparison
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Ranked, 2)
	assert.Equal(t, "Null Island", out.Ranked[0].Name)
}

func TestTimeoutMapsToGatewayTimeout(t *testing.T) {
	res := &stubResource{err: &solar.Error{Kind: solar.KindTimeout, Provider: solar.ProviderSolarResource}}
	app := NewApp(solar.NewService(res, &stubPV{}, &stubForecast{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/solar/resource?lat=40&lon=-105", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

func TestHealthWithoutProbesIsUnknown(t *testing.T) {
	app := NewApp(solar.NewService(&stubResource{}, &stubPV{}, &stubForecast{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Status    string `json:"status"`
		Providers map[string]struct {
			Status string `json:"status"`
		} `json:"providers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out.Status)
	assert.Len(t, out.Providers, 3)
	assert.Equal(t, "unknown", out.Providers[solar.ProviderPVWatts].Status)
}
