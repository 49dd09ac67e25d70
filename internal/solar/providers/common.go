package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/solar-potential/internal/metrics"
	"github.com/i474232898/solar-potential/internal/solar"
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 512

// HTTPClientConfig bundles the HTTP client and the per-request deadline.
type HTTPClientConfig struct {
	Client  *http.Client
	Timeout time.Duration
}

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		IsSuccessful:  breakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("INFO: circuit %s: %s -> %s", name, from, to)
		},
	})
}

// breakerSuccess reports whether a request outcome leaves the provider's failure
// count alone. Caller cancellation and 4xx replies other than 429 say nothing
// about provider health.
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *solar.Error
	if errors.As(err, &se) && se.Kind == solar.KindUpstream {
		return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// fetchJSON issues one GET to rawURL and decodes a successful JSON body into out.
// The request is bounded by cfg.Timeout; the deadline timer is released on every path.
// Failures are *solar.Error values of kind timeout, upstream, transport or malformed.
// There are no retries.
func fetchJSON(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	provider string,
	rawURL string,
	out any,
) error {
	if cfg.Client == nil {
		return &solar.Error{Kind: solar.KindTransport, Provider: provider, Err: errNoHTTPClient}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &solar.Error{Kind: solar.KindTransport, Provider: provider, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	_, err = cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, classifyTransport(reqCtx, provider, execErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return nil, &solar.Error{
				Kind:       solar.KindUpstream,
				Provider:   provider,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("%s", strings.TrimSpace(string(body))),
			}
		}

		if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
			if reqCtx.Err() != nil {
				return nil, classifyTransport(reqCtx, provider, decErr)
			}
			return nil, &solar.Error{Kind: solar.KindMalformed, Provider: provider, Err: decErr}
		}
		return nil, nil
	})

	if err != nil && (errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)) {
		err = &solar.Error{Kind: solar.KindTransport, Provider: provider, Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
	}

	outcome := "ok"
	if err != nil {
		outcome = string(solar.KindOf(err))
	}
	metrics.ObserveProvider(provider, outcome, time.Since(start))
	return err
}

// classifyTransport separates deadline expiry from other network failures.
// Errors after caller cancellation always wrap context.Canceled.
func classifyTransport(ctx context.Context, provider string, err error) *solar.Error {
	if errors.Is(ctx.Err(), context.Canceled) && !errors.Is(err, context.Canceled) {
		err = fmt.Errorf("%w: %v", context.Canceled, err)
	}
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &solar.Error{Kind: solar.KindTimeout, Provider: provider, Err: err}
	}
	return &solar.Error{Kind: solar.KindTransport, Provider: provider, Err: err}
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// formatNumber renders v in its shortest form: 4, 0.05, 35.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
