package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrNotConfigured is returned when no usable API key is set.
	ErrNotConfigured = errors.New("openweathermap api key not configured")
	// ErrNoResults is returned when geocoding finds no match for a query.
	ErrNoResults = errors.New("no geocoding results")
)

// Placeholder keys shipped in sample configs count as unconfigured.
var placeholderKeys = map[string]bool{
	"":                                 true,
	"demo_key":                         true,
	"your_openweathermap_api_key_here": true,
}

type httpStatusError struct {
	status int
	body   string
}

func (e httpStatusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("API returned status %d", e.status)
	}
	return fmt.Sprintf("API returned status %d: %s", e.status, e.body)
}

// StatusCode extracts the HTTP status from an API error, or 0.
func StatusCode(err error) int {
	var se httpStatusError
	if errors.As(err, &se) {
		return se.status
	}
	return 0
}

// Backoff controls retry behaviour for provider calls.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type Options struct {
	Timeout        time.Duration
	GeocodeTimeout time.Duration
	Backoff        Backoff

	// Base URLs, overridable in tests. Geocoding is served from the plain
	// http host upstream.
	APIBase string
	GeoBase string
}

// Client talks to the OpenWeatherMap One Call API 3.0 and Geocoding API.
// Calls are wrapped in a circuit breaker with retried exponential backoff.
type Client struct {
	apiKey     string
	httpClient *http.Client
	geoClient  *http.Client
	apiBase    string
	geoBase    string
	backoff    Backoff
	breaker    *gobreaker.CircuitBreaker
}

func New(apiKey string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.GeocodeTimeout <= 0 {
		opts.GeocodeTimeout = 10 * time.Second
	}
	if opts.Backoff.MaxRetries <= 0 {
		opts.Backoff.MaxRetries = 3
	}
	if opts.Backoff.InitialInterval <= 0 {
		opts.Backoff.InitialInterval = time.Second
	}
	if opts.Backoff.MaxInterval <= 0 {
		opts.Backoff.MaxInterval = 30 * time.Second
	}
	if opts.APIBase == "" {
		opts.APIBase = "https://api.openweathermap.org"
	}
	if opts.GeoBase == "" {
		opts.GeoBase = "http://api.openweathermap.org"
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
		geoClient:  &http.Client{Timeout: opts.GeocodeTimeout},
		apiBase:    strings.TrimRight(opts.APIBase, "/"),
		geoBase:    strings.TrimRight(opts.GeoBase, "/"),
		backoff:    opts.Backoff,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "openweathermap",
			Timeout: time.Minute,
		}),
	}
}

// Configured reports whether a real API key is present.
func (c *Client) Configured() bool {
	return !placeholderKeys[c.apiKey]
}

// MaskedKey returns a prefix of the key safe to show in diagnostics.
func (c *Client) MaskedKey() string {
	if !c.Configured() {
		return "not configured"
	}
	n := len(c.apiKey)
	if n > 8 {
		n = 8
	}
	return c.apiKey[:n] + "..."
}

// Geocode resolves a city/state/country query to coordinates. The first
// match wins; ErrNoResults is returned when nothing matches.
func (c *Client) Geocode(ctx context.Context, city, state, country string) (GeocodeResult, error) {
	if !c.Configured() {
		return GeocodeResult{}, ErrNotConfigured
	}

	query := city + "," + country
	if state != "" {
		query = city + "," + state + "," + country
	}
	u := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s",
		c.geoBase, url.QueryEscape(query), c.apiKey)

	var results []GeocodeResult
	if err := c.fetchJSON(ctx, c.geoClient, u, &results); err != nil {
		return GeocodeResult{}, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if len(results) == 0 {
		return GeocodeResult{}, fmt.Errorf("geocoding %q: %w", query, ErrNoResults)
	}
	return results[0], nil
}

// OneCall fetches the combined current/hourly/daily/alerts payload.
func (c *Client) OneCall(ctx context.Context, lat, lon float64) (OneCallResponse, error) {
	if !c.Configured() {
		return OneCallResponse{}, ErrNotConfigured
	}

	u := fmt.Sprintf("%s/data/3.0/onecall?lat=%f&lon=%f&appid=%s&exclude=minutely",
		c.apiBase, lat, lon, c.apiKey)

	var resp OneCallResponse
	if err := c.fetchJSON(ctx, c.httpClient, u, &resp); err != nil {
		return OneCallResponse{}, fmt.Errorf("fetching one call data: %w", err)
	}
	return resp, nil
}

// Ping makes a single uncached One Call request for the test location and
// returns the payload size. No retries beyond the standard policy, no
// fallback: this backs the configuration diagnostic endpoint.
func (c *Client) Ping(ctx context.Context, lat, lon float64) (int, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}
	u := fmt.Sprintf("%s/data/3.0/onecall?lat=%f&lon=%f&appid=%s&exclude=minutely",
		c.apiBase, lat, lon, c.apiKey)

	var raw json.RawMessage
	if err := c.fetchJSON(ctx, c.httpClient, u, &raw); err != nil {
		return 0, err
	}
	return len(raw), nil
}

// fetchJSON executes a GET with retries, exponential backoff, and the
// circuit breaker, decoding a 200 response into dst. Client errors (4xx)
// are not retried; they will not succeed on a second attempt.
func (c *Client) fetchJSON(ctx context.Context, hc *http.Client, u string, dst any) error {
	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := c.breaker.Execute(func() (any, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("User-Agent", "weatherdash/1.0")

			resp, err := hc.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
				return nil, httpStatusError{status: resp.StatusCode, body: string(body)}
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}
			return body, nil
		})
		if err == nil {
			return json.Unmarshal(result.([]byte), dst)
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("circuit breaker open: %w", err)
		}
		if status := StatusCode(err); status >= 400 && status < 500 && status != http.StatusTooManyRequests {
			return err
		}
		if attempt >= c.backoff.MaxRetries {
			return err
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}
