// Package weather translates location queries into the simplified current,
// forecast, and alert shapes the dashboard renders. Provider failures never
// propagate past this package: current conditions and forecasts degrade to
// synthetic data, alerts to an empty list.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode"

	"weatherdash/internal/cache"
	"weatherdash/internal/config"
	"weatherdash/internal/owm"
)

const (
	kelvinOffset    = 273.15
	msToKmh         = 3.6
	forecastDays    = 5
	defaultLat      = 40.7128
	defaultLon      = -74.0060
	defaultLocation = "New York, New York, US"
)

type coordinates struct {
	Lat  float64
	Lon  float64
	Name string
}

type Service struct {
	client   *owm.Client
	geoCache *cache.Cache[coordinates]
	wxCache  *cache.Cache[owm.OneCallResponse]
}

func NewService(client *owm.Client, geoTTL, weatherTTL time.Duration) *Service {
	return &Service{
		client:   client,
		geoCache: cache.New[coordinates](geoTTL),
		wxCache:  cache.New[owm.OneCallResponse](weatherTTL),
	}
}

// Current returns current conditions for a location. On any provider failure
// it returns plausible synthetic data instead of an error.
func (s *Service) Current(ctx context.Context, loc config.Location) CurrentWeather {
	coords := s.resolve(ctx, loc)
	data, err := s.oneCall(ctx, coords)
	if err != nil {
		slog.Warn("current weather fallback", "location", loc.Key(), "error", err)
		return fallbackCurrent(loc)
	}

	cond := firstCondition(data.Current.Weather)
	return CurrentWeather{
		Location:     coords.Name,
		Temperature:  roundKelvin(data.Current.Temp),
		TemperatureF: kelvinToFahrenheit(data.Current.Temp),
		Condition:    condMain(cond),
		Summary:      capitalize(condDescription(cond)),
		Humidity:     data.Current.Humidity,
		WindSpeed:    int(math.Round(data.Current.WindSpeed * msToKmh)),
		Timestamp:    time.Now(),
	}
}

// Forecast returns the next five days. Falls back to synthetic data on
// provider failure.
func (s *Service) Forecast(ctx context.Context, loc config.Location) []ForecastDay {
	coords := s.resolve(ctx, loc)
	data, err := s.oneCall(ctx, coords)
	if err != nil {
		slog.Warn("forecast fallback", "location", loc.Key(), "error", err)
		return fallbackForecast()
	}

	days := data.Daily
	if len(days) > forecastDays {
		days = days[:forecastDays]
	}
	out := make([]ForecastDay, 0, len(days))
	for _, day := range days {
		cond := firstCondition(day.Weather)
		out = append(out, ForecastDay{
			Date:         time.Unix(day.Dt, 0).UTC().Format("2006-01-02"),
			TemperatureC: roundKelvin(day.Temp.Day),
			TemperatureF: kelvinToFahrenheit(day.Temp.Day),
			Summary:      capitalize(condDescription(cond)),
			Condition:    condMain(cond),
		})
	}
	return out
}

// Alerts returns active alerts. Unlike the other queries the degraded result
// is an empty list, not fabricated warnings.
func (s *Service) Alerts(ctx context.Context, loc config.Location) []Alert {
	coords := s.resolve(ctx, loc)
	data, err := s.oneCall(ctx, coords)
	if err != nil {
		slog.Warn("alerts unavailable", "location", loc.Key(), "error", err)
		return []Alert{}
	}

	out := make([]Alert, 0, len(data.Alerts))
	for _, a := range data.Alerts {
		out = append(out, Alert{
			Type:      a.Event,
			Message:   a.Description,
			Severity:  alertSeverity(a.Event),
			ExpiresAt: time.Unix(a.End, 0).UTC(),
		})
	}
	return out
}

// Refresh warms both cache namespaces for a tracked location.
func (s *Service) Refresh(ctx context.Context, loc config.Location) error {
	coords := s.resolve(ctx, loc)
	_, err := s.oneCall(ctx, coords)
	return err
}

// Diagnose makes one live provider call and reports configuration status.
// This is the only path that surfaces provider errors explicitly.
func (s *Service) Diagnose(ctx context.Context) Status {
	size, err := s.client.Ping(ctx, defaultLat, defaultLon)
	if err == nil {
		return Status{
			Status:       "ok",
			Message:      "OpenWeatherMap One Call API 3.0 is working correctly",
			APIKey:       s.client.MaskedKey(),
			TestLocation: "New York City",
			ResponseSize: size,
		}
	}

	st := Status{Status: "error", APIKey: s.client.MaskedKey(), Details: err.Error()}
	switch {
	case errors.Is(err, owm.ErrNotConfigured):
		st.Message = "OpenWeatherMap API key is not configured; set OPENWEATHER_API_KEY"
	case owm.StatusCode(err) == 401:
		st.Message = "Invalid API key or One Call API 3.0 not subscribed"
	case owm.StatusCode(err) == 403:
		st.Message = "One Call API 3.0 subscription required"
	default:
		st.Message = "Provider request failed"
	}
	return st
}

// resolve turns a location into coordinates via the geocoding cache. Failures
// resolve to the New York default so weather queries always have somewhere to
// point at.
func (s *Service) resolve(ctx context.Context, loc config.Location) coordinates {
	key := loc.Key()
	if c, ok := s.geoCache.Get(key); ok {
		return c
	}

	res, err := s.client.Geocode(ctx, loc.City, loc.State, loc.Country)
	if err != nil {
		if !errors.Is(err, owm.ErrNotConfigured) {
			slog.Warn("geocoding failed, using default coordinates", "location", key, "error", err)
		}
		return coordinates{Lat: defaultLat, Lon: defaultLon, Name: displayName(loc.City, loc.State, loc.Country)}
	}

	c := coordinates{Lat: res.Lat, Lon: res.Lon, Name: displayName(res.Name, res.State, res.Country)}
	s.geoCache.Set(key, c)
	return c
}

func (s *Service) oneCall(ctx context.Context, c coordinates) (owm.OneCallResponse, error) {
	key := fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
	if data, ok := s.wxCache.Get(key); ok {
		return data, nil
	}

	data, err := s.client.OneCall(ctx, c.Lat, c.Lon)
	if err != nil {
		return owm.OneCallResponse{}, err
	}
	s.wxCache.Set(key, data)
	return data, nil
}

func firstCondition(conds []owm.Condition) *owm.Condition {
	if len(conds) == 0 {
		return nil
	}
	return &conds[0]
}

func condMain(c *owm.Condition) string {
	if c == nil {
		return "Unknown"
	}
	return c.Main
}

func condDescription(c *owm.Condition) string {
	if c == nil {
		return "No description"
	}
	return c.Description
}

func roundKelvin(k float64) int {
	return int(math.Round(k - kelvinOffset))
}

// kelvinToFahrenheit converts from the raw Kelvin reading in one step.
// Deriving F from the rounded Celsius value would drift by a degree at
// half-degree boundaries.
func kelvinToFahrenheit(k float64) int {
	return int(math.Round((k-kelvinOffset)*9.0/5.0 + 32))
}

// celsiusToFahrenheit serves the synthetic fallback, where Celsius is the
// source value and no Kelvin reading exists.
func celsiusToFahrenheit(c int) int {
	return int(math.Round(float64(c)*9.0/5.0)) + 32
}

// alertSeverity maps provider event names onto the 1-3 scale.
func alertSeverity(event string) int {
	e := strings.ToLower(event)
	switch {
	case strings.Contains(e, "tornado") || strings.Contains(e, "hurricane"):
		return 3
	case strings.Contains(e, "severe") || strings.Contains(e, "warning"):
		return 2
	default:
		return 1
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func displayName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
