package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Location identifies a place the dashboard can show weather for.
type Location struct {
	City    string
	State   string
	Country string
}

func (l Location) Key() string {
	return strings.Join([]string{l.City, l.State, l.Country}, ",")
}

type Config struct {
	Port              string
	OpenWeatherAPIKey string

	// Cache expirations. Geocoding results are stable, so they live much
	// longer than weather payloads.
	WeatherCacheTTL time.Duration
	GeocodeCacheTTL time.Duration

	// Outbound HTTP timeouts.
	HTTPTimeout    time.Duration
	GeocodeTimeout time.Duration

	// SQLite file backing dashboard layouts and preferences.
	DBPath string

	// Background refresh of tracked locations.
	RefreshInterval time.Duration
	Locations       []Location
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// Load reads configuration from the environment with sensible defaults.
// A .env file is honored when present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	port := getenv("PORT", "")
	if port == "" {
		port = getenv("WEATHERDASH_PORT", "8098")
	}

	return Config{
		Port:              port,
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherCacheTTL:   getenvDuration("WEATHER_CACHE_TTL", 30*time.Minute),
		GeocodeCacheTTL:   getenvDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		HTTPTimeout:       getenvDuration("HTTP_TIMEOUT", 30*time.Second),
		GeocodeTimeout:    getenvDuration("GEOCODE_TIMEOUT", 10*time.Second),
		DBPath:            getenv("DB_PATH", "weatherdash.db"),
		RefreshInterval:   getenvDuration("REFRESH_INTERVAL", 15*time.Minute),
		Locations:         loadLocations(),
	}
}

// loadLocations parses comma-separated city/state/country lists. The lists
// are positional: entry i of each list describes location i. State may be
// left blank for any entry.
func loadLocations() []Location {
	cities := splitList(os.Getenv("TRACKED_CITIES"))
	if len(cities) == 0 {
		return nil
	}
	states := splitList(os.Getenv("TRACKED_STATES"))
	countries := splitList(os.Getenv("TRACKED_COUNTRIES"))

	locs := make([]Location, 0, len(cities))
	for i, city := range cities {
		loc := Location{City: city, Country: "US"}
		if i < len(states) {
			loc.State = states[i]
		}
		if i < len(countries) && countries[i] != "" {
			loc.Country = countries[i]
		}
		locs = append(locs, loc)
	}
	return locs
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
