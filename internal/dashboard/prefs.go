package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// prefsVersion tags the persisted preferences blob so a future format change
// can migrate instead of misparse.
const prefsVersion = "1.0"

type TemperatureUnit string

const (
	UnitCelsius    TemperatureUnit = "celsius"
	UnitFahrenheit TemperatureUnit = "fahrenheit"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LocationOverride pins the dashboard to a fixed location instead of the
// server default.
type LocationOverride struct {
	Enabled     bool         `json:"enabled"`
	City        string       `json:"city"`
	State       string       `json:"state"`
	Country     string       `json:"country"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Preferences struct {
	TemperatureUnit  TemperatureUnit  `json:"temperatureUnit"`
	LocationOverride LocationOverride `json:"locationOverride"`
	Version          string           `json:"version"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		TemperatureUnit: UnitFahrenheit,
		LocationOverride: LocationOverride{
			Enabled: true,
			City:    "Pittsburgh",
			State:   "Pennsylvania",
			Country: "US",
		},
		Version: prefsVersion,
	}
}

// PreferencesUpdate carries a partial preferences mutation.
type PreferencesUpdate struct {
	TemperatureUnit  *TemperatureUnit  `json:"temperatureUnit,omitempty"`
	LocationOverride *LocationOverride `json:"locationOverride,omitempty"`
}

func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *Store) UpdatePreferences(ctx context.Context, u PreferencesUpdate) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.TemperatureUnit != nil {
		s.prefs.TemperatureUnit = *u.TemperatureUnit
	}
	if u.LocationOverride != nil {
		s.prefs.LocationOverride = *u.LocationOverride
	}
	s.prefs.Version = prefsVersion
	s.putDoc(ctx, prefsKey, s.prefs)
	return s.prefs
}

func (s *Store) ResetPreferences(ctx context.Context) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = DefaultPreferences()
	s.putDoc(ctx, prefsKey, s.prefs)
	return s.prefs
}

// ExportPreferences serializes preferences to indented JSON.
func (s *Store) ExportPreferences() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("exporting preferences: %w", err)
	}
	return string(buf), nil
}

// ImportPreferences accepts a serialized preferences blob. Unknown
// temperature units or a missing version reject the import.
func (s *Store) ImportPreferences(ctx context.Context, data string) bool {
	var p Preferences
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		slog.Error("rejected preferences import", "error", err)
		return false
	}
	if p.Version == "" || (p.TemperatureUnit != UnitCelsius && p.TemperatureUnit != UnitFahrenheit) {
		slog.Error("rejected preferences import", "reason", "missing version or invalid unit")
		return false
	}
	p.Version = prefsVersion

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
	s.putDoc(ctx, prefsKey, s.prefs)
	return true
}
