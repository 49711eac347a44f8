package weather

import "time"

// Simplified shapes the dashboard consumes, insulating it from the provider
// schema. Temperatures are whole degrees, wind speed km/h.

type CurrentWeather struct {
	Location     string    `json:"location"`
	Temperature  int       `json:"temperature"`
	TemperatureF int       `json:"temperatureF"`
	Condition    string    `json:"condition"`
	Summary      string    `json:"summary"`
	Humidity     int       `json:"humidity"`
	WindSpeed    int       `json:"windSpeed"`
	Timestamp    time.Time `json:"timestamp"`
}

type ForecastDay struct {
	Date         string `json:"date"`
	TemperatureC int    `json:"temperatureC"`
	TemperatureF int    `json:"temperatureF"`
	Summary      string `json:"summary"`
	Condition    string `json:"condition"`
}

// Alert severity runs 1 (low) to 3 (high).
type Alert struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Severity  int       `json:"severity"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Status reports provider configuration health for the diagnostic endpoint.
type Status struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	APIKey       string `json:"apiKey"`
	TestLocation string `json:"testLocation,omitempty"`
	ResponseSize int    `json:"responseSize,omitempty"`
	Details      string `json:"details,omitempty"`
}
