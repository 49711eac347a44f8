// Package httpapi mounts the REST surface: the weather proxy endpoints under
// /api/weather and the dashboard layout endpoints under /api/dashboard.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"weatherdash/internal/config"
	"weatherdash/internal/dashboard"
	"weatherdash/internal/weather"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Server struct {
	weather *weather.Service
	store   *dashboard.Store
}

func NewServer(svc *weather.Service, store *dashboard.Store) *Server {
	return &Server{weather: svc, store: store}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/weather", func(r chi.Router) {
		r.Get("/current", s.handleCurrent)
		r.Get("/forecast", s.handleForecast)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/test", s.handleTest)
	})
	r.Route("/dashboard", func(r chi.Router) {
		s.registerDashboardRoutes(r)
	})
}

type jsonErr struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, jsonErr{Error: msg, Code: status})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// locationQuery binds the city/state/country query parameters shared by the
// weather endpoints. Country defaults to US, matching the original API.
type locationQuery struct {
	City    string `validate:"required"`
	State   string
	Country string `validate:"required"`
}

func parseLocationQuery(r *http.Request) (config.Location, error) {
	q := locationQuery{
		City:    strings.TrimSpace(r.URL.Query().Get("city")),
		State:   strings.TrimSpace(r.URL.Query().Get("state")),
		Country: strings.TrimSpace(r.URL.Query().Get("country")),
	}
	if q.Country == "" {
		q.Country = "US"
	}
	if err := validate.Struct(q); err != nil {
		return config.Location{}, err
	}
	return config.Location{City: q.City, State: q.State, Country: q.Country}, nil
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocationQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "city parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, s.weather.Current(r.Context(), loc))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocationQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "city parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, s.weather.Forecast(r.Context(), loc))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocationQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "city parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, s.weather.Alerts(r.Context(), loc))
}

// handleTest reports provider configuration status. This endpoint is the one
// place provider errors are surfaced instead of absorbed.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.weather.Diagnose(r.Context()))
}
