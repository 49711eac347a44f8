package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPreferences(t *testing.T) {
	s, _, _ := newTestStore(t)

	p := s.Preferences()
	require.Equal(t, UnitFahrenheit, p.TemperatureUnit)
	require.True(t, p.LocationOverride.Enabled)
	require.Equal(t, "Pittsburgh", p.LocationOverride.City)
	require.NotEmpty(t, p.Version)
}

func TestUpdatePreferencesPartial(t *testing.T) {
	s, docs, _ := newTestStore(t)

	unit := UnitCelsius
	p := s.UpdatePreferences(context.Background(), PreferencesUpdate{TemperatureUnit: &unit})
	require.Equal(t, UnitCelsius, p.TemperatureUnit)
	// Untouched fields survive.
	require.Equal(t, "Pittsburgh", p.LocationOverride.City)
	require.Equal(t, 1, docs.putCount("weather-dashboard-preferences"))

	over := LocationOverride{Enabled: false, City: "Boston", State: "Massachusetts", Country: "US"}
	p = s.UpdatePreferences(context.Background(), PreferencesUpdate{LocationOverride: &over})
	require.Equal(t, UnitCelsius, p.TemperatureUnit)
	require.Equal(t, "Boston", p.LocationOverride.City)
}

func TestResetPreferences(t *testing.T) {
	s, _, _ := newTestStore(t)
	unit := UnitCelsius
	s.UpdatePreferences(context.Background(), PreferencesUpdate{TemperatureUnit: &unit})

	p := s.ResetPreferences(context.Background())
	require.Equal(t, DefaultPreferences(), p)
}

func TestPreferencesExportImportRoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)
	unit := UnitCelsius
	want := s.UpdatePreferences(context.Background(), PreferencesUpdate{TemperatureUnit: &unit})

	exported, err := s.ExportPreferences()
	require.NoError(t, err)

	s.ResetPreferences(context.Background())
	require.True(t, s.ImportPreferences(context.Background(), exported))
	require.Equal(t, want, s.Preferences())
}

func TestImportPreferencesRejectsInvalid(t *testing.T) {
	s, _, _ := newTestStore(t)
	before := s.Preferences()

	cases := []string{
		"garbage",
		`{"temperatureUnit":"kelvin","locationOverride":{},"version":"1.0"}`,
		`{"temperatureUnit":"celsius","locationOverride":{}}`,
	}
	for _, data := range cases {
		require.False(t, s.ImportPreferences(context.Background(), data), data)
	}
	require.Equal(t, before, s.Preferences())
}

func TestPreferencesSurviveReload(t *testing.T) {
	docs := newFakeDocs()
	s := NewStore(docs, &recorder{})
	s.Load(context.Background())

	unit := UnitCelsius
	s.UpdatePreferences(context.Background(), PreferencesUpdate{TemperatureUnit: &unit})

	s2 := NewStore(docs, &recorder{})
	s2.Load(context.Background())
	require.Equal(t, UnitCelsius, s2.Preferences().TemperatureUnit)
}
