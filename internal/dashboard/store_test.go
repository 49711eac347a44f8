package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDocs is an in-memory DocStore recording every write.
type fakeDocs struct {
	mu     sync.Mutex
	docs   map[string][]byte
	puts   []string
	getErr error
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: make(map[string][]byte)}
}

func (f *fakeDocs) Put(_ context.Context, key string, doc any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	f.docs[key] = buf
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeDocs) Get(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return false, f.getErr
	}
	buf, ok := f.docs[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(buf, dst)
}

func (f *fakeDocs) seed(t *testing.T, key string, doc any) {
	t.Helper()
	buf, err := json.Marshal(doc)
	require.NoError(t, err)
	f.docs[key] = buf
}

func (f *fakeDocs) putCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, k := range f.puts {
		if k == key {
			n++
		}
	}
	return n
}

// recorder captures notifications for assertions.
type recorder struct {
	successes, infos, errors []string
}

func (r *recorder) Success(msg string) { r.successes = append(r.successes, msg) }
func (r *recorder) Info(msg string)    { r.infos = append(r.infos, msg) }
func (r *recorder) Error(msg string)   { r.errors = append(r.errors, msg) }

func newTestStore(t *testing.T) (*Store, *fakeDocs, *recorder) {
	t.Helper()
	docs := newFakeDocs()
	rec := &recorder{}
	s := NewStore(docs, rec)
	s.Load(context.Background())
	return s, docs, rec
}

func TestAddWidgetKnownType(t *testing.T) {
	s, _, rec := newTestStore(t)
	before := len(s.CurrentLayout().Widgets)

	w, ok := s.AddWidget(context.Background(), WidgetHumidityMeter, &Position{X: 10, Y: 20})
	require.True(t, ok)

	layout := s.CurrentLayout()
	require.Len(t, layout.Widgets, before+1)
	require.Equal(t, "Humidity", w.Title)
	require.Equal(t, SizeSM, w.Size)
	require.Equal(t, DimensionsFor(SizeSM), w.Dimensions)
	require.Equal(t, Dimensions{Width: 200, Height: 150}, w.Dimensions)
	require.Equal(t, Position{X: 10, Y: 20}, w.Position)
	require.True(t, w.Visible)
	require.NotEmpty(t, rec.successes)
}

func TestAddWidgetDimensionsFollowSizeTable(t *testing.T) {
	s, _, _ := newTestStore(t)
	cases := map[WidgetType]Dimensions{
		WidgetHumidityMeter:    {Width: 200, Height: 150},
		WidgetWindCompass:      {Width: 300, Height: 200},
		WidgetTemperatureChart: {Width: 400, Height: 300},
		WidgetCurrentWeather:   {Width: 600, Height: 400},
	}
	for typ, want := range cases {
		w, ok := s.AddWidget(context.Background(), typ, nil)
		require.True(t, ok, string(typ))
		require.Equal(t, want, w.Dimensions, string(typ))
	}
}

func TestAddWidgetUnknownType(t *testing.T) {
	s, docs, _ := newTestStore(t)
	before := len(s.CurrentLayout().Widgets)
	puts := docs.putCount("weather-dashboard-layout")

	_, ok := s.AddWidget(context.Background(), WidgetType("volcano-tracker"), nil)
	require.False(t, ok)
	require.Len(t, s.CurrentLayout().Widgets, before)
	require.Equal(t, puts, docs.putCount("weather-dashboard-layout"))
}

func TestRemoveWidget(t *testing.T) {
	s, _, rec := newTestStore(t)
	w, _ := s.AddWidget(context.Background(), WidgetUVIndex, nil)

	s.RemoveWidget(context.Background(), w.ID)

	for _, got := range s.CurrentLayout().Widgets {
		require.NotEqual(t, w.ID, got.ID)
	}
	require.Contains(t, rec.infos[len(rec.infos)-1], "UV Index")
}

func TestRemoveMissingWidgetIsNoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	before := len(s.CurrentLayout().Widgets)

	s.RemoveWidget(context.Background(), "nope")
	require.Len(t, s.CurrentLayout().Widgets, before)
}

func TestUpdateMoveResize(t *testing.T) {
	s, _, _ := newTestStore(t)
	w, _ := s.AddWidget(context.Background(), WidgetWindCompass, nil)

	moved, ok := s.MoveWidget(context.Background(), w.ID, Position{X: 5, Y: 7})
	require.True(t, ok)
	require.Equal(t, Position{X: 5, Y: 7}, moved.Position)

	resized, ok := s.ResizeWidget(context.Background(), w.ID, Dimensions{Width: 350, Height: 220})
	require.True(t, ok)
	require.Equal(t, Dimensions{Width: 350, Height: 220}, resized.Dimensions)
	require.False(t, resized.LastUpdated.Before(moved.LastUpdated))

	_, ok = s.UpdateWidget(context.Background(), "nope", WidgetUpdate{})
	require.False(t, ok)
}

func TestImportRejectsMalformed(t *testing.T) {
	s, _, rec := newTestStore(t)
	before := s.CurrentLayout()

	cases := []string{
		"not json at all",
		`{"name":"no id","widgets":[]}`,
		`{"id":"x","widgets":"not-a-list"}`,
		`{"id":"x"}`,
	}
	for _, data := range cases {
		require.False(t, s.ImportLayout(context.Background(), data), data)
	}

	require.Equal(t, before.ID, s.CurrentLayout().ID)
	require.Len(t, s.CurrentLayout().Widgets, len(before.Widgets))
	require.Len(t, rec.errors, len(cases))
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.AddWidget(context.Background(), WidgetWeatherForecast, &Position{X: 1, Y: 2})

	exported, err := s.ExportLayout()
	require.NoError(t, err)
	want := s.CurrentLayout()

	s.ResetLayout(context.Background())
	require.True(t, s.ImportLayout(context.Background(), exported))

	got := s.CurrentLayout()
	require.Equal(t, want.ID, got.ID)
	require.Len(t, got.Widgets, len(want.Widgets))
	for i := range want.Widgets {
		require.Equal(t, want.Widgets[i].ID, got.Widgets[i].ID)
		require.Equal(t, want.Widgets[i].Type, got.Widgets[i].Type)
		require.Equal(t, want.Widgets[i].Dimensions, got.Widgets[i].Dimensions)
	}
}

func TestResetLayout(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.AddWidget(context.Background(), WidgetAirPressure, nil)
	s.AddWidget(context.Background(), WidgetVisibility, nil)

	layout := s.ResetLayout(context.Background())
	require.Len(t, layout.Widgets, 1)
	require.Equal(t, WidgetCurrentWeather, layout.Widgets[0].Type)
	require.True(t, layout.Default)
}

func TestLoadRepairsEmptyNonDefaultLayout(t *testing.T) {
	docs := newFakeDocs()
	docs.seed(t, "weather-dashboard-layout", Layout{
		ID: "legacy", Name: "Legacy", Widgets: []Widget{}, Default: false,
	})

	s := NewStore(docs, &recorder{})
	s.Load(context.Background())

	layout := s.CurrentLayout()
	require.Equal(t, "legacy", layout.ID)
	require.Len(t, layout.Widgets, 1)
	require.Equal(t, WidgetCurrentWeather, layout.Widgets[0].Type)

	// Repair is written back immediately.
	var stored Layout
	found, err := docs.Get(context.Background(), "weather-dashboard-layout", &stored)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, stored.Widgets, 1)
}

func TestLoadCorruptFallsBackToDefault(t *testing.T) {
	docs := newFakeDocs()
	docs.getErr = errors.New("blob corrupt")

	s := NewStore(docs, &recorder{})
	s.Load(context.Background())

	layout := s.CurrentLayout()
	require.Equal(t, "default", layout.ID)
	require.Len(t, layout.Widgets, 1)
}

func TestWritesSuppressedUntilLoaded(t *testing.T) {
	docs := newFakeDocs()
	s := NewStore(docs, &recorder{})

	s.AddWidget(context.Background(), WidgetUVIndex, nil)
	require.Equal(t, 0, docs.putCount("weather-dashboard-layout"))

	s.Load(context.Background())
	loads := docs.putCount("weather-dashboard-layout")

	s.AddWidget(context.Background(), WidgetUVIndex, nil)
	require.Equal(t, loads+1, docs.putCount("weather-dashboard-layout"))
}

func TestSaveAndLoadLayout(t *testing.T) {
	s, docs, _ := newTestStore(t)
	s.AddWidget(context.Background(), WidgetSunriseSunset, nil)

	saved := s.SaveLayout(context.Background(), "evening")
	require.Equal(t, "evening", saved.Name)
	require.False(t, saved.Default)
	require.NotEqual(t, s.CurrentLayout().ID, "")
	require.Equal(t, 1, docs.putCount("weather-dashboard-layouts"))

	// Mutate current, then load the snapshot back wholesale.
	s.ResetLayout(context.Background())
	require.True(t, s.LoadLayout(context.Background(), saved.ID))

	layout := s.CurrentLayout()
	require.Equal(t, saved.ID, layout.ID)
	require.Len(t, layout.Widgets, len(saved.Widgets))
}

func TestLoadUnknownLayoutIsNoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	before := s.CurrentLayout()

	require.False(t, s.LoadLayout(context.Background(), "layout-missing"))
	require.Equal(t, before.ID, s.CurrentLayout().ID)
}

func TestToggleSidebar(t *testing.T) {
	s, _, _ := newTestStore(t)
	require.False(t, s.ToggleSidebar())
	require.True(t, s.ToggleSidebar())
}

func TestSavedLayoutIsDeepCopy(t *testing.T) {
	s, _, _ := newTestStore(t)
	w, _ := s.AddWidget(context.Background(), WidgetWeatherAlerts, nil)
	saved := s.SaveLayout(context.Background(), "snap")

	// Mutating the live widget must not leak into the saved snapshot.
	s.MoveWidget(context.Background(), w.ID, Position{X: 99, Y: 99})

	for _, l := range s.SavedLayouts() {
		if l.ID != saved.ID {
			continue
		}
		for _, sw := range l.Widgets {
			if sw.Type == WidgetWeatherAlerts {
				require.Equal(t, Position{X: 0, Y: 0}, sw.Position)
			}
		}
	}
}
