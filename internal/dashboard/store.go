// Package dashboard holds the widget layout state machine: the single source
// of truth for what is on the dashboard, mutated only through named actions
// and persisted after every mutation once initial hydration has completed.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Persisted document keys, carried over from the browser era of this app.
const (
	layoutKey  = "weather-dashboard-layout"
	layoutsKey = "weather-dashboard-layouts"
	prefsKey   = "weather-dashboard-preferences"
)

// DocStore persists JSON documents by key.
type DocStore interface {
	Put(ctx context.Context, key string, doc any) error
	Get(ctx context.Context, key string, dst any) (bool, error)
}

type Store struct {
	mu     sync.Mutex
	docs   DocStore
	notify Notifier

	state State
	prefs Preferences

	// Writes are suppressed until hydration completes so placeholder state
	// never clobbers freshly loaded data.
	loaded bool
}

func NewStore(docs DocStore, notify Notifier) *Store {
	if notify == nil {
		notify = LogNotifier{}
	}
	def := DefaultLayout()
	return &Store{
		docs:   docs,
		notify: notify,
		state: State{
			CurrentLayout:    def,
			AvailableWidgets: Catalog(),
			SavedLayouts:     []Layout{def},
			SidebarOpen:      true,
		},
		prefs: DefaultPreferences(),
	}
}

// Load hydrates state from the document store. Corrupt documents fall back
// to defaults silently; an empty widget list in a stored non-default layout
// is repaired once by inserting the default current-weather widget.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var layout Layout
	found, err := s.docs.Get(ctx, layoutKey, &layout)
	switch {
	case err != nil:
		slog.Error("failed to load dashboard layout, using default", "error", err)
		s.state.CurrentLayout = DefaultLayout()
		s.putDoc(ctx, layoutKey, s.state.CurrentLayout)
	case !found:
		s.state.CurrentLayout = DefaultLayout()
		s.putDoc(ctx, layoutKey, s.state.CurrentLayout)
	case len(layout.Widgets) == 0 && !layout.Default:
		// Legacy layouts could be stored with no widgets; repair once.
		layout.Widgets = []Widget{defaultWidget()}
		layout.UpdatedAt = time.Now()
		s.state.CurrentLayout = layout
		s.putDoc(ctx, layoutKey, layout)
		slog.Info("repaired empty stored layout with default widget", "layout", layout.ID)
	default:
		s.state.CurrentLayout = layout
	}

	var saved []Layout
	if found, err := s.docs.Get(ctx, layoutsKey, &saved); err != nil {
		slog.Error("failed to load saved layouts", "error", err)
	} else if found {
		s.state.SavedLayouts = saved
	}

	var prefs Preferences
	if found, err := s.docs.Get(ctx, prefsKey, &prefs); err != nil {
		slog.Error("failed to load preferences, using defaults", "error", err)
	} else if found && prefs.Version == prefsVersion {
		s.prefs = prefs
	}

	s.loaded = true
}

// State returns a deep snapshot of the dashboard state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.CurrentLayout = s.state.CurrentLayout.Clone()
	out.SavedLayouts = make([]Layout, len(s.state.SavedLayouts))
	for i, l := range s.state.SavedLayouts {
		out.SavedLayouts[i] = l.Clone()
	}
	return out
}

func (s *Store) CurrentLayout() Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentLayout.Clone()
}

func (s *Store) SavedLayouts() []Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Layout, len(s.state.SavedLayouts))
	for i, l := range s.state.SavedLayouts {
		out[i] = l.Clone()
	}
	return out
}

// AddWidget places a new widget of the given type. Unknown types are a
// logged no-op.
func (s *Store) AddWidget(ctx context.Context, t WidgetType, pos *Position) (Widget, bool) {
	cfg, ok := ConfigFor(t)
	if !ok {
		slog.Error("widget config not found", "type", string(t))
		return Widget{}, false
	}

	position := Position{}
	if pos != nil {
		position = *pos
	}
	w := Widget{
		ID:          newWidgetID(t),
		Type:        t,
		Title:       cfg.Title,
		Size:        cfg.Size,
		Position:    position,
		Dimensions:  DimensionsFor(cfg.Size),
		Props:       map[string]any{},
		Visible:     true,
		LastUpdated: time.Now(),
	}

	s.mu.Lock()
	s.state.CurrentLayout.Widgets = append(s.state.CurrentLayout.Widgets, w)
	s.state.CurrentLayout.UpdatedAt = time.Now()
	s.persistLayout(ctx)
	s.mu.Unlock()

	s.notify.Success(cfg.Title + " widget added to dashboard")
	return w, true
}

// RemoveWidget filters a widget out by id. Absent ids are a no-op, but a
// notification is still emitted.
func (s *Store) RemoveWidget(ctx context.Context, id string) {
	title := "Widget"

	s.mu.Lock()
	widgets := s.state.CurrentLayout.Widgets
	kept := widgets[:0:0]
	for _, w := range widgets {
		if w.ID == id {
			title = w.Title
			continue
		}
		kept = append(kept, w)
	}
	s.state.CurrentLayout.Widgets = kept
	s.state.CurrentLayout.UpdatedAt = time.Now()
	s.persistLayout(ctx)
	s.mu.Unlock()

	s.notify.Info(title + " removed from dashboard")
}

// UpdateWidget merges partial fields into the matching widget and refreshes
// its lastUpdated. Absent ids are a no-op.
func (s *Store) UpdateWidget(ctx context.Context, id string, u WidgetUpdate) (Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.CurrentLayout.Widgets {
		w := &s.state.CurrentLayout.Widgets[i]
		if w.ID != id {
			continue
		}
		if u.Title != nil {
			w.Title = *u.Title
		}
		if u.Size != nil {
			w.Size = *u.Size
		}
		if u.Position != nil {
			w.Position = *u.Position
		}
		if u.Dimensions != nil {
			w.Dimensions = *u.Dimensions
		}
		if u.Props != nil {
			w.Props = *u.Props
		}
		if u.Visible != nil {
			w.Visible = *u.Visible
		}
		w.LastUpdated = time.Now()
		s.state.CurrentLayout.UpdatedAt = time.Now()
		s.persistLayout(ctx)
		return *w, true
	}
	return Widget{}, false
}

func (s *Store) MoveWidget(ctx context.Context, id string, pos Position) (Widget, bool) {
	return s.UpdateWidget(ctx, id, WidgetUpdate{Position: &pos})
}

func (s *Store) ResizeWidget(ctx context.Context, id string, dims Dimensions) (Widget, bool) {
	return s.UpdateWidget(ctx, id, WidgetUpdate{Dimensions: &dims})
}

// ToggleSidebar flips the sidebar flag and returns the new value. The flag
// is ephemeral; it does not survive a restart.
func (s *Store) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SidebarOpen = !s.state.SidebarOpen
	return s.state.SidebarOpen
}

// SaveLayout deep-copies the current layout under a new id and name and
// appends it to the saved list, persisted under its own key.
func (s *Store) SaveLayout(ctx context.Context, name string) Layout {
	if name == "" {
		name = "Layout " + time.Now().Format("2006-01-02")
	}

	s.mu.Lock()
	saved := s.state.CurrentLayout.Clone()
	saved.ID = "layout-" + uuid.NewString()
	saved.Name = name
	saved.Default = false
	saved.UpdatedAt = time.Now()
	s.state.SavedLayouts = append(s.state.SavedLayouts, saved)
	s.putDoc(ctx, layoutsKey, s.state.SavedLayouts)
	s.mu.Unlock()

	s.notify.Success(fmt.Sprintf("Layout %q saved successfully", name))
	return saved
}

// LoadLayout replaces the current layout wholesale with a saved one. Unknown
// ids are a silent no-op.
func (s *Store) LoadLayout(ctx context.Context, id string) bool {
	s.mu.Lock()
	var loaded *Layout
	for i := range s.state.SavedLayouts {
		if s.state.SavedLayouts[i].ID == id {
			l := s.state.SavedLayouts[i].Clone()
			loaded = &l
			break
		}
	}
	if loaded == nil {
		s.mu.Unlock()
		return false
	}
	s.state.CurrentLayout = *loaded
	s.persistLayout(ctx)
	name := loaded.Name
	s.mu.Unlock()

	s.notify.Success(fmt.Sprintf("Layout %q loaded successfully", name))
	return true
}

// ResetLayout replaces the current layout with the built-in default.
func (s *Store) ResetLayout(ctx context.Context) Layout {
	s.mu.Lock()
	s.state.CurrentLayout = DefaultLayout()
	s.persistLayout(ctx)
	out := s.state.CurrentLayout.Clone()
	s.mu.Unlock()

	s.notify.Info("Dashboard reset to default layout")
	return out
}

// ExportLayout serializes the current layout to indented JSON.
func (s *Store) ExportLayout() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, err := json.MarshalIndent(s.state.CurrentLayout, "", "  ")
	if err != nil {
		return "", fmt.Errorf("exporting layout: %w", err)
	}
	return string(buf), nil
}

// ImportLayout parses and validates a serialized layout, replacing the
// current one on success. A layout is accepted only when it carries an id
// and an array-typed widgets field; anything else is rejected without
// touching state.
func (s *Store) ImportLayout(ctx context.Context, data string) bool {
	var probe struct {
		ID      string          `json:"id"`
		Widgets json.RawMessage `json:"widgets"`
	}
	var layout Layout
	if err := json.Unmarshal([]byte(data), &probe); err != nil ||
		probe.ID == "" || len(probe.Widgets) == 0 || probe.Widgets[0] != '[' {
		slog.Error("rejected layout import", "reason", "missing id or widgets array")
		s.notify.Error("Failed to import layout. Please check the format.")
		return false
	}
	if err := json.Unmarshal([]byte(data), &layout); err != nil {
		slog.Error("rejected layout import", "error", err)
		s.notify.Error("Failed to import layout. Please check the format.")
		return false
	}

	s.mu.Lock()
	s.state.CurrentLayout = layout
	s.persistLayout(ctx)
	s.mu.Unlock()

	s.notify.Success("Layout imported successfully")
	return true
}

// persistLayout writes the current layout if hydration has completed.
// Callers hold s.mu.
func (s *Store) persistLayout(ctx context.Context) {
	if !s.loaded {
		return
	}
	if err := s.docs.Put(ctx, layoutKey, s.state.CurrentLayout); err != nil {
		slog.Error("failed to persist dashboard layout", "error", err)
	}
}

// putDoc writes a document best-effort, used for the non-layout keys and for
// the hydration-time repairs that must write before loaded is set.
func (s *Store) putDoc(ctx context.Context, key string, doc any) {
	if err := s.docs.Put(ctx, key, doc); err != nil {
		slog.Error("failed to persist document", "key", key, "error", err)
	}
}
