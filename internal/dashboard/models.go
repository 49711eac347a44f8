package dashboard

import (
	"time"

	"github.com/google/uuid"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Widget is a placed instance on the dashboard. It is owned by the layout
// containing it and destroyed with it.
type Widget struct {
	ID          string         `json:"id"`
	Type        WidgetType     `json:"type"`
	Title       string         `json:"title"`
	Size        Size           `json:"size"`
	Position    Position       `json:"position"`
	Dimensions  Dimensions     `json:"dimensions"`
	Props       map[string]any `json:"props,omitempty"`
	Visible     bool           `json:"isVisible"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// Layout is one named dashboard arrangement. Exactly one layout is current
// at a time; saved layouts replace it wholesale when loaded.
type Layout struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Widgets   []Widget  `json:"widgets"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Default   bool      `json:"isDefault"`
}

// Clone deep-copies the layout, including widget props.
func (l Layout) Clone() Layout {
	out := l
	out.Widgets = make([]Widget, len(l.Widgets))
	for i, w := range l.Widgets {
		cw := w
		if w.Props != nil {
			cw.Props = make(map[string]any, len(w.Props))
			for k, v := range w.Props {
				cw.Props[k] = v
			}
		}
		out.Widgets[i] = cw
	}
	return out
}

// newWidgetID generates a placed-widget id. The type prefix keeps ids
// readable; the uuid makes them collision-free under rapid creation.
func newWidgetID(t WidgetType) string {
	return string(t) + "-" + uuid.NewString()
}

// defaultWidget is the single full-width current-weather widget that seeds
// the default layout and repairs legacy empty layouts.
func defaultWidget() Widget {
	return Widget{
		ID:          "default-current-weather",
		Type:        WidgetCurrentWeather,
		Title:       "Current Weather",
		Size:        SizeXL,
		Position:    Position{X: 0, Y: 0},
		Dimensions:  DimensionsFor(SizeXL),
		Props:       map[string]any{},
		Visible:     true,
		LastUpdated: time.Now(),
	}
}

// DefaultLayout builds the built-in single-widget layout.
func DefaultLayout() Layout {
	now := time.Now()
	return Layout{
		ID:        "default",
		Name:      "Default Dashboard",
		Widgets:   []Widget{defaultWidget()},
		CreatedAt: now,
		UpdatedAt: now,
		Default:   true,
	}
}

// State is the root dashboard state, one instance per application lifetime.
type State struct {
	CurrentLayout    Layout         `json:"currentLayout"`
	AvailableWidgets []WidgetConfig `json:"availableWidgets"`
	SavedLayouts     []Layout       `json:"savedLayouts"`
	SidebarOpen      bool           `json:"sidebarOpen"`
}

// WidgetUpdate carries a partial widget mutation; nil fields are untouched.
type WidgetUpdate struct {
	Title      *string         `json:"title,omitempty"`
	Size       *Size           `json:"size,omitempty"`
	Position   *Position       `json:"position,omitempty"`
	Dimensions *Dimensions     `json:"dimensions,omitempty"`
	Props      *map[string]any `json:"props,omitempty"`
	Visible    *bool           `json:"isVisible,omitempty"`
}
