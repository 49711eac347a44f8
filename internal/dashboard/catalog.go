package dashboard

// WidgetType enumerates the widget kinds the dashboard can place.
type WidgetType string

const (
	WidgetCurrentWeather   WidgetType = "current-weather"
	WidgetWeatherForecast  WidgetType = "weather-forecast"
	WidgetWeatherAlerts    WidgetType = "weather-alerts"
	WidgetTemperatureChart WidgetType = "temperature-chart"
	WidgetHumidityMeter    WidgetType = "humidity-meter"
	WidgetWindCompass      WidgetType = "wind-compass"
	WidgetUVIndex          WidgetType = "uv-index"
	WidgetAirPressure      WidgetType = "air-pressure"
	WidgetVisibility       WidgetType = "visibility"
	WidgetSunriseSunset    WidgetType = "sunrise-sunset"
)

type Size string

const (
	SizeSM Size = "sm"
	SizeMD Size = "md"
	SizeLG Size = "lg"
	SizeXL Size = "xl"
)

// DimensionsFor maps a size onto fixed pixel dimensions. Widget dimensions
// are always derived from this table at creation time, never chosen freely.
func DimensionsFor(size Size) Dimensions {
	switch size {
	case SizeSM:
		return Dimensions{Width: 200, Height: 150}
	case SizeMD:
		return Dimensions{Width: 300, Height: 200}
	case SizeLG:
		return Dimensions{Width: 400, Height: 300}
	case SizeXL:
		return Dimensions{Width: 600, Height: 400}
	default:
		return Dimensions{Width: 300, Height: 200}
	}
}

// WidgetConfig is a catalog entry describing an available widget kind.
type WidgetConfig struct {
	ID          string     `json:"id"`
	Type        WidgetType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Size        Size       `json:"size"`
	MinSize     Size       `json:"minSize"`
	MaxSize     Size       `json:"maxSize"`
}

// widgetConfigs is the build-time catalog. Entries are immutable; Catalog
// hands out copies.
var widgetConfigs = []WidgetConfig{
	{ID: "current-weather", Type: WidgetCurrentWeather, Title: "Current Weather",
		Description: "Real-time weather conditions", Icon: "current-weather",
		Size: SizeXL, MinSize: SizeMD, MaxSize: SizeXL},
	{ID: "weather-forecast", Type: WidgetWeatherForecast, Title: "5-Day Forecast",
		Description: "Extended weather forecast", Icon: "weather-forecast",
		Size: SizeXL, MinSize: SizeLG, MaxSize: SizeXL},
	{ID: "weather-alerts", Type: WidgetWeatherAlerts, Title: "Weather Alerts",
		Description: "Active weather warnings", Icon: "weather-alerts",
		Size: SizeMD, MinSize: SizeSM, MaxSize: SizeLG},
	{ID: "temperature-chart", Type: WidgetTemperatureChart, Title: "Temperature Trend",
		Description: "24-hour temperature chart", Icon: "temperature-chart",
		Size: SizeLG, MinSize: SizeMD, MaxSize: SizeXL},
	{ID: "humidity-meter", Type: WidgetHumidityMeter, Title: "Humidity",
		Description: "Current humidity level", Icon: "humidity-meter",
		Size: SizeSM, MinSize: SizeSM, MaxSize: SizeMD},
	{ID: "wind-compass", Type: WidgetWindCompass, Title: "Wind Direction",
		Description: "Wind speed and direction", Icon: "wind-compass",
		Size: SizeMD, MinSize: SizeSM, MaxSize: SizeLG},
	{ID: "uv-index", Type: WidgetUVIndex, Title: "UV Index",
		Description: "Current UV radiation level", Icon: "uv-index",
		Size: SizeSM, MinSize: SizeSM, MaxSize: SizeMD},
	{ID: "air-pressure", Type: WidgetAirPressure, Title: "Air Pressure",
		Description: "Atmospheric pressure", Icon: "air-pressure",
		Size: SizeSM, MinSize: SizeSM, MaxSize: SizeMD},
	{ID: "visibility", Type: WidgetVisibility, Title: "Visibility",
		Description: "Current visibility distance", Icon: "visibility",
		Size: SizeSM, MinSize: SizeSM, MaxSize: SizeMD},
	{ID: "sunrise-sunset", Type: WidgetSunriseSunset, Title: "Sun Times",
		Description: "Sunrise and sunset times", Icon: "sunrise-sunset",
		Size: SizeMD, MinSize: SizeSM, MaxSize: SizeLG},
}

// Catalog returns the available widget configurations.
func Catalog() []WidgetConfig {
	out := make([]WidgetConfig, len(widgetConfigs))
	copy(out, widgetConfigs)
	return out
}

// ConfigFor looks up the catalog entry for a widget type.
func ConfigFor(t WidgetType) (WidgetConfig, bool) {
	for _, c := range widgetConfigs {
		if c.Type == t {
			return c, true
		}
	}
	return WidgetConfig{}, false
}
