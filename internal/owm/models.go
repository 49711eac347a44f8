package owm

// Typed views of the OpenWeatherMap One Call API 3.0 and Geocoding API
// payloads. Only fields the service reads are declared; unknown fields are
// ignored by the decoder. Temperatures arrive in Kelvin, wind speeds in m/s.

type OneCallResponse struct {
	Lat            float64     `json:"lat"`
	Lon            float64     `json:"lon"`
	Timezone       string      `json:"timezone"`
	TimezoneOffset int         `json:"timezone_offset"`
	Current        CurrentData `json:"current"`
	Hourly         []HourData  `json:"hourly"`
	Daily          []DayData   `json:"daily"`
	Alerts         []AlertData `json:"alerts,omitempty"`
}

type CurrentData struct {
	Dt         int64       `json:"dt"`
	Sunrise    int64       `json:"sunrise"`
	Sunset     int64       `json:"sunset"`
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	Pressure   int         `json:"pressure"`
	Humidity   int         `json:"humidity"`
	UVI        float64     `json:"uvi"`
	Clouds     int         `json:"clouds"`
	Visibility int         `json:"visibility"`
	WindSpeed  float64     `json:"wind_speed"`
	WindDeg    int         `json:"wind_deg"`
	Weather    []Condition `json:"weather"`
}

type HourData struct {
	Dt        int64       `json:"dt"`
	Temp      float64     `json:"temp"`
	Humidity  int         `json:"humidity"`
	WindSpeed float64     `json:"wind_speed"`
	Weather   []Condition `json:"weather"`
}

type DayData struct {
	Dt       int64       `json:"dt"`
	Temp     DayTemp     `json:"temp"`
	Humidity int         `json:"humidity"`
	Weather  []Condition `json:"weather"`
}

type DayTemp struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type AlertData struct {
	SenderName  string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type GeocodeResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
}
