package models

// ForecastPeriod represents one entry of the upstream forecast feed,
// reduced to the fields the dashboard renders. Periods are built fresh on
// every fetch and never persisted.
type ForecastPeriod struct {
	Name             string `json:"name"`                  // label such as "Today" or "Tonight"
	Temperature      *int   `json:"temperature,omitempty"` // nil when the feed omits it
	TemperatureUnit  string `json:"temperatureUnit,omitempty"`
	ShortForecast    string `json:"shortForecast"`
	WindSpeed        string `json:"windSpeed"`
	DetailedForecast string `json:"detailedForecast"`
	Icon             string `json:"icon,omitempty"` // derived by the conditions classifier
}
