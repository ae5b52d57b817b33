// Package conditions maps free-text forecast phrases to display icons.
package conditions

import "strings"

// Icon is the display icon for a forecast period.
type Icon string

// Display icons, dramatic edition.
const (
	IconStorm        Icon = "⛈️"
	IconTornado      Icon = "🌪️"
	IconSnow         Icon = "❄️"
	IconHail         Icon = "🧊"
	IconRain         Icon = "🌧️"
	IconFog          Icon = "🌫️"
	IconWind         Icon = "💨"
	IconCloud        Icon = "☁️"
	IconSun          Icon = "☀️"
	IconHeat         Icon = "🔥"
	IconCold         Icon = "🥶"
	IconPartlyCloudy Icon = "🌤️"
)

// Temperature thresholds in the unit the upstream feed reports, which is
// Fahrenheit for api.weather.gov. No unit normalization is attempted; a
// Celsius feed would misclassify.
const (
	hotSunThreshold = 85 // sunny reads as heat at or above this
	heatThreshold   = 90
	freezeThreshold = 32
)

// rule is one entry of the ordered decision table.
type rule struct {
	keywords []string
	icon     Icon
}

// rules are evaluated top to bottom against the lowercased phrase; the
// first keyword hit wins, so e.g. "Freezing Drizzle" is snow, not rain.
var rules = []rule{
	{[]string{"thunder", "t-storm", "storm"}, IconStorm},
	{[]string{"tornado"}, IconTornado},
	{[]string{"snow", "flurr", "sleet", "ice", "freezing"}, IconSnow},
	{[]string{"hail"}, IconHail},
	{[]string{"rain", "showers", "drizzle"}, IconRain},
	{[]string{"fog", "haze", "mist", "smoke"}, IconFog},
	{[]string{"wind", "breezy", "gust"}, IconWind},
	{[]string{"cloud", "overcast"}, IconCloud},
	{[]string{"sun", "clear", "fair"}, IconSun},
}

// Classify maps a short forecast phrase and an optional temperature to
// exactly one icon. Matching is case-insensitive substring matching, and a
// keyword match always beats the temperature fallbacks. Pure: no I/O, same
// inputs give the same icon.
func Classify(shortForecast string, temp *int) Icon {
	s := strings.ToLower(shortForecast)

	for _, r := range rules {
		for _, kw := range r.keywords {
			if !strings.Contains(s, kw) {
				continue
			}
			// Sunny skies read as heat when it is genuinely hot out.
			if r.icon == IconSun && temp != nil && *temp >= hotSunThreshold {
				return IconHeat
			}
			return r.icon
		}
	}

	// No keyword matched; let the temperature carry the drama.
	if temp != nil {
		if *temp <= freezeThreshold {
			return IconCold
		}
		if *temp >= heatThreshold {
			return IconHeat
		}
	}
	return IconPartlyCloudy
}
