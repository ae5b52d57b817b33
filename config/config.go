// Package config holds the dashboard's deployment configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config represents the application configuration
type Config struct {
	// DataDir is where the persisted JSON files live.
	DataDir string `json:"dataDir"`

	// Fixed coordinate pair the forecast is fetched for.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Contact is embedded in the weather client's User-Agent, as
	// api.weather.gov requires of unauthenticated clients.
	Contact string `json:"contact"`

	// Periods is the default number of forecast periods to show.
	Periods int `json:"periods"`
}

// Default creates a default configuration: New York City, three forecast
// periods, data files in the current directory.
func Default() *Config {
	return &Config{
		DataDir:   ".",
		Latitude:  40.7128,
		Longitude: -74.0060,
		Contact:   "contact@example.com",
		Periods:   3,
	}
}

// Load reads configuration from a JSON file, then applies environment
// overrides (DASHBOARD_DATA_DIR, DASHBOARD_CONTACT). A missing file is not
// an error; the defaults apply.
func Load(filename string) (*Config, error) {
	config := Default()

	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if v := os.Getenv("DASHBOARD_DATA_DIR"); v != "" {
		config.DataDir = v
	}
	if v := os.Getenv("DASHBOARD_CONTACT"); v != "" {
		config.Contact = v
	}
	if config.Periods < 1 {
		config.Periods = Default().Periods
	}

	return config, nil
}
