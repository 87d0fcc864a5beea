package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP server port
	Port string `env:"PORT" envDefault:"5250"`

	// Path to the SQLite database file
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database/stayscout.db"`

	// Directory where uploaded listing images are stored
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	Session struct {
		// Secret used to sign session tokens
		Secret string `env:"SESSION_SECRET" envDefault:"development-secret-change-me"`

		// Session lifetime in hours
		TTLHours int `env:"SESSION_TTL_HOURS" envDefault:"168"`
	}

	Geocoder struct {
		// Base URL of the place-search endpoint
		BaseURL string `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org/search"`

		// Client identifier sent with every geocoding request
		UserAgent string `env:"GEOCODER_USER_AGENT" envDefault:"StayScout/1.0"`

		// Request timeout in seconds
		TimeoutSeconds int `env:"GEOCODER_TIMEOUT" envDefault:"15"`
	}

	Backfill struct {
		// Minimum delay between successive geocoding calls in milliseconds
		DelayMillis int `env:"BACKFILL_DELAY_MS" envDefault:"1000"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
