package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/solar-potential/internal/solar"
)

type AppConfig struct {
	NRELAPIKey       string
	NRELBaseURL      string
	OpenMeteoBaseURL string

	// HTTPTimeout bounds each outbound provider request.
	HTTPTimeout time.Duration

	// ProbeInterval controls how often providers are health-probed (0 = disabled).
	ProbeInterval time.Duration
	// ProbeLocation is where probe requests are made.
	ProbeLocation solar.Location
	// Probe history retention.
	ProbeMaxHistory int           // max results per provider (0 = unlimited)
	ProbeMaxAge     time.Duration // max age of results (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.NRELAPIKey = getenvDefault("NREL_API_KEY", "DEMO_KEY")
	cfg.NRELBaseURL = getenvDefault("NREL_BASE_URL", "https://developer.nrel.gov/api")
	cfg.OpenMeteoBaseURL = getenvDefault("OPEN_METEO_BASE_URL", "https://api.open-meteo.com/v1")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}
	cfg.HTTPTimeout = timeout

	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if cfg.ProbeMaxAge, err = getenvDuration("PROBE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	cfg.ProbeMaxHistory = getenvInt("PROBE_MAX_HISTORY", 48) // 24h at 30-minute intervals

	lat, err := getenvFloat("PROBE_LAT", 39.7392)
	if err != nil {
		return nil, err
	}
	lon, err := getenvFloat("PROBE_LON", -104.9903)
	if err != nil {
		return nil, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("PROBE_LAT/PROBE_LON out of range: %v,%v", lat, lon)
	}
	cfg.ProbeLocation = solar.Location{Lat: lat, Lon: lon}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
