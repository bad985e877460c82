package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ColorModeMemory = "memory"
	ColorModeRedis  = "redis"
)

type AppConfig struct {
	Port     string
	LogLevel string
	Env      string

	// HTTPTimeout bounds each upstream request.
	HTTPTimeout time.Duration

	// FetchInterval controls how often forecasts are refreshed for each mountain.
	FetchInterval time.Duration

	PastDays     int
	ForecastDays int

	// StoreMaxAge is how long a cached forecast is served (0 = unlimited).
	StoreMaxAge time.Duration

	OpenMeteoBaseURL string
	UpstreamRPS      float64
	UpstreamBurst    int

	// APIBaseURL is the origin the dashboard calls, resolved from API_URL or
	// PAGE_ORIGIN with API_ALT_PORT.
	APIBaseURL string

	DisplayTimezone string
	WebcamTimezone  string

	ColorModeStore string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:             getenvDefault("PORT", "8080"),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		Env:              getenvDefault("APP_ENV", "development"),
		PastDays:         getenvInt("PAST_DAYS", 3),
		ForecastDays:     getenvInt("FORECAST_DAYS", 7),
		OpenMeteoBaseURL: getenvDefault("OPEN_METEO_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		UpstreamBurst:    getenvInt("UPSTREAM_BURST", 5),
		DisplayTimezone:  getenvDefault("DISPLAY_TIMEZONE", "America/Vancouver"),
		WebcamTimezone:   getenvDefault("WEBCAM_TIMEZONE", "America/Edmonton"),
		ColorModeStore:   strings.ToLower(getenvDefault("COLOR_MODE_STORE", ColorModeMemory)),
		RedisAddr:        getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getenvInt("REDIS_DB", 0),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", time.Hour); err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(getenvDefault("UPSTREAM_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_RPS: %w", err)
	}
	cfg.UpstreamRPS = rps

	if cfg.ForecastDays < 1 || cfg.ForecastDays > 16 {
		return nil, fmt.Errorf("FORECAST_DAYS must be between 1 and 16, got %d", cfg.ForecastDays)
	}
	if cfg.PastDays < 0 || cfg.PastDays > 92 {
		return nil, fmt.Errorf("PAST_DAYS must be between 0 and 92, got %d", cfg.PastDays)
	}

	switch cfg.ColorModeStore {
	case ColorModeMemory, ColorModeRedis:
	default:
		return nil, fmt.Errorf("invalid COLOR_MODE_STORE %q", cfg.ColorModeStore)
	}

	cfg.APIBaseURL = ResolveAPIBaseURL(
		os.Getenv("API_URL"),
		os.Getenv("PAGE_ORIGIN"),
		getenvDefault("API_ALT_PORT", "8000"),
	)

	return cfg, nil
}

// ResolveAPIBaseURL picks the API origin. An explicit override wins. Otherwise
// the page origin is reused with its port swapped for altPort. With neither,
// the result is empty and callers use same-origin relative paths.
func ResolveAPIBaseURL(override, pageOrigin, altPort string) string {
	if override = strings.TrimSpace(override); override != "" {
		return strings.TrimRight(override, "/")
	}
	if pageOrigin == "" {
		return ""
	}
	u, err := url.Parse(pageOrigin)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return ""
	}
	host := u.Hostname()
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if altPort != "" {
		host += ":" + altPort
	}
	return u.Scheme + "://" + host
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

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
