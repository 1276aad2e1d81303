// Package config centralizes application configuration into typed structs,
// with defaults that work out of the box and optional overrides from the
// environment (a .env file is honored when present).
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the top-level configuration container.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Geo       GeoConfig
	Locate    LocateConfig
	Share     ShareConfig
	Reminder  ReminderConfig
	Photon    PhotonConfig
	Nominatim NominatimConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig locates the device-local sqlite store.
type StoreConfig struct {
	Path string
}

// GeoConfig controls the map view and the nearby search.
type GeoConfig struct {
	MapZoom        int // zoom level passed to the map collaborator
	SearchLimit    int // raw results fetched per category
	MaxPerCategory int // nearest places kept per category
}

// LocateConfig bounds geolocation reads.
type LocateConfig struct {
	Timeout time.Duration
}

// ShareConfig holds the base URL that share links are built on.
type ShareConfig struct {
	BaseURL string
}

// ReminderConfig holds the default "still parked" reminder delay, used until
// the user picks their own.
type ReminderConfig struct {
	DefaultDelay time.Duration
}

// PhotonConfig points at the place-search service.
type PhotonConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NominatimConfig points at the reverse-geocoding service.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Path: "data/parkhere.db",
		},
		Geo: GeoConfig{
			MapZoom:        18,
			SearchLimit:    30,
			MaxPerCategory: 6,
		},
		Locate: LocateConfig{
			Timeout: 10 * time.Second,
		},
		Share: ShareConfig{
			BaseURL: "https://parkhere.example.com",
		},
		Reminder: ReminderConfig{
			DefaultDelay: 2 * time.Hour,
		},
		Photon: PhotonConfig{
			BaseURL: "https://photon.komoot.io",
			Timeout: 10 * time.Second,
		},
		Nominatim: NominatimConfig{
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "parkhere/1.0",
			Timeout:   10 * time.Second,
		},
	}
}

// Load returns the default configuration with any environment overrides
// applied. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	cfg := NewDefaultConfig()
	cfg.Server.Port = getEnv("PARKHERE_PORT", cfg.Server.Port)
	cfg.Store.Path = getEnv("PARKHERE_STORE_PATH", cfg.Store.Path)
	cfg.Share.BaseURL = getEnv("PARKHERE_SHARE_BASE_URL", cfg.Share.BaseURL)
	cfg.Photon.BaseURL = getEnv("PARKHERE_PHOTON_URL", cfg.Photon.BaseURL)
	cfg.Nominatim.BaseURL = getEnv("PARKHERE_NOMINATIM_URL", cfg.Nominatim.BaseURL)
	cfg.Locate.Timeout = getEnvDuration("PARKHERE_LOCATE_TIMEOUT", cfg.Locate.Timeout)
	cfg.Reminder.DefaultDelay = getEnvDuration("PARKHERE_REMINDER_DELAY", cfg.Reminder.DefaultDelay)
	cfg.Geo.MaxPerCategory = getEnvInt("PARKHERE_NEARBY_MAX", cfg.Geo.MaxPerCategory)
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
