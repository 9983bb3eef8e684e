package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Google   GoogleConfig
	Location LocationConfig
	Fallback FallbackConfig
	Map      MapConfig
	Guides   GuidesConfig
	Session  SessionConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port        int
	GinMode     string   // debug, release, test
	CORSOrigins []string // allowed browser origins
	RateLimit   float64  // requests per second per client IP on write endpoints
	RateBurst   int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// GoogleConfig holds Google Maps Platform settings
type GoogleConfig struct {
	APIKey            string
	GeocodeURL        string
	MapsJSURL         string
	RequestsPerSecond float64
}

// LocationConfig holds the options the browser reads its position with
type LocationConfig struct {
	HighAccuracy bool
	TimeoutMs    int
	MaximumAgeMs int
}

// FallbackConfig is the coordinate used when no position can be acquired
type FallbackConfig struct {
	Latitude  float64
	Longitude float64
}

// MapConfig holds overlay map settings
type MapConfig struct {
	Zoom         int
	FallbackZoom int
}

// GuidesConfig holds the guide content endpoint
type GuidesConfig struct {
	URL string
}

// SessionConfig controls in-memory session lifetime
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from .env, file and environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.wayguard")

	setDefaults(v)

	// Read from environment variables, e.g. WAYGUARD_GOOGLE_APIKEY
	v.SetEnvPrefix("WAYGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("server.corsorigins", []string{"http://localhost:5173"})
	v.SetDefault("server.ratelimit", 2.0)
	v.SetDefault("server.rateburst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("google.apikey", "")
	v.SetDefault("google.geocodeurl", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("google.mapsjsurl", "https://maps.googleapis.com/maps/api/js")
	v.SetDefault("google.requestspersecond", 10.0)
	v.SetDefault("location.highaccuracy", true)
	v.SetDefault("location.timeoutms", 10000)
	v.SetDefault("location.maximumagems", 60000)
	v.SetDefault("fallback.latitude", 6.9271)
	v.SetDefault("fallback.longitude", 79.8612)
	v.SetDefault("map.zoom", 15)
	v.SetDefault("map.fallbackzoom", 12)
	v.SetDefault("guides.url", "http://localhost:3001/api/guides")
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.sweepinterval", "5m")
}

// Validate checks values that would otherwise fail at request time
func (c *Config) Validate() error {
	if c.Fallback.Latitude < -90 || c.Fallback.Latitude > 90 {
		return fmt.Errorf("fallback.latitude out of range: %f", c.Fallback.Latitude)
	}
	if c.Fallback.Longitude < -180 || c.Fallback.Longitude > 180 {
		return fmt.Errorf("fallback.longitude out of range: %f", c.Fallback.Longitude)
	}
	if c.Location.TimeoutMs <= 0 {
		return fmt.Errorf("location.timeoutms must be positive, got %d", c.Location.TimeoutMs)
	}
	if c.Location.MaximumAgeMs < 0 {
		return fmt.Errorf("location.maximumagems must not be negative, got %d", c.Location.MaximumAgeMs)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweepinterval must be positive, got %s", c.Session.SweepInterval)
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
