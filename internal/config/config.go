package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverNeo4j  = "neo4j"
	DriverMemory = "memory"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP       HTTPConfig
	Store      StoreConfig
	Graph      GraphConfig
	Navigation NavigationConfig
	Logging    LoggingConfig
	Auth       AuthConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
	AllowCredentials  bool
}

// AllowedOrigins splits AllowedOriginsCSV, dropping blanks.
func (c HTTPConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOriginsCSV, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// GraphConfig describes connectivity to Neo4j when Driver is neo4j.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// NavigationConfig tunes the pathfinding core.
type NavigationConfig struct {
	WalkingSpeed float64       // meters per second
	StoreTimeout time.Duration // per store call; zero disables
}

// AuthConfig controls access token signing. An empty JWTSecret makes the
// server sign with a random per-process key.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultSQLitePath       = "campusnav.db"
	defaultWalkingSpeed     = 1.4
	defaultStoreTimeout     = 5 * time.Second
	defaultTokenTTL         = 30 * time.Minute
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
			AllowCredentials:  parseBoolWithDefault("SERVER_ALLOW_CREDENTIALS", false),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(valueOrDefault("STORE_DRIVER", DriverSQLite)),
			SQLitePath: valueOrDefault("SQLITE_PATH", defaultSQLitePath),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
	}

	switch cfg.Store.Driver {
	case DriverSQLite, DriverNeo4j, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}
	if cfg.Store.Driver == DriverNeo4j && cfg.Graph.URI == "" {
		return Config{}, fmt.Errorf("GRAPH_URI is required when STORE_DRIVER=%s", DriverNeo4j)
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", defaultReadTimeout, &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
		{"NAV_STORE_TIMEOUT", defaultStoreTimeout, &cfg.Navigation.StoreTimeout},
		{"TOKEN_TTL", defaultTokenTTL, &cfg.Auth.TokenTTL},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(d.key, d.fallback); err != nil {
			return Config{}, err
		}
	}

	speed, err := parsePositiveFloat("NAV_WALKING_SPEED", defaultWalkingSpeed)
	if err != nil {
		return Config{}, err
	}
	cfg.Navigation.WalkingSpeed = speed

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func parsePositiveFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	if !(f > 0) || f > 1e6 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", key, v)
	}
	return f, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
