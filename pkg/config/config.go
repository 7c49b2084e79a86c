// Package config loads process configuration and bootstraps the store and
// the echo middleware stack.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Auth providers.
const (
	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogPretty bool

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	PostgresURL   string
	SQLitePath    string
	RedisURL      string

	AuthProvider            string
	JWTSecret               string
	FirebaseCredentialsPath string

	MetricsPort       string
	DefaultPageLimit  int
	MaxPageLimit      int
	AllowedOrigins    []string
	WSMaxConnsPerUser int
	ShutdownTimeout   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("MONGO_DATABASE", "nano_media")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("SQLITE_PATH", "engagement.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("AUTH_PROVIDER", AuthJWT)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("DEFAULT_PAGE_LIMIT", 10)
	v.SetDefault("MAX_PAGE_LIMIT", 50)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("WS_MAX_CONNS_PER_USER", 8)
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:                    v.GetString("PORT"),
		Env:                     v.GetString("ENV"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		LogPretty:               v.GetBool("LOG_PRETTY"),
		StoreDriver:             strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		PostgresURL:             v.GetString("POSTGRES_URL"),
		SQLitePath:              v.GetString("SQLITE_PATH"),
		RedisURL:                v.GetString("REDIS_URL"),
		AuthProvider:            strings.ToLower(v.GetString("AUTH_PROVIDER")),
		JWTSecret:               v.GetString("JWT_SECRET"),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		MetricsPort:             v.GetString("METRICS_PORT"),
		DefaultPageLimit:        v.GetInt("DEFAULT_PAGE_LIMIT"),
		MaxPageLimit:            v.GetInt("MAX_PAGE_LIMIT"),
		AllowedOrigins:          splitList(v.GetString("ALLOWED_ORIGINS")),
		WSMaxConnsPerUser:       v.GetInt("WS_MAX_CONNS_PER_USER"),
		ShutdownTimeout:         v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = "supersecretjwtkey"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo driver"))
		}
	case DriverPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required for the postgres driver"))
		}
	case DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.AuthProvider {
	case AuthJWT:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
	case AuthFirebase:
		if c.FirebaseCredentialsPath == "" {
			errs = append(errs, errors.New("FIREBASE_CREDENTIALS_PATH is required for the firebase provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider))
	}

	if c.DefaultPageLimit < 1 || c.MaxPageLimit < c.DefaultPageLimit {
		errs = append(errs, fmt.Errorf("invalid page limits %d/%d", c.DefaultPageLimit, c.MaxPageLimit))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
