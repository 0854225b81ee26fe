// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	SessionBackendSQL   = "sql"
	SessionBackendRedis = "redis"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	BusyTimeout  time.Duration

	SessionSecret  string
	SessionTTL     time.Duration
	SessionBackend string
	SessionSweep   string
	SecureCookie   bool
	RedisAddr      string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// UploadsEnabled reports whether object storage is configured
func (c Config) UploadsEnabled() bool {
	return c.MinioEndpoint != ""
}

// NotificationsEnabled reports whether an SMTP relay is configured
func (c Config) NotificationsEnabled() bool {
	return c.SMTPHost != ""
}

// LoadEnv reads a .env file into the process environment.
// A missing file is not an error; existing variables are never overwritten.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("vault", flag.ContinueOnError)

	// Network and storage
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database file (sqlite) or URL (postgres)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.DurationVar(&cfg.BusyTimeout, "busy-timeout", 0, "How long a request waits on a locked database")

	// Sessions
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Cookie signing secret (prefer env)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session idle lifetime")
	fs.StringVar(&cfg.SessionBackend, "session-backend", "", "Session backend (sql or redis)")
	fs.StringVar(&cfg.SessionSweep, "sweep", "", "Cron schedule for expired session cleanup")
	fs.BoolVar(&cfg.SecureCookie, "secure-cookie", false, "Mark the session cookie Secure")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", "", "Redis address for the redis session backend")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = envOr("DATABASE_URL", "vault_database.db")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", DatabaseSQLite)
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	var err error
	if cfg.BusyTimeout == 0 {
		if cfg.BusyTimeout, err = envDuration("DB_BUSY_TIMEOUT", 10*time.Second); err != nil {
			return Config{}, err
		}
	}

	// Secret - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.SessionTTL == 0 {
		if cfg.SessionTTL, err = envDuration("SESSION_TTL", 30*time.Minute); err != nil {
			return Config{}, err
		}
	}
	if cfg.SessionTTL < 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if cfg.SessionBackend == "" {
		cfg.SessionBackend = envOr("SESSION_BACKEND", SessionBackendSQL)
	}
	if cfg.SessionBackend != SessionBackendSQL && cfg.SessionBackend != SessionBackendRedis {
		return Config{}, fmt.Errorf("unsupported session backend %q", cfg.SessionBackend)
	}
	if cfg.SessionSweep == "" {
		cfg.SessionSweep = envOr("SESSION_SWEEP", "@every 10m")
	}
	if !cfg.SecureCookie {
		cfg.SecureCookie = envBool("SECURE_COOKIE")
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = envOr("REDIS_ADDR", "localhost:6379")
	}

	// Object storage and mail are env-only and optional
	cfg.MinioEndpoint = os.Getenv("MINIO_ENDPOINT")
	cfg.MinioAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	cfg.MinioSecretKey = os.Getenv("MINIO_SECRET_KEY")
	cfg.MinioBucket = envOr("MINIO_BUCKET", "vault")
	cfg.MinioUseSSL = envBool("MINIO_USE_SSL")
	cfg.MinioPublicURL = os.Getenv("MINIO_PUBLIC_URL")

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = envOr("SMTP_PORT", "587")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = os.Getenv("SMTP_FROM")
	if cfg.NotificationsEnabled() && cfg.SMTPFrom == "" {
		return Config{}, errors.New("SMTP_FROM required when SMTP_HOST is set")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return d, nil
}
