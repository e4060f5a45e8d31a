package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/garnizeh/rentals/internal/db"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string         `yaml:"addr"`
	JWTSecret      string         `yaml:"jwt_secret"`
	APITimeout     time.Duration  `yaml:"timeout"`
	TokenDuration  time.Duration  `yaml:"token_duration"`
	LogLevel       string         `yaml:"log_level"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Database       DatabaseConfig `yaml:"database"`
	Auth           AuthConfig     `yaml:"auth"`
}

type DatabaseConfig struct {
	Path   string `yaml:"path"`
	Driver string `yaml:"driver"`
	// QueueSize bounds the units of work waiting for the executor.
	QueueSize      int  `yaml:"queue_size"`
	MigrateOnStart bool `yaml:"migrate_on_start"`
}

type AuthConfig struct {
	BcryptCost    int  `yaml:"bcrypt_cost"`
	PurgeOnLogout bool `yaml:"purge_on_logout"`
}

// LoadConfig reads an optional .env file, takes defaults from the
// environment and overlays the YAML file at path when one is given.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr:          getEnv("RENTALS_ADDR", ":8080"),
		JWTSecret:     getEnv("RENTALS_JWT_SECRET", insecureJWTSecret),
		APITimeout:    15 * time.Second,
		TokenDuration: 1 * time.Hour,
		LogLevel:      getEnv("RENTALS_LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Path:           getEnv("RENTALS_DATABASE_PATH", "rentals.db"),
			Driver:         getEnv("RENTALS_DATABASE_DRIVER", db.DriverModernc),
			QueueSize:      64,
			MigrateOnStart: getEnvBool("RENTALS_MIGRATE_ON_START", true),
		},
		Auth: AuthConfig{
			BcryptCost:    bcrypt.DefaultCost,
			PurgeOnLogout: getEnvBool("RENTALS_PURGE_ON_LOGOUT", true),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate fills unset values with defaults and rejects settings the
// program cannot run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret must be set")
	}
	if c.JWTSecret == insecureJWTSecret && os.Getenv("RENTALS_ENV") != "development" {
		return errors.New("jwt_secret uses the insecure default; set RENTALS_JWT_SECRET or RENTALS_ENV=development")
	}
	return c.ValidateLocal()
}

// ValidateLocal is Validate without the HTTP session settings, for tools
// that only open the database.
func (c *Config) ValidateLocal() error {
	if c.Database.Path == "" {
		return errors.New("database.path must be set")
	}

	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = 1 * time.Hour
	}
	if c.Database.QueueSize <= 0 {
		c.Database.QueueSize = 64
	}

	switch c.Database.Driver {
	case "":
		c.Database.Driver = db.DriverModernc
	case db.DriverModernc, db.DriverMattn:
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := c.level(); err != nil {
		return err
	}

	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = bcrypt.DefaultCost
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}

// Logger builds the JSON logger the program writes to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return def
}
