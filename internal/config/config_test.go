package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/rentals/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:          ":8080",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		TokenDuration: 1 * time.Hour,
		LogLevel:      "info",
		Database:      config.DatabaseConfig{Path: "rentals.db", Driver: "sqlite"},
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	t.Setenv("RENTALS_ENV", "production")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("RENTALS_ENV", "development")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Setenv("RENTALS_ENV", "")

	cases := map[string]func(c *config.Config){
		"empty secret":  func(c *config.Config) { c.JWTSecret = "" },
		"empty path":    func(c *config.Config) { c.Database.Path = "" },
		"bad driver":    func(c *config.Config) { c.Database.Driver = "postgres" },
		"bad log level": func(c *config.Config) { c.LogLevel = "loud" },
		"bcrypt cost":   func(c *config.Config) { c.Auth.BcryptCost = 99 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected Validate to fail")
			}
		})
	}
}

func TestValidate_DefaultsPopulated(t *testing.T) {
	cfg := &config.Config{JWTSecret: "strongsecret", Database: config.DatabaseConfig{Path: "x.db"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr default %q", cfg.Addr)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected driver default %q", cfg.Database.Driver)
	}
	if cfg.Database.QueueSize <= 0 {
		t.Fatalf("expected a positive queue size")
	}
	if cfg.Auth.BcryptCost == 0 {
		t.Fatalf("expected a bcrypt cost default")
	}
	if cfg.APITimeout <= 0 || cfg.TokenDuration <= 0 {
		t.Fatalf("expected timeouts to be populated")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level default %q", cfg.LogLevel)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Ensure environment does not interfere
	for _, k := range []string{"RENTALS_ADDR", "RENTALS_JWT_SECRET", "RENTALS_DATABASE_PATH", "RENTALS_DATABASE_DRIVER", "RENTALS_LOG_LEVEL", "RENTALS_PURGE_ON_LOGOUT", "RENTALS_MIGRATE_ON_START"} {
		t.Setenv(k, "")
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != "supersecretkey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "supersecretkey")
	}
	if cfg.Database.Path != "rentals.db" {
		t.Fatalf("unexpected Database.Path: got %q want %q", cfg.Database.Path, "rentals.db")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected Database.Driver: got %q", cfg.Database.Driver)
	}
	if !cfg.Auth.PurgeOnLogout {
		t.Fatalf("expected logout to purge listings by default")
	}
	if !cfg.Database.MigrateOnStart {
		t.Fatalf("expected migrations on start by default")
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if cfg.TokenDuration != 1*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 1*time.Hour)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RENTALS_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("RENTALS_DATABASE_DRIVER", "sqlite3")
	t.Setenv("RENTALS_PURGE_ON_LOGOUT", "false")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Database.Path != "/tmp/env.db" || cfg.Database.Driver != "sqlite3" {
		t.Fatalf("env not applied: %+v", cfg.Database)
	}
	if cfg.Auth.PurgeOnLogout {
		t.Fatalf("expected RENTALS_PURGE_ON_LOGOUT=false to be honored")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`addr: ":9090"
jwt_secret: "filekey"
timeout: "30s"
token_duration: "2h"
log_level: "debug"
allowed_origins: ["http://localhost:3000"]
database:
  path: "test.db"
  queue_size: 8
auth:
  bcrypt_cost: 4
  purge_on_logout: false
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "filekey")
	}
	if cfg.Database.Path != "test.db" || cfg.Database.QueueSize != 8 {
		t.Fatalf("unexpected Database: %+v", cfg.Database)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if cfg.Auth.BcryptCost != 4 || cfg.Auth.PurgeOnLogout {
		t.Fatalf("unexpected Auth: %+v", cfg.Auth)
	}
	if len(cfg.AllowedOrigins) != 1 {
		t.Fatalf("unexpected AllowedOrigins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unterminated\n"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}

func TestLogger_Level(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Fatalf("info record should be filtered at warn level")
	}
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("warn record missing: %s", buf.String())
	}
}

func TestValidateLocal_IgnoresJWT(t *testing.T) {
	t.Setenv("RENTALS_ENV", "production")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"
	if err := cfg.ValidateLocal(); err != nil {
		t.Fatalf("expected ValidateLocal to skip the jwt checks, got: %v", err)
	}
	cfg.Database.Driver = "postgres"
	if err := cfg.ValidateLocal(); err == nil {
		t.Fatalf("expected ValidateLocal to reject an unknown driver")
	}
}
