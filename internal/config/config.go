package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

// EnvPrefix is the prefix of every environment variable read by Load.
// Nested keys use a double underscore: PAYCHECK_DATABASE__HOST -> database.host
const EnvPrefix = "PAYCHECK_"

// Config holds the whole harness configuration
type Config struct {
	SUT      SUTConfig      `koanf:"sut"`
	Browser  BrowserConfig  `koanf:"browser"`
	Database DatabaseConfig `koanf:"database"`
	Wait     WaitConfig     `koanf:"wait"`
	Verify   VerifyConfig   `koanf:"verify"`
	Stub     StubConfig     `koanf:"stub"`
	Logger   LoggerConfig   `koanf:"logger"`
}

// LoggerConfig controls the slog handler
type LoggerConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// defaults are loaded before the environment so every key has a value
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"sut.url": "http://localhost:8080",

		"browser.name":     "chromium",
		"browser.headless": true,
		"browser.slow_mo":  time.Duration(0),

		"database.driver":            "postgres",
		"database.host":              "localhost",
		"database.port":              5432,
		"database.user":              "app",
		"database.password":          "pass",
		"database.name":              "app",
		"database.ssl_mode":          "disable",
		"database.max_open_conns":    5,
		"database.max_idle_conns":    2,
		"database.conn_max_lifetime": 5 * time.Minute,

		"wait.poll_interval":   100 * time.Millisecond,
		"wait.backend_timeout": 15 * time.Second,
		"wait.client_timeout":  4 * time.Second,

		"verify.poll_interval":  200 * time.Millisecond,
		"verify.max_interval":   2 * time.Second,
		"verify.max_attempts":   10,
		"verify.max_wait":       15 * time.Second,
		"verify.absence_window": time.Second,

		"stub.port":         "8080",
		"stub.gate_url":     "",
		"stub.amount":       int64(4500000),
		"stub.commit_lag":   500 * time.Millisecond,
		"stub.reveal_delay": 300 * time.Millisecond,

		"logger.level":  "info",
		"logger.format": "text",
	}
}

// envKey maps PAYCHECK_WAIT__BACKEND_TIMEOUT to wait.backend_timeout
func envKey(s string) string {
	return strings.ReplaceAll(
		strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
		"__",
		".",
	)
}

// Load reads defaults, then a .env file if present, then PAYCHECK_* variables,
// and validates the result
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks struct tags and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Wait.ClientTimeout > c.Wait.BackendTimeout {
		return fmt.Errorf("config validation failed: wait.client_timeout (%s) exceeds wait.backend_timeout (%s)",
			c.Wait.ClientTimeout, c.Wait.BackendTimeout)
	}
	if c.Wait.PollInterval >= c.Wait.ClientTimeout {
		return fmt.Errorf("config validation failed: wait.poll_interval (%s) must be shorter than wait.client_timeout (%s)",
			c.Wait.PollInterval, c.Wait.ClientTimeout)
	}
	return nil
}
