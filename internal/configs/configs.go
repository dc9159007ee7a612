package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppHost                string        `env:"APP_HOST" envDefault:"127.0.0.1"`
	AppPort                string        `env:"APP_PORT" envDefault:"8080"`
	DatabaseDriver         string        `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN            string        `env:"DATABASE_DSN" envDefault:"ops-portal.db"`
	RateLimit              int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	ShutdownTimeoutSeconds int           `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"20"`
	JWTSecret              string        `env:"JWT_SECRET"`
	TokenTTL               time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
	OperativeTimezone      string        `env:"OPERATIVE_TIMEZONE" envDefault:"America/Santiago"`
	SweepIntervalSeconds   int           `env:"SWEEP_INTERVAL_SECONDS" envDefault:"300"`
	AlertGraceMinutes      int           `env:"ALERT_GRACE_MINUTES" envDefault:"15"`
	AlertLookaheadMinutes  int           `env:"ALERT_LOOKAHEAD_MINUTES" envDefault:"45"`

	TimeTrackingBaseURL        string `env:"TIMETRACKING_BASE_URL"`
	TimeTrackingUser           string `env:"TIMETRACKING_USER"`
	TimeTrackingPassword       string `env:"TIMETRACKING_PASSWORD"`
	TimeTrackingTimeoutSeconds int    `env:"TIMETRACKING_TIMEOUT_SECONDS" envDefault:"15"`

	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisTokenKey string `env:"REDIS_TOKEN_KEY" envDefault:"ops_portal:timetracking_token"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
}

// LoadDotEnv reads .env when present; a missing file is not an error.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) AppURL() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

// RedisAddr is empty when Redis is not configured.
func (c Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c Config) TimeTrackingTimeout() time.Duration {
	return time.Duration(c.TimeTrackingTimeoutSeconds) * time.Second
}

func (c Config) validate() error {
	var problems []string
	if c.AppPort == "" {
		problems = append(problems, "APP_PORT must not be empty")
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "DATABASE_DRIVER must be sqlite or postgres")
	}
	if c.DatabaseDSN == "" {
		problems = append(problems, "DATABASE_DSN must not be empty")
	}
	if c.RateLimit <= 0 {
		problems = append(problems, "RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		problems = append(problems, "SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if c.SweepIntervalSeconds < 0 {
		problems = append(problems, "SWEEP_INTERVAL_SECONDS must not be negative")
	}
	if c.AlertGraceMinutes < 0 || c.AlertLookaheadMinutes < 0 {
		problems = append(problems, "ALERT_GRACE_MINUTES and ALERT_LOOKAHEAD_MINUTES must not be negative")
	}
	if c.TimeTrackingTimeoutSeconds <= 0 {
		problems = append(problems, "TIMETRACKING_TIMEOUT_SECONDS must be greater than 0")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// RequireJWTSecret is checked only by commands that sign or verify tokens.
func (c Config) RequireJWTSecret() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	return nil
}
