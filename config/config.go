// Package config loads service settings from an optional .env file and
// the FUELUP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Addr            string
	APIBaseURL      string
	APITimeout      time.Duration
	DBDriver        string
	DBDSN           string
	AMQPURL         string
	EventsQueue     string
	SessionPoll     time.Duration
	TrackingRefresh time.Duration
	RateRPS         float64
	RateBurst       int
	SiteURL         string
	CookieSecure    bool
	TrustProxy      bool
	LogLevel        slog.Level
}

// Load reads files (".env" when none are given) if they exist, then the
// environment. A value that cannot be parsed is an error rather than a
// silent default.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	p := parser{}
	c := &Config{
		Addr:            getEnv("FUELUP_ADDR", ":8080"),
		APIBaseURL:      strings.TrimRight(getEnv("FUELUP_API_BASE_URL", "https://api.fuelup.ng/api/v1"), "/"),
		APITimeout:      p.duration("FUELUP_API_TIMEOUT", 30*time.Second),
		DBDriver:        strings.ToLower(getEnv("FUELUP_DB_DRIVER", DriverSQLite)),
		DBDSN:           getEnv("FUELUP_DB_DSN", "file:fuelup.db?_pragma=busy_timeout(5000)"),
		AMQPURL:         getEnv("FUELUP_AMQP_URL", ""),
		EventsQueue:     getEnv("FUELUP_EVENTS_QUEUE", "dashboard_events"),
		SessionPoll:     p.duration("FUELUP_SESSION_POLL", 30*time.Second),
		TrackingRefresh: p.duration("FUELUP_TRACKING_REFRESH", 15*time.Second),
		RateRPS:         p.float("FUELUP_RATE_RPS", 1),
		RateBurst:       p.int("FUELUP_RATE_BURST", 5),
		SiteURL:         strings.TrimRight(getEnv("FUELUP_SITE_URL", "https://fuelup.ng"), "/"),
		CookieSecure:    p.bool("FUELUP_COOKIE_SECURE", false),
		TrustProxy:      p.bool("FUELUP_TRUST_PROXY", false),
		LogLevel:        p.level("FUELUP_LOG_LEVEL", slog.LevelInfo),
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("FUELUP_DB_DRIVER: unknown driver %q", c.DBDriver)
	}
	for key, raw := range map[string]string{"FUELUP_API_BASE_URL": c.APIBaseURL, "FUELUP_SITE_URL": c.SiteURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: %q is not an absolute URL", key, raw)
		}
	}
	if c.APITimeout <= 0 || c.SessionPoll <= 0 || c.TrackingRefresh <= 0 {
		return errors.New("durations must be positive")
	}
	if c.RateRPS <= 0 || c.RateBurst <= 0 {
		return errors.New("FUELUP_RATE_RPS and FUELUP_RATE_BURST must be positive")
	}
	return nil
}

// Logger builds the service logger: JSON to stdout at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.LogLevel}))
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parser collects every bad value so one run reports them all.
type parser struct {
	errs []error
}

func (p *parser) fail(key, raw string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s=%q: %w", key, raw, err))
}

func (p *parser) duration(key string, d time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return d
	}
	return v
}

func (p *parser) int(key string, d int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return d
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return d
	}
	return v
}

func (p *parser) float(key string, d float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return d
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return d
	}
	return v
}

func (p *parser) bool(key string, d bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return d
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return d
	}
	return v
}

func (p *parser) level(key string, d slog.Level) slog.Level {
	raw := getEnv(key, "")
	if raw == "" {
		return d
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		p.fail(key, raw, err)
		return d
	}
	return l
}
