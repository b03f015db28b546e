package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Conflict scope policies for bookings without an employee
const (
	ConflictScopeIsolated = "isolated"
	ConflictScopeShared   = "shared"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server    Server    `toml:"server"`
	Database  Database  `toml:"database"`
	Logs      Logs      `toml:"logs"`
	Metrics   Metrics   `toml:"metrics"`
	Tracing   Tracing   `toml:"tracing"`
	Auth      Auth      `toml:"auth"`
	Booking   Booking   `toml:"booking"`
	Redis     Redis     `toml:"redis"`
	RateLimit RateLimit `toml:"rate_limit"`
	Outbox    Outbox    `toml:"outbox"`
}

type Server struct {
	HTTPPort        int   `toml:"http_port"`
	ReadTimeout     int   `toml:"read_timeout"`
	WriteTimeout    int   `toml:"write_timeout"`
	IdleTimeout     int   `toml:"idle_timeout"`
	ShutdownTimeout int   `toml:"shutdown_timeout"`
	MaxBodyBytes    int64 `toml:"max_body_bytes"`
}

type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	// StatementTimeoutMs applied per connection; 0 disables
	StatementTimeoutMs int `toml:"statement_timeout_ms"`
}

// DSN lib/pq connection string
func (d Database) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
	if d.StatementTimeoutMs > 0 {
		dsn += fmt.Sprintf(" statement_timeout=%d", d.StatementTimeoutMs)
	}
	return dsn
}

type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type Tracing struct {
	Enabled     bool    `toml:"enabled"`
	Endpoint    string  `toml:"endpoint"`
	SampleRatio float64 `toml:"sample_ratio"`
}

type Auth struct {
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes"`
}

// TokenTTL access token lifetime
func (a Auth) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type Booking struct {
	// Timezone IANA name used to interpret dates and schedules
	Timezone                string `toml:"timezone"`
	DefaultStatus           string `toml:"default_status"`
	ConflictScope           string `toml:"conflict_scope"`
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes"`
	AdvanceBookingDays      int    `toml:"advance_booking_days"`
	SerializableAttempts    int    `toml:"serializable_attempts"`
	TransientRetryBackoffMs int    `toml:"transient_retry_backoff_ms"`
	RetryAfterSeconds       int    `toml:"retry_after_seconds"`
}

// Location resolves Timezone; callers rely on Validate having accepted it
func (b Booking) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TransientRetryBackoff pause before the single internal retry
func (b Booking) TransientRetryBackoff() time.Duration {
	return time.Duration(b.TransientRetryBackoffMs) * time.Millisecond
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RateLimit struct {
	Enabled       bool   `toml:"enabled"`
	Limit         int    `toml:"limit"`
	WindowSeconds int    `toml:"window_seconds"`
	FailOpen      bool   `toml:"fail_open"`
	Prefix        string `toml:"prefix"`
}

// Window fixed window length
func (r RateLimit) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

type Outbox struct {
	Enabled        bool     `toml:"enabled"`
	PollIntervalMs int      `toml:"poll_interval_ms"`
	BatchSize      int      `toml:"batch_size"`
	KafkaBrokers   []string `toml:"kafka_brokers"`
	KafkaTopic     string   `toml:"kafka_topic"`
	WebhookURL     string   `toml:"webhook_url"`
	WebhookTimeout int      `toml:"webhook_timeout"`
	// MaxAttempts failed deliveries after which an event is left for manual replay
	MaxAttempts int `toml:"max_attempts"`
	// RetryBackoffSeconds delay after the first failure, doubled per attempt
	RetryBackoffSeconds    int `toml:"retry_backoff_seconds"`
	MaxRetryBackoffSeconds int `toml:"max_retry_backoff_seconds"`
}

// PollInterval delay between relay batches
func (o Outbox) PollInterval() time.Duration {
	return time.Duration(o.PollIntervalMs) * time.Millisecond
}

// RetryBackoff delay before the second delivery attempt
func (o Outbox) RetryBackoff() time.Duration {
	return time.Duration(o.RetryBackoffSeconds) * time.Second
}

// MaxRetryBackoff upper bound of the delay between attempts
func (o Outbox) MaxRetryBackoff() time.Duration {
	return time.Duration(o.MaxRetryBackoffSeconds) * time.Second
}

// Load reads an optional .env next to the process, expands ${VAR} references
// in the TOML file, decodes it and applies defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(os.ExpandEnv(string(raw)))
}

// Parse decodes TOML content that already has environment references expanded
func Parse(content string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	setDefault(&c.Database.Port, 5432)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "booking-engine"
	}

	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}

	setDefault(&c.Auth.TokenTTLMinutes, 24*60)

	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}
	if c.Booking.DefaultStatus == "" {
		c.Booking.DefaultStatus = "confirmed"
	}
	if c.Booking.ConflictScope == "" {
		c.Booking.ConflictScope = ConflictScopeIsolated
	}
	setDefault(&c.Booking.SerializableAttempts, 3)
	setDefault(&c.Booking.TransientRetryBackoffMs, 100)
	setDefault(&c.Booking.RetryAfterSeconds, 1)

	setDefault(&c.RateLimit.Limit, 60)
	setDefault(&c.RateLimit.WindowSeconds, 60)
	if c.RateLimit.Prefix == "" {
		c.RateLimit.Prefix = "rl"
	}

	setDefault(&c.Outbox.PollIntervalMs, 2000)
	setDefault(&c.Outbox.BatchSize, 50)
	if c.Outbox.KafkaTopic == "" {
		c.Outbox.KafkaTopic = "booking.confirmation.requested"
	}
	setDefault(&c.Outbox.WebhookTimeout, 5)
	setDefault(&c.Outbox.MaxAttempts, 10)
	setDefault(&c.Outbox.RetryBackoffSeconds, 5)
	setDefault(&c.Outbox.MaxRetryBackoffSeconds, 1800)
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		problems = append(problems, "auth.jwt_secret is required")
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("booking.timezone %q: %v", c.Booking.Timezone, err))
	}
	switch c.Booking.DefaultStatus {
	case "pending", "confirmed":
	default:
		problems = append(problems, fmt.Sprintf("booking.default_status must be pending or confirmed, got %q", c.Booking.DefaultStatus))
	}
	switch c.Booking.ConflictScope {
	case ConflictScopeIsolated, ConflictScopeShared:
	default:
		problems = append(problems, fmt.Sprintf("booking.conflict_scope must be isolated or shared, got %q", c.Booking.ConflictScope))
	}
	if c.Booking.MinBookingNoticeMinutes < 0 || c.Booking.AdvanceBookingDays < 0 {
		problems = append(problems, "booking notice and advance days must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
