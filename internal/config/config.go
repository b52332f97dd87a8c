package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	Production  bool
	LogLevel    string

	JWTSecret     string
	TokenStrategy string
	TokenTTL      time.Duration
	PasswordCost  int

	DailyReward   int64
	SignupBonus   int64
	ReferralBonus int64
	ClaimCooldown time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL      string
	AMQPExchange string

	EventPollInterval time.Duration
	EventBatchSize    int
	RelayWorkers      int

	AuthRateLimit float64
	AuthRateBurst int

	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultJWTSecret         = "change-me-in-production"
	defaultTokenStrategy     = "jwt"
	defaultTokenTTL          = 30 * 24 * time.Hour
	defaultPasswordCost      = 10
	defaultDailyReward       = 500
	defaultSignupBonus       = 2000
	defaultReferralBonus     = 2000
	defaultClaimCooldown     = 24 * time.Hour
	defaultAMQPExchange      = "rewardportal.withdrawals"
	defaultEventPollInterval = 2 * time.Second
	defaultEventBatchSize    = 32
	defaultRelayWorkers      = 2
	defaultAuthRateLimit     = 1.0
	defaultAuthRateBurst     = 5
	defaultShutdownTimeout   = 10 * time.Second
	defaultLogLevel          = "info"
)

// Load reads an optional .env file, then parses configuration from flags and environment variables.
func Load() (*Config, error) {
	envFile := ".env"
	if v, ok := os.LookupEnv("ENV_FILE"); ok && v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        runAddress(lookup),
		DatabaseURI:       databaseURI(lookup),
		Production:        isProduction(lookup),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenStrategy:     getString(lookup, "TOKEN_STRATEGY", defaultTokenStrategy),
		TokenTTL:          getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		PasswordCost:      getInt(lookup, "PASSWORD_COST", defaultPasswordCost),
		DailyReward:       getInt64(lookup, "DAILY_REWARD", defaultDailyReward),
		SignupBonus:       getInt64(lookup, "SIGNUP_BONUS", defaultSignupBonus),
		ReferralBonus:     getInt64(lookup, "REFERRAL_BONUS", defaultReferralBonus),
		ClaimCooldown:     getDuration(lookup, "CLAIM_COOLDOWN", defaultClaimCooldown),
		RedisAddr:         getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:     getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:           getInt(lookup, "REDIS_DB", 0),
		AMQPURL:           getString(lookup, "AMQP_URL", ""),
		AMQPExchange:      getString(lookup, "AMQP_EXCHANGE", defaultAMQPExchange),
		EventPollInterval: getDuration(lookup, "EVENT_POLL_INTERVAL", defaultEventPollInterval),
		EventBatchSize:    getInt(lookup, "EVENT_BATCH_SIZE", defaultEventBatchSize),
		RelayWorkers:      getInt(lookup, "RELAY_WORKERS", defaultRelayWorkers),
		AuthRateLimit:     getFloat(lookup, "AUTH_RATE_LIMIT", defaultAuthRateLimit),
		AuthRateBurst:     getInt(lookup, "AUTH_RATE_BURST", defaultAuthRateBurst),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("rewardportal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		cooldownStr        = cfg.ClaimCooldown.String()
		pollIntervalStr    = cfg.EventPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "Database DSN (postgres:// or sqlite://)")
	fs.BoolVar(&cfg.Production, "production", cfg.Production, "Enable production mode (secure cookies)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.TokenStrategy, "token-strategy", cfg.TokenStrategy, "Token format: jwt or hmac")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Session token lifetime")
	fs.Int64Var(&cfg.DailyReward, "daily-reward", cfg.DailyReward, "Daily reward amount")
	fs.StringVar(&cooldownStr, "claim-cooldown", cooldownStr, "Time between daily reward claims")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for session revocation")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "AMQP URL for withdrawal events")
	fs.IntVar(&cfg.RelayWorkers, "relay-workers", cfg.RelayWorkers, "Number of concurrent event publishers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between outbox polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ClaimCooldown, err = time.ParseDuration(cooldownStr); err != nil {
		return nil, fmt.Errorf("invalid claim cooldown: %w", err)
	}

	if cfg.EventPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ClaimCooldown <= 0 {
		cfg.ClaimCooldown = defaultClaimCooldown
	}

	if cfg.EventPollInterval <= 0 {
		cfg.EventPollInterval = defaultEventPollInterval
	}

	if cfg.EventBatchSize <= 0 {
		cfg.EventBatchSize = defaultEventBatchSize
	}

	if cfg.RelayWorkers <= 0 {
		cfg.RelayWorkers = defaultRelayWorkers
	}

	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = defaultAuthRateLimit
	}

	if cfg.AuthRateBurst <= 0 {
		cfg.AuthRateBurst = defaultAuthRateBurst
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	switch cfg.TokenStrategy {
	case "jwt", "hmac":
	default:
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
	}

	if cfg.DailyReward <= 0 {
		return nil, fmt.Errorf("daily reward must be positive")
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.Production && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("jwt secret must be changed in production")
	}

	return cfg, nil
}

// UsesSQLite reports whether DatabaseURI points at the SQLite variant.
func (c *Config) UsesSQLite() bool {
	return strings.HasPrefix(c.DatabaseURI, "sqlite://") || strings.HasPrefix(c.DatabaseURI, "file:")
}

func runAddress(lookup envLookup) string {
	if v, ok := lookup("RUN_ADDRESS"); ok && v != "" {
		return v
	}
	if port, ok := lookup("PORT"); ok && port != "" {
		return ":" + port
	}
	return defaultRunAddress
}

// databaseURI prefers DATABASE_URI and falls back to discrete DB_* parameters.
func databaseURI(lookup envLookup) string {
	if v, ok := lookup("DATABASE_URI"); ok && v != "" {
		return v
	}
	host := getString(lookup, "DB_HOST", "")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, getString(lookup, "DB_PORT", "5432")),
		Path:   "/" + getString(lookup, "DB_NAME", "rewardportal"),
	}
	if user := getString(lookup, "DB_USER", ""); user != "" {
		if pass, ok := lookup("DB_PASSWORD"); ok && pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

func isProduction(lookup envLookup) bool {
	for _, key := range []string{"APP_ENV", "NODE_ENV"} {
		if v, ok := lookup(key); ok && strings.EqualFold(v, "production") {
			return true
		}
	}
	return false
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
