package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	FrontendURL     string        // origin of the launcher frontend, used for CORS and post-login redirect
	RateLimitBurst  int           // token bucket capacity per client IP
	RateLimitPerMin int           // token refill per client IP per minute
	ImportTimeout   time.Duration // deadline for the browser-history import source (default: 5s)
	GCInterval      time.Duration // interval between tombstone sweeps (default: 24h)
	GCThreshold     time.Duration // tombstone age before permanent removal (default: 720h)
	SeedFile        string        // path to a YAML seed file (optional, empty = seeding disabled)
	SeedUser        string        // user id the seed entries belong to (required when SeedFile set)

	// OAuth / sessions
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string        // ex: "https://launcher.domain.ext/auth/callback"
	JWTSecret          string        // HMAC key for session tokens
	SessionTTL         time.Duration // session token lifetime (default: 720h)
	AllowedEmails      []string      // optional, restrict sign-in to specific accounts
	SecureCookies      bool          // true => cookies marked Secure (HTTPS only)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict healthz/infra to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	// Local development convenience, ignored when no .env exists.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LAUNCHER_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LAUNCHER_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LAUNCHER_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LAUNCHER_PRETTY_LOG", true),

		FrontendURL:     requireEnv("LAUNCHER_FRONTEND_URL"),
		RateLimitBurst:  getenvInt("LAUNCHER_RATE_LIMIT_BURST", 60),
		RateLimitPerMin: getenvInt("LAUNCHER_RATE_LIMIT_PER_MIN", 120),
		ImportTimeout:   mustDuration("LAUNCHER_IMPORT_TIMEOUT", 5*time.Second),
		GCInterval:      mustDuration("LAUNCHER_GC_INTERVAL", 24*time.Hour),
		GCThreshold:     mustDuration("LAUNCHER_GC_THRESHOLD", 30*24*time.Hour),
		SeedFile:        getenv("LAUNCHER_SEED_FILE", ""), // Optional, empty = seeding disabled
		SeedUser:        getenv("LAUNCHER_SEED_USER", ""),

		// OAuth / sessions
		GoogleClientID:     requireEnv("LAUNCHER_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: requireEnv("LAUNCHER_GOOGLE_CLIENT_SECRET"),
		OAuthRedirectURL:   requireEnv("LAUNCHER_OAUTH_REDIRECT_URL"),
		JWTSecret:          requireEnv("LAUNCHER_JWT_SECRET"),
		SessionTTL:         mustDuration("LAUNCHER_SESSION_TTL", 30*24*time.Hour),
		AllowedEmails:      splitAndTrim(getenv("LAUNCHER_ALLOWED_EMAILS", "")),
		SecureCookies:      mustBool("LAUNCHER_SECURE_COOKIES", true),

		// Redis settings
		RedisAddr:             requireEnv("LAUNCHER_REDIS_ADDR"),
		RedisUser:             getenv("LAUNCHER_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LAUNCHER_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("LAUNCHER_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("LAUNCHER_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LAUNCHER_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("LAUNCHER_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LAUNCHER_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: LAUNCHER_REDIS_PASSWORD is required when LAUNCHER_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.SeedFile != "" && cfg.SeedUser == "" {
		panic("❌ FATAL: LAUNCHER_SEED_USER is required when LAUNCHER_SEED_FILE is set")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.GoogleClientSecret = "***REDACTED***"
		cfgCopy.JWTSecret = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
