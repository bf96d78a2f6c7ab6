package goAuthState

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by [LoadConfigFromEnv].
const (
	EnvTokenMaxAge       = "AUTH_TOKEN_MAX_AGE"
	EnvCookieName        = "AUTH_COOKIE_NAME"
	EnvStorageKey        = "AUTH_STORAGE_KEY"
	EnvStorageBackend    = "AUTH_STORAGE_BACKEND"
	EnvStorageFile       = "AUTH_STORAGE_FILE"
	EnvRedisPrefix       = "AUTH_REDIS_PREFIX"
	EnvSecureCookies     = "AUTH_SECURE_COOKIES"
	EnvCapCookieToExpiry = "AUTH_CAP_COOKIE_TO_TOKEN_EXPIRY"
	EnvCacheBackend      = "AUTH_PERMISSION_CACHE_BACKEND"
	EnvCacheTTL          = "AUTH_PERMISSION_CACHE_TTL"
	EnvLoginThrottle     = "AUTH_LOGIN_THROTTLE"
	EnvLoginMaxAttempts  = "AUTH_LOGIN_MAX_ATTEMPTS"
	EnvLoginCooldown     = "AUTH_LOGIN_COOLDOWN"
	EnvAuditEnabled      = "AUTH_AUDIT_ENABLED"
	EnvMetricsEnabled    = "AUTH_METRICS_ENABLED"
)

// LoadConfigFromEnv loads the given .env files (missing files are ignored),
// overlays the process environment on the defaults and validates the result.
func LoadConfigFromEnv(files ...string) (Config, error) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	return configFromLookup(os.LookupEnv)
}

// ParseConfigEnv reads dotenv-formatted settings from r without touching the
// process environment.
func ParseConfigEnv(r io.Reader) (Config, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return configFromLookup(func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	})
}

func configFromLookup(lookup func(string) (string, bool)) (Config, error) {
	env := envReader{lookup: lookup}
	cfg := defaultConfig()

	// Non-positive or unparsable values fall back to the default lifetime.
	if secs := env.int(EnvTokenMaxAge, 0); secs > 0 {
		cfg.Session.TokenLifetime = time.Duration(secs) * time.Second
	}
	cfg.Session.CookieName = env.str(EnvCookieName, cfg.Session.CookieName)
	cfg.Session.StorageKey = env.str(EnvStorageKey, cfg.Session.StorageKey)
	cfg.Session.SecureCookies = env.str(EnvSecureCookies, cfg.Session.SecureCookies)
	cfg.Session.CapCookieToTokenExpiry = env.bool(EnvCapCookieToExpiry, cfg.Session.CapCookieToTokenExpiry)

	cfg.Storage.Backend = strings.ToLower(env.str(EnvStorageBackend, cfg.Storage.Backend))
	cfg.Storage.FilePath = env.str(EnvStorageFile, cfg.Storage.FilePath)
	cfg.Storage.RedisPrefix = env.str(EnvRedisPrefix, cfg.Storage.RedisPrefix)

	cfg.PermissionCache.Backend = strings.ToLower(env.str(EnvCacheBackend, cfg.PermissionCache.Backend))
	cfg.PermissionCache.TTL = env.duration(EnvCacheTTL, cfg.PermissionCache.TTL)

	cfg.LoginThrottle.Enabled = env.bool(EnvLoginThrottle, cfg.LoginThrottle.Enabled)
	cfg.LoginThrottle.MaxAttempts = env.int(EnvLoginMaxAttempts, cfg.LoginThrottle.MaxAttempts)
	cfg.LoginThrottle.Cooldown = env.duration(EnvLoginCooldown, cfg.LoginThrottle.Cooldown)

	cfg.Audit.Enabled = env.bool(EnvAuditEnabled, cfg.Audit.Enabled)
	cfg.Metrics.Enabled = env.bool(EnvMetricsEnabled, cfg.Metrics.Enabled)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) str(key, fallback string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (e envReader) int(key string, fallback int) int {
	v, err := strconv.Atoi(e.str(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func (e envReader) bool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(e.str(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(e.str(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
