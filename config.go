package goAuthState

import (
	"errors"
	"time"

	"github.com/MrEthical07/goAuthState/session"
)

// Config is the full engine configuration.
//
// Config instances are built once at startup and treated as immutable.
type Config struct {
	Session         SessionConfig
	Storage         StorageConfig
	PermissionCache PermissionCacheConfig
	LoginThrottle   LoginThrottleConfig
	Audit           AuditConfig
	Metrics         MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the snapshot key and the session cookie.
type SessionConfig struct {
	StorageKey    string
	CookieName    string
	TokenLifetime time.Duration
	// CapCookieToTokenExpiry shortens the cookie to the JWT exp claim when
	// the token carries one.
	CapCookieToTokenExpiry bool
	// SecureCookies is "auto", "always" or "never".
	SecureCookies string
}

/*
====================================
STORAGE CONFIG
====================================
*/

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageNoop     = "noop"
)

// StorageConfig selects where the snapshot lives.
type StorageConfig struct {
	Backend       string
	FilePath      string
	RedisPrefix   string
	PostgresTable string
}

/*
====================================
PERMISSION CACHE CONFIG
====================================
*/

// Permission cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// PermissionCacheConfig controls the capability mask cache.
type PermissionCacheConfig struct {
	Backend         string
	MaxSize         int
	TTL             time.Duration
	RedisPrefix     string
	CleanupInterval time.Duration
}

/*
====================================
LOGIN THROTTLE CONFIG
====================================
*/

// LoginThrottleConfig limits failed credential exchanges. It needs a
// redis client.
type LoginThrottleConfig struct {
	Enabled          bool
	MaxAttempts      int
	Cooldown         time.Duration
	EnableIPThrottle bool
	RedisPrefix      string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			StorageKey:    session.DefaultStorageKey,
			CookieName:    session.DefaultCookieName,
			TokenLifetime: session.DefaultCookieLifetime,
			SecureCookies: "auto",
		},
		Storage: StorageConfig{
			Backend:       StorageMemory,
			RedisPrefix:   "authstate",
			PostgresTable: "auth_state_kv",
		},
		PermissionCache: PermissionCacheConfig{
			Backend:         CacheMemory,
			MaxSize:         1024,
			TTL:             5 * time.Minute,
			RedisPrefix:     "apc",
			CleanupInterval: time.Minute,
		},
		LoginThrottle: LoginThrottleConfig{
			Enabled:     false,
			MaxAttempts: 5,
			Cooldown:    15 * time.Minute,
			RedisPrefix: "alt",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// Session
	if c.Session.StorageKey == "" {
		return errors.New("Session StorageKey must not be empty")
	}
	if c.Session.CookieName == "" {
		return errors.New("Session CookieName must not be empty")
	}
	if c.Session.TokenLifetime <= 0 {
		return errors.New("Session TokenLifetime must be > 0")
	}
	if _, ok := session.ParseSecurePolicy(c.Session.SecureCookies); !ok {
		return errors.New("Session SecureCookies must be auto, always or never")
	}

	// Storage
	switch c.Storage.Backend {
	case StorageMemory, StorageRedis, StoragePostgres, StorageNoop:
	case StorageFile:
		if c.Storage.FilePath == "" {
			return errors.New("Storage FilePath required for file backend")
		}
	default:
		return errors.New("unsupported Storage Backend")
	}
	if c.Storage.Backend == StorageRedis && c.Storage.RedisPrefix == "" {
		return errors.New("Storage RedisPrefix must not be empty")
	}

	// Permission cache
	switch c.PermissionCache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return errors.New("unsupported PermissionCache Backend")
	}
	if c.PermissionCache.Backend != CacheNone {
		if c.PermissionCache.TTL <= 0 {
			return errors.New("PermissionCache TTL must be > 0")
		}
		if c.PermissionCache.Backend == CacheMemory && c.PermissionCache.MaxSize <= 0 {
			return errors.New("PermissionCache MaxSize must be > 0")
		}
		if c.PermissionCache.CleanupInterval < 0 {
			return errors.New("PermissionCache CleanupInterval must be >= 0")
		}
	}

	// Login throttle
	if c.LoginThrottle.Enabled {
		if c.LoginThrottle.MaxAttempts <= 0 {
			return errors.New("LoginThrottle MaxAttempts must be > 0")
		}
		if c.LoginThrottle.Cooldown <= 0 {
			return errors.New("LoginThrottle Cooldown must be > 0")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}

/*
====================================
LINT
====================================
*/

// LintWarning is a setting that is valid but likely a mistake.
type LintWarning struct {
	Code    string
	Message string
}

// LintWarnings is the result of [Config.Lint].
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

// Lint returns advisory warnings. It never fails.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings
	add := func(code, msg string) {
		ws = append(ws, LintWarning{Code: code, Message: msg})
	}

	if c.Session.SecureCookies == "never" {
		add("secure_cookies_disabled", "session cookie is sent over plain HTTP")
	}
	if c.Session.TokenLifetime > 24*time.Hour {
		add("token_lifetime_long", "session cookie outlives a working day")
	}
	if c.Storage.Backend == StorageNoop {
		add("storage_noop", "sessions do not survive a restart")
	}
	if c.PermissionCache.Backend == CacheMemory && c.PermissionCache.CleanupInterval == 0 {
		add("cache_cleanup_disabled", "expired cache entries are only evicted on access")
	}
	if !c.Audit.Enabled {
		add("audit_disabled", "login and access decisions are not audited")
	}
	return ws
}
