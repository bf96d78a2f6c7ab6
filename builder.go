package goAuthState

import (
	"context"
	"database/sql"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MrEthical07/goAuthState/credentials"
	"github.com/MrEthical07/goAuthState/internal/audit"
	"github.com/MrEthical07/goAuthState/internal/logging"
	"github.com/MrEthical07/goAuthState/internal/rate"
	"github.com/MrEthical07/goAuthState/permcache"
	"github.com/MrEthical07/goAuthState/permission"
	"github.com/MrEthical07/goAuthState/session"
	"github.com/MrEthical07/goAuthState/storage"
	"github.com/MrEthical07/goAuthState/token"
)

// Builder assembles an [Engine]. A Builder is single-use.
type Builder struct {
	config Config

	storage  storage.Storage
	redis    redis.UniversalClient
	postgres *sql.DB
	cache    permcache.Cache
	resolver *permission.Resolver

	cookieWriter session.CookieWriter
	logger       *zap.Logger
	auditSink    AuditSink
	exchanger    credentials.Exchanger

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStorage overrides Config.Storage.Backend with a ready backend.
func (b *Builder) WithStorage(s storage.Storage) *Builder {
	b.storage = s
	return b
}

// WithRedis supplies the client for the redis storage and cache backends.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithPostgres supplies the pool for the postgres storage backend. The
// table must already exist (see storage.Postgres.EnsureTable).
func (b *Builder) WithPostgres(db *sql.DB) *Builder {
	b.postgres = db
	return b
}

// WithPermissionCache overrides Config.PermissionCache.Backend.
func (b *Builder) WithPermissionCache(c permcache.Cache) *Builder {
	b.cache = c
	return b
}

// WithResolver replaces the built-in yukyu role tables.
func (b *Builder) WithResolver(r *permission.Resolver) *Builder {
	b.resolver = r
	return b
}

// WithCookieWriter sets the fallback cookie writer used when the call
// context carries none.
func (b *Builder) WithCookieWriter(w session.CookieWriter) *Builder {
	b.cookieWriter = w
	return b
}

func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithExchanger enables [Engine.LoginWithCredentials].
func (b *Builder) WithExchanger(x credentials.Exchanger) *Builder {
	b.exchanger = x
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. The returned
// engine is not hydrated; call [Engine.Rehydrate] once at startup.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.OrNop(b.logger)

	// -------- STORAGE --------
	st, err := b.buildStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	// -------- PERMISSIONS --------
	resolver := b.resolver
	if resolver == nil {
		resolver = permission.Default()
	}
	cache, err := b.buildCache(cfg.PermissionCache)
	if err != nil {
		return nil, err
	}

	// -------- LOGIN THROTTLE --------
	var throttle *rate.Limiter
	if cfg.LoginThrottle.Enabled {
		if b.redis == nil {
			return nil, errors.New("login throttle requires redis client")
		}
		throttle = rate.New(b.redis, rate.Config{
			Prefix:           cfg.LoginThrottle.RedisPrefix,
			MaxAttempts:      cfg.LoginThrottle.MaxAttempts,
			Cooldown:         cfg.LoginThrottle.Cooldown,
			EnableIPThrottle: cfg.LoginThrottle.EnableIPThrottle,
		})
	}

	engine := &Engine{
		config:    cfg,
		cache:     cache,
		resolver:  resolver,
		exchanger: b.exchanger,
		throttle:  throttle,
		metrics:   NewMetrics(cfg.Metrics),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
		logger: logger.Named("engine"),
	}

	// -------- SESSION STORE --------
	secure, _ := session.ParseSecurePolicy(cfg.Session.SecureCookies)
	opts := session.Options{
		Storage:    st,
		StorageKey: cfg.Session.StorageKey,
		Cookie: session.CookieSpec{
			Name:     cfg.Session.CookieName,
			Lifetime: cfg.Session.TokenLifetime,
			Secure:   secure,
		},
		CookieWriter: b.cookieWriter,
		Cache:        cache,
		Logger:       logger,
		OnEvent:      engine.onStoreEvent,
	}
	if cfg.Session.CapCookieToTokenExpiry {
		opts.CookieMaxAge = token.CookieMaxAge(nil)
	}
	engine.store = session.NewStore(opts)

	if mem, ok := cache.(*permcache.Memory); ok && cfg.PermissionCache.CleanupInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		mem.StartCleanupWorker(ctx, cfg.PermissionCache.CleanupInterval)
		engine.stopCleanup = cancel
	}

	b.built = true

	return engine, nil
}

func (b *Builder) buildStorage(cfg StorageConfig) (storage.Storage, error) {
	if b.storage != nil {
		return b.storage, nil
	}
	switch cfg.Backend {
	case StorageFile:
		return storage.NewFile(cfg.FilePath), nil
	case StorageRedis:
		if b.redis == nil {
			return nil, errors.New("redis storage requires redis client")
		}
		return storage.NewRedis(b.redis, cfg.RedisPrefix), nil
	case StoragePostgres:
		if b.postgres == nil {
			return nil, errors.New("postgres storage requires database handle")
		}
		return storage.NewPostgres(b.postgres, cfg.PostgresTable)
	case StorageNoop:
		return storage.Noop{}, nil
	default:
		return storage.NewMemory(), nil
	}
}

func (b *Builder) buildCache(cfg PermissionCacheConfig) (permcache.Cache, error) {
	if b.cache != nil {
		return b.cache, nil
	}
	switch cfg.Backend {
	case CacheRedis:
		if b.redis == nil {
			return nil, errors.New("redis permission cache requires redis client")
		}
		return permcache.NewRedis(b.redis, cfg.RedisPrefix, cfg.TTL), nil
	case CacheNone:
		return permcache.None{}, nil
	default:
		return permcache.NewMemory(cfg.MaxSize, cfg.TTL), nil
	}
}
