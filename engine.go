package goAuthState

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MrEthical07/goAuthState/credentials"
	"github.com/MrEthical07/goAuthState/internal/audit"
	"github.com/MrEthical07/goAuthState/internal/rate"
	"github.com/MrEthical07/goAuthState/permcache"
	"github.com/MrEthical07/goAuthState/permission"
	"github.com/MrEthical07/goAuthState/session"
)

// Engine is the process-wide handle to the session and its permissions.
type Engine struct {
	config    Config
	store     *session.Store
	cache     permcache.Cache
	resolver  *permission.Resolver
	exchanger credentials.Exchanger
	throttle  *rate.Limiter

	metrics *Metrics
	audit   *audit.Dispatcher
	logger  *zap.Logger

	stopCleanup context.CancelFunc
	closeOnce   sync.Once
}

// Capabilities is the permission summary for the signed-in user.
type Capabilities struct {
	Role              permission.Role
	Category          permission.RoleCategory
	CanApprove        bool
	CanCreateRequest  bool
	CanViewReports    bool
	IsAdmin           bool
	CanViewAllHistory bool
}

// Login records an authenticated session for token and user.
func (e *Engine) Login(ctx context.Context, token string, user session.UserProfile) error {
	if err := e.store.Login(ctx, token, user); err != nil {
		err = invalidArgument(err)
		e.metrics.Inc(MetricLoginRejected)
		e.emitAudit(ctx, AuditEvent{
			Type:     AuditLoginRejected,
			Username: user.Username,
			Reason:   err.Error(),
		})
		return err
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditEvent{
		Type:     AuditLogin,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Success:  true,
	})
	return nil
}

// LoginWithCredentials exchanges identifier and secret through the
// configured exchanger and, on success only, logs the result in. A failed
// exchange leaves the session untouched. With the login throttle enabled,
// repeated rejections return [ErrLoginThrottled] without calling the
// exchanger.
func (e *Engine) LoginWithCredentials(ctx context.Context, identifier, secret string) (session.State, error) {
	if e.exchanger == nil {
		return e.store.State(), fmt.Errorf("%w: no credential exchanger configured", ErrEngineNotReady)
	}

	ip := clientIPFromContext(ctx)
	if err := e.checkThrottle(ctx, identifier, ip); err != nil {
		return e.store.State(), err
	}

	start := time.Now()
	res, err := e.exchanger.Exchange(ctx, identifier, secret)
	e.metrics.Observe(MetricCredentialExchangeLatency, time.Since(start))
	if err != nil {
		e.metrics.Inc(MetricCredentialExchangeFailure)
		e.emitAudit(ctx, AuditEvent{Type: AuditLoginRejected, Reason: failureCode(err)})
		if credentials.Rejected(err) {
			if e.throttle != nil {
				if terr := e.throttle.RecordFailure(ctx, identifier, ip); terr != nil {
					e.logger.Warn("login throttle record failed", zap.Error(terr))
				}
			}
			return e.store.State(), fmt.Errorf("%w: %v", ErrCredentialsRejected, err)
		}
		e.logger.Warn("credential exchange failed", zap.Error(err))
		return e.store.State(), fmt.Errorf("%w: %v", ErrExchangeUnavailable, err)
	}
	e.metrics.Inc(MetricCredentialExchangeSuccess)
	if e.throttle != nil {
		if terr := e.throttle.Reset(ctx, identifier, ip); terr != nil {
			e.logger.Warn("login throttle reset failed", zap.Error(terr))
		}
	}

	if err := e.Login(ctx, res.Token, res.User); err != nil {
		return e.store.State(), err
	}
	return e.store.State(), nil
}

func (e *Engine) checkThrottle(ctx context.Context, identifier, ip string) error {
	if e.throttle == nil {
		return nil
	}
	err := e.throttle.Check(ctx, identifier, ip)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrRateLimited):
		e.metrics.Inc(MetricLoginThrottled)
		e.emitAudit(ctx, AuditEvent{Type: AuditLoginRejected, Reason: "throttled"})
		return ErrLoginThrottled
	default:
		e.logger.Warn("login throttle unavailable", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrExchangeUnavailable, err)
	}
}

// invalidArgument marks caller-input errors from the store with
// ErrInvalidArgument. Other errors pass through.
func invalidArgument(err error) error {
	if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrInvalidUser) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return err
}

func failureCode(err error) string {
	if credentials.Rejected(err) {
		return credentials.CodeInvalidCredentials
	}
	return credentials.CodeUnavailable
}

// Logout clears the session, the snapshot, the cookie and the permission
// cache. Calling it while signed out is harmless.
func (e *Engine) Logout(ctx context.Context) error {
	prev := e.store.State()
	if err := e.store.Logout(ctx); err != nil {
		return err
	}

	e.metrics.Inc(MetricLogout)
	event := AuditEvent{Type: AuditLogout, Success: true}
	if prev.User != nil {
		event.UserID = prev.User.ID
		event.Username = prev.User.Username
		event.Role = prev.User.Role
	}
	e.emitAudit(ctx, event)
	return nil
}

// SetUser replaces the profile of the signed-in user.
func (e *Engine) SetUser(ctx context.Context, user session.UserProfile) error {
	if err := e.store.SetUser(ctx, user); err != nil {
		return invalidArgument(err)
	}
	e.metrics.Inc(MetricSetUser)
	e.emitAudit(ctx, AuditEvent{
		Type:     AuditSetUser,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Success:  true,
	})
	return nil
}

// Rehydrate loads the persisted snapshot once. Later calls are no-ops.
func (e *Engine) Rehydrate(ctx context.Context) session.RehydrateOutcome {
	outcome := e.store.Rehydrate(ctx)

	switch outcome {
	case session.RehydrateSkipped:
		return outcome
	case session.RehydrateRestored:
		e.metrics.Inc(MetricRehydrateRestored)
	case session.RehydrateHealed:
		e.metrics.Inc(MetricRehydrateHealed)
	case session.RehydrateDiscarded:
		e.metrics.Inc(MetricRehydrateDiscarded)
	case session.RehydrateEmpty:
		e.metrics.Inc(MetricRehydrateEmpty)
	}

	st := e.store.State()
	event := AuditEvent{Type: AuditRehydrate, Success: st.IsAuthenticated, Reason: outcome.String()}
	if st.User != nil {
		event.UserID = st.User.ID
		event.Username = st.User.Username
		event.Role = st.User.Role
	}
	e.emitAudit(ctx, event)
	return outcome
}

// State returns a copy of the current session.
func (e *Engine) State() session.State {
	return e.store.State()
}

// Subscribe registers fn for every state change. See session.Store.Subscribe.
func (e *Engine) Subscribe(fn func(session.State)) (unsubscribe func()) {
	return e.store.Subscribe(fn)
}

// Degraded reports whether the last storage write failed.
func (e *Engine) Degraded() bool {
	return e.store.Degraded()
}

// Resolver returns the permission resolver in use.
func (e *Engine) Resolver() *permission.Resolver {
	return e.resolver
}

// Capabilities summarizes what the signed-in user may do. Signed-out or
// not yet hydrated sessions get the zero summary.
func (e *Engine) Capabilities(ctx context.Context) Capabilities {
	st := e.store.State()
	if !st.IsHydrated || !st.IsAuthenticated || st.User == nil {
		return Capabilities{Category: permission.CategoryOf("")}
	}

	role := permission.Role(st.User.Role)
	mask := e.mask(ctx, st.User.ID, role)
	return Capabilities{
		Role:              role,
		Category:          permission.CategoryOf(role),
		CanApprove:        e.resolver.MaskHas(mask, permission.CapApprove),
		CanCreateRequest:  e.resolver.MaskHas(mask, permission.CapCreateRequest),
		CanViewReports:    e.resolver.MaskHas(mask, permission.CapViewReports),
		IsAdmin:           e.resolver.MaskHas(mask, permission.CapAdmin),
		CanViewAllHistory: e.resolver.MaskHas(mask, permission.CapViewAllHistory),
	}
}

func (e *Engine) mask(ctx context.Context, userID int64, role permission.Role) permission.Mask64 {
	key := permcache.Key{UserID: userID, Role: role}
	if m, ok := e.cache.Get(ctx, key); ok {
		e.metrics.Inc(MetricPermissionCacheHit)
		return m
	}
	e.metrics.Inc(MetricPermissionCacheMiss)

	m, ok := e.resolver.Mask(role)
	if !ok {
		return 0
	}
	if err := e.cache.Set(ctx, key, m); err != nil {
		e.logger.Debug("permission cache set failed", zap.Error(err))
	}
	return m
}

// AccessAllowed reports whether the signed-in user may open path. It is
// false until the session is hydrated and authenticated.
func (e *Engine) AccessAllowed(ctx context.Context, path string) bool {
	st := e.store.State()
	role := permission.Role(st.Role())

	allowed := st.IsHydrated && st.IsAuthenticated && e.resolver.IsAccessAllowed(path, role)
	if allowed {
		e.metrics.Inc(MetricAccessAllowed)
		return true
	}

	e.metrics.Inc(MetricAccessDenied)
	event := AuditEvent{Type: AuditAccessDenied, Path: path, Role: string(role)}
	if st.User != nil {
		event.UserID = st.User.ID
		event.Username = st.User.Username
	}
	e.emitAudit(ctx, event)
	return false
}

// RequireAccess is [Engine.AccessAllowed] returning [ErrPermissionDenied].
func (e *Engine) RequireAccess(ctx context.Context, path string) error {
	if e.AccessAllowed(ctx, path) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
}

func (e *Engine) onStoreEvent(kind session.EventKind) {
	switch kind {
	case session.EventStorageWriteFailed:
		e.metrics.Inc(MetricStorageWriteFailure)
		e.emitAudit(context.Background(), AuditEvent{Type: AuditStorageDegraded, Reason: "write"})
	case session.EventStorageReadFailed:
		e.metrics.Inc(MetricStorageReadFailure)
		e.emitAudit(context.Background(), AuditEvent{Type: AuditStorageDegraded, Reason: "read"})
	case session.EventSnapshotCorrupt:
		e.metrics.Inc(MetricSnapshotCorrupt)
	case session.EventCookieWritten:
		e.metrics.Inc(MetricCookieWritten)
	case session.EventCookieExpired:
		e.metrics.Inc(MetricCookieExpired)
	case session.EventCookieWriteFailed:
		e.metrics.Inc(MetricCookieWriteFailure)
	case session.EventCacheCleared:
		e.metrics.Inc(MetricPermissionCacheCleared)
	case session.EventCacheClearFailed:
		e.metrics.Inc(MetricPermissionCacheClearFailure)
		e.emitAudit(context.Background(), AuditEvent{Type: AuditCacheClearFailure})
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return cloneConfig(e.config)
}

// Metrics returns the engine counters.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// MetricsSnapshot returns a point-in-time copy of the counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped so far.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

// Close flushes audit events and stops background workers.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		if e.stopCleanup != nil {
			e.stopCleanup()
		}
		e.audit.Close()
		_ = e.logger.Sync()
	})
}
