package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MrEthical07/goAuthState/internal/logging"
	"github.com/MrEthical07/goAuthState/storage"
)

var (
	// ErrInvalidToken is returned by Login for an empty token.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrInvalidUser is returned when a user profile fails validation.
	ErrInvalidUser = errors.New("invalid user profile")
	// ErrNotAuthenticated is returned by SetUser while signed out.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// DefaultStorageKey is the key the snapshot is persisted under.
const DefaultStorageKey = "auth-storage"

// CacheClearer drops every cached permission entry. Logout calls it.
type CacheClearer interface {
	ClearAll(ctx context.Context) error
}

// EventKind identifies a side effect reported through Options.OnEvent.
type EventKind uint8

const (
	EventStorageWriteFailed EventKind = iota
	EventStorageReadFailed
	EventSnapshotCorrupt
	EventCookieWritten
	EventCookieExpired
	EventCookieWriteFailed
	EventCacheCleared
	EventCacheClearFailed
)

// RehydrateOutcome reports what [Store.Rehydrate] found.
type RehydrateOutcome uint8

const (
	// RehydrateSkipped means the store was already hydrated.
	RehydrateSkipped RehydrateOutcome = iota
	// RehydrateEmpty means no usable snapshot existed.
	RehydrateEmpty
	// RehydrateRestored means a valid authenticated snapshot was loaded.
	RehydrateRestored
	// RehydrateHealed means a snapshot with a token but a false
	// isAuthenticated flag was loaded and corrected.
	RehydrateHealed
	// RehydrateDiscarded means an inconsistent or corrupt snapshot was
	// removed.
	RehydrateDiscarded
	// RehydrateKept means the store was already signed in when hydration
	// ran; the in-memory session wins.
	RehydrateKept
)

func (o RehydrateOutcome) String() string {
	switch o {
	case RehydrateSkipped:
		return "skipped"
	case RehydrateEmpty:
		return "empty"
	case RehydrateRestored:
		return "restored"
	case RehydrateHealed:
		return "healed"
	case RehydrateDiscarded:
		return "discarded"
	case RehydrateKept:
		return "kept"
	}
	return "unknown"
}

// Options configures a [Store].
type Options struct {
	// Storage defaults to [storage.Noop].
	Storage    storage.Storage
	StorageKey string

	Cookie CookieSpec
	// CookieWriter receives cookies when the call context carries none
	// (see [WithCookieWriter]). Defaults to a fresh [Jar].
	CookieWriter CookieWriter
	// CookieMaxAge, when set, may shorten the cookie lifetime for a token.
	CookieMaxAge func(token string, lifetime time.Duration) time.Duration

	Cache CacheClearer

	Logger  *zap.Logger
	OnEvent func(EventKind)
}

// Store owns the session state and keeps the durable snapshot and the
// session cookie in step with it.
//
// Mutations are serialized. Subscribers run synchronously after each
// mutation, in mutation order; they may read State but must not call
// Login, Logout, SetUser or Rehydrate.
type Store struct {
	opts   Options
	logger *zap.Logger

	opMu sync.Mutex

	mu       sync.RWMutex
	state    State
	degraded bool

	hydrateOnce sync.Once

	subMu   sync.Mutex
	subs    map[uint64]func(State)
	nextSub uint64
}

// NewStore returns an empty, not yet hydrated Store.
func NewStore(opts Options) *Store {
	if opts.Storage == nil {
		opts.Storage = storage.Noop{}
	}
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}
	if opts.Cookie.Name == "" {
		opts.Cookie.Name = DefaultCookieName
	}
	if opts.Cookie.Lifetime <= 0 {
		opts.Cookie.Lifetime = DefaultCookieLifetime
	}
	if opts.CookieWriter == nil {
		opts.CookieWriter = NewJar()
	}

	return &Store{
		opts:   opts,
		logger: logging.OrNop(opts.Logger).Named("session"),
		subs:   make(map[uint64]func(State)),
	}
}

// Login records an authenticated session, persists it and writes the
// session cookie. An empty token, a token whose cookie lifetime is already
// spent, or an invalid profile leaves the state untouched.
func (s *Store) Login(ctx context.Context, token string, user UserProfile) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	if err := ValidateUser(user); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	maxAge := s.cookieMaxAge(token)
	if maxAge < time.Second {
		return fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.commit(transition{kind: transitionLogin, token: token, user: &user})
	s.persist(ctx, next)
	s.writeCookie(ctx, s.opts.Cookie.Build(ctx, token, maxAge), EventCookieWritten)

	s.logger.Info("login",
		zap.String("token", logging.MaskToken(token)),
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)
	s.notify(next)
	return nil
}

// Logout clears the session, removes the snapshot, expires the cookie and
// clears the permission cache. Repeated calls are harmless.
func (s *Store) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.commit(transition{kind: transitionLogout})

	if err := s.opts.Storage.Remove(ctx, s.opts.StorageKey); err != nil {
		s.markDegraded(err)
	} else {
		s.clearDegraded()
	}
	s.writeCookie(ctx, s.opts.Cookie.Expired(ctx), EventCookieExpired)

	if s.opts.Cache != nil {
		if err := s.opts.Cache.ClearAll(ctx); err != nil {
			s.logger.Warn("permission cache clear failed", zap.Error(err))
			s.emit(EventCacheClearFailed)
		} else {
			s.emit(EventCacheCleared)
		}
	}

	s.logger.Info("logout")
	s.notify(next)
	return nil
}

// SetUser replaces the profile of the signed-in user and re-persists the
// snapshot. It never changes the authentication state.
func (s *Store) SetUser(ctx context.Context, user UserProfile) error {
	if err := ValidateUser(user); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.Authenticated() {
		return ErrNotAuthenticated
	}

	next := s.commit(transition{kind: transitionSetUser, user: &user})
	s.persist(ctx, next)
	s.logger.Debug("user updated", zap.String("username", user.Username))
	s.notify(next)
	return nil
}

// Rehydrate loads the persisted snapshot once per Store. Later calls
// return [RehydrateSkipped]. IsHydrated is true afterwards whatever the
// snapshot held; read failures count as no snapshot.
func (s *Store) Rehydrate(ctx context.Context) RehydrateOutcome {
	outcome := RehydrateSkipped
	s.hydrateOnce.Do(func() {
		s.opMu.Lock()
		defer s.opMu.Unlock()
		outcome = s.rehydrate(ctx)
	})
	return outcome
}

func (s *Store) rehydrate(ctx context.Context) RehydrateOutcome {
	if s.Authenticated() {
		next := s.commit(transition{kind: transitionHydrate})
		s.notify(next)
		return RehydrateKept
	}

	snap, outcome := s.loadSnapshot(ctx)

	var next State
	if outcome == RehydrateRestored || outcome == RehydrateHealed {
		next = s.commit(transition{kind: transitionHydrate, token: snap.Token, user: snap.User})
	} else {
		next = s.commit(transition{kind: transitionHydrate})
	}

	switch outcome {
	case RehydrateHealed:
		s.persist(ctx, next)
	case RehydrateDiscarded:
		if err := s.opts.Storage.Remove(ctx, s.opts.StorageKey); err != nil {
			s.markDegraded(err)
		}
	}

	fields := []zap.Field{zap.Stringer("outcome", outcome)}
	if next.IsAuthenticated {
		fields = append(fields,
			zap.String("token", logging.MaskToken(next.Token)),
			zap.String("username", next.User.Username),
		)
	}
	s.logger.Info("rehydrated", fields...)
	s.notify(next)
	return outcome
}

func (s *Store) loadSnapshot(ctx context.Context) (Snapshot, RehydrateOutcome) {
	raw, ok, err := s.opts.Storage.Get(ctx, s.opts.StorageKey)
	if err != nil {
		s.logger.Warn("snapshot read failed", zap.Error(err))
		s.emit(EventStorageReadFailed)
		return Snapshot{}, RehydrateEmpty
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return Snapshot{}, RehydrateEmpty
	}

	snap, err := DecodeSnapshot(raw)
	if err != nil {
		s.logger.Warn("snapshot discarded", zap.Error(err))
		s.emit(EventSnapshotCorrupt)
		return Snapshot{}, RehydrateDiscarded
	}

	switch {
	case snap.Token == "" && snap.User == nil && !snap.IsAuthenticated:
		return Snapshot{}, RehydrateEmpty
	case snap.Token == "" || snap.User == nil:
		s.logger.Warn("snapshot discarded: inconsistent session",
			zap.Bool("has_token", snap.Token != ""),
			zap.Bool("has_user", snap.User != nil),
			zap.Bool("authenticated", snap.IsAuthenticated),
		)
		return Snapshot{}, RehydrateDiscarded
	case ValidateUser(*snap.User) != nil:
		s.logger.Warn("snapshot discarded: invalid user")
		return Snapshot{}, RehydrateDiscarded
	case !snap.IsAuthenticated:
		return snap, RehydrateHealed
	}
	return snap, RehydrateRestored
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsHydrated
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Token returns the bearer token while signed in.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token, s.state.Token != ""
}

// User returns a copy of the signed-in profile.
func (s *Store) User() (UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return UserProfile{}, false
	}
	return *s.state.User, true
}

// Degraded reports whether the last storage write failed. The in-memory
// session stays authoritative while degraded.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) commit(t transition) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = apply(s.state, t)
	return s.state.clone()
}

func (s *Store) persist(ctx context.Context, st State) {
	if !st.IsAuthenticated {
		if err := s.opts.Storage.Remove(ctx, s.opts.StorageKey); err != nil {
			s.markDegraded(err)
		}
		return
	}

	raw, err := EncodeSnapshot(st)
	if err != nil {
		s.markDegraded(err)
		return
	}
	if err := s.opts.Storage.Set(ctx, s.opts.StorageKey, raw); err != nil {
		s.markDegraded(err)
		return
	}
	s.clearDegraded()
}

func (s *Store) markDegraded(err error) {
	s.mu.Lock()
	s.degraded = true
	s.mu.Unlock()
	s.logger.Warn("snapshot write failed; continuing in memory", zap.Error(err))
	s.emit(EventStorageWriteFailed)
}

func (s *Store) clearDegraded() {
	s.mu.Lock()
	s.degraded = false
	s.mu.Unlock()
}

func (s *Store) cookieMaxAge(token string) time.Duration {
	lifetime := s.opts.Cookie.Lifetime
	if s.opts.CookieMaxAge == nil {
		return lifetime
	}
	if d := s.opts.CookieMaxAge(token, lifetime); d < lifetime {
		return d
	}
	return lifetime
}

func (s *Store) writeCookie(ctx context.Context, c *http.Cookie, kind EventKind) {
	w, ok := cookieWriterFromContext(ctx)
	if !ok {
		w = s.opts.CookieWriter
	}
	if err := w.WriteCookie(ctx, c); err != nil {
		s.logger.Warn("cookie write failed", zap.String("cookie", c.Name), zap.Error(err))
		s.emit(EventCookieWriteFailed)
		return
	}
	if c.MaxAge < 0 {
		kind = EventCookieExpired
	}
	s.emit(kind)
}

func (s *Store) emit(kind EventKind) {
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(kind)
	}
}

func (s *Store) notify(st State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st.clone())
	}
}
