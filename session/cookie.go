package session

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultCookieName and DefaultCookieLifetime match the values the web
// client has always used.
const (
	DefaultCookieName     = "uns-auth-token"
	DefaultCookieLifetime = 8 * time.Hour
)

// SecurePolicy decides when the Secure attribute is added.
type SecurePolicy uint8

const (
	// SecureAuto adds Secure when the request context reports an encrypted
	// transport (see [WithSecureTransport]).
	SecureAuto SecurePolicy = iota
	SecureAlways
	SecureNever
)

// ParseSecurePolicy accepts "auto", "always" and "never".
func ParseSecurePolicy(s string) (SecurePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SecureAuto, true
	case "always":
		return SecureAlways, true
	case "never":
		return SecureNever, true
	}
	return SecureAuto, false
}

// CookieWriter receives the session cookie on every login and logout.
type CookieWriter interface {
	WriteCookie(ctx context.Context, c *http.Cookie) error
}

// CookieSpec describes the session cookie.
type CookieSpec struct {
	Name     string
	Lifetime time.Duration
	Secure   SecurePolicy
}

func (c CookieSpec) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

func (c CookieSpec) secure(ctx context.Context) bool {
	switch c.Secure {
	case SecureAlways:
		return true
	case SecureNever:
		return false
	}
	return secureTransportFromContext(ctx)
}

// Build returns the cookie carrying token for maxAge. The value is
// percent-encoded; maxAge is truncated to whole seconds.
func (c CookieSpec) Build(ctx context.Context, token string, maxAge time.Duration) *http.Cookie {
	secs := int(maxAge / time.Second)
	if secs <= 0 {
		return c.Expired(ctx)
	}
	return &http.Cookie{
		Name:     c.name(),
		Value:    escapeCookieValue(token),
		Path:     "/",
		MaxAge:   secs,
		SameSite: http.SameSiteStrictMode,
		Secure:   c.secure(ctx),
	}
}

// Expired returns the cookie that removes the session cookie.
func (c CookieSpec) Expired(ctx context.Context) *http.Cookie {
	return &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
		Secure:   c.secure(ctx),
	}
}

// FormatCookie renders c as
// "name=value; Max-Age=N; Path=/; SameSite=Strict[; Secure]".
// A negative MaxAge is rendered as Max-Age=0.
func FormatCookie(c *http.Cookie) string {
	maxAge := c.MaxAge
	if maxAge < 0 {
		maxAge = 0
	}
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)
	b.WriteString("; Max-Age=")
	b.WriteString(strconv.Itoa(maxAge))
	b.WriteString("; Path=")
	if c.Path == "" {
		b.WriteByte('/')
	} else {
		b.WriteString(c.Path)
	}
	b.WriteString("; SameSite=Strict")
	if c.Secure {
		b.WriteString("; Secure")
	}
	return b.String()
}

// TokenFromCookie decodes a session cookie value written by [CookieSpec.Build].
func TokenFromCookie(c *http.Cookie) (string, bool) {
	if c == nil || c.Value == "" {
		return "", false
	}
	v, err := url.PathUnescape(c.Value)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func escapeCookieValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ResponseCookieWriter writes Set-Cookie headers onto an HTTP response.
type ResponseCookieWriter struct {
	W http.ResponseWriter
}

func (r ResponseCookieWriter) WriteCookie(_ context.Context, c *http.Cookie) error {
	r.W.Header().Add("Set-Cookie", FormatCookie(c))
	return nil
}

// Jar keeps the last written cookie per name. It serves headless callers
// and tests.
type Jar struct {
	mu      sync.RWMutex
	cookies map[string]*http.Cookie
	written int
}

func NewJar() *Jar {
	return &Jar{cookies: make(map[string]*http.Cookie)}
}

func (j *Jar) WriteCookie(_ context.Context, c *http.Cookie) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.written++
	if c.MaxAge < 0 {
		delete(j.cookies, c.Name)
		return nil
	}
	cp := *c
	j.cookies[c.Name] = &cp
	return nil
}

// Cookie returns the live cookie stored under name.
func (j *Jar) Cookie(name string) (*http.Cookie, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	c, ok := j.cookies[name]
	if !ok {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// Writes returns how many cookies, including expiring ones, were written.
func (j *Jar) Writes() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.written
}

type cookieWriterContextKey struct{}
type secureTransportContextKey struct{}

// WithCookieWriter routes cookies written during ctx to w instead of the
// store's default writer.
func WithCookieWriter(ctx context.Context, w CookieWriter) context.Context {
	return context.WithValue(ctx, cookieWriterContextKey{}, w)
}

func cookieWriterFromContext(ctx context.Context) (CookieWriter, bool) {
	if ctx == nil {
		return nil, false
	}
	w, ok := ctx.Value(cookieWriterContextKey{}).(CookieWriter)
	return w, ok && w != nil
}

// WithSecureTransport records whether the current exchange runs over an
// encrypted transport.
func WithSecureTransport(ctx context.Context, secure bool) context.Context {
	return context.WithValue(ctx, secureTransportContextKey{}, secure)
}

func secureTransportFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(secureTransportContextKey{}).(bool)
	return v
}

// RequestIsSecure reports whether r arrived over TLS, directly or behind a
// proxy that sets X-Forwarded-Proto.
func RequestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
