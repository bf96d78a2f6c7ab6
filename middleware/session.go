package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrEthical07/goAuthState/session"
)

type tokenContextKey struct{}

// TokenFromContext returns the session token injected by
// [RequireSessionCookie].
func TokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenContextKey{}).(string)
	return tok, ok && tok != ""
}

// RequireSessionCookie rejects requests without a non-empty session cookie
// with 401. An "Authorization: Bearer" header is accepted when the cookie
// is absent. An empty cookieName means [session.DefaultCookieName].
func RequireSessionCookie(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = session.DefaultCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := tokenFromRequest(r, cookieName)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), tokenContextKey{}, tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionCookies routes cookies written by the session store during the
// request onto the response and marks TLS requests as secure transport.
func SessionCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := session.WithCookieWriter(r.Context(), session.ResponseCookieWriter{W: w})
		ctx = session.WithSecureTransport(ctx, session.RequestIsSecure(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request, cookieName string) (string, bool) {
	if c, err := r.Cookie(cookieName); err == nil {
		if tok, ok := session.TokenFromCookie(c); ok {
			return tok, true
		}
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	tok := strings.TrimSpace(value[len(bearer):])
	return tok, tok != ""
}
