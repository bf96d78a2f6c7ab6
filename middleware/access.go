package middleware

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goAuthState/permission"
	"github.com/MrEthical07/goAuthState/token"
)

type roleContextKey struct{}

// RoleFromContext returns the role resolved by [RequirePageAccess].
func RoleFromContext(ctx context.Context) (permission.Role, bool) {
	role, ok := ctx.Value(roleContextKey{}).(permission.Role)
	return role, ok
}

// RoleLookup resolves the caller's role. ok is false when no role can be
// determined.
type RoleLookup func(r *http.Request) (role permission.Role, ok bool)

// RoleFromVerifiedToken reads the role claim of the session token after
// verifying it with m. Run [RequireSessionCookie] first.
func RoleFromVerifiedToken(m *token.Manager) RoleLookup {
	return func(r *http.Request) (permission.Role, bool) {
		tok, ok := TokenFromContext(r.Context())
		if !ok || m == nil {
			return "", false
		}
		claims, err := m.Parse(tok)
		if err != nil {
			return "", false
		}
		role, err := permission.ParseRole(claims.Role)
		return role, err == nil
	}
}

// RoleFromClaims reads the role claim without verifying the signature.
// Use it only behind a gateway that already verified the token.
func RoleFromClaims() RoleLookup {
	return func(r *http.Request) (permission.Role, bool) {
		tok, ok := TokenFromContext(r.Context())
		if !ok {
			return "", false
		}
		claims, ok := token.Inspect(tok)
		if !ok {
			return "", false
		}
		role, err := permission.ParseRole(claims.Role)
		return role, err == nil
	}
}

// RequirePageAccess answers 401 when lookup finds no role and 403 when the
// role may not open r.URL.Path. A nil resolver uses the built-in yukyu
// page table.
func RequirePageAccess(resolver *permission.Resolver, lookup RoleLookup) func(http.Handler) http.Handler {
	if resolver == nil {
		resolver = permission.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if lookup == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			role, ok := lookup(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !resolver.IsAccessAllowed(r.URL.Path, role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), roleContextKey{}, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
