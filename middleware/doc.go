// Package middleware adapts the session cookie and the yukyu page table to
// net/http handlers.
//
// # Middleware
//
//   - [SessionCookies]: lets handlers that call Engine.Login or Engine.Logout
//     write Set-Cookie on the current response.
//   - [RequireSessionCookie]: 401 unless the session cookie (or a bearer
//     header) is present; injects the token.
//   - [RequirePageAccess]: 403 unless the caller's role may open the path.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into session and permission calls.
// Role resolution is pluggable through [RoleLookup].
//
// # What this package must NOT do
//
//   - Create tokens or write the snapshot.
//   - Allow a path the permission table does not list.
package middleware
