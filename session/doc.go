// Package session owns the client session state: the bearer token, the
// signed-in user profile, and the authenticated and hydrated flags.
//
// # Persistence channels
//
// Every transition that changes the token writes two copies: a JSON
// snapshot to a [storage.Storage] under a fixed key, and a session cookie
// through a [CookieWriter]. Both are written inside the same call as the
// in-memory change. A failed snapshot write never fails the call; the
// store logs it, reports [EventStorageWriteFailed] and carries on from
// memory ([Store.Degraded]).
//
// # Snapshot format
//
//	{"state":{"token":"...","user":{"id":1,"username":"..."},"isAuthenticated":true},"version":0}
//
// # What this package must NOT do
//
//   - Import goAuthState, permission or credentials (no upward imports).
//   - Make network calls. Credential exchange happens before Login.
//   - Expire sessions on a timer. The cookie Max-Age is the only expiry.
package session
