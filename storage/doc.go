// Package storage provides the durable key/value channel the session store
// persists its snapshot to.
//
// Backends: [Memory], [File], [Redis], [Postgres] and [Noop]. All of them
// report a missing key as ok=false with a nil error and wrap backend
// failures with [ErrUnavailable].
//
// # What this package must NOT do
//
//   - Interpret stored values. Encoding belongs to the session package.
//   - Apply expiry. Session lifetime is carried by the cookie.
package storage
