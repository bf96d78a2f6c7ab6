// Package token issues and inspects the JWT bearer tokens handed to the
// session store.
//
// [Manager] signs tokens (HS256 or Ed25519) for the built-in credential
// exchanger and verifies them for server-side guards. [Inspect] reads
// claims without a key so the session can cap its cookie lifetime at the
// token's own expiry.
//
// # What this package must NOT do
//
//   - Store tokens or session state.
//   - Grant access based on unverified claims.
package token
