// Package goAuthState owns the client-side authentication state of the
// yukyu (paid-leave) application: the session store, its durable snapshot,
// the session cookie and the role-based permission checks layered on top.
//
// An [Engine] is created once at bootstrap through [New] ... [Builder.Build]
// and passed explicitly (or through [WithEngine]) to whatever needs it.
// Engine methods are safe to call from multiple goroutines.
//
// # Architecture boundaries
//
// goAuthState is the public surface. It exposes [Engine], [Builder], [Config]
// and value types such as [Capabilities] and [MetricsSnapshot]. Snapshot
// encoding and cookie formatting live in session; role tables and path
// rules live in permission; backends live in storage and permcache.
//
// # What this package must NOT do
//
//   - Verify secrets itself. Credential checks belong to a credentials.Exchanger.
//   - Write the snapshot key or the session cookie outside the session store.
//   - Start background goroutines other than the audit dispatcher and the
//     permission cache sweeper, both stopped by [Engine.Close].
package goAuthState
