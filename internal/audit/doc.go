// Package audit dispatches session audit events asynchronously.
//
// # Components
//
//   - [Sink]: event consumer (channel, JSON lines, zap, no-op).
//   - [Dispatcher]: buffered relay with drop-if-full or block-if-full behaviour.
//   - [Event]: one record, stamped with a uuid and timestamp on emit.
//
// # What this package must NOT do
//
//   - Decide which events to emit. The engine does that.
//   - Import goAuthState or sibling internal packages.
package audit
