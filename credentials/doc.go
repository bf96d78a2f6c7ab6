// Package credentials exchanges an identifier and secret for a bearer token
// and user profile.
//
// The session store never sees secrets: callers run an [Exchanger] first and
// only hand a successful [Result] to login. Failures are [*Failure] values
// with a stable Code so HTTP layers can map them without string matching.
//
// [StaticExchanger] is an in-memory directory backed by argon2id PHC hashes
// and is meant for demos, tests and small internal tools.
//
// # What this package must NOT do
//
//   - Persist session state or write cookies.
//   - Log secrets or hashes.
package credentials
