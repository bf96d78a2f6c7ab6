// Package rate throttles credential exchanges with Redis fixed-window
// counters.
//
// # Window semantics
//
// INCR plus EXPIRE on the first failure. Keys:
//   - <prefix>:id:<identifier>  failures per normalized identifier
//   - <prefix>:ip:<ip>          failures per client IP (optional)
//
// A successful exchange deletes both keys.
//
// # What this package must NOT do
//
//   - Decide what a failure is. The engine records only rejected
//     credentials, never backend outages.
package rate
