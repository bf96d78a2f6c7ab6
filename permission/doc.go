// Package permission maps user roles to yukyu capabilities and page access
// decisions.
//
// # Model
//
// Capabilities are registered into a frozen [Registry] that assigns each a
// bit in a [Mask64]. A [RoleManager] stores one mask per role. The
// [Resolver] combines both with a page table and answers predicate
// questions. Package-level helpers ([CanApprove], [IsAccessAllowed], ...)
// use the resolver built from the static tables.
//
// # Fail-closed rules
//
//   - Empty or unknown roles hold no capabilities.
//   - A path with no exact or prefix entry is denied for every role.
//   - Prefix entries match only on a "/" segment boundary, and the longest
//     one wins.
//
// # What this package must NOT do
//
//   - Perform I/O of any kind.
//   - Import goAuthState or session.
//   - Mutate its tables after package initialization.
package permission
