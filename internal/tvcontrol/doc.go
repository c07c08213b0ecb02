// Package tvcontrol orchestrates remote-control commands against a single
// television.
//
// The package is organised around one question: "run this named action,
// whatever it takes, and tell me what happened". The pieces:
//
//   - Catalog: validated, immutable mapping from action names to ordered
//     step sequences (app launches and button presses with post-delays)
//   - Session: one connection lifecycle per command, including pairing-key
//     refresh persistence
//   - Executor: drives a sequence through a session, in order, aborting on
//     the first failure
//   - IsUnreachable: decides whether a failure looks like a sleeping TV
//   - Orchestrator: wraps execution with the wake-then-retry policy and
//     converts every outcome into a human-readable status line
//   - Gate / Service: single-writer guard shared by all front-ends
//
// The orchestrator's contract is deliberate: ExecuteWithRetry never returns
// an error and never panics. Front-ends relay its string verbatim to a
// non-technical user; errors worth acting on programmatically (busy,
// unknown action) surface from Service.Execute before any device traffic.
//
// Concurrency: one Service guards one physical device. Catalogs are
// immutable after construction; sessions are single-use and not safe for
// concurrent use.
package tvcontrol
