// Package mediator is the request-mediation layer between inbound MCP tool
// calls and the DaVinci Resolve scripting handle. Resolve is single-instance
// and globally stateful (its current page and current project are
// process-wide), so this package makes it safe to drive from multiple
// concurrent remote clients.
//
// Every dispatched call runs the same fixed chain:
//
//	Dispatcher -> exclusive access -> Parameter Validator -> Page Guard
//	           -> leaf operation -> Error Normalizer -> Envelope
//
// The pieces:
//
//   - Dispatcher serializes calls end-to-end on a FIFO semaphore, applies
//     queue and execution time bounds, and guarantees each call terminates
//     in exactly one Envelope.
//   - Session owns the single scripting handle: lazy dial, per-call
//     liveness probe, one silent reacquire on loss.
//   - The page guard switches Resolve to an operation's required page and
//     restores the prior page on every exit path, with re-entrant no-op
//     nesting for the same page and LIFO unwinding for different pages.
//   - ArgSpec contracts validate arguments in declaration order before any
//     scripting call happens.
//   - The error normalizer maps every raised condition into the fixed code
//     taxonomy and never lets a raw fault escape to a remote caller.
//
// The leaf catalogue in internal/ops registers its operations against the
// Registry here; leaves stay thin and never do their own page switching or
// error formatting.
package mediator
