package mediator

import (
	"context"
	"errors"
	"fmt"

	"resolvemcp/pkg/logging"
)

// Code identifies one kind in the error taxonomy. Every failure envelope
// carries exactly one of these; nothing else ever reaches a remote caller.
type Code string

const (
	CodeConnection       Code = "CONNECTION_ERROR"
	CodeUnknownOperation Code = "UNKNOWN_OPERATION"
	CodeValidation       Code = "VALIDATION_ERROR"
	CodePageSwitch       Code = "PAGE_SWITCH_ERROR"
	CodeTimeout          Code = "TIMEOUT"
	CodeLeaf             Code = "LEAF_ERROR"
	CodeCancelled        Code = "CANCELLED"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// ConnectionError indicates the Resolve instance is unreachable or the
// scripting handle has gone stale. The session attempts exactly one silent
// reacquire before surfacing this.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("not connected to DaVinci Resolve: %v", e.Cause)
	}
	return "not connected to DaVinci Resolve"
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// ValidationError rejects an argument before the leaf runs. It carries
// everything a caller needs to correct the request: the offending
// parameter, the rule that failed, and the value supplied.
type ValidationError struct {
	Param   string
	Rule    string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s (got %v)", e.Param, e.Message, e.Value)
}

// PageSwitchError indicates the required page could not be entered or
// restored. No leaf runs after a failed forward switch.
type PageSwitchError struct {
	Page  string
	Cause error
}

func (e *PageSwitchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to switch to %s page: %v", e.Page, e.Cause)
	}
	return fmt.Sprintf("failed to switch to %s page", e.Page)
}

func (e *PageSwitchError) Unwrap() error { return e.Cause }

// LeafError wraps a fault raised by the scripting call itself. The
// application's own message is preserved verbatim for diagnostics.
type LeafError struct {
	Operation string
	Cause     error
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("operation %s failed: %v", e.Operation, e.Cause)
}

func (e *LeafError) Unwrap() error { return e.Cause }

// NewLeafError tags a scripting fault with the operation that raised it.
// Leaves use this for failures the taxonomy should report as LEAF_ERROR
// rather than INTERNAL_ERROR.
func NewLeafError(operation string, cause error) *LeafError {
	return &LeafError{Operation: operation, Cause: cause}
}

// Leaff builds a LeafError from a formatted message, for scripting calls
// that report refusal by returning false instead of raising.
func Leaff(operation, format string, args ...interface{}) *LeafError {
	return &LeafError{Operation: operation, Cause: fmt.Errorf(format, args...)}
}

// unknownOperationError is produced only by the dispatcher's registry lookup.
type unknownOperationError struct {
	Name string
}

func (e *unknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// timeoutError distinguishes a bounded-wait expiry from caller cancellation;
// both arrive as context errors and are split by the dispatcher.
type timeoutError struct {
	Phase string // "queued" or "executing"
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("call exceeded its time bound while %s", e.Phase)
}

// normalizer turns any raised condition into a failure envelope. It is the
// last line of defense: nothing it does may itself fail, and an
// unclassified fault maps to INTERNAL_ERROR rather than propagating.
type normalizer struct {
	session *Session
}

// normalize maps err into the taxonomy and attaches best-effort diagnostic
// context. The full original fault is logged here; the caller-facing
// message stays free of stack detail.
func (n *normalizer) normalize(operation string, err error) Envelope {
	code, message := classify(err)

	logging.Error("ErrorNormalizer", err, "operation %s failed with %s", operation, code)

	ctx := n.gatherContext(operation, err)
	return Failure(code, message, ctx)
}

func classify(err error) (Code, string) {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return CodeConnection, connErr.Error()
	}

	var unknownErr *unknownOperationError
	if errors.As(err, &unknownErr) {
		return CodeUnknownOperation, unknownErr.Error()
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return CodeValidation, valErr.Error()
	}

	var pageErr *PageSwitchError
	if errors.As(err, &pageErr) {
		return CodePageSwitch, pageErr.Error()
	}

	var tmoErr *timeoutError
	if errors.As(err, &tmoErr) {
		return CodeTimeout, tmoErr.Error()
	}

	if errors.Is(err, context.Canceled) {
		return CodeCancelled, "call cancelled by caller"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout, "call exceeded its time bound"
	}

	var leafErr *LeafError
	if errors.As(err, &leafErr) {
		return CodeLeaf, leafErr.Error()
	}

	return CodeInternal, "internal error; see bridge log for detail"
}

// gatherContext snapshots connection and project state for diagnostics.
// It is strictly best-effort: a panic or error while gathering must never
// mask the original fault, so everything here is recover-protected and
// nil-tolerant.
func (n *normalizer) gatherContext(operation string, original error) (ctx map[string]interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("ErrorNormalizer", "context gathering panicked: %v", r)
			ctx = map[string]interface{}{"operation": operation}
		}
	}()

	ctx = map[string]interface{}{
		"operation": operation,
	}

	var valErr *ValidationError
	if errors.As(original, &valErr) {
		ctx["parameter"] = valErr.Param
		ctx["rule"] = valErr.Rule
		ctx["value"] = fmt.Sprintf("%v", valErr.Value)
	}
	var leafErr *LeafError
	if errors.As(original, &leafErr) && leafErr.Cause != nil {
		// The application's own message, verbatim.
		ctx["resolve_error"] = leafErr.Cause.Error()
	}

	if n.session == nil {
		return ctx
	}

	state := n.session.Snapshot()
	ctx["connected"] = state.Connected
	if state.Page != "" {
		ctx["current_page"] = state.Page
	}
	if !state.Connected {
		return ctx
	}

	host := n.session.peek()
	if host == nil {
		return ctx
	}
	if pm, err := host.ProjectManager(); err == nil {
		if project, err := pm.CurrentProject(); err == nil {
			if name, err := project.Name(); err == nil {
				ctx["project"] = name
			}
			if tl, err := project.CurrentTimeline(); err == nil {
				if name, err := tl.Name(); err == nil {
					ctx["timeline"] = name
				}
			}
		}
	}
	return ctx
}
