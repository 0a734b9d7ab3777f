package mediator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resolvemcp/internal/resolve"
	"resolvemcp/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultQueueTimeout bounds how long a call may wait for exclusive
	// access to the Resolve instance.
	DefaultQueueTimeout = 30 * time.Second
	// DefaultExecTimeout bounds a single leaf execution.
	DefaultExecTimeout = 60 * time.Second
)

// Options tunes the dispatcher's time bounds. Zero values take the defaults.
type Options struct {
	QueueTimeout time.Duration
	ExecTimeout  time.Duration
}

// Dispatcher is the entry point of the mediation layer. Resolve is a
// single-instance, globally-stateful application, so every dispatched call
// runs inside one critical section: callers queue FIFO on a weighted
// semaphore and observe the illusion of sequential, isolated calls.
//
// Dispatch never raises: every call terminates in exactly one envelope.
type Dispatcher struct {
	registry *Registry
	session  *Session
	sem      *semaphore.Weighted

	queueTimeout time.Duration
	execTimeout  time.Duration

	norm normalizer
}

func NewDispatcher(registry *Registry, session *Session, opts Options) *Dispatcher {
	if opts.QueueTimeout <= 0 {
		opts.QueueTimeout = DefaultQueueTimeout
	}
	if opts.ExecTimeout <= 0 {
		opts.ExecTimeout = DefaultExecTimeout
	}
	return &Dispatcher{
		registry:     registry,
		session:      session,
		sem:          semaphore.NewWeighted(1),
		queueTimeout: opts.QueueTimeout,
		execTimeout:  opts.ExecTimeout,
		norm:         normalizer{session: session},
	}
}

// Registry exposes the descriptor registry for tool listing.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Session exposes the session for status reporting.
func (d *Dispatcher) Session() *Session {
	return d.session
}

// SetTimeouts adjusts the time bounds at runtime. In-flight calls keep the
// bounds they started with.
func (d *Dispatcher) SetTimeouts(queue, exec time.Duration) {
	if queue > 0 {
		d.queueTimeout = queue
	}
	if exec > 0 {
		d.execTimeout = exec
	}
}

// Dispatch runs one remote call through the full mediation chain, in fixed
// order: resolve the name, acquire exclusive access, validate, page-guard
// the leaf, and normalize whatever went wrong into a failure envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, rawArgs map[string]interface{}) Envelope {
	rid := uuid.NewString()[:8]

	op, found := d.registry.Lookup(name)
	if !found {
		logging.Warn("Dispatcher", "[%s] unknown operation %q", rid, name)
		return d.norm.normalize(name, &unknownOperationError{Name: name})
	}

	// Exclusive access: steps from validation through leaf execution form
	// one critical section against the shared Resolve instance.
	acquireCtx, cancel := context.WithTimeout(ctx, d.queueTimeout)
	defer cancel()
	if err := d.sem.Acquire(acquireCtx, 1); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			logging.Debug("Dispatcher", "[%s] %s cancelled while queued", rid, name)
			return d.norm.normalize(name, context.Canceled)
		}
		logging.Warn("Dispatcher", "[%s] %s timed out waiting for exclusive access", rid, name)
		return d.norm.normalize(name, &timeoutError{Phase: "queued"})
	}
	defer d.sem.Release(1)

	logging.Debug("Dispatcher", "[%s] validating %s", rid, name)
	args, verr := validate(op, Args(rawArgs))
	if verr != nil {
		return d.norm.normalize(name, verr)
	}

	var host resolve.Host
	if !op.NoHost {
		var err error
		host, err = d.session.Acquire()
		if err != nil {
			return d.norm.normalize(name, err)
		}
	}

	logging.Debug("Dispatcher", "[%s] executing %s (page=%q)", rid, name, op.Page)
	result, err := d.execute(ctx, rid, op, host, args)
	if err != nil {
		return d.norm.normalize(name, err)
	}

	if host != nil {
		if page, perr := host.CurrentPage(); perr == nil {
			d.session.NoteSuccess(page)
		} else {
			d.session.NoteSuccess("")
		}
	}

	logging.Debug("Dispatcher", "[%s] %s responding", rid, name)
	if result.Info {
		return Info(result.Message, result.Data)
	}
	return Success(result.Message, result.Data)
}

type leafOutcome struct {
	result *Result
	err    error
}

// execute runs the leaf (inside the page guard when the descriptor requires
// a page) under the execution time bound. On timeout the dispatcher stops
// waiting and marks the connection suspect; it cannot abort the scripting
// call still running inside the application, so the leaf goroutine is
// abandoned and must not touch dispatcher state. Abandoning also disarms the
// goroutine's pending page restore: by the time it unblocks, the page
// belongs to later calls.
func (d *Dispatcher) execute(ctx context.Context, rid string, op *Operation, host resolve.Host, args Args) (*Result, error) {
	execCtx, cancel := context.WithTimeout(ctx, d.execTimeout)
	defer cancel()

	var guard *pageGuard
	if op.Page != "" {
		guard = newPageGuard(host)
	}

	outcome := make(chan leafOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcome <- leafOutcome{err: fmt.Errorf("leaf %s panicked: %v", op.Name, r)}
			}
		}()

		run := func() (*Result, error) {
			res, err := op.Handler(execCtx, d.session, args)
			if err == nil && res == nil {
				err = fmt.Errorf("leaf %s returned no result", op.Name)
			}
			return res, err
		}

		var res *Result
		var err error
		if guard != nil {
			res, err = guard.RunOnPage(op.Page, run)
		} else {
			res, err = run()
		}
		outcome <- leafOutcome{result: res, err: err}
	}()

	select {
	case out := <-outcome:
		return out.result, out.err
	case <-execCtx.Done():
		if guard != nil {
			guard.abandon()
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			logging.Warn("Dispatcher", "[%s] %s cancelled mid-execution", rid, op.Name)
			return nil, context.Canceled
		}
		logging.Warn("Dispatcher", "[%s] %s exceeded execution bound; marking connection suspect", rid, op.Name)
		d.session.MarkSuspect()
		return nil, &timeoutError{Phase: "executing"}
	}
}
