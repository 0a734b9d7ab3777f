package mediator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"resolvemcp/internal/resolve"
	"resolvemcp/internal/resolve/resolvetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRig wires a dispatcher to a fake host behind a counting dialer.
type testRig struct {
	host       *resolvetest.Host
	dispatcher *Dispatcher
	registry   *Registry
	dials      *atomic.Int32
	dialErr    error
}

func newTestRig(t *testing.T, opts Options) *testRig {
	t.Helper()
	rig := &testRig{
		host:     resolvetest.NewHost(),
		registry: NewRegistry(),
		dials:    &atomic.Int32{},
	}
	session := NewSession(func() (resolve.Host, error) {
		rig.dials.Add(1)
		if rig.dialErr != nil {
			return nil, rig.dialErr
		}
		return rig.host, nil
	})
	rig.dispatcher = NewDispatcher(rig.registry, session, opts)
	return rig
}

func TestDispatchUnknownOperation(t *testing.T) {
	rig := newTestRig(t, Options{})

	env := rig.dispatcher.Dispatch(context.Background(), "not_a_real_op", nil)

	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, CodeUnknownOperation, env.Code)
	// No connection was acquired for an unregistered name.
	assert.Equal(t, int32(0), rig.dials.Load())
}

func TestDispatchValidationFailureNeverReachesLeaf(t *testing.T) {
	rig := newTestRig(t, Options{})
	var invoked atomic.Bool
	rig.registry.MustRegister(Operation{
		Name: "set_proxy_quality",
		Args: []ArgSpec{
			{Name: "quality", Type: "string", Required: true,
				Enum: []string{"Quarter Resolution", "Half Resolution", "Full Resolution"}},
		},
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			invoked.Store(true)
			return &Result{Message: "ok"}, nil
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "set_proxy_quality",
		map[string]interface{}{"quality": "Potato Resolution"})

	assert.Equal(t, CodeValidation, env.Code)
	assert.False(t, invoked.Load(), "leaf must not run on a failed contract")
	assert.Equal(t, "quality", env.Context["parameter"])
	assert.Equal(t, "enum", env.Context["rule"])
	assert.Equal(t, "Potato Resolution", env.Context["value"])
}

func TestDispatchSuccess(t *testing.T) {
	rig := newTestRig(t, Options{})
	rig.registry.MustRegister(Operation{
		Name: "get_product_info",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			host, err := s.Acquire()
			if err != nil {
				return nil, err
			}
			name, err := host.ProductName()
			if err != nil {
				return nil, err
			}
			return &Result{Message: "product info", Data: map[string]interface{}{"product": name}}, nil
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "get_product_info", nil)

	require.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, "DaVinci Resolve", env.Data["product"])
	assert.Empty(t, env.Code)
}

func TestDispatchSerializesLeafExecutions(t *testing.T) {
	rig := newTestRig(t, Options{})
	var inFlight atomic.Int32
	var overlapped atomic.Bool
	rig.registry.MustRegister(Operation{
		Name: "slow_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			if inFlight.Add(1) > 1 {
				overlapped.Store(true)
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return &Result{Message: "done"}, nil
		},
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env := rig.dispatcher.Dispatch(context.Background(), "slow_op", nil)
			assert.Equal(t, StatusSuccess, env.Status)
		}()
	}
	wg.Wait()

	assert.False(t, overlapped.Load(), "two leaf executions interleaved")
}

func TestDispatchUnclassifiedFaultBecomesInternalError(t *testing.T) {
	rig := newTestRig(t, Options{})
	rig.registry.MustRegister(Operation{
		Name: "broken_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			return nil, errors.New("something deeply unexpected")
		},
	})
	rig.registry.MustRegister(Operation{
		Name: "panicking_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			panic("boom")
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "broken_op", nil)
	assert.Equal(t, CodeInternal, env.Code)
	// Raw detail stays out of the caller-facing message.
	assert.NotContains(t, env.Message, "deeply unexpected")

	env = rig.dispatcher.Dispatch(context.Background(), "panicking_op", nil)
	assert.Equal(t, CodeInternal, env.Code)
	assert.NotContains(t, env.Message, "boom")
}

func TestDispatchLeafErrorPreservesResolveMessage(t *testing.T) {
	rig := newTestRig(t, Options{})
	rig.registry.MustRegister(Operation{
		Name: "grade_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			return nil, NewLeafError("grade_op", errors.New("cannot access grade object"))
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "grade_op", nil)

	assert.Equal(t, CodeLeaf, env.Code)
	assert.Equal(t, "cannot access grade object", env.Context["resolve_error"])
	assert.Equal(t, "grade_op", env.Context["operation"])
}

func TestDispatchTimeoutReleasesResource(t *testing.T) {
	rig := newTestRig(t, Options{ExecTimeout: 20 * time.Millisecond})
	release := make(chan struct{})
	rig.registry.MustRegister(Operation{
		Name: "wedged_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			<-release
			return &Result{Message: "late"}, nil
		},
	})
	rig.registry.MustRegister(Operation{
		Name: "quick_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			return &Result{Message: "quick"}, nil
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "wedged_op", nil)
	assert.Equal(t, CodeTimeout, env.Code)
	close(release)

	// The exclusive access was released; an independent call still works,
	// redialing because the timeout marked the connection suspect.
	env = rig.dispatcher.Dispatch(context.Background(), "quick_op", nil)
	assert.Equal(t, StatusSuccess, env.Status)
	assert.GreaterOrEqual(t, rig.dials.Load(), int32(2))
}

func TestDispatchCancelledWhileQueued(t *testing.T) {
	rig := newTestRig(t, Options{QueueTimeout: time.Second})
	started := make(chan struct{})
	release := make(chan struct{})
	rig.registry.MustRegister(Operation{
		Name: "holder_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			close(started)
			<-release
			return &Result{Message: "held"}, nil
		},
	})
	rig.registry.MustRegister(Operation{
		Name: "queued_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			return &Result{Message: "ran"}, nil
		},
	})

	done := make(chan Envelope, 1)
	go func() {
		done <- rig.dispatcher.Dispatch(context.Background(), "holder_op", nil)
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	queued := make(chan Envelope, 1)
	go func() {
		queued <- rig.dispatcher.Dispatch(ctx, "queued_op", nil)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	env := <-queued
	assert.Equal(t, CodeCancelled, env.Code)

	close(release)
	env = <-done
	assert.Equal(t, StatusSuccess, env.Status)
}

func TestDispatchQueueTimeout(t *testing.T) {
	rig := newTestRig(t, Options{QueueTimeout: 15 * time.Millisecond})
	started := make(chan struct{})
	release := make(chan struct{})
	rig.registry.MustRegister(Operation{
		Name: "holder_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			close(started)
			<-release
			return &Result{Message: "held"}, nil
		},
	})

	go rig.dispatcher.Dispatch(context.Background(), "holder_op", nil)
	<-started

	env := rig.dispatcher.Dispatch(context.Background(), "holder_op", nil)
	assert.Equal(t, CodeTimeout, env.Code)
	close(release)
}

func TestDispatchConnectionError(t *testing.T) {
	rig := newTestRig(t, Options{})
	rig.dialErr = fmt.Errorf("gateway refused")
	rig.registry.MustRegister(Operation{
		Name: "any_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			return &Result{Message: "ok"}, nil
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "any_op", nil)

	assert.Equal(t, CodeConnection, env.Code)
	assert.Contains(t, env.Message, "not connected")
}

func TestDispatchSilentReacquireAfterLoss(t *testing.T) {
	rig := newTestRig(t, Options{})
	rig.registry.MustRegister(Operation{
		Name: "any_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			return &Result{Message: "ok"}, nil
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "any_op", nil)
	require.Equal(t, StatusSuccess, env.Status)
	require.Equal(t, int32(1), rig.dials.Load())

	// Resolve goes away and comes back: the next call reacquires silently.
	rig.host.SetAlive(false)
	replacement := resolvetest.NewHost()
	old := rig.host
	rig.host = replacement

	env = rig.dispatcher.Dispatch(context.Background(), "any_op", nil)
	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, int32(2), rig.dials.Load())
	assert.True(t, old.Closed, "stale handle must be closed on reacquire")
}

func TestDispatchInfoResult(t *testing.T) {
	rig := newTestRig(t, Options{})
	rig.registry.MustRegister(Operation{
		Name: "status_op",
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			return &Result{Message: "connected", Info: true, Data: map[string]interface{}{"connected": true}}, nil
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "status_op", nil)

	assert.Equal(t, StatusInfo, env.Status)
	assert.Equal(t, true, env.Data["connected"])
}

func TestDispatchTimeoutDoesNotLeakPageGuard(t *testing.T) {
	rig := newTestRig(t, Options{ExecTimeout: 20 * time.Millisecond})
	rig.host.Page = resolve.PageMedia
	release := make(chan struct{})
	finished := make(chan struct{})
	rig.registry.MustRegister(Operation{
		Name: "stuck_color_op",
		Page: resolve.PageColor,
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			defer close(finished)
			<-release
			return &Result{Message: "late"}, nil
		},
	})
	rig.registry.MustRegister(Operation{
		Name: "check_color_op",
		Page: resolve.PageColor,
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			page, _ := rig.host.CurrentPage()
			return &Result{Message: "on " + page}, nil
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "stuck_color_op", nil)
	require.Equal(t, CodeTimeout, env.Code)

	// While the wedged leaf is still blocked, the application drifts to a
	// different page. The next guarded call must not trust any state left
	// behind by the abandoned call: it needs its own forward switch.
	rig.host.Page = resolve.PageEdit

	env = rig.dispatcher.Dispatch(context.Background(), "check_color_op", nil)
	require.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, "on color", env.Message)
	page, _ := rig.host.CurrentPage()
	assert.Equal(t, resolve.PageEdit, page)

	// When the wedged leaf finally unblocks, its pending restore is
	// disarmed: no switch back to media underneath later calls.
	close(release)
	<-finished
	time.Sleep(10 * time.Millisecond)
	page, _ = rig.host.CurrentPage()
	assert.Equal(t, resolve.PageEdit, page, "abandoned call must not touch the page")
}

func TestDispatchPageGuardedOperation(t *testing.T) {
	rig := newTestRig(t, Options{})
	rig.host.Page = resolve.PageEdit
	rig.registry.MustRegister(Operation{
		Name: "color_op",
		Page: resolve.PageColor,
		Handler: func(ctx context.Context, s *Session, args Args) (*Result, error) {
			page, _ := rig.host.CurrentPage()
			return &Result{Message: "on " + page}, nil
		},
	})

	env := rig.dispatcher.Dispatch(context.Background(), "color_op", nil)

	require.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, "on color", env.Message)
	page, _ := rig.host.CurrentPage()
	assert.Equal(t, resolve.PageEdit, page, "page must be restored after the call")
}
