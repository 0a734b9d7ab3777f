package mediator

import (
	"errors"
	"testing"

	"resolvemcp/internal/resolve"
	"resolvemcp/internal/resolve/resolvetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLazyDial(t *testing.T) {
	dials := 0
	host := resolvetest.NewHost()
	s := NewSession(func() (resolve.Host, error) {
		dials++
		return host, nil
	})

	assert.Equal(t, 0, dials, "no dial before first acquisition")

	got, err := s.Acquire()
	require.NoError(t, err)
	assert.Same(t, resolve.Host(host), got)
	assert.Equal(t, 1, dials)

	_, err = s.Acquire()
	require.NoError(t, err)
	assert.Equal(t, 1, dials, "live handle is reused")
}

func TestSessionDialFailure(t *testing.T) {
	s := NewSession(func() (resolve.Host, error) {
		return nil, errors.New("refused")
	})

	_, err := s.Acquire()
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.ErrorContains(t, err, "refused")
}

func TestSessionDeadOnArrivalHandle(t *testing.T) {
	host := resolvetest.NewHost()
	host.SetAlive(false)
	s := NewSession(func() (resolve.Host, error) { return host, nil })

	_, err := s.Acquire()
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.True(t, host.Closed, "dead handle is closed, not cached")
}

func TestSessionReacquiresStaleHandle(t *testing.T) {
	first := resolvetest.NewHost()
	second := resolvetest.NewHost()
	hosts := []*resolvetest.Host{first, second}
	dials := 0
	s := NewSession(func() (resolve.Host, error) {
		h := hosts[dials]
		dials++
		return h, nil
	})

	_, err := s.Acquire()
	require.NoError(t, err)

	first.SetAlive(false)

	got, err := s.Acquire()
	require.NoError(t, err)
	assert.Same(t, resolve.Host(second), got)
	assert.Equal(t, 2, dials)
	assert.True(t, first.Closed, "stale handle is closed before the redial")
}

func TestSessionSuspectForcesRedial(t *testing.T) {
	first := resolvetest.NewHost()
	second := resolvetest.NewHost()
	hosts := []*resolvetest.Host{first, second}
	dials := 0
	s := NewSession(func() (resolve.Host, error) {
		h := hosts[dials]
		dials++
		return h, nil
	})

	_, err := s.Acquire()
	require.NoError(t, err)

	// The handle still reports alive, but a timed-out call may have left
	// it wedged. Suspect overrides the liveness fast path.
	s.MarkSuspect()

	got, err := s.Acquire()
	require.NoError(t, err)
	assert.Same(t, resolve.Host(second), got)
	assert.Equal(t, 2, dials)
}

func TestSessionReset(t *testing.T) {
	host := resolvetest.NewHost()
	dials := 0
	s := NewSession(func() (resolve.Host, error) {
		dials++
		return host, nil
	})

	_, err := s.Acquire()
	require.NoError(t, err)

	s.Reset()
	assert.True(t, host.Closed)

	_, err = s.Acquire()
	require.NoError(t, err)
	assert.Equal(t, 2, dials)
}

func TestSessionSnapshot(t *testing.T) {
	host := resolvetest.NewHost()
	s := NewSession(func() (resolve.Host, error) { return host, nil })

	snap := s.Snapshot()
	assert.False(t, snap.Connected)
	assert.Empty(t, snap.Page)
	assert.True(t, snap.LastCall.IsZero())

	_, err := s.Acquire()
	require.NoError(t, err)
	s.NoteSuccess(resolve.PageColor)

	snap = s.Snapshot()
	assert.True(t, snap.Connected)
	assert.Equal(t, resolve.PageColor, snap.Page)
	assert.False(t, snap.LastCall.IsZero())

	s.MarkSuspect()
	assert.False(t, s.Snapshot().Connected, "suspect handle is not reported connected")
}
