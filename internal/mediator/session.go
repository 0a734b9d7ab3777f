package mediator

import (
	"sync"
	"time"

	"resolvemcp/internal/resolve"
	"resolvemcp/pkg/logging"
)

// Dialer establishes a fresh scripting handle to the Resolve instance.
type Dialer func() (resolve.Host, error)

// Session owns the single live handle to the external application. The
// handle is created lazily on the first dispatched call, health-checked on
// every acquisition, and silently reacquired exactly once when found
// stale. It is never copied; callers borrow it for one call.
type Session struct {
	mu      sync.Mutex
	dial    Dialer
	host    resolve.Host
	lastOK  time.Time
	page    string
	suspect bool
}

// SessionState is the diagnostic snapshot attached to failure envelopes.
type SessionState struct {
	Connected bool
	Page      string
	LastCall  time.Time
}

func NewSession(dial Dialer) *Session {
	return &Session{dial: dial}
}

// Acquire returns a live host, dialing or re-dialing as needed. A handle
// that fails the liveness probe is discarded and replaced by one silent
// redial; if that also fails the caller gets a ConnectionError.
func (s *Session) Acquire() (resolve.Host, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.host != nil {
		if !s.suspect && s.host.IsAlive() {
			return s.host, nil
		}
		logging.Warn("Session", "scripting handle stale (suspect=%v), reacquiring", s.suspect)
		_ = s.host.Close()
		s.host = nil
		s.suspect = false
	}

	host, err := s.dial()
	if err != nil {
		return nil, &ConnectionError{Cause: err}
	}
	if !host.IsAlive() {
		_ = host.Close()
		return nil, &ConnectionError{}
	}

	s.host = host
	logging.Info("Session", "connected to DaVinci Resolve")
	return host, nil
}

// NoteSuccess records a completed call, refreshing the last-successful-call
// timestamp and the observed page.
func (s *Session) NoteSuccess(page string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOK = time.Now()
	if page != "" {
		s.page = page
	}
}

// MarkSuspect flags the handle for a forced probe-and-redial on the next
// acquisition. The dispatcher sets it after a leaf timeout, when the
// external call may still be wedged inside the application.
func (s *Session) MarkSuspect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspect = true
}

// Reset drops the cached handle so the next call dials fresh. Exposed to
// the reconnect operation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host != nil {
		_ = s.host.Close()
		s.host = nil
	}
	s.suspect = false
}

// Snapshot reads the session's diagnostic state without probing.
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		Connected: s.host != nil && !s.suspect,
		Page:      s.page,
		LastCall:  s.lastOK,
	}
}

// Host returns the cached handle without a liveness probe. Leaves run
// inside a dispatch that acquired the handle moments earlier, so the cached
// value is current for the duration of the call.
func (s *Session) Host() (resolve.Host, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host == nil {
		return nil, &ConnectionError{}
	}
	return s.host, nil
}

// peek returns the cached handle, nil when disconnected. Used only by the
// error normalizer's best-effort context gathering, which must not trigger
// a redial.
func (s *Session) peek() resolve.Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspect {
		return nil
	}
	return s.host
}
