package session

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = eris.New("session: not found")

// Manager keeps sessions in memory. Every mutation runs under one lock, so
// each session sees a single writer.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	defaults Defaults
	idleTTL  time.Duration
	now      func() time.Time
}

// NewManager creates a Manager. idleTTL <= 0 disables expiry.
func NewManager(d Defaults, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		defaults: d,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create starts a new session.
func (m *Manager) Create() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := New(m.defaults, m.now().UTC())
	m.sessions[s.ID()] = s
	return s.Snapshot()
}

// Get returns a snapshot of session id. Reads count as activity, so the
// session's last-activity time is refreshed.
func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, eris.Wrapf(ErrNotFound, "%s", id)
	}
	s.updatedAt = m.now().UTC()
	return s.Snapshot(), nil
}

// Do runs fn against session id. The session's last-activity time is
// refreshed whether or not fn fails; state changes made by a failing fn
// are the caller's responsibility since Session methods are atomic.
func (m *Manager) Do(id string, fn func(*Session) error) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, eris.Wrapf(ErrNotFound, "%s", id)
	}
	s.updatedAt = m.now().UTC()
	if err := fn(s); err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// Delete removes session id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return eris.Wrapf(ErrNotFound, "%s", id)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL as of now and returns
// how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.UTC().Add(-m.idleTTL)
	removed := 0
	for id, s := range m.sessions {
		if s.updatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	log := zap.L().With(zap.String("component", "session.janitor"))
	log.Info("starting session janitor",
		zap.Duration("interval", interval),
		zap.Duration("idle_ttl", m.idleTTL),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("session janitor stopped")
			return
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				log.Info("expired idle sessions",
					zap.Int("removed", n),
					zap.Int("remaining", m.Len()),
				)
			}
		}
	}
}
