package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/atio-cli/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(ttl time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := NewManager(DefaultDefaults(), ttl)
	m.now = clock.Now
	return m, clock
}

func TestManager_CreateGetDelete(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	snap := m.Create()
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	require.NoError(t, m.Delete(snap.ID))
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(snap.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, m.Delete(snap.ID), ErrNotFound)
}

func TestManager_Do(t *testing.T) {
	m, clock := newTestManager(time.Hour)
	snap := m.Create()

	clock.Advance(time.Minute)
	got, err := m.Do(snap.ID, func(s *Session) error {
		return s.Update(model.ContextPatch{Role: ptr("researcher")})
	})
	require.NoError(t, err)
	assert.Equal(t, "researcher", got.Context.Role)
	assert.Equal(t, snap.CreatedAt.Add(time.Minute), got.UpdatedAt)

	_, err = m.Do(snap.ID, func(s *Session) error {
		return s.Update(model.ContextPatch{Role: ptr("pirate")})
	})
	require.ErrorIs(t, err, ErrInvalidContext)

	_, err = m.Do("missing", func(*Session) error { return nil })
	require.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Sweep(t *testing.T) {
	m, clock := newTestManager(30 * time.Minute)
	idle := m.Create()
	active := m.Create()

	clock.Advance(20 * time.Minute)
	_, err := m.Do(active.ID, func(*Session) error { return nil })
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep(clock.Now()))

	_, err = m.Get(idle.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(active.ID)
	require.NoError(t, err)
}

func TestManager_GetKeepsSessionAlive(t *testing.T) {
	m, clock := newTestManager(time.Hour)
	snap := m.Create()

	clock.Advance(50 * time.Minute)
	got, err := m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.CreatedAt.Add(50*time.Minute), got.UpdatedAt)

	clock.Advance(20 * time.Minute)
	assert.Equal(t, 0, m.Sweep(clock.Now()))
	assert.Equal(t, 1, m.Len())

	clock.Advance(time.Hour)
	assert.Equal(t, 1, m.Sweep(clock.Now()))
	assert.Equal(t, 0, m.Len())
}

func TestManager_SweepDisabled(t *testing.T) {
	m, clock := newTestManager(0)
	m.Create()
	clock.Advance(1000 * time.Hour)
	assert.Equal(t, 0, m.Sweep(clock.Now()))
	assert.Equal(t, 1, m.Len())
}

func TestManager_ConcurrentDo(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	snap := m.Create()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = m.Do(snap.ID, func(s *Session) error {
				return s.AddToComparison(string(rune('a' + i)))
			})
		}(i)
	}
	wg.Wait()

	got, err := m.Get(snap.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comparison, 20)
}

func TestManager_RunJanitorStopsOnCancel(t *testing.T) {
	m, clock := newTestManager(time.Minute)
	m.Create()
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
