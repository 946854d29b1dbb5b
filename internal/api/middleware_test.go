package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cl := newClientLimiter(rate.Limit(1), 1)
	cl.now = func() time.Time { return now }

	stale := cl.get("10.0.0.1")
	cl.get("10.0.0.2")
	require.Len(t, cl.limiters, 2)

	now = now.Add(limiterIdle / 2)
	cl.get("10.0.0.2")

	now = now.Add(limiterIdle/2 + time.Second)
	cl.get("10.0.0.3")
	assert.Len(t, cl.limiters, 2)
	assert.NotContains(t, cl.limiters, "10.0.0.1")
	assert.Contains(t, cl.limiters, "10.0.0.2")
	assert.Contains(t, cl.limiters, "10.0.0.3")

	assert.NotSame(t, stale, cl.get("10.0.0.1"), "an evicted client gets a fresh bucket")
}

func TestClientLimiter_ReusesBucket(t *testing.T) {
	cl := newClientLimiter(rate.Limit(1), 1)
	a := cl.get("10.0.0.1")
	assert.Same(t, a, cl.get("10.0.0.1"))
	assert.True(t, a.Allow())
	assert.False(t, cl.get("10.0.0.1").Allow())
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/catalog", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", clientKey(r))

	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientKey(r))
}
