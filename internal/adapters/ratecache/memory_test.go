package ratecache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore(nil)

	_, ok := s.Get("usd_brl")
	assert.False(t, ok)
}

func TestMemoryStore_ExpiresAtBoundary(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(clock.Now)

	s.Set("usd_brl", 5.10, 600*time.Second)

	clock.Advance(300 * time.Second)
	val, ok := s.Get("usd_brl")
	require.True(t, ok)
	assert.Equal(t, 5.10, val)

	clock.Advance(299 * time.Second)
	_, ok = s.Get("usd_brl")
	assert.True(t, ok, "still valid one second before expiry")

	clock.Advance(1 * time.Second)
	_, ok = s.Get("usd_brl")
	assert.False(t, ok, "expired exactly at expiresAt")
	assert.Equal(t, 0, s.Len(), "expired entry is evicted by the read")
}

func TestMemoryStore_SetOverwrites(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(clock.Now)

	s.Set("usd_brl", 5.0, time.Minute)
	clock.Advance(50 * time.Second)
	s.Set("usd_brl", 5.5, time.Minute)
	clock.Advance(50 * time.Second)

	val, ok := s.Get("usd_brl")
	require.True(t, ok, "second write restarts the ttl")
	assert.Equal(t, 5.5, val)
}

func TestMemoryStore_NonPositiveTTLRemoves(t *testing.T) {
	s := NewMemoryStore(nil)
	s.Set("usd_brl", 5.0, time.Minute)
	s.Set("usd_brl", 6.0, 0)

	_, ok := s.Get("usd_brl")
	assert.False(t, ok)
}
