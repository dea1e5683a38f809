package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentvet/internal/domain"
)

func payloadWithScore(score float64) Payload {
	return Payload{
		Authenticity: domain.AuthenticityReport{Overall: score},
		Match:        &domain.MatchReport{Overall: score},
	}
}

func TestKey_DependsOnBytesAndJD(t *testing.T) {
	doc := []byte("resume bytes")

	assert.Equal(t, Key(doc, "jd"), Key(doc, "jd"))
	assert.NotEqual(t, Key(doc, "jd one"), Key(doc, "jd two"))
	assert.NotEqual(t, Key(doc, ""), Key([]byte("other bytes"), ""))
}

func TestScoreCache_RoundTrip(t *testing.T) {
	c := New(30*time.Minute, 100)
	key := Key([]byte("doc"), "jd")

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, payloadWithScore(88.5))
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 88.5, got.Authenticity.Overall)
	require.NotNil(t, got.Match)
	assert.Equal(t, 88.5, got.Match.Overall)
}

func TestScoreCache_GetReturnsCopy(t *testing.T) {
	c := New(30*time.Minute, 100)
	key := Key([]byte("doc"), "")
	c.Set(key, payloadWithScore(90))

	first, ok := c.Get(key)
	require.True(t, ok)
	first.Match.Overall = 1

	second, _ := c.Get(key)
	assert.Equal(t, 90.0, second.Match.Overall)
}

func TestScoreCache_TTLExpiry(t *testing.T) {
	c := New(30*time.Minute, 100)
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	key := Key([]byte("doc"), "")
	c.Set(key, payloadWithScore(80))

	current = current.Add(29 * time.Minute)
	_, ok := c.Get(key)
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestScoreCache_EvictsOldestAtCapacity(t *testing.T) {
	c := New(30*time.Minute, 3)
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key-%d", i), payloadWithScore(float64(i)))
		current = current.Add(time.Minute)
	}

	c.Set("key-3", payloadWithScore(3))

	_, ok := c.Get("key-0")
	assert.False(t, ok, "oldest entry should be evicted")
	for i := 1; i <= 3; i++ {
		_, ok := c.Get(fmt.Sprintf("key-%d", i))
		assert.True(t, ok, "key-%d should survive", i)
	}

	size, ttl := c.Stats()
	assert.Equal(t, 3, size)
	assert.Equal(t, 30*time.Minute, ttl)
}

func TestScoreCache_EvictsExpiredBeforeOldest(t *testing.T) {
	c := New(10*time.Minute, 2)
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set("stale", payloadWithScore(1))
	current = current.Add(11 * time.Minute)
	c.Set("fresh", payloadWithScore(2))
	c.Set("newer", payloadWithScore(3))

	_, ok := c.Get("fresh")
	assert.True(t, ok, "fresh entry must not be evicted while an expired one exists")
	_, ok = c.Get("newer")
	assert.True(t, ok)
}
