package quota

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentvet/internal/config"
	"talentvet/internal/domain"
)

func newTestTracker(t *testing.T, gemini config.ProviderLimits) *Tracker {
	t.Helper()
	tr := New(&config.QuotaConfig{
		StatePath: filepath.Join(t.TempDir(), "quota.json"),
		Gemini:    gemini,
	})
	return tr
}

func TestTracker_DailyLimitAndWarnings(t *testing.T) {
	tr := newTestTracker(t, config.ProviderLimits{RPM: 100, RPD: 3})

	// 1st request: 1/3 = 33%, below every warning threshold.
	ok, warning := tr.CanRequest(domain.ProviderGemini)
	require.True(t, ok)
	assert.Empty(t, warning)
	tr.Record(domain.ProviderGemini, true, 0, 0)

	// 2nd request: 2/3 = 66%, crosses 50%.
	ok, warning = tr.CanRequest(domain.ProviderGemini)
	require.True(t, ok)
	assert.Equal(t, "66% of daily quota used", warning)
	tr.Record(domain.ProviderGemini, true, 0, 0)

	// 3rd request: 3/3 = 100%, crosses 90%.
	ok, warning = tr.CanRequest(domain.ProviderGemini)
	require.True(t, ok)
	assert.Equal(t, "100% of daily quota used", warning)
	tr.Record(domain.ProviderGemini, true, 0, 0)

	// 4th request: denied.
	ok, warning = tr.CanRequest(domain.ProviderGemini)
	assert.False(t, ok)
	assert.Equal(t, "daily limit reached", warning)
}

func TestTracker_MinuteWindow(t *testing.T) {
	tr := newTestTracker(t, config.ProviderLimits{RPM: 2, RPD: 100})
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	tr.Record(domain.ProviderGemini, true, 0, 0)
	tr.Record(domain.ProviderGemini, true, 0, 0)

	ok, warning := tr.CanRequest(domain.ProviderGemini)
	assert.False(t, ok)
	assert.Equal(t, "rate limit reached, wait 1 minute", warning)

	// The window rolls off after a minute.
	current = current.Add(61 * time.Second)
	ok, _ = tr.CanRequest(domain.ProviderGemini)
	assert.True(t, ok)
}

func TestTracker_TokenWindow(t *testing.T) {
	tr := newTestTracker(t, config.ProviderLimits{RPM: 100, RPD: 100, TPM: 10_000})
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	tr.Record(domain.ProviderGemini, true, 6_000, 2_000)

	ok, _ := tr.CanRequest(domain.ProviderGemini)
	require.True(t, ok)
	assert.Equal(t, 8_000, tr.StatsFor(domain.ProviderGemini).MinuteTokens)

	tr.Record(domain.ProviderGemini, true, 2_000, 0)
	ok, warning := tr.CanRequest(domain.ProviderGemini)
	assert.False(t, ok)
	assert.Equal(t, "token rate limit reached, wait 1 minute", warning)

	// Token stamps roll off with the request window.
	current = current.Add(61 * time.Second)
	ok, _ = tr.CanRequest(domain.ProviderGemini)
	assert.True(t, ok)
	assert.Zero(t, tr.StatsFor(domain.ProviderGemini).MinuteTokens)
}

func TestTracker_DailyRollover(t *testing.T) {
	tr := newTestTracker(t, config.ProviderLimits{RPM: 100, RPD: 2})
	current := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	tr.Record(domain.ProviderGemini, true, 0, 0)
	tr.Record(domain.ProviderGemini, true, 0, 0)
	ok, _ := tr.CanRequest(domain.ProviderGemini)
	require.False(t, ok)

	// Next local date resets the daily counter but not lifetime totals.
	current = current.Add(2 * time.Hour)
	ok, _ = tr.CanRequest(domain.ProviderGemini)
	assert.True(t, ok)

	stats := tr.StatsFor(domain.ProviderGemini)
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Zero(t, stats.DailyRequests)
}

func TestTracker_RecordAccounting(t *testing.T) {
	tr := newTestTracker(t, config.ProviderLimits{RPM: 100, RPD: 100})
	tr.SetCostRates(domain.ProviderGemini, 1.0, 2.0)

	tr.Record(domain.ProviderGemini, true, 1_000_000, 500_000)
	tr.Record(domain.ProviderGemini, false, 0, 0)

	stats := tr.StatsFor(domain.ProviderGemini)
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 1, stats.SuccessfulRequests)
	assert.Equal(t, 1, stats.FailedRequests)
	assert.Equal(t, int64(1_500_000), stats.Tokens)
	assert.InDelta(t, 2.0, stats.Cost, 1e-9)
	assert.Equal(t, 98, stats.DailyRemaining)
}

func TestTracker_PersistsAcrossRestarts(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "quota.json")
	cfg := &config.QuotaConfig{
		StatePath: statePath,
		Gemini:    config.ProviderLimits{RPM: 100, RPD: 10},
	}

	tr := New(cfg)
	tr.Record(domain.ProviderGemini, true, 100, 50)
	tr.Shutdown()

	restarted := New(cfg)
	stats := restarted.StatsFor(domain.ProviderGemini)
	assert.Equal(t, 1, stats.TotalRequests)
	assert.Equal(t, 1, stats.DailyRequests)
	assert.Equal(t, int64(150), stats.Tokens)
}

func TestTracker_UnlimitedProvider(t *testing.T) {
	tr := newTestTracker(t, config.ProviderLimits{})

	for i := 0; i < 50; i++ {
		ok, warning := tr.CanRequest(domain.ProviderOpenAI)
		require.True(t, ok)
		require.Empty(t, warning)
		tr.Record(domain.ProviderOpenAI, true, 0, 0)
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := newTestTracker(t, config.ProviderLimits{RPM: 1, RPD: 1})
	tr.Record(domain.ProviderGemini, true, 10, 10)

	ok, _ := tr.CanRequest(domain.ProviderGemini)
	require.False(t, ok)

	tr.Reset()
	ok, _ = tr.CanRequest(domain.ProviderGemini)
	assert.True(t, ok)
	assert.Zero(t, tr.StatsFor(domain.ProviderGemini).TotalRequests)
}
