package quota

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"talentvet/internal/config"
	"talentvet/internal/domain"
)

// providerState is the persisted accounting for one provider. Keys in the
// state file are provider names; each maps to one of these.
type providerState struct {
	TotalRequests      int     `json:"total_requests"`
	SuccessfulRequests int     `json:"successful_requests"`
	FailedRequests     int     `json:"failed_requests"`
	DailyRequests      int     `json:"daily_requests"`
	Tokens             int64   `json:"tokens"`
	Cost               float64 `json:"cost"`
	LastReset          string  `json:"last_reset"` // local date, ISO-8601
}

// Stats is a snapshot of one provider's usage returned to callers.
type Stats struct {
	Provider           domain.Provider `json:"provider"`
	TotalRequests      int             `json:"total_requests"`
	SuccessfulRequests int             `json:"successful_requests"`
	FailedRequests     int             `json:"failed_requests"`
	DailyRequests      int             `json:"daily_requests"`
	DailyRemaining     int             `json:"daily_remaining"`
	MinuteRequests     int             `json:"minute_requests"`
	MinuteTokens       int             `json:"minute_tokens"`
	Tokens             int64           `json:"tokens"`
	Cost               float64         `json:"cost"`
	Warning            string          `json:"warning,omitempty"`
}

// Tracker accounts per-provider request rates against RPM/RPD limits with a
// rolling one-minute window and a lazily-reset daily counter. State is
// written through to a single JSON file; all mutations serialize under one
// lock.
type Tracker struct {
	mu              sync.Mutex
	limits          map[domain.Provider]config.ProviderLimits
	state           map[domain.Provider]*providerState
	window          map[domain.Provider][]time.Time
	tokWindow       map[domain.Provider][]tokenStamp
	costPerTokenIn  map[domain.Provider]float64
	costPerTokenOut map[domain.Provider]float64
	statePath       string
	now             func() time.Time
}

type tokenStamp struct {
	at     time.Time
	tokens int
}

// New creates a Tracker, loading any persisted state from cfg.StatePath.
func New(cfg *config.QuotaConfig) *Tracker {
	t := &Tracker{
		limits: map[domain.Provider]config.ProviderLimits{
			domain.ProviderGemini: cfg.Gemini,
			domain.ProviderOpenAI: cfg.OpenAI,
		},
		state:           make(map[domain.Provider]*providerState),
		window:          make(map[domain.Provider][]time.Time),
		tokWindow:       make(map[domain.Provider][]tokenStamp),
		costPerTokenIn:  make(map[domain.Provider]float64),
		costPerTokenOut: make(map[domain.Provider]float64),
		statePath:       cfg.StatePath,
		now:             time.Now,
	}
	t.load()
	return t
}

// SetCostRates configures per-million-token pricing used for cost accrual.
func (t *Tracker) SetCostRates(p domain.Provider, inputPM, outputPM float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.costPerTokenIn[p] = inputPM / 1e6
	t.costPerTokenOut[p] = outputPM / 1e6
}

func (t *Tracker) load() {
	data, err := os.ReadFile(t.statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("quota: could not read state file %s: %v", t.statePath, err)
		}
		return
	}
	var raw map[domain.Provider]*providerState
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("quota: state file %s is corrupt, starting fresh: %v", t.statePath, err)
		return
	}
	t.state = raw
}

// persistLocked writes the state file. Caller must hold the lock.
func (t *Tracker) persistLocked() {
	data, err := json.MarshalIndent(t.state, "", "  ")
	if err != nil {
		log.Printf("quota: marshaling state: %v", err)
		return
	}
	if dir := filepath.Dir(t.statePath); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	if err := os.WriteFile(t.statePath, data, 0o644); err != nil {
		log.Printf("quota: writing state file %s: %v", t.statePath, err)
	}
}

func (t *Tracker) stateFor(p domain.Provider) *providerState {
	s, ok := t.state[p]
	if !ok {
		s = &providerState{LastReset: t.now().Format("2006-01-02")}
		t.state[p] = s
	}
	return s
}

// rolloverLocked resets the daily counter the first time a call is made on a
// new local date. Caller must hold the lock.
func (t *Tracker) rolloverLocked(s *providerState) {
	today := t.now().Format("2006-01-02")
	if s.LastReset != today {
		s.DailyRequests = 0
		s.LastReset = today
		t.persistLocked()
	}
}

// pruneLocked drops window entries older than one minute.
func (t *Tracker) pruneLocked(p domain.Provider) {
	cutoff := t.now().Add(-time.Minute)
	w := t.window[p]
	i := 0
	for ; i < len(w); i++ {
		if w[i].After(cutoff) {
			break
		}
	}
	t.window[p] = w[i:]

	tw := t.tokWindow[p]
	j := 0
	for ; j < len(tw); j++ {
		if tw[j].at.After(cutoff) {
			break
		}
	}
	t.tokWindow[p] = tw[j:]
}

// minuteTokensLocked sums tokens recorded inside the rolling window. Caller
// must hold the lock and have pruned first.
func (t *Tracker) minuteTokensLocked(p domain.Provider) int {
	total := 0
	for _, ts := range t.tokWindow[p] {
		total += ts.tokens
	}
	return total
}

// CanRequest reports whether a request to the provider may proceed, with an
// advisory warning string near the daily limit. Denials carry a reason.
func (t *Tracker) CanRequest(p domain.Provider) (bool, string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stateFor(p)
	t.rolloverLocked(s)
	t.pruneLocked(p)

	limits := t.limits[p]

	// Unlimited providers (no free-tier cap) always proceed.
	if limits.RPM <= 0 && limits.RPD <= 0 && limits.TPM <= 0 {
		return true, ""
	}

	if limits.RPM > 0 && len(t.window[p]) >= limits.RPM {
		return false, "rate limit reached, wait 1 minute"
	}
	if limits.TPM > 0 && t.minuteTokensLocked(p) >= limits.TPM {
		return false, "token rate limit reached, wait 1 minute"
	}
	if limits.RPD > 0 && s.DailyRequests >= limits.RPD {
		return false, "daily limit reached"
	}

	if limits.RPD > 0 {
		// Warn when this request would push usage past 50/80/90%.
		usage := float64(s.DailyRequests+1) / float64(limits.RPD)
		for _, threshold := range []float64{0.9, 0.8, 0.5} {
			if usage >= threshold {
				return true, fmt.Sprintf("%d%% of daily quota used", int(usage*100))
			}
		}
	}
	return true, ""
}

// Record accounts one request against the provider, with token usage and
// optional cost for paid providers (inputTokens/outputTokens may be zero).
func (t *Tracker) Record(p domain.Provider, success bool, inputTokens, outputTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stateFor(p)
	t.rolloverLocked(s)
	t.pruneLocked(p)

	now := t.now()
	t.window[p] = append(t.window[p], now)
	tokens := inputTokens + outputTokens
	if tokens > 0 {
		t.tokWindow[p] = append(t.tokWindow[p], tokenStamp{at: now, tokens: tokens})
	}

	s.TotalRequests++
	s.DailyRequests++
	if success {
		s.SuccessfulRequests++
	} else {
		s.FailedRequests++
	}
	s.Tokens += int64(tokens)
	s.Cost += float64(inputTokens)*t.costPerTokenIn[p] + float64(outputTokens)*t.costPerTokenOut[p]

	t.persistLocked()
}

// StatsFor returns a snapshot of the provider's usage.
func (t *Tracker) StatsFor(p domain.Provider) Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stateFor(p)
	t.rolloverLocked(s)
	t.pruneLocked(p)

	limits := t.limits[p]
	remaining := 0
	warning := ""
	if limits.RPD > 0 {
		remaining = limits.RPD - s.DailyRequests
		if remaining < 0 {
			remaining = 0
		}
		usage := float64(s.DailyRequests) / float64(limits.RPD)
		if usage >= 0.5 {
			warning = fmt.Sprintf("%d%% of daily quota used", int(usage*100))
		}
	}
	return Stats{
		Provider:           p,
		TotalRequests:      s.TotalRequests,
		SuccessfulRequests: s.SuccessfulRequests,
		FailedRequests:     s.FailedRequests,
		DailyRequests:      s.DailyRequests,
		DailyRemaining:     remaining,
		MinuteRequests:     len(t.window[p]),
		MinuteTokens:       t.minuteTokensLocked(p),
		Tokens:             s.Tokens,
		Cost:               s.Cost,
		Warning:            warning,
	}
}

// All returns usage snapshots for every known provider.
func (t *Tracker) All() []Stats {
	providers := []domain.Provider{domain.ProviderGemini, domain.ProviderOpenAI}
	out := make([]Stats, 0, len(providers))
	for _, p := range providers {
		out = append(out, t.StatsFor(p))
	}
	return out
}

// Reset clears all accounting. Privileged; intended for admin use.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = make(map[domain.Provider]*providerState)
	t.window = make(map[domain.Provider][]time.Time)
	t.tokWindow = make(map[domain.Provider][]tokenStamp)
	t.persistLocked()
}

// Shutdown flushes quota state to disk.
func (t *Tracker) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.persistLocked()
}
