package intake

import (
	"context"
	"log"
	"time"

	"talentvet/internal/session"
)

// JanitorConfig controls the session cleanup loop.
type JanitorConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// SessionJanitor periodically purges vetting sessions past their
// retention window.
type SessionJanitor struct {
	sessions *session.Store
	cfg      JanitorConfig
}

func NewSessionJanitor(sessions *session.Store, cfg JanitorConfig) *SessionJanitor {
	return &SessionJanitor{sessions: sessions, cfg: cfg}
}

// Start runs the cleanup loop until ctx is canceled.
func (j *SessionJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	log.Printf("sessionJanitor: started (interval=%s, retention=%s)", j.cfg.Interval, j.cfg.Retention)

	for {
		select {
		case <-ctx.Done():
			log.Printf("sessionJanitor: shutdown complete")
			return
		case <-ticker.C:
			removed := j.sessions.CleanupOlderThan(j.cfg.Retention)
			if removed > 0 {
				log.Printf("sessionJanitor: purged %d expired sessions", removed)
			}
		}
	}
}
