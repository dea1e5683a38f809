package session

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"talentvet/internal/domain"
)

// Session is a per-batch scratchpad of scan outcomes and reviewer decisions.
type Session struct {
	SessionID string                        `json:"session_id"`
	CreatedAt time.Time                     `json:"created_at"`
	Scanned   map[string]domain.ScanOutcome `json:"scanned_resumes"`
	Approved  []string                      `json:"approved"`
	Rejected  []string                      `json:"rejected"`
}

// Store holds vetting sessions in memory and writes each session through to
// one JSON blob per session id. Mutations are O(1) and hold the lock.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	dir      string
	now      func() time.Time
}

// NewStore creates a session store persisting under dir. An empty dir
// disables persistence.
func NewStore(dir string) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		dir:      dir,
		now:      time.Now,
	}
	s.loadAll()
	return s
}

func (s *Store) loadAll() {
	if s.dir == "" {
		return
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("session: reading %s: %v", s.dir, err)
		}
		return
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil || sess.SessionID == "" {
			log.Printf("session: skipping corrupt session file %s", e.Name())
			continue
		}
		s.sessions[sess.SessionID] = &sess
	}
}

// persistLocked writes one session blob. Caller must hold the lock.
func (s *Store) persistLocked(sess *Session) {
	if s.dir == "" {
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("session: creating %s: %v", s.dir, err)
		return
	}
	data, err := json.Marshal(sess)
	if err != nil {
		log.Printf("session: marshaling %s: %v", sess.SessionID, err)
		return
	}
	path := filepath.Join(s.dir, sess.SessionID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("session: writing %s: %v", path, err)
	}
}

func (s *Store) removeBlobLocked(sessionID string) {
	if s.dir == "" {
		return
	}
	_ = os.Remove(filepath.Join(s.dir, sessionID+".json"))
}

// Open ensures a session exists. Idempotent.
func (s *Store) Open(sessionID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked(sessionID)
}

func (s *Store) openLocked(sessionID string) *Session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &Session{
			SessionID: sessionID,
			CreatedAt: s.now(),
			Scanned:   make(map[string]domain.ScanOutcome),
		}
		s.sessions[sessionID] = sess
		s.persistLocked(sess)
	}
	return sess
}

// RecordScan stores a scan outcome in the session with status pending. A
// re-scan of a known hash resets any earlier approve/reject decision.
func (s *Store) RecordScan(sessionID string, outcome domain.ScanOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.openLocked(sessionID)
	outcome.Status = domain.ScanStatusPending
	if _, exists := sess.Scanned[outcome.ContentHash]; exists {
		sess.Approved = remove(sess.Approved, outcome.ContentHash)
		sess.Rejected = remove(sess.Rejected, outcome.ContentHash)
	}
	sess.Scanned[outcome.ContentHash] = outcome
	s.persistLocked(sess)
}

// MarkApproved flips a scan to approved, removing any prior rejection.
func (s *Store) MarkApproved(sessionID, contentHash string) error {
	return s.setStatus(sessionID, contentHash, domain.ScanStatusApproved)
}

// MarkRejected flips a scan to rejected, removing any prior approval.
func (s *Store) MarkRejected(sessionID, contentHash string) error {
	return s.setStatus(sessionID, contentHash, domain.ScanStatusRejected)
}

func (s *Store) setStatus(sessionID, contentHash string, status domain.ScanStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	outcome, ok := sess.Scanned[contentHash]
	if !ok {
		return domain.ErrScanNotFound
	}
	outcome.Status = status
	sess.Scanned[contentHash] = outcome

	sess.Approved = remove(sess.Approved, contentHash)
	sess.Rejected = remove(sess.Rejected, contentHash)
	switch status {
	case domain.ScanStatusApproved:
		sess.Approved = append(sess.Approved, contentHash)
	case domain.ScanStatusRejected:
		sess.Rejected = append(sess.Rejected, contentHash)
	}
	s.persistLocked(sess)
	return nil
}

func remove(list []string, val string) []string {
	out := list[:0]
	for _, v := range list {
		if v != val {
			out = append(out, v)
		}
	}
	return out
}

// BulkApproveByScore approves every pending scan whose overall authenticity
// score is at least minScore. Returns the number approved.
func (s *Store) BulkApproveByScore(sessionID string, minScore float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	approved := 0
	for hash, outcome := range sess.Scanned {
		if outcome.Status != domain.ScanStatusPending {
			continue
		}
		if outcome.Authenticity == nil || outcome.Authenticity.Overall < minScore {
			continue
		}
		outcome.Status = domain.ScanStatusApproved
		sess.Scanned[hash] = outcome
		sess.Approved = append(sess.Approved, hash)
		approved++
	}
	if approved > 0 {
		s.persistLocked(sess)
	}
	return approved, nil
}

// Get returns a deep copy of a session.
func (s *Store) Get(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return copySession(sess), nil
}

// GetScan returns one scan outcome from a session.
func (s *Store) GetScan(sessionID, contentHash string) (domain.ScanOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return domain.ScanOutcome{}, domain.ErrSessionNotFound
	}
	outcome, ok := sess.Scanned[contentHash]
	if !ok {
		return domain.ScanOutcome{}, domain.ErrScanNotFound
	}
	return outcome, nil
}

// ListScanned returns all scan outcomes in the session ordered by scan time.
func (s *Store) ListScanned(sessionID string) ([]domain.ScanOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := make([]domain.ScanOutcome, 0, len(sess.Scanned))
	for _, o := range sess.Scanned {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScannedAt.Before(out[j].ScannedAt) })
	return out, nil
}

// GetApproved returns the approved scan outcomes in the session.
func (s *Store) GetApproved(sessionID string) ([]domain.ScanOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := make([]domain.ScanOutcome, 0, len(sess.Approved))
	for _, hash := range sess.Approved {
		if o, ok := sess.Scanned[hash]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// Clear removes a session and its persisted blob.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	s.removeBlobLocked(sessionID)
}

// CleanupOlderThan purges whole sessions created before now-age. Returns the
// number purged.
func (s *Store) CleanupOlderThan(age time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-age)
	purged := 0
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			s.removeBlobLocked(id)
			purged++
		}
	}
	return purged
}

func copySession(sess *Session) *Session {
	cp := &Session{
		SessionID: sess.SessionID,
		CreatedAt: sess.CreatedAt,
		Scanned:   make(map[string]domain.ScanOutcome, len(sess.Scanned)),
		Approved:  append([]string(nil), sess.Approved...),
		Rejected:  append([]string(nil), sess.Rejected...),
	}
	for k, v := range sess.Scanned {
		cp.Scanned[k] = v
	}
	return cp
}
