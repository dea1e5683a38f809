package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentvet/internal/domain"
)

func outcome(hash string, score float64) domain.ScanOutcome {
	return domain.ScanOutcome{
		Filename:     hash + ".pdf",
		ContentHash:  hash,
		Authenticity: &domain.AuthenticityReport{Overall: score},
		Status:       domain.ScanStatusPending,
		ScannedAt:    time.Now().UTC(),
	}
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	s := NewStore("")
	first := s.Open("sess-1")
	second := s.Open("sess-1")
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestStore_ApproveRejectStayDisjoint(t *testing.T) {
	s := NewStore("")
	s.RecordScan("sess-1", outcome("aaa", 90))

	require.NoError(t, s.MarkApproved("sess-1", "aaa"))
	require.NoError(t, s.MarkRejected("sess-1", "aaa"))
	require.NoError(t, s.MarkApproved("sess-1", "aaa"))

	sess, err := s.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa"}, sess.Approved)
	assert.Empty(t, sess.Rejected)
	assert.Equal(t, domain.ScanStatusApproved, sess.Scanned["aaa"].Status)
}

func TestStore_SetStatusUnknownTargets(t *testing.T) {
	s := NewStore("")
	assert.ErrorIs(t, s.MarkApproved("nope", "aaa"), domain.ErrSessionNotFound)

	s.RecordScan("sess-1", outcome("aaa", 90))
	assert.ErrorIs(t, s.MarkApproved("sess-1", "bbb"), domain.ErrScanNotFound)
}

func TestStore_RecordScanForcesPending(t *testing.T) {
	s := NewStore("")
	o := outcome("aaa", 90)
	o.Status = domain.ScanStatusApproved
	s.RecordScan("sess-1", o)

	got, err := s.GetScan("sess-1", "aaa")
	require.NoError(t, err)
	assert.Equal(t, domain.ScanStatusPending, got.Status)
}

func TestStore_RescanResetsDecision(t *testing.T) {
	s := NewStore("")
	s.RecordScan("sess-1", outcome("aaa", 90))
	s.RecordScan("sess-1", outcome("bbb", 85))
	require.NoError(t, s.MarkApproved("sess-1", "aaa"))
	require.NoError(t, s.MarkRejected("sess-1", "bbb"))

	// Re-uploading both resumes puts them back in front of the reviewer.
	s.RecordScan("sess-1", outcome("aaa", 90))
	s.RecordScan("sess-1", outcome("bbb", 85))

	sess, err := s.Get("sess-1")
	require.NoError(t, err)
	assert.Empty(t, sess.Approved)
	assert.Empty(t, sess.Rejected)
	assert.Equal(t, domain.ScanStatusPending, sess.Scanned["aaa"].Status)

	approved, err := s.GetApproved("sess-1")
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestStore_BulkApproveByScore(t *testing.T) {
	s := NewStore("")
	s.RecordScan("sess-1", outcome("low", 60))
	s.RecordScan("sess-1", outcome("mid", 85))
	s.RecordScan("sess-1", outcome("high", 95))
	require.NoError(t, s.MarkRejected("sess-1", "high"))

	// Only pending scans at or above the threshold qualify.
	approved, err := s.BulkApproveByScore("sess-1", 85)
	require.NoError(t, err)
	assert.Equal(t, 1, approved)

	sess, err := s.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, sess.Approved)
	assert.Equal(t, []string{"high"}, sess.Rejected)
	assert.Equal(t, domain.ScanStatusPending, sess.Scanned["low"].Status)
}

func TestStore_ListScannedOrderedByTime(t *testing.T) {
	s := NewStore("")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, hash := range []string{"ccc", "aaa", "bbb"} {
		o := outcome(hash, 80)
		o.ScannedAt = base.Add(time.Duration(i) * time.Minute)
		s.RecordScan("sess-1", o)
	}

	scans, err := s.ListScanned("sess-1")
	require.NoError(t, err)
	require.Len(t, scans, 3)
	assert.Equal(t, "ccc", scans[0].ContentHash)
	assert.Equal(t, "aaa", scans[1].ContentHash)
	assert.Equal(t, "bbb", scans[2].ContentHash)
}

func TestStore_GetReturnsDeepCopy(t *testing.T) {
	s := NewStore("")
	s.RecordScan("sess-1", outcome("aaa", 90))

	sess, err := s.Get("sess-1")
	require.NoError(t, err)
	sess.Scanned["aaa"] = domain.ScanOutcome{ContentHash: "tampered"}
	sess.Approved = append(sess.Approved, "zzz")

	fresh, err := s.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "aaa", fresh.Scanned["aaa"].ContentHash)
	assert.Empty(t, fresh.Approved)
}

func TestStore_PersistsAndReloads(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	s.RecordScan("sess-1", outcome("aaa", 90))
	require.NoError(t, s.MarkApproved("sess-1", "aaa"))

	reloaded := NewStore(dir)
	sess, err := reloaded.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa"}, sess.Approved)
	assert.Equal(t, domain.ScanStatusApproved, sess.Scanned["aaa"].Status)
}

func TestStore_ClearRemovesBlob(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	s.RecordScan("sess-1", outcome("aaa", 90))

	s.Clear("sess-1")
	_, err := s.Get("sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	reloaded := NewStore(dir)
	_, err = reloaded.Get("sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_CleanupOlderThan(t *testing.T) {
	s := NewStore("")
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		s.Open(fmt.Sprintf("old-%d", i))
	}
	current = current.Add(25 * time.Hour)
	s.Open("fresh")

	purged := s.CleanupOlderThan(24 * time.Hour)
	assert.Equal(t, 3, purged)

	_, err := s.Get("fresh")
	assert.NoError(t, err)
	_, err = s.Get("old-0")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
